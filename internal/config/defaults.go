package config

// DefaultBlogPosts are the published blog slugs included in the sitemap.
var DefaultBlogPosts = []string{
	"writing-precision-prompts-nano-banana",
	"curating-ai-gallery-sourcing-to-quality",
	"prompt-formulas-for-high-quality-generation",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Sources.GPT4o.Root == "" {
		cfg.Sources.GPT4o.Root = "../awesome-gpt4o-images-main"
	}
	if cfg.Sources.GPT4o.CasesDir == "" {
		cfg.Sources.GPT4o.CasesDir = "cases"
	}
	if cfg.Sources.NanoBanana.Root == "" {
		cfg.Sources.NanoBanana.Root = "../Awesome-Nano-Banana-images-main"
	}
	if cfg.Sources.NanoBanana.ReadmeEN == "" {
		cfg.Sources.NanoBanana.ReadmeEN = "README_en.md"
	}
	if cfg.Sources.NanoBanana.ReadmeZH == "" {
		cfg.Sources.NanoBanana.ReadmeZH = "README.md"
	}
	if cfg.Sources.NanoBanana.SectionMarker == "" {
		cfg.Sources.NanoBanana.SectionMarker = "## 🖼️"
	}
	if cfg.Output.DataDir == "" {
		cfg.Output.DataDir = "./data"
	}
	if cfg.Output.AssetsDir == "" {
		cfg.Output.AssetsDir = "./public/assets"
	}
	if cfg.Output.AssetsURLPrefix == "" {
		cfg.Output.AssetsURLPrefix = "/assets"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://ai-image-prompt.com"
	}
	if cfg.Site.SitemapPath == "" {
		cfg.Site.SitemapPath = "./public/sitemap.xml"
	}
	if cfg.Site.BlogPosts == nil {
		cfg.Site.BlogPosts = map[string][]string{
			"en": append([]string(nil), DefaultBlogPosts...),
			"zh": append([]string(nil), DefaultBlogPosts...),
		}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 30
	}
	if cfg.Search.MaxPageSize == 0 {
		cfg.Search.MaxPageSize = 100
	}
	if cfg.Search.TitleBoost == 0 {
		cfg.Search.TitleBoost = 3.0
	}
	if cfg.Search.Fuzziness == 0 {
		cfg.Search.Fuzziness = 1
	}
	if cfg.Watch.DebounceMillis == 0 {
		cfg.Watch.DebounceMillis = 400
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".yml", ".yaml", ".md", ".png", ".jpg", ".jpeg", ".webp", ".gif"}
	}
}
