// Package tagging derives style and theme tags for cases from their text.
package tagging

// DefaultLabel is used when no category of a dimension matches.
const DefaultLabel = "General"

// Category is a tag with the lowercase keywords that select it.
type Category struct {
	Tag      string
	Keywords []string
}

// Taxonomy is the ordered set of categories a record is matched against.
type Taxonomy struct {
	Style        []Category
	Theme        []Category
	DefaultStyle string
	DefaultTheme string
}

// DefaultTaxonomy returns the gallery's fixed style and theme tables.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Style: []Category{
			{Tag: "Cyberpunk", Keywords: []string{"cyberpunk", "neon", "holographic", "futuristic", "sci-fi", "tech"}},
			{Tag: "3D", Keywords: []string{"3d", "render", "sculpture", "model", "figurine", "chibi"}},
			{Tag: "Anime", Keywords: []string{"anime", "manga", "ghibli", "toon", "vtuber"}},
			{Tag: "Illustration", Keywords: []string{"illustration", "hand-drawn", "drawing", "sketch", "comic"}},
			{Tag: "Photorealistic", Keywords: []string{"photo", "photorealistic", "realistic", "studio", "cinematic"}},
			{Tag: "Infographic", Keywords: []string{"infographic", "diagram", "chart", "poster", "visualize"}},
			{Tag: "Pixel Art", Keywords: []string{"pixel", "8-bit", "retro", "vox", "voxel"}},
			{Tag: "Logo Design", Keywords: []string{"logo", "branding", "identity", "icon"}},
			{Tag: "Typography", Keywords: []string{"typography", "text", "font", "letter"}},
			{Tag: "Sculptural", Keywords: []string{"sculpture", "statue", "marble", "stone", "carve"}},
		},
		Theme: []Category{
			{Tag: "Character", Keywords: []string{"character", "portrait", "people", "person", "figure", "selfie"}},
			{Tag: "Product", Keywords: []string{"product", "ad", "advertisement", "packaging", "merch", "keychain"}},
			{Tag: "Environment", Keywords: []string{"environment", "landscape", "scene", "room", "interior", "exhibition"}},
			{Tag: "Architecture", Keywords: []string{"building", "architecture", "city", "structure", "urban"}},
			{Tag: "Education", Keywords: []string{"infographic", "diagram", "tutorial", "explain", "annotation"}},
			{Tag: "Fashion", Keywords: []string{"fashion", "outfit", "style", "hairstyle", "wardrobe"}},
			{Tag: "Food", Keywords: []string{"food", "cook", "recipe", "burger", "popsicle", "dessert"}},
			{Tag: "UI & Data", Keywords: []string{"interface", "ui", "dashboard", "status", "card"}},
			{Tag: "Sticker", Keywords: []string{"sticker", "emoji", "pin", "badge", "matryoshka"}},
			{Tag: "Creative Art", Keywords: []string{"art", "poster", "illustration", "concept", "fantasy"}},
		},
		DefaultStyle: DefaultLabel,
		DefaultTheme: DefaultLabel,
	}
}

// StyleTags returns the style tag names in taxonomy order.
func (t Taxonomy) StyleTags() []string { return tagNames(t.Style) }

// ThemeTags returns the theme tag names in taxonomy order.
func (t Taxonomy) ThemeTags() []string { return tagNames(t.Theme) }

func tagNames(cats []Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Tag)
	}
	return out
}
