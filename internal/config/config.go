// Package config provides configuration loading and structs for the prompt gallery.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Watch   WatchConfig   `yaml:"watch"`
}

// SourcesConfig locates the upstream repositories read by ingestion.
type SourcesConfig struct {
	GPT4o      YAMLSourceConfig   `yaml:"gpt4o"`
	NanoBanana ReadmeSourceConfig `yaml:"nano_banana"`
}

// YAMLSourceConfig is a one-directory-per-case upstream (cases/<N>/case.yml).
type YAMLSourceConfig struct {
	Root     string `yaml:"root"`
	CasesDir string `yaml:"cases_dir"`
}

// CasesPath returns the directory holding the numbered case folders.
func (c YAMLSourceConfig) CasesPath() string {
	return filepath.Join(c.Root, c.CasesDir)
}

// ReadmeSourceConfig is a README-per-language upstream.
type ReadmeSourceConfig struct {
	Root     string `yaml:"root"`
	ReadmeEN string `yaml:"readme_en"`
	ReadmeZH string `yaml:"readme_zh"`
	// SectionMarker is where case sections start; preceding content is ignored.
	SectionMarker string `yaml:"section_marker"`
}

// OutputConfig holds generated dataset and asset locations.
type OutputConfig struct {
	DataDir         string `yaml:"data_dir"`
	AssetsDir       string `yaml:"assets_dir"`
	AssetsURLPrefix string `yaml:"assets_url_prefix"`
}

// SiteConfig holds public site settings used for sitemap emission.
type SiteConfig struct {
	BaseURL     string              `yaml:"base_url"`
	SitemapPath string              `yaml:"sitemap_path"`
	BlogPosts   map[string][]string `yaml:"blog_posts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SearchConfig holds catalog filtering and full-text search settings.
type SearchConfig struct {
	PageSize    int     `yaml:"page_size"`
	MaxPageSize int     `yaml:"max_page_size"`
	TitleBoost  float64 `yaml:"title_boost"`
	Fuzziness   int     `yaml:"fuzziness"`
}

// WatchConfig holds source watch settings.
type WatchConfig struct {
	DebounceMillis int      `yaml:"debounce_ms"`
	Extensions     []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, applies defaults, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.expandPaths(filepath.Dir(path))
	return &cfg, nil
}

// FromDefaults returns the default configuration with relative paths resolved against baseDir.
func FromDefaults(baseDir string) *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.expandPaths(baseDir)
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) expandPaths(configDir string) {
	c.Sources.GPT4o.Root = expandPath(c.Sources.GPT4o.Root, configDir)
	c.Sources.NanoBanana.Root = expandPath(c.Sources.NanoBanana.Root, configDir)
	c.Output.DataDir = expandPath(c.Output.DataDir, configDir)
	c.Output.AssetsDir = expandPath(c.Output.AssetsDir, configDir)
	c.Site.SitemapPath = expandPath(c.Site.SitemapPath, configDir)
}

// expandPath converts a path to absolute. Paths starting with "./" or "../" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." || path == ".." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
