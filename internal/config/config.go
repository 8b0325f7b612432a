package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the project root.
const FileName = "ulbuild.yaml"

// Config captures which SDK to fetch and where its parts should land.
type Config struct {
	Version    int              `yaml:"version"`
	SDK        SDKConfig        `yaml:"sdk"`
	Output     OutputConfig     `yaml:"output"`
	Categories CategoriesConfig `yaml:"categories"`
	Bindings   BindingsConfig   `yaml:"bindings"`
	Link       LinkConfig       `yaml:"link"`
}

// SDKConfig selects the archive to download.
type SDKConfig struct {
	Version  string `yaml:"version,omitempty"`
	Platform string `yaml:"platform,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// OutputConfig sets the output root. When empty the OUT_DIR environment
// variable is used.
type OutputConfig struct {
	Root string `yaml:"root,omitempty"`
}

// CategoryConfig toggles one SDK category.
type CategoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// EnabledValue returns the effective enabled flag; categories are off unless
// enabled explicitly.
func (c CategoryConfig) EnabledValue() bool {
	return c.Enabled != nil && *c.Enabled
}

// CategoriesConfig groups the four SDK categories.
type CategoriesConfig struct {
	Headers   CategoryConfig `yaml:"headers"`
	Resources CategoryConfig `yaml:"resources"`
	Binaries  CategoryConfig `yaml:"binaries"`
	Libs      CategoryConfig `yaml:"libs"`
}

// ByName returns the category configuration for name.
func (c CategoriesConfig) ByName(name string) (CategoryConfig, bool) {
	switch strings.ToLower(name) {
	case "headers":
		return c.Headers, true
	case "resources":
		return c.Resources, true
	case "binaries":
		return c.Binaries, true
	case "libs":
		return c.Libs, true
	default:
		return CategoryConfig{}, false
	}
}

// BindingsConfig drives the header binding generator.
type BindingsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Generator  string `yaml:"generator,omitempty"`
	Header     string `yaml:"header,omitempty"`
	Package    string `yaml:"package,omitempty"`
	Output     string `yaml:"output,omitempty"`
	HeadersDir string `yaml:"headers_dir,omitempty"`
}

// LinkConfig controls link metadata side outputs.
type LinkConfig struct {
	CgoFile    string `yaml:"cgo_file,omitempty"`
	CgoPackage string `yaml:"cgo_package,omitempty"`
}

// Default returns the baseline configuration: headers only, latest SDK.
func Default() Config {
	return Config{
		Version: 1,
		Categories: CategoriesConfig{
			Headers: CategoryConfig{Enabled: boolPtr(true)},
		},
		Bindings: BindingsConfig{
			Generator: "c-for-go",
			Package:   "ultralight",
			Output:    "bindings",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	c.SDK.Version = strings.TrimSpace(c.SDK.Version)
	c.SDK.Platform = strings.TrimSpace(c.SDK.Platform)
	if c.Bindings.Generator == "" {
		c.Bindings.Generator = defaults.Bindings.Generator
	}
	if c.Bindings.Package == "" {
		c.Bindings.Package = defaults.Bindings.Package
	}
	if c.Bindings.Output == "" {
		c.Bindings.Output = defaults.Bindings.Output
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
