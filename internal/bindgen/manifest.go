package bindgen

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SymbolPrefixes are the C symbol prefixes exported to Go. The kJS prefix
// only names constants.
var SymbolPrefixes = []string{"UL", "JS", "ul", "WK", "kJS"}

// Manifest is the c-for-go project file.
type Manifest struct {
	Generator  GeneratorSection  `yaml:"GENERATOR"`
	Parser     ParserSection     `yaml:"PARSER"`
	Translator TranslatorSection `yaml:"TRANSLATOR"`
}

type GeneratorSection struct {
	PackageName        string      `yaml:"PackageName"`
	PackageDescription string      `yaml:"PackageDescription,omitempty"`
	Includes           []string    `yaml:"Includes"`
	FlagGroups         []FlagGroup `yaml:"FlagGroups,omitempty"`
}

type FlagGroup struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
}

type ParserSection struct {
	IncludePaths []string `yaml:"IncludePaths"`
	SourcesPaths []string `yaml:"SourcesPaths"`
}

type TranslatorSection struct {
	ConstRules map[string]string `yaml:"ConstRules,omitempty"`
	Rules      map[string][]Rule `yaml:"Rules"`
}

// Rule is a c-for-go translation rule.
type Rule struct {
	Action    string `yaml:"action"`
	From      string `yaml:"from,omitempty"`
	To        string `yaml:"to,omitempty"`
	Transform string `yaml:"transform,omitempty"`
}

func acceptRules(prefixes []string) []Rule {
	rules := make([]Rule, 0, len(prefixes))
	for _, prefix := range prefixes {
		rules = append(rules, Rule{Action: "accept", From: "^" + prefix})
	}
	return rules
}

// BuildManifest assembles the c-for-go manifest for cfg.
func BuildManifest(cfg Config) Manifest {
	typePrefixes := make([]string, 0, len(SymbolPrefixes))
	for _, p := range SymbolPrefixes {
		if p != "kJS" {
			typePrefixes = append(typePrefixes, p)
		}
	}

	m := Manifest{
		Generator: GeneratorSection{
			PackageName:        cfg.packageName(),
			PackageDescription: "Go bindings for the Ultralight C API",
			Includes:           []string{cfg.headerName()},
		},
		Parser: ParserSection{
			IncludePaths: []string{filepath.ToSlash(cfg.IncludeDir)},
			SourcesPaths: []string{filepath.ToSlash(cfg.headerPath())},
		},
		Translator: TranslatorSection{
			ConstRules: map[string]string{"defines": "expand", "enum": "cgo"},
			Rules: map[string][]Rule{
				"global":   {{Action: "ignore", From: ".*"}},
				"const":    acceptRules(SymbolPrefixes),
				"type":     acceptRules(typePrefixes),
				"function": acceptRules(typePrefixes),
				"private":  {{Transform: "unexport"}},
			},
		},
	}
	m.Translator.Rules["global"] = append(m.Translator.Rules["global"], acceptRules(SymbolPrefixes)...)

	cflags := []string{"-I" + filepath.ToSlash(cfg.IncludeDir)}
	m.Generator.FlagGroups = append(m.Generator.FlagGroups, FlagGroup{Name: "CFLAGS", Flags: cflags})
	if len(cfg.LDFlags) > 0 {
		m.Generator.FlagGroups = append(m.Generator.FlagGroups, FlagGroup{Name: "LDFLAGS", Flags: cfg.LDFlags})
	}
	return m
}

// RenderManifest encodes the manifest for cfg as YAML.
func RenderManifest(cfg Config) ([]byte, error) {
	buf, err := yaml.Marshal(BuildManifest(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append([]byte("---\n"), buf...), nil
}
