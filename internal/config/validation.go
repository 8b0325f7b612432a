package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"ulbuild/internal/platform"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration for values that would fail at run time.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validatePlatform()...)
	results = append(results, c.validateBaseURL()...)
	results = append(results, c.validateCategories()...)
	results = append(results, c.validateBindings()...)
	return results
}

// Errors returns only the error-level findings.
func Errors(results []ValidationResult) []ValidationResult {
	var out []ValidationResult
	for _, r := range results {
		if r.Level == "error" {
			out = append(out, r)
		}
	}
	return out
}

func (c Config) validatePlatform() []ValidationResult {
	if c.SDK.Platform == "" {
		return nil
	}
	if _, err := platform.Parse(c.SDK.Platform); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("sdk.platform %q is not one of windows, linux, macos", c.SDK.Platform),
		}}
	}
	return nil
}

func (c Config) validateBaseURL() []ValidationResult {
	if c.SDK.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.SDK.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("sdk.base_url %q is not an absolute URL", c.SDK.BaseURL),
		}}
	}
	if u.Scheme != "https" {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("sdk.base_url uses %s; archives are not verified", u.Scheme),
		}}
	}
	return nil
}

func (c Config) validateCategories() []ValidationResult {
	var results []ValidationResult
	enabled := false
	dirs := map[string]string{}
	for _, name := range []string{"headers", "resources", "binaries", "libs"} {
		cat, _ := c.Categories.ByName(name)
		if !cat.EnabledValue() {
			continue
		}
		enabled = true
		dir := strings.TrimSpace(cat.Dir)
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			if clean := filepath.Clean(dir); clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
				results = append(results, ValidationResult{
					Level:   "error",
					Message: fmt.Sprintf("categories.%s.dir %q must name a subdirectory of the output root", name, dir),
				})
				continue
			}
		}
		if other, ok := dirs[dir]; ok {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("categories %s and %s share directory %q", other, name, dir),
			})
			continue
		}
		dirs[dir] = name
	}
	if c.Categories.Libs.EnabledValue() && c.SDK.Platform != "" {
		if p, err := platform.Parse(c.SDK.Platform); err == nil && !p.HasImportLibraries() {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("categories.libs has no effect on %s", p),
			})
		}
	}
	if !enabled && !c.Bindings.Enabled {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "no categories enabled; only link directives will be emitted",
		})
	}
	return results
}

func (c Config) validateBindings() []ValidationResult {
	if !c.Bindings.Enabled {
		return nil
	}
	if !c.Categories.Headers.EnabledValue() && c.Bindings.HeadersDir == "" {
		return []ValidationResult{{
			Level:   "error",
			Message: "bindings.enabled requires categories.headers or bindings.headers_dir",
		}}
	}
	return nil
}
