package materialize

import (
	"path/filepath"
	"strings"

	"ulbuild/internal/sdk"
	"ulbuild/internal/sdkerr"
)

// OutDirEnv names the environment variable holding the default output root.
const OutDirEnv = "OUT_DIR"

// CategoryConfig selects a category and optionally pins its output directory.
type CategoryConfig struct {
	Wanted bool
	OutDir string
}

// Request describes one materialization run. Empty fields fall back to
// defaults: the latest SDK, the host platform, and $OUT_DIR.
type Request struct {
	Version  string
	Platform string
	OutRoot  string

	Headers   CategoryConfig
	Resources CategoryConfig
	Binaries  CategoryConfig
	Libs      CategoryConfig
}

// Category returns the configuration for c.
func (r Request) Category(c sdk.Category) CategoryConfig {
	switch c {
	case sdk.Headers:
		return r.Headers
	case sdk.Resources:
		return r.Resources
	case sdk.Binaries:
		return r.Binaries
	case sdk.Libs:
		return r.Libs
	default:
		return CategoryConfig{}
	}
}

// WithCategory returns a copy of r with c replaced by cfg.
func (r Request) WithCategory(c sdk.Category, cfg CategoryConfig) Request {
	switch c {
	case sdk.Headers:
		r.Headers = cfg
	case sdk.Resources:
		r.Resources = cfg
	case sdk.Binaries:
		r.Binaries = cfg
	case sdk.Libs:
		r.Libs = cfg
	}
	return r
}

// AnyWanted reports whether at least one category is selected.
func (r Request) AnyWanted() bool {
	for _, c := range sdk.Categories() {
		if r.Category(c).Wanted {
			return true
		}
	}
	return false
}

func resolveVersion(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return sdk.LatestVersion
}

func resolveOutRoot(explicit string, getenv func(string) string) (string, error) {
	root := strings.TrimSpace(explicit)
	if root == "" && getenv != nil {
		root = strings.TrimSpace(getenv(OutDirEnv))
	}
	if root == "" {
		return "", sdkerr.Missing(OutDirEnv)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", sdkerr.Filesystem("resolve output root", root, err)
	}
	return abs, nil
}

// CategoryDir returns the output directory for c: the override when set,
// otherwise outRoot joined with the category's default folder name.
func CategoryDir(cfg CategoryConfig, c sdk.Category, outRoot string) string {
	if dir := strings.TrimSpace(cfg.OutDir); dir != "" {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(outRoot, dir)
	}
	return filepath.Join(outRoot, c.DefaultDirName())
}
