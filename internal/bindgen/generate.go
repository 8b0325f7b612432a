package bindgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ulbuild/internal/sdkerr"
)

const (
	// DefaultGenerator is the binding generator executable.
	DefaultGenerator = "c-for-go"
	defaultPackage   = "ultralight"
	defaultHeader    = "wrapper.h"
	manifestName     = "ultralight.yml"
)

// wrapperSource pulls in the full C API through its two umbrella headers.
const wrapperSource = "#include <AppCore/CAPI.h>\n#include <Ultralight/CAPI.h>\n"

// Config describes one binding generation run.
type Config struct {
	// IncludeDir holds the materialized SDK headers.
	IncludeDir string
	// Header is the translation unit to parse; a wrapper including the
	// umbrella headers is written to OutputDir when empty.
	Header    string
	OutputDir string
	Package   string
	Generator string
	// LDFlags are recorded in the generated package's cgo preamble.
	LDFlags []string
}

func (c Config) packageName() string {
	if c.Package != "" {
		return c.Package
	}
	return defaultPackage
}

func (c Config) headerPath() string {
	if c.Header != "" {
		return c.Header
	}
	return filepath.Join(c.OutputDir, defaultHeader)
}

func (c Config) headerName() string {
	return filepath.Base(c.headerPath())
}

// Generate writes the generator manifest into cfg.OutputDir and runs the
// generator against it.
func Generate(ctx context.Context, runner Runner, cfg Config) (string, error) {
	if strings.TrimSpace(cfg.IncludeDir) == "" {
		return "", sdkerr.New(sdkerr.ConfigurationMissing, "generate bindings", "", fmt.Errorf("include directory is not set"))
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return "", sdkerr.New(sdkerr.ConfigurationMissing, "generate bindings", "", fmt.Errorf("output directory is not set"))
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", sdkerr.Filesystem("create bindings dir", cfg.OutputDir, err)
	}

	if cfg.Header == "" {
		if err := os.WriteFile(cfg.headerPath(), []byte(wrapperSource), 0o644); err != nil {
			return "", sdkerr.Filesystem("write wrapper header", cfg.headerPath(), err)
		}
	}

	manifest, err := RenderManifest(cfg)
	if err != nil {
		return "", err
	}
	manifestPath := filepath.Join(cfg.OutputDir, manifestName)
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return "", sdkerr.Filesystem("write manifest", manifestPath, err)
	}

	generator := cfg.Generator
	if generator == "" {
		generator = DefaultGenerator
	}
	args := []string{"-out", cfg.OutputDir, manifestPath}
	res, err := runner.Run(ctx, generator, args, RunOptions{Dir: cfg.OutputDir})
	if err != nil {
		detail := strings.TrimSpace(string(res.Stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(res.Stdout))
		}
		if detail != "" {
			return manifestPath, fmt.Errorf("%s: %w: %s", generator, err, detail)
		}
		return manifestPath, fmt.Errorf("%s: %w", generator, err)
	}
	return manifestPath, nil
}
