package directive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CgoFlags collects the compiler and linker flags implied by a directive
// stream so Go consumers can link without an external orchestrator.
type CgoFlags struct {
	CFlags  []string
	LDFlags []string
}

// CollectCgoFlags turns link directives into flags. includeDir, when set,
// becomes a -I flag. libDirs are searched after the link-search directories,
// since the libraries themselves live in per-category folders.
func CollectCgoFlags(directives []Directive, includeDir string, libDirs ...string) CgoFlags {
	var flags CgoFlags
	if includeDir != "" {
		flags.CFlags = append(flags.CFlags, "-I"+filepath.ToSlash(includeDir))
	}
	var search, libs []string
	for _, d := range directives {
		switch d.Kind {
		case LinkSearch:
			dir := strings.TrimPrefix(d.Value, "native=")
			search = append(search, "-L"+filepath.ToSlash(dir))
		case LinkLib:
			libs = append(libs, "-l"+d.Value)
		}
	}
	for _, dir := range libDirs {
		if dir != "" {
			search = append(search, "-L"+filepath.ToSlash(dir))
		}
	}
	flags.LDFlags = append(search, libs...)
	return flags
}

// RenderCgoFile returns Go source declaring the cgo flags for package pkg.
func RenderCgoFile(pkg string, flags CgoFlags) []byte {
	var b bytes.Buffer
	b.WriteString("// Code generated by ulbuild. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	if len(flags.CFlags) > 0 {
		fmt.Fprintf(&b, "// #cgo CFLAGS: %s\n", strings.Join(flags.CFlags, " "))
	}
	if len(flags.LDFlags) > 0 {
		fmt.Fprintf(&b, "// #cgo LDFLAGS: %s\n", strings.Join(flags.LDFlags, " "))
	}
	b.WriteString("import \"C\"\n")
	return b.Bytes()
}

// WriteCgoFile renders the flags for directives and writes them to path.
func WriteCgoFile(path, pkg string, directives []Directive, includeDir string, libDirs ...string) error {
	if pkg == "" {
		pkg = strings.ReplaceAll(filepath.Base(filepath.Dir(path)), "-", "_")
	}
	data := RenderCgoFile(pkg, CollectCgoFlags(directives, includeDir, libDirs...))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare cgo file dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cgo file: %w", err)
	}
	return nil
}
