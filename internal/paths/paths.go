package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ulbuild/internal/config"
)

// ProjectPaths captures canonical locations for a project using ulbuild.
type ProjectPaths struct {
	Root       string
	ConfigFile string
	MetaDir    string
	LogsDir    string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".ulbuild")
	return ProjectPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, config.FileName),
		MetaDir:    metaDir,
		LogsDir:    filepath.Join(metaDir, "logs"),
	}
}

// WithConfigFile points the config file at an explicit location.
func (p ProjectPaths) WithConfigFile(path string) ProjectPaths {
	if strings.TrimSpace(path) != "" {
		p.ConfigFile = p.Resolve(path)
	}
	return p
}

// Resolve anchors a relative path at the project root.
func (p ProjectPaths) Resolve(value string) string {
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(p.Root, value)
}

// OutRoot picks the output root: the flag, then the config value, both
// relative to the project root. An empty result means the caller should fall
// back to the environment.
func (p ProjectPaths) OutRoot(flag string, cfg config.Config) string {
	if v := strings.TrimSpace(flag); v != "" {
		return p.Resolve(v)
	}
	if v := strings.TrimSpace(cfg.Output.Root); v != "" {
		return p.Resolve(v)
	}
	return ""
}

// EnsureMetaDirs creates the hidden metadata and logs directories.
func (p ProjectPaths) EnsureMetaDirs() error {
	for _, dir := range []string{p.MetaDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
