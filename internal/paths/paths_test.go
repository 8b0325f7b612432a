package paths

import (
	"os"
	"path/filepath"
	"testing"

	"ulbuild/internal/config"
)

func TestResolveProjectFlag(t *testing.T) {
	root := t.TempDir()
	pp, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pp.ConfigFile != filepath.Join(root, "ulbuild.yaml") {
		t.Fatalf("unexpected config file %s", pp.ConfigFile)
	}
	if pp.LogsDir != filepath.Join(root, ".ulbuild", "logs") {
		t.Fatalf("unexpected logs dir %s", pp.LogsDir)
	}
}

func TestOutRootPrecedence(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root)

	cfg := config.Config{}
	if got := pp.OutRoot("", cfg); got != "" {
		t.Fatalf("expected empty out root, got %s", got)
	}

	cfg.Output.Root = "build/sdk"
	if got := pp.OutRoot("", cfg); got != filepath.Join(root, "build", "sdk") {
		t.Fatalf("expected config root, got %s", got)
	}

	abs := filepath.Join(t.TempDir(), "flag")
	if got := pp.OutRoot(abs, cfg); got != abs {
		t.Fatalf("expected flag to win, got %s", got)
	}
}

func TestWithConfigFile(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root).WithConfigFile("conf/custom.yaml")
	if pp.ConfigFile != filepath.Join(root, "conf", "custom.yaml") {
		t.Fatalf("unexpected config file %s", pp.ConfigFile)
	}
	if newProjectPaths(root).WithConfigFile("").ConfigFile != filepath.Join(root, "ulbuild.yaml") {
		t.Fatal("empty override must keep the default")
	}
}

func TestExistsHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := FileExists(file); err != nil || !ok {
		t.Fatalf("FileExists = %v, %v", ok, err)
	}
	if ok, _ := FileExists(dir); ok {
		t.Fatal("directory is not a file")
	}
	if ok, err := DirExists(dir); err != nil || !ok {
		t.Fatalf("DirExists = %v, %v", ok, err)
	}
	if ok, err := DirExists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("DirExists(missing) = %v, %v", ok, err)
	}
}

func TestEnsureMetaDirs(t *testing.T) {
	pp := newProjectPaths(t.TempDir())
	if err := pp.EnsureMetaDirs(); err != nil {
		t.Fatalf("EnsureMetaDirs: %v", err)
	}
	if ok, _ := DirExists(pp.LogsDir); !ok {
		t.Fatal("expected logs dir")
	}
}
