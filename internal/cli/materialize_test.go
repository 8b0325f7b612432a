package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ulbuild/internal/materialize"
	"ulbuild/internal/platform"
	"ulbuild/internal/sdkerr"
)

func TestMaterializeCommandDownloadsOnceThenSkips(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)
	project := t.TempDir()
	out := filepath.Join(project, "out")

	args := []string{"materialize", "--project", project, "--out-dir", out, "--platform", "linux", "--no-progress"}
	stdout, stderr, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("materialize returned error: %v (stderr %q)", err, stderr)
	}
	if *hits != 1 {
		t.Fatalf("expected 1 download, got %d", *hits)
	}
	if _, err := os.Stat(filepath.Join(out, "headers", "Ultralight", "CAPI.h")); err != nil {
		t.Fatalf("expected headers to be copied: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if got := lines[len(lines)-1]; got != "ulbuild:link-lib=AppCore" {
		t.Fatalf("expected link directives last, got %q", got)
	}
	if !strings.Contains(stdout, "ulbuild:link-search=native="+out) {
		t.Fatalf("expected link-search directive, got %q", stdout)
	}
	if !strings.Contains(stderr, "copied") {
		t.Fatalf("expected summary table on stderr, got %q", stderr)
	}

	stdout, _, err = runCLI(t, args...)
	if err != nil {
		t.Fatalf("second materialize returned error: %v", err)
	}
	if *hits != 1 {
		t.Fatalf("expected no further download, got %d requests", *hits)
	}
	if strings.Contains(stdout, "ulbuild:warning=") {
		t.Fatalf("expected no warnings on a fresh tree, got %q", stdout)
	}
}

func TestMaterializeCommandJSONOutput(t *testing.T) {
	stubSDKServer(t, platform.Windows)
	project := t.TempDir()
	out := filepath.Join(project, "out")

	stdout, _, err := runCLI(t, "fetch", "--project", project, "--out-dir", out,
		"--platform", "windows", "--libs", "--binaries", "--json")
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	var payload materializeOutput
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if !payload.Result.Downloaded {
		t.Fatalf("expected a download")
	}
	for _, cr := range payload.Result.Categories {
		want := materialize.StatusSkipped
		if cr.Wanted {
			want = materialize.StatusCopied
		}
		if cr.Status != want {
			t.Fatalf("category %s: status %q, want %q", cr.Category, cr.Status, want)
		}
	}
	if len(payload.Directives) == 0 {
		t.Fatalf("expected directives in json payload")
	}
	if _, err := os.Stat(filepath.Join(out, "libs", "Ultralight.lib")); err != nil {
		t.Fatalf("expected import libraries: %v", err)
	}
}

func TestMaterializeCommandWritesCgoFile(t *testing.T) {
	stubSDKServer(t, platform.Linux)
	project := t.TempDir()
	out := filepath.Join(project, "out")

	_, _, err := runCLI(t, "materialize", "--project", project, "--out-dir", out,
		"--platform", "linux", "--no-progress", "--headers", "--binaries", "--libs", "--cgo-file", "ul/cgo_flags.go")
	if err != nil {
		t.Fatalf("materialize returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(project, "ul", "cgo_flags.go"))
	if err != nil {
		t.Fatalf("read cgo file: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "package ul") {
		t.Fatalf("expected package derived from directory, got %q", got)
	}
	if !strings.Contains(got, "-I"+filepath.ToSlash(filepath.Join(out, "headers"))) {
		t.Fatalf("expected include flag, got %q", got)
	}
	if !strings.Contains(got, "-L"+filepath.ToSlash(filepath.Join(out, "binaries"))) {
		t.Fatalf("expected binaries search path, got %q", got)
	}
	if strings.Contains(got, filepath.ToSlash(filepath.Join(out, "libs"))) {
		t.Fatalf("libs do not apply on linux, got %q", got)
	}
	if !strings.Contains(got, "-lUltralight") {
		t.Fatalf("expected link flags, got %q", got)
	}
}

func TestMaterializeCommandRequiresOutputRoot(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)
	t.Setenv("OUT_DIR", "")

	_, _, err := runCLI(t, "materialize", "--project", t.TempDir(), "--platform", "linux", "--no-progress")
	if !sdkerr.Is(err, sdkerr.ConfigurationMissing) {
		t.Fatalf("expected ConfigurationMissing, got %v", err)
	}
	if *hits != 0 {
		t.Fatalf("expected no network access, got %d requests", *hits)
	}
}

func TestMaterializeCommandRejectsUnknownPlatform(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)

	_, _, err := runCLI(t, "materialize", "--project", t.TempDir(), "--out-dir", t.TempDir(),
		"--platform", "amiga", "--no-progress")
	if !sdkerr.Is(err, sdkerr.UnsupportedPlatform) {
		t.Fatalf("expected UnsupportedPlatform, got %v", err)
	}
	if *hits != 0 {
		t.Fatalf("expected no network access, got %d requests", *hits)
	}
}

func TestMaterializeCommandNothingSelectedOnlyLinks(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)
	project := t.TempDir()
	cfg := "categories:\n  headers:\n    enabled: false\n"
	if err := os.WriteFile(filepath.Join(project, "ulbuild.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	stdout, _, err := runCLI(t, "materialize", "--project", project, "--out-dir", t.TempDir(),
		"--platform", "linux", "--no-progress")
	if err != nil {
		t.Fatalf("materialize returned error: %v", err)
	}
	if *hits != 0 {
		t.Fatalf("expected no network access, got %d requests", *hits)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected link-search plus 4 link-lib lines, got %q", stdout)
	}
}
