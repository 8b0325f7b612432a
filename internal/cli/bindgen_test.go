package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ulbuild/internal/bindgen"
	"ulbuild/internal/platform"
)

type recordingRunner struct {
	command string
	args    []string
}

func (r *recordingRunner) Run(_ context.Context, command string, args []string, _ bindgen.RunOptions) (bindgen.RunResult, error) {
	r.command = command
	r.args = append([]string(nil), args...)
	return bindgen.RunResult{}, nil
}

func stubBindgenRunner(t *testing.T) *recordingRunner {
	t.Helper()
	runner := &recordingRunner{}
	prev := newBindgenRunner
	newBindgenRunner = func() bindgen.Runner { return runner }
	t.Cleanup(func() { newBindgenRunner = prev })
	return runner
}

func TestBindgenCommandWithHeadersDir(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)
	runner := stubBindgenRunner(t)
	project := t.TempDir()
	headers := filepath.Join(project, "include")
	if err := os.MkdirAll(headers, 0o755); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "bindgen", "--project", project, "--headers-dir", "include", "--output", "gen")
	if err != nil {
		t.Fatalf("bindgen returned error: %v", err)
	}
	if *hits != 0 {
		t.Fatalf("expected pre-extracted headers to skip download, got %d requests", *hits)
	}
	if stdout != "" {
		t.Fatalf("expected no directives, got %q", stdout)
	}
	if runner.command != bindgen.DefaultGenerator {
		t.Fatalf("expected %s to run, got %q", bindgen.DefaultGenerator, runner.command)
	}
	manifest := filepath.Join(project, "gen", "ultralight.yml")
	if _, err := os.Stat(manifest); err != nil {
		t.Fatalf("expected manifest: %v", err)
	}
	if len(runner.args) == 0 || runner.args[len(runner.args)-1] != manifest {
		t.Fatalf("expected manifest as last argument, got %v", runner.args)
	}
}

func TestBindgenCommandMaterializesHeaders(t *testing.T) {
	hits := stubSDKServer(t, platform.Linux)
	stubBindgenRunner(t)
	project := t.TempDir()
	out := filepath.Join(project, "out")

	stdout, _, err := runCLI(t, "bindgen", "--project", project, "--out-dir", out, "--platform", "linux")
	if err != nil {
		t.Fatalf("bindgen returned error: %v", err)
	}
	if *hits != 1 {
		t.Fatalf("expected one download, got %d", *hits)
	}
	if _, err := os.Stat(filepath.Join(out, "headers", "AppCore", "CAPI.h")); err != nil {
		t.Fatalf("expected materialized headers: %v", err)
	}
	if stdout == "" {
		t.Fatalf("expected link directives on stdout")
	}
	if _, err := os.Stat(filepath.Join(project, "bindings", "wrapper.h")); err != nil {
		t.Fatalf("expected wrapper header in default output dir: %v", err)
	}
}
