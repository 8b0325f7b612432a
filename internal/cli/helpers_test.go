package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ulbuild/internal/fetch"
	"ulbuild/internal/platform"
	"ulbuild/internal/sdk"
)

// fakeArchive writes every required file of every category for plat.
type fakeArchive struct {
	plat platform.Platform
}

func (a fakeArchive) Extract(_ []byte, dest string) error {
	for _, c := range sdk.Categories() {
		for _, rel := range sdk.RequiredPaths(c, a.plat) {
			path := filepath.Join(dest, c.ArchiveDir(), filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// stubSDKServer serves a dummy archive and swaps newFetcher for the test.
func stubSDKServer(t *testing.T, plat platform.Platform) *int32 {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("7z"))
	}))
	t.Cleanup(srv.Close)

	prev := newFetcher
	newFetcher = func(string) *fetch.Fetcher {
		f := fetch.New(srv.URL)
		f.Extractor = fakeArchive{plat: plat}
		return f
	}
	t.Cleanup(func() { newFetcher = prev })
	return &hits
}

// runCLI executes the root command with args and restores globals afterwards.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	prevProject, prevConfig, prevJSON, prevVerbose := projectDir, configFile, outputJSON, verbose
	t.Cleanup(func() {
		projectDir, configFile, outputJSON, verbose = prevProject, prevConfig, prevJSON, prevVerbose
	})

	cmd := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
