package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ulbuild/internal/platform"
	"ulbuild/internal/sdkerr"
)

type recordingExtractor struct {
	data []byte
	dest string
	err  error
}

func (r *recordingExtractor) Extract(data []byte, dest string) error {
	r.data = data
	r.dest = dest
	return r.err
}

func TestURLTemplate(t *testing.T) {
	got := URL("", platform.Linux, "")
	want := "https://ultralight-sdk.sfo2.cdn.digitaloceanspaces.com/ultralight-sdk-latest-linux-x64.7z"
	if got != want {
		t.Fatalf("URL = %s, want %s", got, want)
	}

	tokens := []string{"-win-", "-linux-", "-mac-"}
	for _, p := range platform.All() {
		for _, version := range []string{"", "1.3.0"} {
			u := URL("https://mirror.test/", p, version)
			matches := 0
			for _, tok := range tokens {
				if strings.Contains(u, tok) {
					matches++
				}
			}
			if matches != 1 {
				t.Errorf("%s: expected exactly one platform token, got %d", u, matches)
			}
			wantVersion := version
			if wantVersion == "" {
				wantVersion = "latest"
			}
			prefix := "https://mirror.test/ultralight-sdk-" + wantVersion + "-" + p.Token() + "-x64.7z"
			if u != prefix {
				t.Errorf("URL = %s, want %s", u, prefix)
			}
		}
	}
}

func TestFetchDownloadsAndExtracts(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = w.Write([]byte("7z-bytes"))
	}))
	defer srv.Close()

	ex := &recordingExtractor{}
	var lastReceived int64
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL, Extractor: ex, Progress: func(received, _ int64) {
		lastReceived = received
	}}
	dest := t.TempDir()

	if err := f.Fetch(context.Background(), platform.MacOS, "1.4.0", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(requested) != 1 || requested[0] != "/ultralight-sdk-1.4.0-mac-x64.7z" {
		t.Fatalf("unexpected requests %v", requested)
	}
	if string(ex.data) != "7z-bytes" || ex.dest != dest {
		t.Fatalf("extractor got %q into %s", ex.data, ex.dest)
	}
	if lastReceived != int64(len("7z-bytes")) {
		t.Fatalf("expected progress to reach %d, got %d", len("7z-bytes"), lastReceived)
	}

	// No caching: a second call downloads again.
	if err := f.Fetch(context.Background(), platform.MacOS, "1.4.0", dest); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if len(requested) != 2 {
		t.Fatalf("expected two downloads, got %d", len(requested))
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ex := &recordingExtractor{}
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL, Extractor: ex}
	err := f.Fetch(context.Background(), platform.Linux, "", t.TempDir())
	if !sdkerr.Is(err, sdkerr.TransportFailure) {
		t.Fatalf("expected TransportFailure, got %v", err)
	}
	if ex.data != nil {
		t.Fatal("extractor must not run after a failed download")
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f := &Fetcher{BaseURL: base, Extractor: &recordingExtractor{}}
	err := f.Fetch(context.Background(), platform.Linux, "", t.TempDir())
	if !sdkerr.Is(err, sdkerr.TransportFailure) {
		t.Fatalf("expected TransportFailure, got %v", err)
	}
}

func TestFetchExtractorFailureIsDecompression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	cause := errors.New("corrupt header")
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL, Extractor: &recordingExtractor{err: cause}}
	err := f.Fetch(context.Background(), platform.Windows, "", t.TempDir())
	if !sdkerr.Is(err, sdkerr.DecompressionFailure) {
		t.Fatalf("expected DecompressionFailure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected original cause in chain")
	}
}

func TestSevenZipRejectsGarbage(t *testing.T) {
	err := SevenZip{}.Extract([]byte("definitely not a 7z archive"), t.TempDir())
	if !sdkerr.Is(err, sdkerr.DecompressionFailure) {
		t.Fatalf("expected DecompressionFailure, got %v", err)
	}
}

func TestEntryPath(t *testing.T) {
	dest := t.TempDir()
	got, err := entryPath(dest, `include\AppCore\CAPI.h`)
	if err != nil {
		t.Fatalf("entryPath: %v", err)
	}
	if got != filepath.Join(dest, "include", "AppCore", "CAPI.h") {
		t.Fatalf("unexpected path %s", got)
	}
	for _, bad := range []string{"../evil", "bin/../../evil", "/etc/passwd"} {
		if _, err := entryPath(dest, bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

// testdata/sdk.7z is an LZMA2 archive laid out like the SDK package.
var sdkArchiveEntries = map[string]string{
	"include/AppCore/CAPI.h":                 "#pragma once\n#include <Ultralight/CAPI.h>\n",
	"include/Ultralight/CAPI.h":              "#pragma once\n#include \"CAPI/CAPI_Defines.h\"\n",
	"include/Ultralight/CAPI/CAPI_Defines.h": "#define ULExport\n",
	"bin/libUltralight.so":                   "ELF-ultralight",
	"bin/libAppCore.so":                      "ELF-appcore",
	"resources/cacert.pem":                   "-----BEGIN CERTIFICATE-----\n",
}

func readSDKArchive(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "sdk.7z"))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	return data
}

func assertSDKTree(t *testing.T, dest string) {
	t.Helper()
	for rel, want := range sdkArchiveEntries {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("%s: %v", rel, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s: content %q, want %q", rel, got, want)
		}
	}
	for _, dir := range []string{"include/Ultralight/CAPI", "bin", "resources"} {
		info, err := os.Stat(filepath.Join(dest, filepath.FromSlash(dir)))
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s, err %v", dir, err)
		}
	}
}

func TestSevenZipExtractsEntries(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sdk")
	if err := (SevenZip{}).Extract(readSDKArchive(t), dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertSDKTree(t, dest)
}

func TestSevenZipWriteFailureIsDecompression(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := SevenZip{}.Extract(readSDKArchive(t), filepath.Join(blocker, "dest"))
	if !sdkerr.Is(err, sdkerr.DecompressionFailure) {
		t.Fatalf("expected DecompressionFailure, got %v (kind %s)", err, sdkerr.KindOf(err))
	}
}

func TestFetchExtractsRealArchive(t *testing.T) {
	archive := readSDKArchive(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ultralight-sdk-latest-linux-x64.7z" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := New(srv.URL)
	dest := t.TempDir()
	if err := f.Fetch(context.Background(), platform.Linux, "", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	assertSDKTree(t, dest)

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := f.Fetch(context.Background(), platform.Linux, "", filepath.Join(blocker, "dest"))
	if !sdkerr.Is(err, sdkerr.DecompressionFailure) {
		t.Fatalf("expected DecompressionFailure from Fetch, got %v", err)
	}
}
