package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"ulbuild/internal/platform"
	"ulbuild/internal/sdkerr"
)

const userAgent = "ulbuild/1.0"

// Extractor unpacks an in-memory archive into dest, preserving entry paths.
type Extractor interface {
	Extract(data []byte, dest string) error
}

// ProgressFunc observes download progress. total is -1 when the server did
// not announce a length.
type ProgressFunc func(received, total int64)

// Fetcher downloads an SDK archive and extracts it. It never caches: every
// call performs a full download.
type Fetcher struct {
	Client    *http.Client
	BaseURL   string
	Extractor Extractor
	Progress  ProgressFunc
}

// New returns a Fetcher using the default HTTP client and 7z extraction.
func New(baseURL string) *Fetcher {
	return &Fetcher{BaseURL: baseURL, Extractor: SevenZip{}}
}

// URL returns the archive location for p and version.
func (f *Fetcher) URL(p platform.Platform, version string) string {
	return URL(f.BaseURL, p, version)
}

// Fetch downloads the archive for p and version and extracts it into dest.
func (f *Fetcher) Fetch(ctx context.Context, p platform.Platform, version, dest string) error {
	downloadURL := f.URL(p, version)
	data, err := f.Download(ctx, downloadURL)
	if err != nil {
		return err
	}

	extractor := f.Extractor
	if extractor == nil {
		extractor = SevenZip{}
	}
	if err := extractor.Extract(data, dest); err != nil {
		if sdkerr.KindOf(err) != sdkerr.KindUnknown {
			return err
		}
		return sdkerr.Decompression("extract", dest, err)
	}
	return nil
}

// Download performs a single GET and buffers the whole body in memory.
func (f *Fetcher) Download(ctx context.Context, downloadURL string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, sdkerr.Transport("create request", downloadURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, sdkerr.Transport("download", downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sdkerr.Transport("download", downloadURL, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var body io.Reader = resp.Body
	if f.Progress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, fn: f.Progress}
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, sdkerr.Transport("read body", downloadURL, err)
	}
	return buf.Bytes(), nil
}

type progressReader struct {
	r        io.Reader
	total    int64
	received int64
	fn       ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.received += int64(n)
		p.fn(p.received, p.total)
	}
	return n, err
}
