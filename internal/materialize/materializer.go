package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"ulbuild/internal/directive"
	"ulbuild/internal/fsx"
	"ulbuild/internal/platform"
	"ulbuild/internal/sdk"
	"ulbuild/internal/sdkerr"
	"ulbuild/internal/validate"
)

// Fetcher downloads the SDK archive for a platform and version and extracts
// it into dest.
type Fetcher interface {
	URL(p platform.Platform, version string) string
	Fetch(ctx context.Context, p platform.Platform, version, dest string) error
}

// Status is the per-category outcome of a run.
type Status string

const (
	StatusPending       Status = "pending"
	StatusSkipped       Status = "skipped"
	StatusFresh         Status = "fresh"
	StatusStale         Status = "stale"
	StatusDownloading   Status = "downloading"
	StatusCopying       Status = "copying"
	StatusCopied        Status = "copied"
	StatusNotApplicable Status = "not-applicable"
	StatusError         Status = "error"
)

// CategoryResult reports what happened to one category.
type CategoryResult struct {
	Category sdk.Category `json:"category"`
	Wanted   bool         `json:"wanted"`
	Dir      string       `json:"dir,omitempty"`
	Status   Status       `json:"status"`
	Missing  []string     `json:"missing,omitempty"`
}

// Result summarizes a run.
type Result struct {
	Platform   platform.Platform `json:"platform"`
	Version    string            `json:"version"`
	URL        string            `json:"url"`
	OutRoot    string            `json:"out_root"`
	Downloaded bool              `json:"downloaded"`
	Categories []CategoryResult  `json:"categories"`
}

// Stale reports whether any wanted category needs a fresh download.
func (r Result) Stale() bool {
	for _, c := range r.Categories {
		if c.Status == StatusStale {
			return true
		}
	}
	return false
}

// Category returns the result entry for c.
func (r Result) Category(c sdk.Category) (CategoryResult, bool) {
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr, true
		}
	}
	return CategoryResult{}, false
}

// Reporter observes category status transitions.
type Reporter interface {
	CategoryStatus(c sdk.Category, status Status, dir string)
}

// Materializer makes the requested SDK categories available on disk.
type Materializer struct {
	Fetcher  Fetcher
	Emitter  directive.Emitter
	Reporter Reporter
	Log      *zerolog.Logger

	// Getenv reads the process environment; os.Getenv when nil.
	Getenv func(string) string
	// GOOS overrides host platform inference; runtime.GOOS when empty.
	GOOS string
	// Now stamps the download record; time.Now when nil.
	Now func() time.Time
	// NoRecord disables writing the download record.
	NoRecord bool
}

func (m *Materializer) logger() *zerolog.Logger {
	if m.Log != nil {
		return m.Log
	}
	nop := zerolog.Nop()
	return &nop
}

func (m *Materializer) emitter() directive.Emitter {
	if m.Emitter != nil {
		return m.Emitter
	}
	return directive.Discard
}

func (m *Materializer) report(c sdk.Category, status Status, dir string) {
	if m.Reporter != nil {
		m.Reporter.CategoryStatus(c, status, dir)
	}
}

func (m *Materializer) getenv() func(string) string {
	if m.Getenv != nil {
		return m.Getenv
	}
	return os.Getenv
}

// Check resolves req and validates every wanted category without touching
// the network or emitting link directives.
func (m *Materializer) Check(req Request) (Result, error) {
	p, err := platform.Resolve(req.Platform, m.GOOS)
	if err != nil {
		return Result{}, err
	}
	version := resolveVersion(req.Version)
	outRoot, err := resolveOutRoot(req.OutRoot, m.getenv())
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Platform: p,
		Version:  version,
		OutRoot:  outRoot,
	}
	if m.Fetcher != nil {
		res.URL = m.Fetcher.URL(p, version)
	}

	em := m.emitter()
	for _, c := range sdk.Categories() {
		cfg := req.Category(c)
		cr := CategoryResult{Category: c, Wanted: cfg.Wanted, Status: StatusSkipped}
		if !cfg.Wanted {
			res.Categories = append(res.Categories, cr)
			m.report(c, cr.Status, "")
			continue
		}
		cr.Dir = CategoryDir(cfg, c, outRoot)
		required := sdk.RequiredPaths(c, p)
		switch {
		case !c.AppliesTo(p):
			cr.Status = StatusNotApplicable
		case validate.IsMaterialized(cr.Dir, required, em):
			cr.Status = StatusFresh
		default:
			cr.Status = StatusStale
			cr.Missing = validate.Missing(cr.Dir, required)
		}
		m.logger().Debug().
			Str("category", c.String()).
			Str("dir", cr.Dir).
			Str("status", string(cr.Status)).
			Msg("checked category")
		m.report(c, cr.Status, cr.Dir)
		res.Categories = append(res.Categories, cr)
	}
	return res, nil
}

// Materialize checks every wanted category and, if any is stale, downloads
// the SDK once and re-copies every wanted category from it. Link directives
// are emitted last on every successful run.
func (m *Materializer) Materialize(ctx context.Context, req Request) (Result, error) {
	res, err := m.Check(req)
	if err != nil {
		return res, err
	}
	log := m.logger()

	if res.Stale() {
		if m.Fetcher == nil {
			return res, sdkerr.New(sdkerr.ConfigurationMissing, "materialize", res.OutRoot, errors.New("no fetcher configured"))
		}
		if err := m.refresh(ctx, &res); err != nil {
			return res, err
		}
	} else {
		log.Info().
			Str("platform", res.Platform.String()).
			Str("version", res.Version).
			Msg("sdk already materialized")
	}

	em := m.emitter()
	em.Emit(directive.Search(res.OutRoot))
	for _, lib := range sdk.LinkLibraries {
		em.Emit(directive.Link(lib))
	}
	return res, nil
}

func (m *Materializer) refresh(ctx context.Context, res *Result) (err error) {
	log := m.logger()

	if err := os.MkdirAll(res.OutRoot, 0o755); err != nil {
		return sdkerr.Filesystem("create output root", res.OutRoot, err)
	}
	extractRoot, err := os.MkdirTemp(res.OutRoot, "ultralight-download-")
	if err != nil {
		return sdkerr.Filesystem("create extraction root", res.OutRoot, err)
	}
	// A failed run leaves the extraction root behind; the next run's
	// validation decides whether to fetch again.
	defer func() {
		if err != nil {
			log.Warn().Str("dir", extractRoot).Msg("leaving partial extraction on disk")
			return
		}
		if rmErr := os.RemoveAll(extractRoot); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", extractRoot).Msg("could not remove extraction root")
		}
	}()

	for i := range res.Categories {
		if res.Categories[i].Wanted {
			m.report(res.Categories[i].Category, StatusDownloading, res.Categories[i].Dir)
		}
	}

	log.Info().
		Str("url", res.URL).
		Str("platform", res.Platform.String()).
		Str("version", res.Version).
		Msg("downloading sdk")
	if err := m.Fetcher.Fetch(ctx, res.Platform, res.Version, extractRoot); err != nil {
		m.markWantedError(res)
		return fmt.Errorf("fetch sdk: %w", err)
	}
	res.Downloaded = true

	for i := range res.Categories {
		cr := &res.Categories[i]
		if !cr.Wanted {
			continue
		}
		if !cr.Category.AppliesTo(res.Platform) {
			cr.Status = StatusNotApplicable
			m.report(cr.Category, cr.Status, cr.Dir)
			continue
		}
		m.report(cr.Category, StatusCopying, cr.Dir)
		src := filepath.Join(extractRoot, cr.Category.ArchiveDir())
		if err := fsx.CopyTree(src, cr.Dir); err != nil {
			cr.Status = StatusError
			m.report(cr.Category, cr.Status, cr.Dir)
			return fmt.Errorf("copy %s: %w", cr.Category, err)
		}
		cr.Status = StatusCopied
		cr.Missing = nil
		m.report(cr.Category, cr.Status, cr.Dir)
		log.Info().Str("category", cr.Category.String()).Str("dir", cr.Dir).Msg("copied category")
	}

	if !m.NoRecord {
		now := time.Now
		if m.Now != nil {
			now = m.Now
		}
		if err := SaveRecord(res.OutRoot, newRecord(*res, now())); err != nil {
			log.Warn().Err(err).Msg("could not write download record")
		}
	}
	return nil
}

func (m *Materializer) markWantedError(res *Result) {
	for i := range res.Categories {
		if res.Categories[i].Wanted {
			res.Categories[i].Status = StatusError
			m.report(res.Categories[i].Category, StatusError, res.Categories[i].Dir)
		}
	}
}
