package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ulbuild/internal/config"
	"ulbuild/internal/fetch"
	"ulbuild/internal/logx"
	"ulbuild/internal/materialize"
	"ulbuild/internal/paths"
	"ulbuild/internal/sdk"
	"ulbuild/internal/tui"
)

var newFetcher = fetch.New

// sdkFlags are the request flags shared by commands that resolve an SDK.
type sdkFlags struct {
	version  string
	platform string
	outDir   string
	baseURL  string
}

func (f *sdkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.version, "version", "", "SDK version (default latest)")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Target platform: windows, linux or macos (default host)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "Output root (default $OUT_DIR)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Override the SDK download host")
}

// categoryFlags select categories and their directories on the command line.
type categoryFlags struct {
	wanted map[sdk.Category]*bool
	dirs   map[sdk.Category]*string
}

func newCategoryFlags() *categoryFlags {
	return &categoryFlags{
		wanted: make(map[sdk.Category]*bool),
		dirs:   make(map[sdk.Category]*string),
	}
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	for _, c := range sdk.Categories() {
		name := c.String()
		f.wanted[c] = cmd.Flags().Bool(name, false, fmt.Sprintf("Materialize SDK %s", name))
		f.dirs[c] = cmd.Flags().String(name+"-dir", "", fmt.Sprintf("Output directory for %s (default <out-dir>/%s)", name, c.DefaultDirName()))
	}
}

// project bundles everything a command needs after resolving flags.
type project struct {
	paths  paths.ProjectPaths
	config config.Config
}

func loadProject() (project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return project{}, err
	}
	pp = pp.WithConfigFile(configFile)

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return project{}, err
	}
	if errs := config.Errors(cfg.Validate()); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		return project{}, fmt.Errorf("invalid config %s: %s", pp.ConfigFile, strings.Join(msgs, "; "))
	}
	return project{paths: pp, config: cfg}, nil
}

// logger writes to console unless quiet; a JSON log file is added when the
// project's metadata directory exists.
func (p project) logger(console io.Writer, quiet bool) (zerolog.Logger, io.Closer, error) {
	opts := logx.Options{
		Console: console,
		Verbose: verbose,
		NoColor: tui.DetectMode(console, false, false) != tui.ModeTUI,
	}
	if quiet {
		opts.Console = io.Discard
	}
	if ok, _ := paths.DirExists(p.paths.MetaDir); ok {
		opts.LogsDir = p.paths.LogsDir
	}
	return logx.New(opts)
}

func (p project) baseURL(flags sdkFlags) string {
	if v := strings.TrimSpace(flags.baseURL); v != "" {
		return v
	}
	return p.config.SDK.BaseURL
}

// request merges flags over config. Category flags, when any was given,
// replace the configured selection entirely.
func (p project) request(cmd *cobra.Command, flags sdkFlags, cats *categoryFlags) materialize.Request {
	req := materialize.Request{
		Version:  firstNonEmpty(flags.version, p.config.SDK.Version),
		Platform: firstNonEmpty(flags.platform, p.config.SDK.Platform),
		OutRoot:  p.paths.OutRoot(flags.outDir, p.config),
	}

	explicit := false
	if cats != nil {
		for _, c := range sdk.Categories() {
			if cmd.Flags().Changed(c.String()) {
				explicit = true
			}
		}
	}

	for _, c := range sdk.Categories() {
		cc, _ := p.config.Categories.ByName(c.String())
		cfg := materialize.CategoryConfig{Wanted: cc.EnabledValue(), OutDir: cc.Dir}
		if cats != nil {
			if explicit {
				cfg.Wanted = *cats.wanted[c]
			}
			if dir := strings.TrimSpace(*cats.dirs[c]); dir != "" {
				cfg.OutDir = p.paths.Resolve(dir)
			}
		}
		req = req.WithCategory(c, cfg)
	}
	return req
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
