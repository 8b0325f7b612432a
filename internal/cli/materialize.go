package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ulbuild/internal/directive"
	"ulbuild/internal/materialize"
	"ulbuild/internal/sdk"
	"ulbuild/internal/tui"
)

type materializeOptions struct {
	sdk        sdkFlags
	categories *categoryFlags
	cgoFile    string
	noProgress bool
}

func newMaterializeCmd() *cobra.Command {
	opts := &materializeOptions{categories: newCategoryFlags()}
	cmd := &cobra.Command{
		Use:     "materialize",
		Aliases: []string{"fetch"},
		Short:   "Download the SDK if needed and copy it into the output directories",
		Long: "Validates each selected category directory and, when any is missing a file, " +
			"downloads the SDK archive once and re-copies every selected category. " +
			"Build directives are written to stdout.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMaterialize(cmd, opts)
		},
	}

	opts.sdk.register(cmd)
	opts.categories.register(cmd)
	cmd.Flags().StringVar(&opts.cgoFile, "cgo-file", "", "Also write a Go file carrying #cgo flags for the SDK")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

type materializeOutput struct {
	Result     materialize.Result    `json:"result"`
	Directives []directive.Directive `json:"directives"`
	CgoFile    string                `json:"cgo_file,omitempty"`
}

func runMaterialize(cmd *cobra.Command, opts *materializeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	proj, err := loadProject()
	if err != nil {
		return err
	}
	req := proj.request(cmd, opts.sdk, opts.categories)

	mode := tui.DetectMode(cmd.ErrOrStderr(), opts.noProgress, outputJSON)
	log, closer, err := proj.logger(cmd.ErrOrStderr(), mode == tui.ModeTUI)
	if err != nil {
		return err
	}
	defer closer.Close()
	if !req.AnyWanted() {
		log.Warn().Msg("no SDK categories selected; only link directives will be emitted")
	}

	recorder := &directive.Recorder{}
	lines := &directive.LineEmitter{W: cmd.OutOrStdout()}
	var emitter directive.Emitter = directive.Multi{lines, recorder}
	if mode == tui.ModeJSON {
		emitter = recorder
	}

	fetcher := newFetcher(proj.baseURL(opts.sdk))
	m := &materialize.Materializer{
		Fetcher: fetcher,
		Emitter: emitter,
		Log:     &log,
	}

	var res materialize.Result
	switch mode {
	case tui.ModeTUI:
		err = tui.RunWithWork(cmd.ErrOrStderr(), tui.NewModel("Ultralight SDK"), func(send func(tea.Msg)) error {
			reporter := tui.NewReporter(send)
			m.Reporter = reporter
			fetcher.Progress = reporter.Download
			var runErr error
			res, runErr = m.Materialize(ctx, req)
			return runErr
		})
	default:
		res, err = m.Materialize(ctx, req)
	}
	if err != nil {
		return err
	}
	if err := lines.Err(); err != nil && mode != tui.ModeJSON {
		return fmt.Errorf("write directives: %w", err)
	}

	cgoPath := proj.paths.Resolve(firstNonEmpty(opts.cgoFile, proj.config.Link.CgoFile))
	if cgoPath != "" {
		includeDir := ""
		if cr, ok := res.Category(sdk.Headers); ok && cr.Wanted {
			includeDir = cr.Dir
		}
		var libDirs []string
		for _, c := range []sdk.Category{sdk.Binaries, sdk.Libs} {
			if cr, ok := res.Category(c); ok && cr.Wanted && c.AppliesTo(res.Platform) {
				libDirs = append(libDirs, cr.Dir)
			}
		}
		if err := directive.WriteCgoFile(cgoPath, proj.config.Link.CgoPackage, recorder.Directives(), includeDir, libDirs...); err != nil {
			return err
		}
		log.Info().Str("path", cgoPath).Msg("wrote cgo flags")
	}

	switch mode {
	case tui.ModeJSON:
		return writeJSON(cmd.OutOrStdout(), materializeOutput{
			Result:     res,
			Directives: recorder.Directives(),
			CgoFile:    cgoPath,
		})
	case tui.ModePlain:
		tui.PrintResult(cmd.ErrOrStderr(), res)
	}
	return nil
}
