package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ulbuild/internal/bindgen"
	"ulbuild/internal/directive"
	"ulbuild/internal/materialize"
	"ulbuild/internal/sdk"
)

var newBindgenRunner = func() bindgen.Runner { return bindgen.ExecRunner{} }

type bindgenOptions struct {
	sdk        sdkFlags
	headersDir string
	header     string
	output     string
	pkg        string
	generator  string
}

func newBindgenCmd() *cobra.Command {
	opts := &bindgenOptions{}
	cmd := &cobra.Command{
		Use:   "bindgen",
		Short: "Generate Go bindings for the SDK C API",
		Long: "Materializes the SDK headers (unless --headers-dir points at an existing copy), " +
			"writes a generator manifest and runs the binding generator.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBindgen(cmd, opts)
		},
	}
	opts.sdk.register(cmd)
	cmd.Flags().StringVar(&opts.headersDir, "headers-dir", "", "Use pre-extracted SDK headers instead of materializing them")
	cmd.Flags().StringVar(&opts.header, "header", "", "Header to translate (default: a wrapper including the umbrella headers)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Directory for generated bindings")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "Go package name for generated bindings")
	cmd.Flags().StringVar(&opts.generator, "generator", "", "Binding generator executable")
	return cmd
}

func runBindgen(cmd *cobra.Command, opts *bindgenOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	proj, err := loadProject()
	if err != nil {
		return err
	}
	log, closer, err := proj.logger(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer closer.Close()

	recorder := &directive.Recorder{}
	includeDir := proj.paths.Resolve(firstNonEmpty(opts.headersDir, proj.config.Bindings.HeadersDir))
	if includeDir == "" {
		req := proj.request(cmd, opts.sdk, nil)
		headers := req.Headers
		headers.Wanted = true
		req = materialize.Request{
			Version:  req.Version,
			Platform: req.Platform,
			OutRoot:  req.OutRoot,
			Headers:  headers,
		}

		lines := &directive.LineEmitter{W: cmd.OutOrStdout()}
		var emitter directive.Emitter = directive.Multi{lines, recorder}
		if outputJSON {
			emitter = recorder
		}
		m := &materialize.Materializer{
			Fetcher: newFetcher(proj.baseURL(opts.sdk)),
			Emitter: emitter,
			Log:     &log,
		}
		res, err := m.Materialize(ctx, req)
		if err != nil {
			return err
		}
		if err := lines.Err(); err != nil {
			return fmt.Errorf("write directives: %w", err)
		}
		cr, _ := res.Category(sdk.Headers)
		includeDir = cr.Dir
	} else {
		log.Info().Str("dir", includeDir).Msg("using pre-extracted headers")
	}

	cfg := bindgen.Config{
		IncludeDir: includeDir,
		Header:     proj.paths.Resolve(firstNonEmpty(opts.header, proj.config.Bindings.Header)),
		OutputDir:  proj.paths.Resolve(firstNonEmpty(opts.output, proj.config.Bindings.Output)),
		Package:    firstNonEmpty(opts.pkg, proj.config.Bindings.Package),
		Generator:  firstNonEmpty(opts.generator, proj.config.Bindings.Generator),
		LDFlags:    directive.CollectCgoFlags(recorder.Directives(), "").LDFlags,
	}

	log.Info().Str("generator", cfg.Generator).Str("output", cfg.OutputDir).Msg("generating bindings")
	manifest, err := bindgen.Generate(ctx, newBindgenRunner(), cfg)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"include_dir": cfg.IncludeDir,
			"output_dir":  cfg.OutputDir,
			"manifest":    manifest,
			"directives":  recorder.Directives(),
		})
	}
	log.Info().Str("manifest", manifest).Msg("bindings generated")
	return nil
}
