package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ulbuild/internal/directive"
	"ulbuild/internal/materialize"
	"ulbuild/internal/tui"
)

type statusOptions struct {
	sdk        sdkFlags
	categories *categoryFlags
}

func newStatusCmd() *cobra.Command {
	opts := &statusOptions{categories: newCategoryFlags()}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report which SDK categories are materialized without downloading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, opts)
		},
	}
	opts.sdk.register(cmd)
	opts.categories.register(cmd)
	return cmd
}

type statusOutput struct {
	Result materialize.Result  `json:"result"`
	Record *materialize.Record `json:"record,omitempty"`
}

func runStatus(cmd *cobra.Command, opts *statusOptions) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	req := proj.request(cmd, opts.sdk, opts.categories)

	log, closer, err := proj.logger(cmd.ErrOrStderr(), outputJSON)
	if err != nil {
		return err
	}
	defer closer.Close()

	m := &materialize.Materializer{
		Fetcher: newFetcher(proj.baseURL(opts.sdk)),
		Emitter: directive.Discard,
		Log:     &log,
	}
	res, err := m.Check(req)
	if err != nil {
		return err
	}

	rec, ok, err := materialize.LoadRecord(res.OutRoot)
	if err != nil {
		log.Warn().Err(err).Msg("could not read download record")
	}

	if outputJSON {
		out := statusOutput{Result: res}
		if ok {
			out.Record = &rec
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Project: %s\n", proj.paths.Root)
	tui.PrintResult(w, res)
	if ok {
		fmt.Fprintf(w, "\nlast download: %s %s (%s) at %s\n", rec.Version, rec.Platform, rec.URL, rec.DownloadedAt)
	}
	return nil
}
