package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ulbuild/internal/directive"
	"ulbuild/internal/materialize"
	"ulbuild/internal/sdk"
)

type cleanOptions struct {
	sdk        sdkFlags
	categories *categoryFlags
	all        bool
	dryRun     bool
}

func newCleanCmd() *cobra.Command {
	opts := &cleanOptions{categories: newCategoryFlags()}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove materialized SDK directories and the download record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, opts)
		},
	}
	opts.sdk.register(cmd)
	opts.categories.register(cmd)
	cmd.Flags().BoolVar(&opts.all, "all", false, "Remove every category, not only the selected ones")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "List what would be removed without deleting")
	return cmd
}

type cleanEntry struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
}

func runClean(cmd *cobra.Command, opts *cleanOptions) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	req := proj.request(cmd, opts.sdk, opts.categories)
	if opts.all {
		for _, c := range sdk.Categories() {
			cfg := req.Category(c)
			cfg.Wanted = true
			req = req.WithCategory(c, cfg)
		}
	}

	m := &materialize.Materializer{Emitter: directive.Discard}
	res, err := m.Check(req)
	if err != nil {
		return err
	}

	targets := make([]string, 0, len(res.Categories)+1)
	for _, cr := range res.Categories {
		if !cr.Wanted || cr.Dir == "" {
			continue
		}
		if err := checkCleanTarget(cr.Dir, proj.paths.Root, res.OutRoot); err != nil {
			return fmt.Errorf("clean %s: %w", cr.Category, err)
		}
		targets = append(targets, cr.Dir)
	}
	targets = append(targets, materialize.RecordPath(res.OutRoot))

	var entries []cleanEntry
	for _, target := range targets {
		removed, err := removeEntry(target, opts.dryRun)
		if err != nil {
			return err
		}
		if removed {
			entries = append(entries, cleanEntry{Path: target, Removed: !opts.dryRun})
		}
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"dry_run": opts.dryRun,
			"entries": entries,
		})
	}
	printCleanEntries(cmd.OutOrStdout(), entries, opts.dryRun)
	return nil
}

// checkCleanTarget refuses to remove target when it is one of the protected
// directories or contains one of them.
func checkCleanTarget(target string, protected ...string) error {
	target = filepath.Clean(target)
	for _, dir := range protected {
		if dir == "" {
			continue
		}
		rel, err := filepath.Rel(target, filepath.Clean(dir))
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return fmt.Errorf("refusing to remove %s: it contains %s", target, dir)
		}
	}
	return nil
}

// removeEntry deletes path recursively. It reports whether anything existed.
func removeEntry(path string, dryRun bool) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if dryRun {
		return true, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}

func printCleanEntries(w io.Writer, entries []cleanEntry, dryRun bool) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Nothing to clean.")
		return
	}
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\n", verb, e.Path)
	}
}
