package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ulbuild/internal/platform"
	"ulbuild/internal/sdk"
)

func newURLCmd() *cobra.Command {
	var flags sdkFlags
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the SDK archive URL for the selected platform and version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			p, err := platform.Resolve(firstNonEmpty(flags.platform, proj.config.SDK.Platform), "")
			if err != nil {
				return err
			}
			version := firstNonEmpty(flags.version, proj.config.SDK.Version, sdk.LatestVersion)
			u := newFetcher(proj.baseURL(flags)).URL(p, version)

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"platform": p.String(),
					"version":  version,
					"url":      u,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("out-dir")
	return cmd
}
