package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ulbuild/internal/config"
	"ulbuild/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create project configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default ulbuild.yaml and create the .ulbuild metadata directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors and warnings",
		RunE:  runConfigValidate,
	}
}

func resolveConfigPaths() (paths.ProjectPaths, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return paths.ProjectPaths{}, err
	}
	return pp.WithConfigFile(configFile), nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := resolveConfigPaths()
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	pp, err := resolveConfigPaths()
	if err != nil {
		return err
	}

	if _, err := os.Stat(pp.ConfigFile); err == nil && !force {
		return fmt.Errorf("config already exists: %s (use --force to overwrite)", pp.ConfigFile)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pp.ConfigFile), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pp.ConfigFile)
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	pp, err := resolveConfigPaths()
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	results := cfg.Validate()
	if outputJSON {
		if err := writeJSON(cmd.OutOrStdout(), map[string]any{
			"config":  pp.ConfigFile,
			"results": results,
		}); err != nil {
			return err
		}
	} else {
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", pp.ConfigFile)
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Level, r.Message)
		}
	}

	if errs := config.Errors(results); len(errs) > 0 {
		return fmt.Errorf("%d configuration error(s)", len(errs))
	}
	return nil
}
