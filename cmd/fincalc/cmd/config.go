package cmd

import (
	"fmt"

	"github.com/rustyeddy/fincalc/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage fincalc configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

The format follows the extension: .yaml/.yml, .toml or .json.

Examples:
  fincalc config init --output fincalc.toml
  fincalc config validate --file fincalc.toml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  fincalc --config %s loan --principal 250000 --rate 6.5 --years 30\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "fincalc.yaml", "output config file path")

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = rc.ConfigPath
			}
			if path == "" {
				return fmt.Errorf("no config file: pass --file or --config")
			}

			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Rate search: %.2f%% to %.2f%%\n", cfg.Solver.Rate.LowPercent, cfg.Solver.Rate.HighPercent)
			fmt.Fprintf(out, "  Time search: %s, up to %g years\n", cfg.Solver.TimeSearch, cfg.Solver.Time.CeilingYears)
			fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.Type)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "path to config file (defaults to --config)")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
