package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyeddy/fincalc/config"
	"github.com/rustyeddy/fincalc/render"
	"github.com/spf13/cobra"
)

// rootConfig holds the persistent flags and what PersistentPreRunE builds
// from them.
type rootConfig struct {
	ConfigPath  string
	JournalType string
	DBPath      string
	LogLevel    string
	NoColor     bool
	JSON        bool

	cfg *config.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:   "fincalc",
		Short: "Loan, mortgage and investment calculators",
		Long: `Fincalc prices loans and mortgages, projects compound growth and
solves for the rate or the time needed to reach a savings target.

Every amount is reported in cents. Calculations can be journaled to
SQLite or CSV and exported later as CSV, xz-compressed CSV or Org-mode.

Examples:
  fincalc loan --principal 250000 --rate 6.5 --years 30
  fincalc rate --principal 10000 --years 10 --target 50000 --compounding 1
  fincalc time --principal 5000 --contribution 200 --rate 6 --target 50000
  fincalc --journal sqlite --db calc.db journal list`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.JournalType, "journal", "", "Journal type: none|csv|sqlite (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "Journal path (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.NoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&rc.JSON, "json", false, "Write results as JSON")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.setup(cmd)
	}

	cmd.AddCommand(calculatorCommands(rc)...)
	cmd.AddCommand(
		newConfigCmd(rc),
		newJournalCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func (rc *rootConfig) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(rc.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	rc.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if rc.JournalType != "" {
		cfg.Journal.Type = rc.JournalType
	}
	if rc.DBPath != "" {
		cfg.Journal.Path = rc.DBPath
	}
	if cfg.Journal.Path == "" {
		switch cfg.Journal.Type {
		case "sqlite":
			cfg.Journal.Path = "./fincalc.sqlite"
		case "csv":
			cfg.Journal.Path = "./fincalc.csv"
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	rc.cfg = cfg
	rc.log.Debug("configured", "config", rc.ConfigPath, "journal", cfg.Journal.Type, "path", cfg.Journal.Path)
	return nil
}

func (rc *rootConfig) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), render.Options{
		NoColor: rc.NoColor || rc.cfg.Output.NoColor || os.Getenv("NO_COLOR") != "",
		JSON:    rc.JSON,
	})
}

// Execute runs the fincalc command tree.
func Execute() error {
	return NewRootCmd().Execute()
}
