package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pratico-importer/internal/platform/config"
	"github.com/p-n-ai/pratico-importer/internal/platform/logging"
)

type rootFlags struct {
	configFile  string
	envFile     string
	dataDir     string
	dryRun      bool
	skipInvalid bool
	reportXLSX  string
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "importer [api-url] [email] [password]",
		Short: "Import question batch files into the question bank",
		Long: `Registers and logs in the admin account, creates the fixed set of topics,
then submits every JSON batch file in the data directory to the topic its
bibliography maps to.

The positional arguments override the configured API URL, admin email and
admin password, in that order.`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(stdout, cfg.Log))
			return run(cmd.Context(), cfg, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configFile, "config", "", "YAML config file (default $PRATICO_CONFIG)")
	f.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	f.StringVar(&flags.dataDir, "data-dir", "", "directory holding the batch files")
	f.BoolVar(&flags.dryRun, "dry-run", false, "log what would be sent without calling the API")
	f.BoolVar(&flags.skipInvalid, "skip-invalid", false, "record unreadable batch files as invalid instead of aborting")
	f.StringVar(&flags.reportXLSX, "report-xlsx", "", "write an XLSX run report to this path")

	return cmd
}

// loadConfig layers defaults, file, environment, then flags and positional
// arguments, and validates the result.
func loadConfig(cmd *cobra.Command, flags rootFlags, args []string) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if flags.configFile != "" {
		cfg, err = config.LoadFile(flags.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Empty positional arguments keep the configured value.
	cfg.API.URL = argOr(args, 0, cfg.API.URL)
	cfg.API.Email = argOr(args, 1, cfg.API.Email)
	cfg.API.Password = argOr(args, 2, cfg.API.Password)

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if cmd.Flags().Changed("skip-invalid") {
		cfg.SkipInvalid = flags.skipInvalid
	}
	if cmd.Flags().Changed("report-xlsx") {
		cfg.Report.XLSXPath = flags.reportXLSX
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return fallback
}
