// Package root contains the root command for the application.
package root

import (
	"github.com/spf13/cobra"

	"financeapp/statement-import/internal/config"
	"financeapp/statement-import/internal/logging"
)

// CommonFlags holds the flags shared by the convert commands.
type CommonFlags struct {
	Input  string
	Output string
	Commit bool
}

var (
	// Log is the shared logger instance for commands, reconfigured from the
	// resolved configuration before any subcommand runs.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the resolved application configuration.
	Cfg *config.Config

	// SharedFlags are accessible to all subcommands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "statement-import",
		Short: "Parse bank statements and auto-categorize transactions.",
		Long: `statement-import extracts transactions from PDF and XLSX bank
statements, categorizes them with keyword heuristics, and commits the
reviewed set to the transaction store.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.Initialize()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file for the draft transactions")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.Commit, "commit", false, "Commit all eligible transactions to the store after extraction")
}
