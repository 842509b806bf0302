package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/buildinfo"
	"github.com/cleared-dev/ledgerview/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ledgerview",
		Short:   "Statements, balances and offline-tolerant payments for a retail bank account",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "ledgerview.yaml", "path to the configuration file")
	flags.StringVar(&a.apiURL, "api-url", "", "backend base URL (overrides config and "+config.EnvAPIURL+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(
		newInitCommand(),
		newStatementCommand(a),
		newBalancesCommand(a),
		newProfileCommand(a),
		newCardsCommand(a),
		newDashboardCommand(a),
		newPayCommand(a),
		newTransferCommand(a),
		newDepositCommand(a),
		newDeleteCommand(a),
		newWatchCommand(a),
	)

	return rootCmd
}
