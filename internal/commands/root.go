package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearspend-dev/clearspend/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "clearspend",
		Short:   "Personal finance statement reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "clearspend.yaml", "config file path")
	rootCmd.PersistentFlags().String("import-dir", "import", "statement CSV directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newSummaryCommand())
	rootCmd.AddCommand(newBudgetCommand())
	rootCmd.AddCommand(newRecurringCommand())
	rootCmd.AddCommand(newMerchantsCommand())
	rootCmd.AddCommand(newTransactionsCommand())
	rootCmd.AddCommand(newReclassifyCommand())

	return rootCmd
}
