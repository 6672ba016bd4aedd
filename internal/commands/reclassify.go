package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearspend-dev/clearspend/internal/identity"
)

func newReclassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify <key> <category>",
		Short: "Override a transaction's category",
		Long: "Override the category of the transaction identified by key. Keys are\n" +
			"shown by the transactions command and have the form\n" +
			"date|description|debit|credit. The override persists across reloads.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := identity.Key(args[0])
			category := args[1]

			if _, _, _, _, err := identity.Parse(key); err != nil {
				return fmt.Errorf("invalid key %q: %w", args[0], err)
			}

			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sess.SetOverride(cmd.Context(), key, category); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reclassified %s as %s\n", key, category)
			return nil
		},
	}
}
