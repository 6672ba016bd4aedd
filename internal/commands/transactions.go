package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clearspend-dev/clearspend/internal/identity"
	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/session"
)

func newTransactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List loaded transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			month, _ := cmd.Flags().GetString("month")
			category, _ := cmd.Flags().GetString("category")
			account, _ := cmd.Flags().GetString("account")
			transfers, _ := cmd.Flags().GetBool("transfers")

			filter := session.Filter{
				Month:            month,
				Category:         category,
				AccountType:      model.AccountType(account),
				IncludeTransfers: transfers,
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tDATE\tDESCRIPTION\tCATEGORY\tDEBIT\tCREDIT")
			for _, t := range sess.Transactions(filter) {
				date := ""
				if t.HasDate() {
					date = t.Date.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					identity.ForTransaction(t), date, t.Description, t.Category,
					t.Debit.StringFixed(2), t.Credit.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("month", "", "filter by month (YYYY-MM)")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("account", "", "filter by account type (debit or credit)")
	cmd.Flags().Bool("transfers", false, "include transfer pairs")
	return cmd
}
