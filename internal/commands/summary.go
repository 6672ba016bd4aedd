package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Monthly income, spending, and savings rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSES\tNET\tSAVINGS RATE")
			for _, ms := range sess.MonthlySummary() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\n",
					ms.Month,
					ms.Income.StringFixed(2),
					ms.Expenses.StringFixed(2),
					ms.Net.StringFixed(2),
					ms.SavingsRate*100)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			cmp := sess.CompareAccounts()
			fmt.Fprintf(cmd.OutOrStdout(),
				"\nChecking spend %s, credit spend %s (%.1f%% on credit)\n",
				cmp.DebitSpend.StringFixed(2),
				cmp.CreditSpend.StringFixed(2),
				cmp.CreditPercent*100)

			if interest, total := sess.InterestPayments(); len(interest) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Interest earned to date: %s\n", total.StringFixed(2))
			}
			if v := sess.PortfolioValue(); v.IsPositive() {
				fmt.Fprintf(cmd.OutOrStdout(), "Portfolio value: %s\n", v.StringFixed(2))
			}
			return nil
		},
	}
}
