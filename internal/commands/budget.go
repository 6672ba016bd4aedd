package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget versus actuals for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			month, err := currentMonth(cmd, sess)
			if err != nil {
				return err
			}

			tree := sess.Budget(month)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Budget for %s (income %s)\n\n", tree.Month, tree.Income.StringFixed(2))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP/CATEGORY\tBUDGET\tACTUAL\tDIFF\t% INCOME")
			for _, g := range tree.Groups {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\n",
					g.Name,
					g.Budget.StringFixed(2),
					g.Actual.StringFixed(2),
					g.Diff.StringFixed(2),
					g.PercentOfIncome)
				for _, c := range g.Categories {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%.1f%%\n",
						c.Name,
						c.Budget.StringFixed(2),
						c.Actual.StringFixed(2),
						c.Diff.StringFixed(2),
						c.PercentOfIncome)
				}
			}
			fmt.Fprintf(w, "savings\t%s\t%s\t%s\t\n",
				tree.Savings.Budget.StringFixed(2),
				tree.Savings.Actual.StringFixed(2),
				tree.Savings.Diff.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nTotal spent: %s\n", tree.TotalSpent.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().String("month", "", "month to report (YYYY-MM, default newest)")
	return cmd
}
