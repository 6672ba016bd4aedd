package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRecurringCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recurring",
		Short: "Detected recurring charges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			candidates := sess.Recurring()
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recurring charges detected.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DESCRIPTION\tCATEGORY\tMEAN\tFREQUENCY\tMONTHS")
			for _, c := range candidates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					c.Description, c.Category, c.MeanAmount.StringFixed(2), c.Frequency, c.Months)
			}
			return w.Flush()
		},
	}
}
