package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearspend-dev/clearspend/internal/session"
)

func newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Scan the import directory and report what loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			txs := sess.Transactions(session.Filter{IncludeTransfers: true})
			fmt.Fprintf(out, "Loaded %d transactions across %d months\n",
				len(txs), len(sess.Months()))

			transfers := 0
			for _, t := range txs {
				if t.IsTransfer {
					transfers++
				}
			}
			fmt.Fprintf(out, "Transfer pairs matched: %d\n", transfers/2)
			if positions := sess.Positions(); len(positions) > 0 {
				fmt.Fprintf(out, "Positions: %d (value %s)\n",
					len(positions), sess.PortfolioValue().StringFixed(2))
			}
			return nil
		},
	}
}
