package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMerchantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Top merchants by total spend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			top, _ := cmd.Flags().GetInt("top")
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MERCHANT\tTOTAL\tVISITS\tAVERAGE")
			for _, m := range sess.TopMerchants(top) {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					m.Merchant, m.Total.StringFixed(2), m.Visits, m.Average.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("top", 10, "number of merchants to show (0 for all)")
	return cmd
}
