package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every KPI and entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("clear removes all data; pass --yes to confirm")
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			s.snapshots.ClearAll()
			fmt.Fprintln(cmd.OutOrStdout(), "All KPI data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removal of all data")
	return cmd
}
