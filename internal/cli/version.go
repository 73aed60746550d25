package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/pkg/kpitrack"
)

const modulePath = "github.com/mesh-intelligence/kpitrack"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kpitrack version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "kpitrack v%s\nmodule: %s\n", kpitrack.Version, modulePath)
			return nil
		},
	}
}
