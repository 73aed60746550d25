package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/internal/tracker"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace all data with a JSON snapshot",
		Long: "Replace every KPI and entry with the contents of a snapshot written by\n" +
			"'kpitrack export json'. Existing data is not merged.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return userError("open snapshot: %w", err)
			}
			defer file.Close()

			data, err := tracker.DecodeSnapshot(file)
			if err != nil {
				return userError("%s: %w", args[0], err)
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			s.snapshots.Import(data)

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int{
					"kpis":    len(data.KPIs),
					"entries": len(data.Entries),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d KPIs and %d entries\n", len(data.KPIs), len(data.Entries))
			return nil
		},
	}
}
