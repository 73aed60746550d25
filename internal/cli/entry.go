package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

func newEntryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and list KPI measurements",
	}
	cmd.AddCommand(newEntryAddCmd(a))
	cmd.AddCommand(newEntryListCmd(a))
	return cmd
}

func newEntryAddCmd(a *app) *cobra.Command {
	var (
		value float64
		date  string
		note  string
	)
	cmd := &cobra.Command{
		Use:   "add <kpi-id>",
		Short: "Record a measurement for a KPI",
		Long: "Record a measurement. The KPI's current value becomes the value of the\n" +
			"newest recorded entry (or of the latest-dated entry with value_cache: latest_date).",
		Example: `  kpitrack entry add 01890a5d-ac96-774b-b9aa-9d5ff1a1c0de --value 500 --date 2024-01-01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFinite("value", value); err != nil {
				return err
			}
			when := time.Now().UTC()
			if date != "" {
				var err error
				if when, err = parseDate(date); err != nil {
					return err
				}
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			kpiID := args[0]
			if _, ok := s.kpis.Get(kpiID); !ok && !s.settings.Tracker.StrictReferences {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no KPI with id %q; the entry is stored anyway\n", kpiID)
			}

			e, err := s.entries.Create(types.NewEntry{
				KPIID: kpiID,
				Value: value,
				Date:  when,
				Note:  note,
			})
			if errors.Is(err, types.ErrUnknownKPI) {
				return notFound("kpi", kpiID)
			}
			if err != nil {
				return sysError("create entry: %w", err)
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded entry %s\n", e.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&value, "value", 0, "measured value")
	cmd.Flags().StringVar(&date, "date", "", "measurement date, YYYY-MM-DD or RFC 3339 (default: now)")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newEntryListCmd(a *app) *cobra.Command {
	var kpiID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			entries := s.entries.GetAll(kpiID)
			if a.flags.jsonMode {
				if entries == nil {
					entries = []types.KPIEntry{}
				}
				return printJSON(cmd.OutOrStdout(), entries)
			}

			names := make(map[string]string)
			for _, k := range s.kpis.GetAll() {
				names[k.ID] = k.Name
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tKPI\tVALUE\tDATE\tNOTE")
			for _, e := range entries {
				name, ok := names[e.KPIID]
				if !ok {
					name = e.KPIID + " (unknown)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.ID, name, formatNumber(e.Value), e.Date.UTC().Format("2006-01-02"), e.Note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kpiID, "kpi", "", "only list entries of this KPI")
	return cmd
}
