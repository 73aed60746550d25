package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

func newKPICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Manage KPIs",
	}
	cmd.AddCommand(newKPIAddCmd(a))
	cmd.AddCommand(newKPIListCmd(a))
	cmd.AddCommand(newKPIShowCmd(a))
	cmd.AddCommand(newKPIUpdateCmd(a))
	cmd.AddCommand(newKPIDeleteCmd(a))
	return cmd
}

// kpiFlags are the editable KPI fields shared by add and update.
type kpiFlags struct {
	name        string
	description string
	value       float64
	target      float64
	unit        string
	category    string
	color       string
	clearTarget bool
}

func (f *kpiFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "display name")
	fs.StringVar(&f.description, "description", "", "free-text description")
	fs.Float64Var(&f.value, "value", 0, "current value")
	fs.Float64Var(&f.target, "target", 0, "goal value")
	fs.StringVar(&f.unit, "unit", "", "display unit, e.g. $ or %")
	fs.StringVar(&f.category, "category", types.CategoryCustom, "one of "+strings.Join(types.Categories, ", "))
	fs.StringVar(&f.color, "color", types.Colors[0], "one of "+strings.Join(types.Colors, ", "))
}

func newKPIAddCmd(a *app) *cobra.Command {
	var f kpiFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a KPI",
		Example: `  kpitrack kpi add --name Revenue --unit '$' --category Financial --target 10000
  kpitrack kpi add --name NPS --category Customer --color '#10B981'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := types.KPIFormData{
				Name:        strings.TrimSpace(f.name),
				Description: f.description,
				Value:       f.value,
				Unit:        f.unit,
				Category:    f.category,
				Color:       strings.ToUpper(f.color),
			}
			if err := checkFinite("value", f.value); err != nil {
				return err
			}
			if cmd.Flags().Changed("target") {
				if err := checkFinite("target", f.target); err != nil {
					return err
				}
				form.Target = &f.target
			}
			if err := form.Validate(); err != nil {
				return formError(err)
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			k := s.kpis.Create(form)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), k)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created KPI %s (%s)\n", k.ID, k.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newKPIListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			kpis := s.kpis.GetAll()
			if category != "" {
				filtered := kpis[:0]
				for _, k := range kpis {
					if k.Category == category {
						filtered = append(filtered, k)
					}
				}
				kpis = filtered
			}

			if a.flags.jsonMode {
				if kpis == nil {
					kpis = []types.KPI{}
				}
				return printJSON(cmd.OutOrStdout(), kpis)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tVALUE\tTARGET\tUNIT\tCATEGORY\tUPDATED")
			for _, k := range kpis {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					k.ID, k.Name, formatNumber(k.Value), formatTarget(k.Target), k.Unit, k.Category,
					k.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list KPIs in this category")
	return cmd
}

func newKPIShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kpi-id>",
		Short: "Show a KPI and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			k, ok := s.kpis.Get(args[0])
			if !ok {
				return notFound("kpi", args[0])
			}
			entries := s.entries.GetAll(k.ID)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if entries == nil {
					entries = []types.KPIEntry{}
				}
				return printJSON(out, struct {
					types.KPI
					Entries []types.KPIEntry `json:"entries"`
				}{k, entries})
			}

			tw := newTable(out)
			fmt.Fprintf(tw, "ID:\t%s\n", k.ID)
			fmt.Fprintf(tw, "Name:\t%s\n", k.Name)
			if k.Description != "" {
				fmt.Fprintf(tw, "Description:\t%s\n", k.Description)
			}
			fmt.Fprintf(tw, "Value:\t%s %s\n", formatNumber(k.Value), k.Unit)
			fmt.Fprintf(tw, "Target:\t%s\n", formatTarget(k.Target))
			fmt.Fprintf(tw, "Category:\t%s\n", k.Category)
			fmt.Fprintf(tw, "Color:\t%s\n", k.Color)
			fmt.Fprintf(tw, "Created:\t%s\n", k.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(tw, "Updated:\t%s\n", k.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(tw, "Entries:\t%d\n", len(entries))
			return tw.Flush()
		},
	}
}

func newKPIUpdateCmd(a *app) *cobra.Command {
	var f kpiFlags
	cmd := &cobra.Command{
		Use:   "update <kpi-id>",
		Short: "Change fields of a KPI",
		Long:  "Change the fields given as flags. Fields without a flag keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return userError("nothing to update: pass at least one field flag")
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			k, ok := s.kpis.Update(args[0], patch)
			if !ok {
				return notFound("kpi", args[0])
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), k)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated KPI %s\n", k.ID)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.clearTarget, "clear-target", false, "remove the goal value")
	return cmd
}

// patch builds a KPIPatch from the flags that were set on cmd.
func (f *kpiFlags) patch(cmd *cobra.Command) (types.KPIPatch, error) {
	var p types.KPIPatch
	changed := cmd.Flags().Changed

	if changed("name") {
		name := strings.TrimSpace(f.name)
		if name == "" {
			return p, formError(types.ErrInvalidName)
		}
		p.Name = &name
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("value") {
		if err := checkFinite("value", f.value); err != nil {
			return p, err
		}
		p.Value = &f.value
	}
	if changed("target") {
		if f.clearTarget {
			return p, userError("--target and --clear-target are mutually exclusive")
		}
		if err := checkFinite("target", f.target); err != nil {
			return p, err
		}
		p.Target = &f.target
	}
	p.ClearTarget = f.clearTarget
	if changed("unit") {
		p.Unit = &f.unit
	}
	if changed("category") {
		if !types.IsCategory(f.category) {
			return p, formError(types.ErrInvalidCategory)
		}
		p.Category = &f.category
	}
	if changed("color") {
		color := strings.ToUpper(f.color)
		if !types.IsColor(color) {
			return p, formError(types.ErrInvalidColor)
		}
		p.Color = &color
	}
	return p, nil
}

func newKPIDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kpi-id>",
		Short: "Delete a KPI and all of its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			if !s.kpis.Delete(args[0]) {
				return notFound("kpi", args[0])
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted KPI %s\n", args[0])
			return nil
		},
	}
}

func notFound(kind, id string) error {
	return userError("%s %q: %w", kind, id, types.ErrNotFound)
}

// formError turns a validation sentinel into a user error naming the
// accepted values.
func formError(err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidName):
		return userError("%w: --name is required", err)
	case errors.Is(err, types.ErrInvalidCategory):
		return userError("%w: want one of %s", err, strings.Join(types.Categories, ", "))
	case errors.Is(err, types.ErrInvalidColor):
		return userError("%w: want one of %s", err, strings.Join(types.Colors, ", "))
	default:
		return userError("%w", err)
	}
}
