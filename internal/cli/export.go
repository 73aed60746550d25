package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/internal/paths"
	"github.com/mesh-intelligence/kpitrack/internal/report"
	"github.com/mesh-intelligence/kpitrack/internal/tracker"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// exportFlags select where reports go.
type exportFlags struct {
	out    string
	stdout bool
}

func newExportCmd(a *app) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export KPIs and entries as CSV reports or a JSON snapshot",
		Long: "Write a report file named after its kind and today's UTC date, e.g.\n" +
			"kpis-2024-06-15.csv, into --out (default: export_dir from config, else the\n" +
			"working directory). With --stdout the report is printed instead.",
	}
	cmd.PersistentFlags().StringVar(&f.out, "out", "", "directory to write reports to")
	cmd.PersistentFlags().BoolVar(&f.stdout, "stdout", false, "print the report instead of writing a file")

	cmd.AddCommand(&cobra.Command{
		Use:   "kpis",
		Short: "Export the KPI list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, f, func(s *session, x *report.Exporter) (string, error) {
				return x.KPIs(s.kpis.GetAll()), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "entries",
		Short: "Export every entry as CSV, with its KPI name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, f, func(s *session, x *report.Exporter) (string, error) {
				return x.Entries(s.entries.GetAll(""), s.kpis.GetAll()), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Export one row per KPI with its current value and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, f, func(s *session, x *report.Exporter) (string, error) {
				return x.Dashboard(s.snapshots.Export()), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "history <kpi-id>",
		Short: "Export the entries of one KPI in date order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, f, func(s *session, x *report.Exporter) (string, error) {
				k, ok := s.kpis.Get(args[0])
				if !ok {
					return "", notFound("kpi", args[0])
				}
				return x.History(k.ID, k.Name, s.entries.GetAll(k.ID)), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "json",
		Short: "Export a full JSON snapshot for import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportJSON(cmd, a, f)
		},
	})
	return cmd
}

// runExport opens the tracker, builds the sink from the flags and runs one
// report builder.
func runExport(cmd *cobra.Command, a *app, f exportFlags, build func(*session, *report.Exporter) (string, error)) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer s.close()

	var sink types.Sink
	dir := ""
	if f.stdout {
		sink = report.WriterSink{W: cmd.OutOrStdout()}
	} else {
		if dir, err = paths.ResolveExportDir(f.out, s.settings.ExportDir); err != nil {
			return sysError("resolve export dir: %w", err)
		}
		sink = report.DirSink{Dir: dir, Logger: s.logger}
	}

	filename, err := build(s, report.NewExporter(sink))
	if err != nil {
		return err
	}
	if !f.stdout {
		return reportWritten(cmd, a, filepath.Join(dir, filename))
	}
	return nil
}

func runExportJSON(cmd *cobra.Command, a *app, f exportFlags) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer s.close()

	data := s.snapshots.Export()
	if f.stdout {
		if err := tracker.EncodeSnapshot(cmd.OutOrStdout(), data); err != nil {
			return sysError("%w", err)
		}
		return nil
	}

	dir, err := paths.ResolveExportDir(f.out, s.settings.ExportDir)
	if err != nil {
		return sysError("resolve export dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sysError("create export directory: %w", err)
	}
	path := filepath.Join(dir, "kpi-data-"+data.ExportDate.UTC().Format("2006-01-02")+".json")

	file, err := os.Create(path)
	if err != nil {
		return sysError("create snapshot file: %w", err)
	}
	if err := tracker.EncodeSnapshot(file, data); err != nil {
		file.Close()
		return sysError("%w", err)
	}
	if err := file.Close(); err != nil {
		return sysError("close snapshot file: %w", err)
	}
	return reportWritten(cmd, a, path)
}

func reportWritten(cmd *cobra.Command, a *app, path string) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"path":       path,
			"exportedAt": time.Now().UTC().Format(time.RFC3339),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
	return nil
}
