package report

import (
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// unknownKPI names an entry whose KPI no longer exists.
const unknownKPI = "Unknown KPI"

// Column sets of the built-in reports.
var (
	KPIHeaders       = []string{"id", "name", "description", "value", "target", "unit", "category", "color", "createdAt", "updatedAt"}
	EntryHeaders     = []string{"id", "kpiId", "kpiName", "value", "date", "note"}
	DashboardHeaders = []string{"kpiId", "kpiName", "description", "currentValue", "target", "unit", "category", "color", "lastUpdated", "totalEntries"}
	HistoryHeaders   = []string{"date", "value", "note"}
)

// Exporter builds reports and delivers them to a sink. Each builder returns
// the filename it delivered under.
type Exporter struct {
	sink types.Sink
	now  func() time.Time
}

// NewExporter returns an Exporter delivering to sink. A nil sink discards
// every report.
func NewExporter(sink types.Sink) *Exporter {
	if sink == nil {
		sink = NopSink{}
	}
	return &Exporter{sink: sink, now: time.Now}
}

// WithClock sets the clock that dates filenames.
func (x *Exporter) WithClock(now func() time.Time) *Exporter {
	x.now = now
	return x
}

func (x *Exporter) stamp() string {
	return x.now().UTC().Format("2006-01-02")
}

func (x *Exporter) deliver(content, name string) string {
	filename := name + "-" + x.stamp() + ".csv"
	x.sink.Deliver(content, filename)
	return filename
}

// KPIs delivers kpis-<date>.csv.
func (x *Exporter) KPIs(kpis []types.KPI) string {
	rows := make([]map[string]any, 0, len(kpis))
	for _, k := range kpis {
		rows = append(rows, map[string]any{
			"id":          k.ID,
			"name":        k.Name,
			"description": k.Description,
			"value":       k.Value,
			"target":      k.Target,
			"unit":        k.Unit,
			"category":    k.Category,
			"color":       k.Color,
			"createdAt":   k.CreatedAt,
			"updatedAt":   k.UpdatedAt,
		})
	}
	return x.deliver(ToTable(rows, KPIHeaders), "kpis")
}

// Entries delivers kpi-entries-<date>.csv. Entries whose KPI is not in kpis
// are named "Unknown KPI".
func (x *Exporter) Entries(entries []types.KPIEntry, kpis []types.KPI) string {
	names := make(map[string]string, len(kpis))
	for _, k := range kpis {
		names[k.ID] = k.Name
	}

	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.KPIID]
		if !ok || name == "" {
			name = unknownKPI
		}
		rows = append(rows, map[string]any{
			"id":      e.ID,
			"kpiId":   e.KPIID,
			"kpiName": name,
			"value":   e.Value,
			"date":    e.Date,
			"note":    e.Note,
		})
	}
	return x.deliver(ToTable(rows, EntryHeaders), "kpi-entries")
}

// Dashboard delivers kpi-dashboard-<date>.csv: one row per KPI with its
// current value and entry count.
func (x *Exporter) Dashboard(data types.ExportData) string {
	counts := make(map[string]int, len(data.KPIs))
	for _, e := range data.Entries {
		counts[e.KPIID]++
	}

	rows := make([]map[string]any, 0, len(data.KPIs))
	for _, k := range data.KPIs {
		rows = append(rows, map[string]any{
			"kpiId":        k.ID,
			"kpiName":      k.Name,
			"description":  k.Description,
			"currentValue": k.Value,
			"target":       k.Target,
			"unit":         k.Unit,
			"category":     k.Category,
			"color":        k.Color,
			"lastUpdated":  k.UpdatedAt,
			"totalEntries": counts[k.ID],
		})
	}
	return x.deliver(ToTable(rows, DashboardHeaders), "kpi-dashboard")
}

// History delivers <slug>-history-<date>.csv with the entries of kpiID in
// ascending date order. Entries for other KPIs are ignored.
func (x *Exporter) History(kpiID, kpiName string, entries []types.KPIEntry) string {
	own := make([]types.KPIEntry, 0, len(entries))
	for _, e := range entries {
		if e.KPIID == kpiID {
			own = append(own, e)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Date.Before(own[j].Date)
	})

	rows := make([]map[string]any, 0, len(own))
	for _, e := range own {
		rows = append(rows, map[string]any{
			"date":  e.Date.UTC().Format("2006-01-02"),
			"value": e.Value,
			"note":  e.Note,
		})
	}
	return x.deliver(ToTable(rows, HistoryHeaders), slug(kpiName)+"-history")
}

// Table delivers an arbitrary row set as <name>-<date>.csv.
func (x *Exporter) Table(rows []map[string]any, headers []string, name string) string {
	return x.deliver(ToTable(rows, headers), name)
}

// slug lower-cases s and replaces every character outside [a-z0-9] with '-'.
func slug(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, strings.ToLower(s))
}
