package store

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Record structures mirror the stored JSON format. Timestamps are ISO-8601
// strings; they are written as RFC 3339 in UTC and parsed back into time.Time.

// kpiJSON represents a KPI in the kpis collection.
type kpiJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Value       float64  `json:"value"`
	Target      *float64 `json:"target,omitempty"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category"`
	Color       string   `json:"color"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// entryJSON represents an entry in the entries collection.
type entryJSON struct {
	ID    string  `json:"id"`
	KPIID string  `json:"kpiId"`
	Value float64 `json:"value"`
	Date  string  `json:"date"`
	Note  string  `json:"note,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}

func encodeKPI(k types.KPI) kpiJSON {
	return kpiJSON{
		ID:          k.ID,
		Name:        k.Name,
		Description: k.Description,
		Value:       k.Value,
		Target:      k.Target,
		Unit:        k.Unit,
		Category:    k.Category,
		Color:       k.Color,
		CreatedAt:   formatTime(k.CreatedAt),
		UpdatedAt:   formatTime(k.UpdatedAt),
	}
}

func decodeKPI(r kpiJSON) (types.KPI, error) {
	createdAt, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return types.KPI{}, err
	}
	updatedAt, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return types.KPI{}, err
	}
	return types.KPI{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		Target:      r.Target,
		Unit:        r.Unit,
		Category:    r.Category,
		Color:       r.Color,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func encodeEntry(e types.KPIEntry) entryJSON {
	return entryJSON{
		ID:    e.ID,
		KPIID: e.KPIID,
		Value: e.Value,
		Date:  formatTime(e.Date),
		Note:  e.Note,
	}
}

func decodeEntry(r entryJSON) (types.KPIEntry, error) {
	date, err := parseTime("date", r.Date)
	if err != nil {
		return types.KPIEntry{}, err
	}
	return types.KPIEntry{
		ID:    r.ID,
		KPIID: r.KPIID,
		Value: r.Value,
		Date:  date,
		Note:  r.Note,
	}, nil
}
