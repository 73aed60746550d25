package types

import "time"

// KPIEntry is one measurement of a KPI. Entries are append-only: there is no
// update, and they are removed only when their KPI is deleted or the whole
// collection is replaced.
type KPIEntry struct {
	ID    string    `json:"id"`
	KPIID string    `json:"kpiId"`
	Value float64   `json:"value"`
	Date  time.Time `json:"date"` // Measurement time; may be in the past.
	Note  string    `json:"note,omitempty"`
}

// NewEntry is the creation request for a KPIEntry.
type NewEntry struct {
	KPIID string
	Value float64
	Date  time.Time
	Note  string
}
