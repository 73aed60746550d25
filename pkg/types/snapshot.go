package types

import "time"

// ExportData is a full, unfiltered copy of both collections plus the moment
// it was taken.
type ExportData struct {
	KPIs       []KPI      `json:"kpis"`
	Entries    []KPIEntry `json:"entries"`
	ExportDate time.Time  `json:"exportDate"`
}
