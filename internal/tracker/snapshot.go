package tracker

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/kpitrack/internal/store"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// snapshotService implements types.SnapshotService.
type snapshotService struct {
	store   *store.Store
	kpis    *kpiRepository
	entries *entryRepository
	clock   *clock
}

func (s *snapshotService) Export() types.ExportData {
	return types.ExportData{
		KPIs:       s.kpis.GetAll(),
		Entries:    s.entries.GetAll(""),
		ExportDate: s.clock.read(),
	}
}

// Import overwrites both collections with data. Entries are not checked
// against the imported KPIs and nothing is merged.
func (s *snapshotService) Import(data types.ExportData) {
	s.store.WriteKPIs(data.KPIs)
	s.store.WriteEntries(data.Entries)
}

func (s *snapshotService) ClearAll() {
	s.store.Remove(store.KPIsKey)
	s.store.Remove(store.EntriesKey)
}

// EncodeSnapshot writes data as indented JSON.
func EncodeSnapshot(w io.Writer, data types.ExportData) error {
	if data.KPIs == nil {
		data.KPIs = []types.KPI{}
	}
	if data.Entries == nil {
		data.Entries = []types.KPIEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot or by the
// browser version of the tracker.
func DecodeSnapshot(r io.Reader) (types.ExportData, error) {
	var data types.ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return types.ExportData{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return data, nil
}
