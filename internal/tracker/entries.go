package tracker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/internal/ident"
	"github.com/mesh-intelligence/kpitrack/internal/store"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// entryRepository implements types.EntryRepository.
type entryRepository struct {
	store      *store.Store
	ids        ident.Generator
	kpis       *kpiRepository
	valueCache string
	strict     bool
	logger     *zap.Logger
}

func (r *entryRepository) GetAll(kpiID string) []types.KPIEntry {
	entries := r.store.ReadEntries()
	if kpiID == "" {
		return entries
	}
	filtered := make([]types.KPIEntry, 0, len(entries))
	for _, e := range entries {
		if e.KPIID == kpiID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Create persists the entry first and only then refreshes the KPI's cached
// value. An unknown KPIID leaves the entry stored and the error nil, unless
// strict references are on.
func (r *entryRepository) Create(ne types.NewEntry) (types.KPIEntry, error) {
	if r.strict {
		if _, ok := r.kpis.Get(ne.KPIID); !ok {
			return types.KPIEntry{}, fmt.Errorf("create entry for %q: %w", ne.KPIID, types.ErrUnknownKPI)
		}
	}

	e := types.KPIEntry{
		ID:    r.ids.NewID(),
		KPIID: ne.KPIID,
		Value: ne.Value,
		Date:  ne.Date,
		Note:  ne.Note,
	}

	entries := r.store.ReadEntries()
	entries = append(entries, e)
	r.store.WriteEntries(entries)

	value := e.Value
	if r.valueCache == types.ValueCacheLatestDate {
		value = latestValue(entries, e.KPIID)
	}
	if _, ok := r.kpis.Update(e.KPIID, types.KPIPatch{Value: &value}); !ok {
		r.logger.Debug("Entry references unknown KPI",
			zap.String("entry_id", e.ID),
			zap.String("kpi_id", e.KPIID))
	}

	return e, nil
}

// latestValue returns the value of the entry for kpiID with the greatest
// date. On equal dates the later-inserted entry wins.
func latestValue(entries []types.KPIEntry, kpiID string) float64 {
	var (
		best  types.KPIEntry
		found bool
	)
	for _, e := range entries {
		if e.KPIID != kpiID {
			continue
		}
		if !found || !e.Date.Before(best.Date) {
			best, found = e, true
		}
	}
	return best.Value
}
