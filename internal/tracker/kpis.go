package tracker

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/internal/ident"
	"github.com/mesh-intelligence/kpitrack/internal/store"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// kpiRepository implements types.KPIRepository. Every mutation reads the
// full collection, changes it in memory and writes it back.
type kpiRepository struct {
	store  *store.Store
	ids    ident.Generator
	clock  *clock
	logger *zap.Logger
}

func (r *kpiRepository) GetAll() []types.KPI {
	return r.store.ReadKPIs()
}

func (r *kpiRepository) Get(id string) (types.KPI, bool) {
	for _, k := range r.store.ReadKPIs() {
		if k.ID == id {
			return k, true
		}
	}
	return types.KPI{}, false
}

func (r *kpiRepository) Create(form types.KPIFormData) types.KPI {
	now := r.clock.read()
	k := types.KPI{
		ID:          r.ids.NewID(),
		Name:        form.Name,
		Description: form.Description,
		Value:       form.Value,
		Unit:        form.Unit,
		Category:    form.Category,
		Color:       form.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if form.Target != nil {
		target := *form.Target
		k.Target = &target
	}

	kpis := r.store.ReadKPIs()
	kpis = append(kpis, k)
	r.store.WriteKPIs(kpis)

	r.logger.Debug("Created KPI", zap.String("kpi_id", k.ID), zap.String("name", k.Name))
	return k
}

func (r *kpiRepository) Update(id string, patch types.KPIPatch) (types.KPI, bool) {
	kpis := r.store.ReadKPIs()
	idx := -1
	for i := range kpis {
		if kpis[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return types.KPI{}, false
	}

	k := kpis[idx]
	patch.Apply(&k)
	k.UpdatedAt = r.clock.after(k.UpdatedAt)
	kpis[idx] = k
	r.store.WriteKPIs(kpis)

	return k, true
}

// Delete removes the KPI, then its entries. Both collections are written
// before Delete returns; a miss writes nothing.
func (r *kpiRepository) Delete(id string) bool {
	kpis := r.store.ReadKPIs()
	kept := make([]types.KPI, 0, len(kpis))
	for _, k := range kpis {
		if k.ID != id {
			kept = append(kept, k)
		}
	}
	if len(kept) == len(kpis) {
		return false
	}
	r.store.WriteKPIs(kept)

	entries := r.store.ReadEntries()
	keptEntries := make([]types.KPIEntry, 0, len(entries))
	for _, e := range entries {
		if e.KPIID != id {
			keptEntries = append(keptEntries, e)
		}
	}
	r.store.WriteEntries(keptEntries)

	r.logger.Debug("Deleted KPI",
		zap.String("kpi_id", id),
		zap.Int("entries_removed", len(entries)-len(keptEntries)))
	return true
}
