package types

import "errors"

// Tracker is the entry point to kpitrack storage. Callers attach to a backend,
// use the repositories, and detach when done.
type Tracker interface {
	// Attach opens the medium described by config and wires the repositories.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases the medium. Idempotent.
	Detach() error

	// KPIs returns the KPI repository, or ErrTrackerDetached.
	KPIs() (KPIRepository, error)

	// Entries returns the entry repository, or ErrTrackerDetached.
	Entries() (EntryRepository, error)

	// Snapshots returns the snapshot service, or ErrTrackerDetached.
	Snapshots() (SnapshotService, error)
}

// KPIRepository provides CRUD over KPIs. Misses are reported through the
// boolean result, never as errors.
type KPIRepository interface {
	// GetAll returns every KPI in stored order.
	GetAll() []KPI

	// Get returns the KPI with the given id.
	Get(id string) (KPI, bool)

	// Create assigns an id and timestamps, appends and persists the new KPI.
	Create(form KPIFormData) KPI

	// Update merges patch over the stored KPI and bumps UpdatedAt.
	// Returns false with no side effect when id is unknown.
	Update(id string, patch KPIPatch) (KPI, bool)

	// Delete removes the KPI and every entry that references it.
	// Returns false with no side effect when id is unknown.
	Delete(id string) bool
}

// EntryRepository provides append-only access to KPI entries.
type EntryRepository interface {
	// GetAll returns all entries, or only those for kpiID when it is non-empty.
	GetAll(kpiID string) []KPIEntry

	// Create assigns an id, appends and persists the entry, then refreshes the
	// cached value of its KPI. The error is nil unless strict references are
	// enabled and kpiID is unknown (ErrUnknownKPI).
	Create(entry NewEntry) (KPIEntry, error)
}

// SnapshotService exports, imports and clears the whole dataset.
type SnapshotService interface {
	Export() ExportData

	// Import replaces both collections with exactly the contents of data.
	Import(data ExportData)

	// ClearAll removes both collections. Idempotent.
	ClearAll()
}

// Tracker lifecycle errors.
var (
	ErrTrackerDetached = errors.New("tracker is detached")
	ErrAlreadyAttached = errors.New("tracker is already attached")
)

// Entity errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrUnknownKPI      = errors.New("entry references an unknown KPI")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidColor    = errors.New("invalid color")
)
