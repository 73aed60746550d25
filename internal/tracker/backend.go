// Package tracker implements the Tracker interface: it opens the configured
// medium and wires the persistence store, id generator and repositories on
// top of it.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/internal/ident"
	"github.com/mesh-intelligence/kpitrack/internal/medium"
	"github.com/mesh-intelligence/kpitrack/internal/store"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Backend implements types.Tracker.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config

	logger *zap.Logger
	ids    ident.Generator
	clock  *clock

	// medium is set by Attach. ownMedium is false when the medium was
	// supplied through WithMedium; Detach then leaves it open.
	medium    types.Medium
	ownMedium bool
	injected  types.Medium

	kpis      *kpiRepository
	entries   *entryRepository
	snapshots *snapshotService
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used by the backend and its store.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithIDGenerator replaces the default UUID v7 generator.
func WithIDGenerator(ids ident.Generator) Option {
	return func(b *Backend) {
		b.ids = ids
	}
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.clock = &clock{now: now}
	}
}

// WithMedium makes Attach use m instead of opening the configured backend.
// The caller keeps ownership of m.
func WithMedium(m types.Medium) Option {
	return func(b *Backend) {
		b.injected = m
	}
}

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: zap.NewNop(),
		ids:    ident.UUIDv7{},
		clock:  &clock{now: time.Now},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the medium and creates the repositories.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	m := b.injected
	own := false
	if m == nil {
		opened, err := medium.Open(config)
		if err != nil {
			return fmt.Errorf("open %s medium: %w", config.Backend, err)
		}
		m, own = opened, true
	}

	st := store.New(m, b.logger)
	b.kpis = &kpiRepository{
		store:  st,
		ids:    b.ids,
		clock:  b.clock,
		logger: b.logger,
	}
	b.entries = &entryRepository{
		store:      st,
		ids:        b.ids,
		kpis:       b.kpis,
		valueCache: config.GetValueCache(),
		strict:     config.StrictReferences,
		logger:     b.logger,
	}
	b.snapshots = &snapshotService{
		store:   st,
		kpis:    b.kpis,
		entries: b.entries,
		clock:   b.clock,
	}

	b.medium, b.ownMedium = m, own
	b.config = config
	b.attached = true

	b.logger.Info("Tracker attached",
		zap.String("backend", config.Backend),
		zap.String("data_dir", config.DataDir),
		zap.String("value_cache", config.GetValueCache()),
		zap.Bool("strict_references", config.StrictReferences))

	return nil
}

// Detach closes the medium if the backend opened it. After Detach, the
// repository accessors return ErrTrackerDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	b.kpis, b.entries, b.snapshots = nil, nil, nil

	m := b.medium
	b.medium = nil
	if b.ownMedium && m != nil {
		if err := m.Close(); err != nil {
			return fmt.Errorf("close medium: %w", err)
		}
	}
	return nil
}

// Config returns the configuration passed to Attach.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// KPIs returns the KPI repository.
func (b *Backend) KPIs() (types.KPIRepository, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrTrackerDetached
	}
	return b.kpis, nil
}

// Entries returns the entry repository.
func (b *Backend) Entries() (types.EntryRepository, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrTrackerDetached
	}
	return b.entries, nil
}

// Snapshots returns the snapshot service.
func (b *Backend) Snapshots() (types.SnapshotService, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrTrackerDetached
	}
	return b.snapshots, nil
}
