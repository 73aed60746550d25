// Package store loads and saves the KPI and entry collections as JSON text
// against a types.Medium. Read and write failures never reach the caller:
// a read that cannot produce data yields an empty list, a failed write is
// logged and dropped.
package store

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Logical keys of the two collections.
const (
	KPIsKey    = "kpi-tracker-kpis"
	EntriesKey = "kpi-tracker-entries"
)

// readStatus tags why a read produced the list it did.
type readStatus int

const (
	statusOK          readStatus = iota // value parsed
	statusMissing                       // key not set
	statusCorrupt                       // value did not parse
	statusUnavailable                   // no medium
	statusFailed                        // medium returned an error
)

func (s readStatus) String() string {
	switch s {
	case statusOK:
		return "ok"
	case statusMissing:
		return "missing"
	case statusCorrupt:
		return "corrupt"
	case statusUnavailable:
		return "unavailable"
	case statusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// readResult is the internal outcome of reading one collection. Items is
// never nil.
type readResult[T any] struct {
	items  []T
	status readStatus
	err    error
}

// Store reads and writes whole collections. A nil medium behaves like an
// empty store whose writes are discarded.
type Store struct {
	medium types.Medium
	logger *zap.Logger
}

// New returns a Store over m. A nil logger is replaced with a no-op logger.
func New(m types.Medium, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{medium: m, logger: logger}
}

// ReadKPIs returns the stored KPIs, or an empty list.
func (s *Store) ReadKPIs() []types.KPI {
	return readCollection(s, KPIsKey, decodeKPI).items
}

// WriteKPIs overwrites the stored KPIs with kpis.
func (s *Store) WriteKPIs(kpis []types.KPI) {
	writeCollection(s, KPIsKey, kpis, encodeKPI)
}

// ReadEntries returns the stored entries, or an empty list.
func (s *Store) ReadEntries() []types.KPIEntry {
	return readCollection(s, EntriesKey, decodeEntry).items
}

// WriteEntries overwrites the stored entries with entries.
func (s *Store) WriteEntries(entries []types.KPIEntry) {
	writeCollection(s, EntriesKey, entries, encodeEntry)
}

// Remove deletes a collection entirely. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	if s.medium == nil {
		s.logger.Debug("No storage medium, skipping remove", zap.String("key", key))
		return
	}
	if err := s.medium.Remove(key); err != nil {
		s.logger.Warn("Error removing collection from storage",
			zap.String("key", key),
			zap.Error(err))
	}
}

// readCollection loads key and decodes each record with decode. Any record
// that fails to decode makes the whole collection corrupt.
func readCollection[R, T any](s *Store, key string, decode func(R) (T, error)) readResult[T] {
	res := readResult[T]{items: []T{}}

	if s.medium == nil {
		res.status = statusUnavailable
		s.logger.Debug("No storage medium, reading empty collection", zap.String("key", key))
		return res
	}

	text, found, err := s.medium.Get(key)
	if err != nil {
		res.status, res.err = statusFailed, err
		s.logger.Warn("Error loading collection from storage",
			zap.String("key", key),
			zap.Error(err))
		return res
	}
	if !found || text == "" {
		res.status = statusMissing
		return res
	}

	var records []R
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		res.status, res.err = statusCorrupt, err
		s.logger.Warn("Error parsing collection from storage",
			zap.String("key", key),
			zap.Error(err))
		return res
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		item, err := decode(rec)
		if err != nil {
			res.status, res.err = statusCorrupt, err
			s.logger.Warn("Error parsing collection from storage",
				zap.String("key", key),
				zap.Error(err))
			return res
		}
		items = append(items, item)
	}

	res.items, res.status = items, statusOK
	return res
}

// writeCollection serializes items and overwrites key.
func writeCollection[T, R any](s *Store, key string, items []T, encode func(T) R) {
	if s.medium == nil {
		s.logger.Debug("No storage medium, discarding write", zap.String("key", key))
		return
	}

	records := make([]R, 0, len(items))
	for _, item := range items {
		records = append(records, encode(item))
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("Error saving collection to storage",
			zap.String("key", key),
			zap.Error(err))
		return
	}

	if err := s.medium.Set(key, string(data)); err != nil {
		s.logger.Warn("Error saving collection to storage",
			zap.String("key", key),
			zap.Error(err))
	}
}
