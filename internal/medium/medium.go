// Package medium implements the durable key-value backends that the
// persistence store reads from and writes to: memory, JSON files, SQLite and
// Redis.
package medium

import (
	"fmt"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Data file names used under Config.DataDir.
const (
	sqliteFile = "kpitrack.db"
)

// Open returns the medium selected by cfg.Backend. The caller must Close it.
func Open(cfg types.Config) (types.Medium, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFile:
		return NewFile(dataDir)
	case types.BackendSQLite:
		return NewSQLite(dataDir)
	case types.BackendRedis:
		return NewRedis(cfg.Redis)
	default:
		return nil, fmt.Errorf("open medium %q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}
