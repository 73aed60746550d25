// Package kpitrack provides the public API for kpitrack storage.
// This package exposes the factory functions for creating trackers while
// keeping implementation details internal.
package kpitrack

import (
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/internal/tracker"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Version is the kpitrack release version.
const Version = "0.1.0"

// NewTracker creates a new tracker instance logging to logger (nil for no
// logging). The tracker is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	t := kpitrack.NewTracker(nil)
//	err := t.Attach(types.Config{
//	    Backend: types.BackendFile,
//	    DataDir: ".kpitrack-db",
//	})
//	defer t.Detach()
func NewTracker(logger *zap.Logger) types.Tracker {
	return tracker.NewBackend(tracker.WithLogger(logger))
}

// Open creates a tracker and attaches it to config.
func Open(config types.Config, logger *zap.Logger) (types.Tracker, error) {
	t := NewTracker(logger)
	if err := t.Attach(config); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteSnapshot writes data in the JSON snapshot format read by ReadSnapshot.
func WriteSnapshot(w io.Writer, data types.ExportData) error {
	return tracker.EncodeSnapshot(w, data)
}

// ReadSnapshot parses a JSON snapshot.
func ReadSnapshot(r io.Reader) (types.ExportData, error) {
	return tracker.DecodeSnapshot(r)
}
