package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kpitrack/internal/logging"
	"github.com/mesh-intelligence/kpitrack/internal/tracker"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// session is an attached tracker plus the settings it was opened with.
// The caller must defer close.
type session struct {
	settings  settings
	logger    *zap.Logger
	tracker   *tracker.Backend
	kpis      types.KPIRepository
	entries   types.EntryRepository
	snapshots types.SnapshotService
}

// open loads settings, builds the logger and attaches a tracker.
func (a *app) open() (*session, error) {
	s, err := a.loadSettings()
	if err != nil {
		return nil, sysError("load config: %w", err)
	}

	logger := a.logger
	if logger == nil {
		logger, err = logging.New(s.LogLevel)
		if err != nil {
			return nil, userError("config %s: %w", cfgKeyLogLevel, err)
		}
	}

	b := tracker.NewBackend(tracker.WithLogger(logger))
	if err := b.Attach(s.Tracker); err != nil {
		return nil, attachError(err)
	}

	// Accessors cannot fail on a freshly attached backend.
	kpis, _ := b.KPIs()
	entries, _ := b.Entries()
	snapshots, _ := b.Snapshots()

	return &session{
		settings:  s,
		logger:    logger,
		tracker:   b,
		kpis:      kpis,
		entries:   entries,
		snapshots: snapshots,
	}, nil
}

func (s *session) close() {
	if err := s.tracker.Detach(); err != nil {
		s.logger.Warn("Error detaching tracker", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// attachError classifies an Attach failure: a bad config value is the
// user's to fix, anything else is a system error.
func attachError(err error) error {
	for _, target := range []error{types.ErrBackendEmpty, types.ErrBackendUnknown, types.ErrValueCacheUnknown, types.ErrRedisAddrEmpty} {
		if errors.Is(err, target) {
			return userError("invalid configuration: %w", err)
		}
	}
	return sysError("attach tracker: %w", err)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// newTable returns a tabwriter for aligned plain-text listings.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTarget(t *float64) string {
	if t == nil {
		return "-"
	}
	return formatNumber(*t)
}

// checkFinite rejects NaN and infinities, which JSON cannot store.
func checkFinite(flag string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return userError("--%s must be a finite number", flag)
	}
	return nil
}

// parseDate accepts YYYY-MM-DD (midnight UTC) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, userError("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	return t.UTC(), nil
}
