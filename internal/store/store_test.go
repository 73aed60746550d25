package store

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/kpitrack/internal/medium"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// brokenMedium fails every operation.
type brokenMedium struct{}

var errBroken = errors.New("quota exceeded")

func (brokenMedium) Get(string) (string, bool, error) { return "", false, errBroken }
func (brokenMedium) Set(string, string) error         { return errBroken }
func (brokenMedium) Remove(string) error              { return errBroken }
func (brokenMedium) Close() error                     { return nil }

// setupTestLogger creates a test logger with an observer to capture log entries.
func setupTestLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func ptr[T any](v T) *T {
	return &v
}

func sampleKPIs() []types.KPI {
	created := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)
	return []types.KPI{
		{
			ID:          "k1",
			Name:        "Revenue",
			Description: "Monthly revenue, in dollars",
			Value:       1250.5,
			Target:      ptr(2000.0),
			Unit:        "$",
			Category:    types.CategoryFinancial,
			Color:       "#3B82F6",
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
		},
		{
			ID:        "k2",
			Name:      "NPS",
			Value:     0,
			Unit:      "pts",
			Category:  types.CategoryCustomer,
			Color:     "#10B981",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func assertKPIsEqual(t *testing.T, want, got []types.KPI) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "createdAt %d: %v != %v", i, w.CreatedAt, g.CreatedAt)
		assert.True(t, w.UpdatedAt.Equal(g.UpdatedAt), "updatedAt %d: %v != %v", i, w.UpdatedAt, g.UpdatedAt)
		w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
		w.UpdatedAt, g.UpdatedAt = time.Time{}, time.Time{}
		assert.Equal(t, w, g)
	}
}

func TestKPIRoundTrip(t *testing.T) {
	s := New(medium.NewMemory(), nil)

	want := sampleKPIs()
	s.WriteKPIs(want)
	assertKPIsEqual(t, want, s.ReadKPIs())
}

func TestEntryRoundTrip(t *testing.T) {
	s := New(medium.NewMemory(), nil)

	local := time.FixedZone("CET", 3600)
	want := []types.KPIEntry{
		{ID: "e1", KPIID: "k1", Value: 500, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, local), Note: "opening, \"week\""},
		{ID: "e2", KPIID: "k1", Value: -3.25, Date: time.Date(2023, 12, 1, 12, 30, 0, 0, time.UTC)},
	}
	s.WriteEntries(want)

	got := s.ReadEntries()
	require.Len(t, got, 2)
	for i := range want {
		assert.True(t, want[i].Date.Equal(got[i].Date))
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].KPIID, got[i].KPIID)
		assert.Equal(t, want[i].Value, got[i].Value)
		assert.Equal(t, want[i].Note, got[i].Note)
	}
}

func TestStoredLayout(t *testing.T) {
	m := medium.NewMemory()
	s := New(m, nil)

	s.WriteEntries([]types.KPIEntry{
		{ID: "e1", KPIID: "k1", Value: 500, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	text, found, err := m.Get(EntriesKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"e1","kpiId":"k1","value":500,"date":"2024-01-01T00:00:00Z"}]`, text)

	s.WriteKPIs(sampleKPIs()[1:])
	text, _, err = m.Get(KPIsKey)
	require.NoError(t, err)
	assert.NotContains(t, text, "description", "empty description is omitted")
	assert.NotContains(t, text, "target", "absent target is omitted")
}

func TestReadsMillisecondISOTimestamps(t *testing.T) {
	m := medium.NewMemory()
	require.NoError(t, m.Set(KPIsKey, `[{"id":"1700000000000-abc123def","name":"Revenue","value":0,"unit":"$",`+
		`"category":"Financial","color":"#3B82F6","createdAt":"2024-01-01T10:00:00.000Z","updatedAt":"2024-01-02T10:00:00.500Z"}]`))

	kpis := New(m, nil).ReadKPIs()
	require.Len(t, kpis, 1)
	assert.True(t, kpis[0].CreatedAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, kpis[0].UpdatedAt.Equal(time.Date(2024, 1, 2, 10, 0, 0, 500_000_000, time.UTC)))
	assert.Nil(t, kpis[0].Target)
}

func TestEmptyListEncodesAsArray(t *testing.T) {
	m := medium.NewMemory()
	s := New(m, nil)

	s.WriteKPIs(nil)
	text, found, err := m.Get(KPIsKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "[]", text)
	assert.Empty(t, s.ReadKPIs())
	assert.NotNil(t, s.ReadKPIs())
}

func TestReadStatus(t *testing.T) {
	tests := []struct {
		name       string
		medium     types.Medium
		stored     string
		wantStatus readStatus
		wantLen    int
		wantWarn   bool
	}{
		{
			name:       "valid collection",
			medium:     medium.NewMemory(),
			stored:     `[{"id":"e1","kpiId":"k1","value":1,"date":"2024-01-01T00:00:00Z"}]`,
			wantStatus: statusOK,
			wantLen:    1,
		},
		{
			name:       "missing key",
			medium:     medium.NewMemory(),
			wantStatus: statusMissing,
		},
		{
			name:       "malformed JSON",
			medium:     medium.NewMemory(),
			stored:     `[{"id":`,
			wantStatus: statusCorrupt,
			wantWarn:   true,
		},
		{
			name:       "wrong shape",
			medium:     medium.NewMemory(),
			stored:     `{"id":"e1"}`,
			wantStatus: statusCorrupt,
			wantWarn:   true,
		},
		{
			name:       "bad timestamp",
			medium:     medium.NewMemory(),
			stored:     `[{"id":"e1","kpiId":"k1","value":1,"date":"yesterday"}]`,
			wantStatus: statusCorrupt,
			wantWarn:   true,
		},
		{
			name:       "null collection",
			medium:     medium.NewMemory(),
			stored:     `null`,
			wantStatus: statusOK,
		},
		{
			name:       "medium error",
			medium:     brokenMedium{},
			wantStatus: statusFailed,
			wantWarn:   true,
		},
		{
			name:       "no medium",
			medium:     nil,
			wantStatus: statusUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stored != "" {
				require.NoError(t, tt.medium.Set(EntriesKey, tt.stored))
			}
			logger, logs := setupTestLogger(t)
			s := New(tt.medium, logger)

			res := readCollection(s, EntriesKey, decodeEntry)
			assert.Equal(t, tt.wantStatus, res.status, "status %s", res.status)
			assert.Len(t, res.items, tt.wantLen)
			assert.NotNil(t, res.items)

			warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
			if tt.wantWarn {
				require.Len(t, warnings, 1)
				assert.Equal(t, EntriesKey, warnings[0].ContextMap()["key"])
				assert.Error(t, res.err)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestWriteFailureIsLoggedAndSwallowed(t *testing.T) {
	logger, logs := setupTestLogger(t)
	s := New(brokenMedium{}, logger)

	s.WriteKPIs(sampleKPIs())
	s.Remove(KPIsKey)

	warnings := logs.FilterMessage("Error saving collection to storage").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, KPIsKey, warnings[0].ContextMap()["key"])
	assert.Len(t, logs.FilterMessage("Error removing collection from storage").All(), 1)
}

func TestNoMediumIsIndistinguishableFromEmpty(t *testing.T) {
	unavailable := New(nil, nil)
	empty := New(medium.NewMemory(), nil)

	unavailable.WriteKPIs(sampleKPIs())
	unavailable.Remove(KPIsKey)

	assert.Equal(t, empty.ReadKPIs(), unavailable.ReadKPIs())
	assert.Equal(t, empty.ReadEntries(), unavailable.ReadEntries())
}

func TestNaNValueWriteIsDropped(t *testing.T) {
	m := medium.NewMemory()
	logger, logs := setupTestLogger(t)
	s := New(m, logger)

	s.WriteEntries([]types.KPIEntry{{ID: "ok", KPIID: "k", Value: 1}})
	s.WriteEntries([]types.KPIEntry{{ID: "bad", KPIID: "k", Value: math.NaN()}})

	got := s.ReadEntries()
	require.Len(t, got, 1, "failed write leaves the previous value in place")
	assert.Equal(t, "ok", got[0].ID)
	assert.Len(t, logs.FilterMessage("Error saving collection to storage").All(), 1)
}
