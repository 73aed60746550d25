package tracker

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kpitrack/internal/medium"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	require.NoError(t, b.Attach(config))
	assert.FileExists(t, filepath.Join(tmpDir, "kpitrack.db"))

	err := b.Attach(config)
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)

	require.NoError(t, b.Detach())
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "localstorage"}, types.ErrBackendUnknown},
		{"unknown value cache", types.Config{Backend: types.BackendMemory, ValueCache: "newest"}, types.ErrValueCacheUnknown},
		{"redis without addr", types.Config{Backend: types.BackendRedis}, types.ErrRedisAddrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			err := b.Attach(tt.config)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = b.KPIs()
			assert.ErrorIs(t, err, types.ErrTrackerDetached)
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.KPIs()
	assert.ErrorIs(t, err, types.ErrTrackerDetached)
	_, err = b.Entries()
	assert.ErrorIs(t, err, types.ErrTrackerDetached)
	_, err = b.Snapshots()
	assert.ErrorIs(t, err, types.ErrTrackerDetached)
}

func TestBackend_ReattachFileBackendKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendFile, DataDir: tmpDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	kpis, err := b.KPIs()
	require.NoError(t, err)
	created := kpis.Create(revenueForm())
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(config))
	defer b.Detach()
	kpis, err = b.KPIs()
	require.NoError(t, err)

	got, ok := kpis.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Name, got.Name)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestBackend_WithMediumIsNotClosed(t *testing.T) {
	m := medium.NewMemory()

	b := NewBackend(WithMedium(m))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	kpis, err := b.KPIs()
	require.NoError(t, err)
	kpis.Create(revenueForm())
	require.NoError(t, b.Detach())

	_, ok, err := m.Get("kpi-tracker-kpis")
	require.NoError(t, err, "injected medium must stay open after Detach")
	assert.True(t, ok)
}

func TestBackend_Config(t *testing.T) {
	b := NewBackend()
	config := types.Config{Backend: types.BackendMemory, ValueCache: types.ValueCacheLatestDate}
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	assert.Equal(t, config, b.Config())
}
