package medium

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// backends returns a fresh instance of every medium implementation.
func backends(t *testing.T) map[string]types.Medium {
	t.Helper()

	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	lite, err := NewSQLite(t.TempDir())
	require.NoError(t, err)

	srv := miniredis.RunT(t)
	red, err := NewRedis(types.RedisConfig{Addr: srv.Addr(), Prefix: "test:"})
	require.NoError(t, err)

	return map[string]types.Medium{
		types.BackendMemory: NewMemory(),
		types.BackendFile:   file,
		types.BackendSQLite: lite,
		types.BackendRedis:  red,
	}
}

func TestMediumConformance(t *testing.T) {
	for name, m := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer m.Close()

			_, found, err := m.Get("kpi-tracker-kpis")
			require.NoError(t, err)
			assert.False(t, found, "fresh medium should have no value")

			require.NoError(t, m.Set("kpi-tracker-kpis", `[{"id":"a"}]`))
			v, found, err := m.Get("kpi-tracker-kpis")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"a"}]`, v)

			// Set overwrites the whole value.
			require.NoError(t, m.Set("kpi-tracker-kpis", `[]`))
			v, _, err = m.Get("kpi-tracker-kpis")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			// Keys are independent.
			require.NoError(t, m.Set("kpi-tracker-entries", `[1]`))
			v, _, err = m.Get("kpi-tracker-kpis")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, m.Remove("kpi-tracker-kpis"))
			_, found, err = m.Get("kpi-tracker-kpis")
			require.NoError(t, err)
			assert.False(t, found)

			// Removing a missing key succeeds.
			require.NoError(t, m.Remove("kpi-tracker-kpis"))

			// Empty string is a stored value, not an absent one.
			require.NoError(t, m.Set("empty", ""))
			v, found, err = m.Get("empty")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "", v)
		})
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("k", "v"))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, _, err := m.Get("k")
	assert.ErrorIs(t, err, types.ErrMediumClosed)
	assert.ErrorIs(t, m.Set("k", "v"), types.ErrMediumClosed)
	assert.ErrorIs(t, m.Remove("k"), types.ErrMediumClosed)
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set("kpi-tracker-kpis", "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "kpi-tracker-kpis.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// No temp files are left behind after an atomic write.
	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, n := range names {
		assert.False(t, strings.HasSuffix(n.Name(), ".tmp"), "leftover temp file %s", n.Name())
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape", `a\b`, "a/b"} {
		assert.Error(t, f.Set(key, "x"), "key %q", key)
		_, _, err := f.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("kpi-tracker-entries", `[{"id":"e1"}]`))
	require.NoError(t, first.Close())

	second, err := NewSQLite(dir)
	require.NoError(t, err)
	defer second.Close()

	v, found, err := second.Get("kpi-tracker-entries")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"e1"}]`, v)
	assert.Equal(t, filepath.Join(dir, "kpitrack.db"), second.Path())
}

func TestRedisPrefix(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := NewRedis(types.RedisConfig{Addr: srv.Addr(), Prefix: "kpitrack:"})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Set("kpi-tracker-kpis", "[]"))

	got, err := srv.Get("kpitrack:kpi-tracker-kpis")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRedisUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedis(types.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		want    any
		wantErr error
	}{
		{
			name:   "memory",
			config: types.Config{Backend: types.BackendMemory},
			want:   &Memory{},
		},
		{
			name:   "file",
			config: types.Config{Backend: types.BackendFile, DataDir: t.TempDir()},
			want:   &File{},
		},
		{
			name:   "sqlite",
			config: types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()},
			want:   &SQLite{},
		},
		{
			name:    "empty backend",
			config:  types.Config{},
			wantErr: types.ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  types.Config{Backend: "mongo"},
			wantErr: types.ErrBackendUnknown,
		},
		{
			name:    "redis without address",
			config:  types.Config{Backend: types.BackendRedis},
			wantErr: types.ErrRedisAddrEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Open(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			defer m.Close()
			assert.IsType(t, tt.want, m)
		})
	}
}
