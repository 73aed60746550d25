package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for Tracker.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ValueCache selects how KPI.Value follows new entries (ValueCacheInsertion
	// or ValueCacheLatestDate). Empty means ValueCacheInsertion.
	ValueCache string `json:"value_cache" yaml:"value_cache"`

	// StrictReferences makes entry creation reject unknown KPI ids.
	StrictReferences bool `json:"strict_references" yaml:"strict_references"`

	Redis RedisConfig `json:"redis" yaml:"redis"`
}

// RedisConfig holds connection parameters for the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`

	// DialTimeout bounds connecting and the initial PING. Zero means
	// DefaultRedisDialTimeout.
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// DefaultRedisDialTimeout applies when RedisConfig.DialTimeout is zero.
const DefaultRedisDialTimeout = 5 * time.Second

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Current-value cache modes.
const (
	ValueCacheInsertion  = "insertion"
	ValueCacheLatestDate = "latest_date"
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrValueCacheUnknown = errors.New("unknown value cache mode")
	ErrRedisAddrEmpty    = errors.New("redis backend requires an address")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendRedis:  true,
	BackendMemory: true,
}

var knownValueCaches = map[string]bool{
	"":                   true,
	ValueCacheInsertion:  true,
	ValueCacheLatestDate: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownValueCaches[c.ValueCache] {
		return ErrValueCacheUnknown
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}

// GetValueCache returns the effective value cache mode.
func (c Config) GetValueCache() string {
	if c.ValueCache == "" {
		return ValueCacheInsertion
	}
	return c.ValueCache
}
