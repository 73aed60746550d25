package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kpitrack/internal/logging"
	"github.com/mesh-intelligence/kpitrack/internal/paths"
	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "KPITRACK"
)

// Config keys.
const (
	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeyExportDir        = "export_dir"
	cfgKeyLogLevel         = "log_level"
	cfgKeyValueCache       = "value_cache"
	cfgKeyStrictReferences = "strict_references"
	cfgKeyRedisAddr        = "redis.addr"
	cfgKeyRedisPassword    = "redis.password"
	cfgKeyRedisDB          = "redis.db"
	cfgKeyRedisPrefix      = "redis.prefix"
	cfgKeyRedisDialTimeout = "redis.dial_timeout"
)

// envKeys are the keys that KPITRACK_* variables may override. data_dir is
// left to paths.ResolveDataDir so the file value wins over the environment.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyExportDir,
	cfgKeyLogLevel,
	cfgKeyValueCache,
	cfgKeyStrictReferences,
	cfgKeyRedisAddr,
	cfgKeyRedisPassword,
	cfgKeyRedisDB,
	cfgKeyRedisPrefix,
	cfgKeyRedisDialTimeout,
}

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	Backend          string `yaml:"backend"`
	DataDir          string `yaml:"data_dir,omitempty"`
	LogLevel         string `yaml:"log_level"`
	ValueCache       string `yaml:"value_cache"`
	StrictReferences bool   `yaml:"strict_references"`
}

const configHeader = "# kpitrack configuration.\n" +
	"# Backends: file, sqlite, redis (set redis.addr), memory.\n"

func defaultConfigFile() configFile {
	return configFile{
		Backend:    types.BackendFile,
		LogLevel:   logging.DefaultLevel,
		ValueCache: types.ValueCacheInsertion,
	}
}

// settings is the resolved configuration of one command run.
type settings struct {
	ConfigDir string
	ExportDir string
	LogLevel  string
	Tracker   types.Config
}

// loadSettings resolves directories, reads config.yaml (creating it on first
// run) and applies flag overrides.
func (a *app) loadSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := v.GetString(cfgKeyBackend)
	if a.flags.backend != "" {
		backend = a.flags.backend
	}

	return settings{
		ConfigDir: configDir,
		ExportDir: v.GetString(cfgKeyExportDir),
		LogLevel:  v.GetString(cfgKeyLogLevel),
		Tracker: types.Config{
			Backend:          backend,
			DataDir:          dataDir,
			ValueCache:       v.GetString(cfgKeyValueCache),
			StrictReferences: v.GetBool(cfgKeyStrictReferences),
			Redis: types.RedisConfig{
				Addr:        v.GetString(cfgKeyRedisAddr),
				Password:    v.GetString(cfgKeyRedisPassword),
				DB:          v.GetInt(cfgKeyRedisDB),
				Prefix:      v.GetString(cfgKeyRedisPrefix),
				DialTimeout: v.GetDuration(cfgKeyRedisDialTimeout),
			},
		},
	}, nil
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	def := defaultConfigFile()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyValueCache, def.ValueCache)
	v.SetDefault(cfgKeyRedisPrefix, "kpitrack:")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
