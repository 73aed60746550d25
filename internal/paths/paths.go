// Package paths resolves the configuration, data and export directories of
// the kpitrack command.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user platform directories.
const appName = "kpitrack"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".kpitrack-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "KPITRACK_CONFIG_DIR"
	EnvDataDir   = "KPITRACK_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/kpitrack (fallback ~/.config/kpitrack)
// macOS:   ~/Library/Application Support/kpitrack
// Windows: %APPDATA%/kpitrack
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// xdgDir returns $env/kpitrack, or ~/fallback/kpitrack when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > KPITRACK_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > KPITRACK_DATA_DIR env > $(CWD)/.kpitrack-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return filepath.Abs(DefaultDataDirName)
}

// ResolveExportDir returns where report files are written: flag >
// configYAMLValue > the working directory.
func ResolveExportDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return os.Getwd()
}
