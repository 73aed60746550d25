package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kpitrack/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kpitrack storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	// An explicit --data-dir is recorded so later runs find the same data.
	dataDir := ""
	if a.flags.dataDir != "" {
		if dataDir, err = filepath.Abs(a.flags.dataDir); err != nil {
			return sysError("resolve data dir: %w", err)
		}
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), dataDir); err != nil {
		return sysError("write config: %w", err)
	}

	s, err := a.open()
	if err != nil {
		return err
	}
	backend, dir := s.settings.Tracker.Backend, s.settings.Tracker.DataDir
	s.close()

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]string{
			"config_dir": configDir,
			"data_dir":   dir,
			"backend":    backend,
		})
	}
	fmt.Fprintf(out, "kpitrack initialized (%s backend, data in %s)\n", backend, dir)
	return nil
}
