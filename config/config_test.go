package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tun, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), tun)
}

func TestLoadOverridesOnlyNamedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("scheduler:\n  cleanup_threshold: 25\n  speed_scaling: true\nworld:\n  monsters: 3\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	tun, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(25), tun.Scheduler.CleanupThreshold)
	require.True(t, tun.Scheduler.SpeedScaling)
	require.Equal(t, 3, tun.World.Monsters)

	// Untouched keys keep defaults.
	require.Equal(t, Default().Scheduler.MaxTurnsPerPass, tun.Scheduler.MaxTurnsPerPass)
	require.Equal(t, Default().World.Width, tun.World.Width)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler: [oops"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
