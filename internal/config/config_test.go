package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.MaxSnapshots)
	assert.Equal(t, time.Second/60, cfg.FrameInterval())
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := writeFile(t, "corvid.yaml", `
log_level: warn
max_snapshots: 50
cull_interval: 250ms
frame_budget: 8ms
`)

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 50, cfg.MaxSnapshots)
		assert.Equal(t, 250*time.Millisecond, cfg.CullInterval)
		assert.Equal(t, 8*time.Millisecond, cfg.FrameBudget)
		assert.Equal(t, Default().FrameRate, cfg.FrameRate, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeFile(t, "corvid.yaml", "max_snapshots: 50\n")
		t.Setenv("CORVID_MAX_SNAPSHOTS", "7")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxSnapshots)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("CORVID_MAX_SNAPSHOTS", "7")
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs)
		require.NoError(t, fs.Parse([]string{"--max-snapshots=3", "--frame-rate=30"}))

		cfg, err := Load("", fs)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.MaxSnapshots)
		assert.Equal(t, 30, cfg.FrameRate)
		assert.Equal(t, Default().Frames, cfg.Frames)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, "corvid.yaml", "max_snapshots: 0\nlog_level: loud\n")

		_, err := Load(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_snapshots must be positive")
		assert.Contains(t, err.Error(), "log_level")
	})
}
