package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25*time.Minute, cfg.Timer.WorkDuration())
	assert.Equal(t, 5*time.Minute, cfg.Timer.BreakDuration())
	assert.Equal(t, 250*time.Millisecond, cfg.Timer.TickInterval())
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.Timer.WorkMinutes = 0
	cfg.Timer.TickIntervalMs = 5000

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "timer.work_minutes")
	assert.Contains(t, err.Error(), "timer.tick_interval_ms")
	assert.NotContains(t, err.Error(), "timer.break_minutes")
}

func TestLoad_UsesViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("timer.work_minutes", 50)
	viper.Set("storage.backend", "diskv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.Equal(t, "diskv", cfg.Storage.Backend)
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	cfg := Default()

	dir, err := cfg.Storage.DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "pomo"), dir)

	logFile, err := cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "pomo", "pomo.log"), logFile)

	cfg.Storage.Path = "/srv/pomo"
	dir, err = cfg.Storage.DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/pomo", dir)
}
