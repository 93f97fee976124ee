package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gifsicle", cfg.GifsicleBin)
	assert.NotEmpty(t, cfg.TempDir, "empty TEMP_DIR falls back to the system temp dir")
	assert.Equal(t, 500.0, cfg.TargetSizeKB)
	assert.Equal(t, 10, cfg.MinFramePercent)
	assert.Zero(t, cfg.WorkerCount)
	assert.Equal(t, []int{30, 60, 90, 120, 150, 180, 210, 240}, cfg.LossyLevels)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GIFSICLE_BIN", "/opt/tools/gifsicle")
	t.Setenv("TEMP_DIR", "/scratch")
	t.Setenv("TARGET_SIZE_KB", "128.5")
	t.Setenv("MIN_FRAME_PERCENT", "25")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("LOSSY_LEVELS", "20,40")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ADDR", ":9104")
	t.Setenv("OTLP_ENDPOINT", "http://otel-collector:4318")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/tools/gifsicle", cfg.GifsicleBin)
	assert.Equal(t, "/scratch", cfg.TempDir)
	assert.Equal(t, 128.5, cfg.TargetSizeKB)
	assert.Equal(t, 25, cfg.MinFramePercent)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, []int{20, 40}, cfg.LossyLevels)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9104", cfg.MetricsAddr)
	assert.Equal(t, "http://otel-collector:4318", cfg.OTLPEndpoint)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("TARGET_SIZE_KB", "lots")

	_, err := Load()
	require.Error(t, err)
}
