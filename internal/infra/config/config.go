package config

import (
	"os"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	GifsicleBin string `env:"GIFSICLE_BIN" envDefault:"gifsicle"`
	TempDir     string `env:"TEMP_DIR"     envDefault:""`

	TargetSizeKB    float64 `env:"TARGET_SIZE_KB"    envDefault:"500"`
	MinFramePercent int     `env:"MIN_FRAME_PERCENT" envDefault:"10"`
	WorkerCount     int     `env:"WORKER_COUNT"      envDefault:"0"`
	LossyLevels     []int   `env:"LOSSY_LEVELS"      envDefault:"30,60,90,120,150,180,210,240"`

	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
	MetricsAddr  string `env:"METRICS_ADDR"  envDefault:""`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return cfg, nil
}
