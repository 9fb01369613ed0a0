package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Input   InputConfig   `toml:"input"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	FixedTimestep time.Duration `toml:"fixed_timestep"`
	MaxFrameTime  time.Duration `toml:"max_frame_time"` // catch-up clamp per frame
	LoopBuffer    int           `toml:"loop_buffer"`
	TPS           int           `toml:"tps"`
}

type InputConfig struct {
	BufferSize int `toml:"buffer_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			FixedTimestep: time.Second / 120,
			MaxFrameTime:  250 * time.Millisecond,
			LoopBuffer:    64,
			TPS:           60,
		},
		Input: InputConfig{
			BufferSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// BuildLogger constructs the zap logger described by the logging section.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Logging.Level, err)
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
