// Package config loads httpmsg settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the tool settings. Command-line flags override them.
type Config struct {
	// Logging
	LogLevel  string `env:"HTTPMSG_LOG_LEVEL"   envDefault:"info"`
	LogFormat string `env:"HTTPMSG_LOG_FORMAT"  envDefault:"console"` // console or json

	// CGI loading
	EnvFile   string `env:"HTTPMSG_ENV_FILE"`
	MaxBody   int64  `env:"HTTPMSG_MAX_BODY"    envDefault:"10485760"`
	UploadDir string `env:"HTTPMSG_UPLOAD_DIR"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Logger builds a logger writing to stderr at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var zc zap.Config
	switch c.LogFormat {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
