// Package config loads the server and client configuration: a YAML file
// layered over embedded defaults, plus secrets taken from the environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Mode      string          `yaml:"mode"`
	Store     string          `yaml:"store"`
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Game      GameConfig      `yaml:"game"`
	Render    mines.Style     `yaml:"render"`
	Hub       HubConfig       `yaml:"hub"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type WebSocketConfig struct {
	ReadBufferSize  int   `yaml:"read_buffer_size"`
	WriteBufferSize int   `yaml:"write_buffer_size"`
	ReadLimit       int64 `yaml:"read_limit"`
}

type GameConfig struct {
	Defaults mines.Params  `yaml:"defaults"`
	MaxCells int           `yaml:"max_cells"` // upper bound on rows*cols per session
	Rewards  mines.Rewards `yaml:"rewards"`
}

type HubConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Interval time.Duration `yaml:"interval"`
}

type JWTConfig struct {
	TokenLifetime time.Duration `yaml:"token_lifetime"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type TelemetryConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the embedded defaults and then, if path is not empty, the file
// at path on top of them. Keys missing from the file keep their defaults.
// A set DEVELOPMENT env variable forces development mode.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if Development() {
		cfg.Mode = "development"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.Game.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game.defaults: %w", err))
	}
	if c.Game.MaxCells > 0 && c.Game.Defaults.Rows*c.Game.Defaults.Cols > c.Game.MaxCells {
		errs = append(errs, fmt.Errorf("game.defaults exceed game.max_cells (%d)", c.Game.MaxCells))
	}
	if c.Store != StoreMemory && c.Store != StorePostgres {
		errs = append(errs, fmt.Errorf("store must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store))
	}
	if c.Hub.TTL <= 0 || c.Hub.Interval <= 0 {
		errs = append(errs, errors.New("hub.ttl and hub.interval must be positive"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":          c.Mode,
		"store":         c.Store,
		"addr":          c.Server.Addr,
		"game_rows":     c.Game.Defaults.Rows,
		"game_cols":     c.Game.Defaults.Cols,
		"game_bombs":    c.Game.Defaults.Bombs,
		"hub_ttl":       c.Hub.TTL.String(),
		"jwt_lifetime":  c.JWT.TokenLifetime.String(),
		"log_level":     c.Log.Level,
		"log_file":      c.Log.File,
		"telemetry_dir": c.Telemetry.Dir,
	}
}

func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
