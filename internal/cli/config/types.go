// Package config provides configuration management for the gridstats CLI.
//
// Configuration is layered: built-in defaults, then gridstats.yaml, then
// GRIDSTATS_* environment variables, then explicit CLI flags. The loaded
// Config is stored package-side so commands can reach it without
// re-parsing.
package config

import (
	"time"

	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// WarehouseConfig selects and configures the analytical database.
type WarehouseConfig struct {
	Type     string `koanf:"type"`
	Path     string `koanf:"path"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// NFLVerseConfig tunes the upstream download client.
type NFLVerseConfig struct {
	BaseURL     string `koanf:"base_url"`
	MaxAttempts int    `koanf:"max_attempts"`
	Backoff     string `koanf:"backoff"`
	Concurrency int    `koanf:"concurrency"`
}

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string           `koanf:"data_dir"`
	StatePath    string           `koanf:"state_path"`
	Verbose      bool             `koanf:"verbose"`
	OutputFormat string           `koanf:"output"`
	Warehouse    *WarehouseConfig `koanf:"warehouse"`
	Server       *ServerConfig    `koanf:"server"`
	NFLVerse     *NFLVerseConfig  `koanf:"nflverse"`
}

// Default configuration values.
const (
	DefaultDataDir       = "data"
	DefaultStateFile     = ".gridstats/state.db"
	DefaultWarehouseType = "duckdb"
	DefaultWarehousePath = ".gridstats/gridstats.duckdb"
	DefaultServerPort    = 8799
	DefaultOutput        = "table"
	DefaultMaxAttempts   = 3
	DefaultBackoff       = 500 * time.Millisecond
)

// GetWarehouseConfig returns the warehouse config with defaults applied
// for any unset values.
func (c *Config) GetWarehouseConfig() warehouse.Config {
	wc := c.Warehouse
	if wc == nil {
		wc = &WarehouseConfig{}
	}
	cfg := warehouse.Config{
		Type:     wc.Type,
		Path:     wc.Path,
		Host:     wc.Host,
		Port:     wc.Port,
		Database: wc.Database,
		Username: wc.Username,
		Password: wc.Password,
	}
	if cfg.Type == "" {
		cfg.Type = DefaultWarehouseType
	}
	if cfg.Type == "duckdb" && cfg.Path == "" {
		cfg.Path = DefaultWarehousePath
	}
	return cfg
}

// GetServerConfig returns the server config with defaults applied.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return &ServerConfig{Port: DefaultServerPort}
	}
	srv := c.Server
	if srv.Port == 0 {
		srv.Port = DefaultServerPort
	}
	return srv
}

// GetNFLVerseConfig returns the nflverse config with defaults applied.
func (c *Config) GetNFLVerseConfig() *NFLVerseConfig {
	if c.NFLVerse == nil {
		return &NFLVerseConfig{MaxAttempts: DefaultMaxAttempts}
	}
	nv := c.NFLVerse
	if nv.MaxAttempts == 0 {
		nv.MaxAttempts = DefaultMaxAttempts
	}
	return nv
}

// BackoffDuration parses the configured backoff, falling back to the
// default on empty or malformed values.
func (n *NFLVerseConfig) BackoffDuration() time.Duration {
	if n.Backoff == "" {
		return DefaultBackoff
	}
	d, err := time.ParseDuration(n.Backoff)
	if err != nil || d <= 0 {
		return DefaultBackoff
	}
	return d
}
