package config

import (
	"fmt"

	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	wc := c.GetWarehouseConfig()
	if !warehouse.IsRegistered(wc.Type) {
		return fmt.Errorf("unknown warehouse type %q (supported: %v)", wc.Type, warehouse.ListAdapters())
	}
	if wc.Type == "postgres" && wc.Database == "" {
		return fmt.Errorf("warehouse.database is required for postgres")
	}

	switch c.OutputFormat {
	case "", "auto", "table", "json", "csv", "md", "markdown":
	default:
		return fmt.Errorf("invalid output format %q (use table, json, csv, or md)", c.OutputFormat)
	}

	srv := c.GetServerConfig()
	if srv.Port < 0 || srv.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", srv.Port)
	}
	return nil
}
