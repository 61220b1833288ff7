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

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)

	wc := cfg.GetWarehouseConfig()
	assert.Equal(t, "duckdb", wc.Type)
	assert.Equal(t, DefaultWarehousePath, wc.Path)
	assert.Equal(t, DefaultServerPort, cfg.GetServerConfig().Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gridstats.yaml")
	content := `
data_dir: csvcache
output: json
warehouse:
  type: postgres
  host: db.internal
  port: 5433
  database: nfl
server:
  port: 9000
  watch: true
nflverse:
  max_attempts: 5
  backoff: 2s
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "gridstats.yaml", GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "csvcache"), cfg.DataDir)
	assert.Equal(t, "json", cfg.OutputFormat)

	wc := cfg.GetWarehouseConfig()
	assert.Equal(t, "postgres", wc.Type)
	assert.Equal(t, "db.internal", wc.Host)
	assert.Equal(t, 5433, wc.Port)
	assert.Equal(t, "nfl", wc.Database)

	srv := cfg.GetServerConfig()
	assert.Equal(t, 9000, srv.Port)
	assert.True(t, srv.Watch)

	nv := cfg.GetNFLVerseConfig()
	assert.Equal(t, 5, nv.MaxAttempts)
	assert.Equal(t, 2*time.Second, nv.BackoffDuration())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	content := "output: json\ndata_dir: fromfile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridstats.yaml"), []byte(content), 0600))
	t.Chdir(dir)
	t.Setenv("GRIDSTATS_OUTPUT", "csv")
	t.Setenv("GRIDSTATS_WAREHOUSE__TYPE", "duckdb")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(dir, "fromfile"), cfg.DataDir)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("GRIDSTATS_OUTPUT", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", DefaultOutput, "")
	flags.String("state", "", "")
	flags.String("warehouse-type", "", "")
	require.NoError(t, flags.Parse([]string{
		"--output", "md",
		"--state", "/tmp/gs.db",
		"--warehouse-type", "duckdb",
	}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "md", cfg.OutputFormat)
	assert.Equal(t, "/tmp/gs.db", cfg.StatePath)
	assert.Equal(t, "duckdb", cfg.GetWarehouseConfig().Type)
}

func TestLoadConfigUnchangedFlagIgnored(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	// Flag default must not shadow the config default resolution.
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "unknown warehouse type",
			content: "warehouse:\n  type: oracle\n",
			errSub:  "unknown warehouse type",
		},
		{
			name:    "postgres without database",
			content: "warehouse:\n  type: postgres\n",
			errSub:  "database is required",
		},
		{
			name:    "bad output format",
			content: "output: xml\n",
			errSub:  "invalid output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "gridstats.yaml"), []byte(tt.content), 0600))
			t.Chdir(dir)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestBackoffDuration(t *testing.T) {
	assert.Equal(t, DefaultBackoff, (&NFLVerseConfig{}).BackoffDuration())
	assert.Equal(t, DefaultBackoff, (&NFLVerseConfig{Backoff: "nope"}).BackoffDuration())
	assert.Equal(t, time.Second, (&NFLVerseConfig{Backoff: "1s"}).BackoffDuration())
}
