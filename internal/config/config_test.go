package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dealscout.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "https://api.firecrawl.dev/v1", cfg.Firecrawl.BaseURL)
	assert.Equal(t, "https://api.producthunt.com/v2/api/graphql", cfg.ProductHunt.BaseURL)
	assert.Equal(t, 2, cfg.Crawl.Concurrency)
	assert.Equal(t, 5, cfg.Crawl.MiniBatchDelaySecs)
	assert.Equal(t, 20, cfg.Crawl.SuperBatchSize)
	assert.Equal(t, 45, cfg.Crawl.SuperBatchDelaySecs)
	assert.Equal(t, 50, cfg.Crawl.MaxProducts)
	assert.Equal(t, "fast", cfg.Crawl.Mode)
	assert.Equal(t, 24, cfg.Crawl.CacheTTLHours)

	assert.Equal(t, 5*time.Second, cfg.Crawl.MiniBatchDelay())
	assert.Equal(t, 45*time.Second, cfg.Crawl.SuperBatchDelay())
	assert.Equal(t, 24*time.Hour, cfg.Crawl.CacheTTL())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
store:
  path: /tmp/ds.db
log:
  level: debug
  format: console
server:
  port: 9090
crawl:
  concurrency: 4
  mode: complete
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ds.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Crawl.Concurrency)
	assert.Equal(t, "complete", cfg.Crawl.Mode)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Crawl.SuperBatchSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
log:
  level: debug
crawl:
  max_products: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DEALSCOUT_LOG_LEVEL", "warn")
	t.Setenv("DEALSCOUT_CRAWL_MAX_PRODUCTS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Crawl.MaxProducts)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("DEALSCOUT_SERVER_PORT", "3000")
	t.Setenv("DEALSCOUT_FIRECRAWL_KEY", "fc-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "fc-test", cfg.Firecrawl.Key)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Crawl.Concurrency = 2
	cfg.Crawl.MaxProducts = 50
	cfg.Crawl.Mode = "fast"
	cfg.Server.Port = 3001
	return cfg
}

func TestValidateCrawl(t *testing.T) {
	cfg := validDefaults()
	cfg.Firecrawl.Key = "fc-key"
	assert.NoError(t, cfg.Validate("crawl"))
}

func TestValidateCrawl_MissingKey(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("crawl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "firecrawl.key is required")
}

func TestValidateCrawl_Bounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Firecrawl.Key = "fc-key"

	cfg.Crawl.Concurrency = 0
	err := cfg.Validate("crawl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "crawl.concurrency must be between 1 and 10")

	cfg.Crawl.Concurrency = 2
	cfg.Crawl.MaxProducts = 101
	err = cfg.Validate("crawl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "crawl.max_products must be between 1 and 100")

	cfg.Crawl.MaxProducts = 100
	cfg.Crawl.Mode = "turbo"
	err = cfg.Validate("crawl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "crawl.mode must be fast or complete")
}

func TestValidateTrending(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("trending")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "producthunt.key is required")

	cfg.ProductHunt.Key = "ph-key"
	assert.NoError(t, cfg.Validate("trending"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Firecrawl.Key = "fc-key"
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
