// Package config loads application configuration from file and
// environment and wires the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Firecrawl   FirecrawlConfig   `yaml:"firecrawl" mapstructure:"firecrawl"`
	ProductHunt ProductHuntConfig `yaml:"producthunt" mapstructure:"producthunt"`
	Crawl       CrawlConfig       `yaml:"crawl" mapstructure:"crawl"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ProductHuntConfig holds Product Hunt API settings.
type ProductHuntConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CrawlConfig configures crawl pacing and extraction.
type CrawlConfig struct {
	Concurrency         int    `yaml:"concurrency" mapstructure:"concurrency"`
	MiniBatchDelaySecs  int    `yaml:"mini_batch_delay_secs" mapstructure:"mini_batch_delay_secs"`
	SuperBatchSize      int    `yaml:"super_batch_size" mapstructure:"super_batch_size"`
	SuperBatchDelaySecs int    `yaml:"super_batch_delay_secs" mapstructure:"super_batch_delay_secs"`
	MaxProducts         int    `yaml:"max_products" mapstructure:"max_products"`
	Mode                string `yaml:"mode" mapstructure:"mode"`
	CacheTTLHours       int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	VocabPath           string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// MiniBatchDelay returns the configured delay between mini-batches.
func (c CrawlConfig) MiniBatchDelay() time.Duration {
	return time.Duration(c.MiniBatchDelaySecs) * time.Second
}

// SuperBatchDelay returns the configured cooldown between super-batches.
func (c CrawlConfig) SuperBatchDelay() time.Duration {
	return time.Duration(c.SuperBatchDelaySecs) * time.Second
}

// CacheTTL returns the configured scrape cache lifetime.
func (c CrawlConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "dealscout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 3001)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.requests_per_minute", 0)
	v.SetDefault("producthunt.base_url", "https://api.producthunt.com/v2/api/graphql")
	v.SetDefault("crawl.concurrency", 2)
	v.SetDefault("crawl.mini_batch_delay_secs", 5)
	v.SetDefault("crawl.super_batch_size", 20)
	v.SetDefault("crawl.super_batch_delay_secs", 45)
	v.SetDefault("crawl.max_products", 50)
	v.SetDefault("crawl.mode", "fast")
	v.SetDefault("crawl.cache_ttl_hours", 24)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration needed for the given command mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	common := func() {
		if c.Crawl.Concurrency < 1 || c.Crawl.Concurrency > 10 {
			problems = append(problems, "crawl.concurrency must be between 1 and 10")
		}
		if c.Crawl.MaxProducts < 1 || c.Crawl.MaxProducts > 100 {
			problems = append(problems, "crawl.max_products must be between 1 and 100")
		}
		if c.Crawl.Mode != "fast" && c.Crawl.Mode != "complete" {
			problems = append(problems, "crawl.mode must be fast or complete")
		}
	}

	switch mode {
	case "crawl":
		if c.Firecrawl.Key == "" {
			problems = append(problems, "firecrawl.key is required")
		}
		common()
	case "trending":
		if c.ProductHunt.Key == "" {
			problems = append(problems, "producthunt.key is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Firecrawl.Key == "" {
			problems = append(problems, "firecrawl.key is required")
		}
		common()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
