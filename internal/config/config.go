package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

const (
	// DefaultSiteDomain is the catalog site redirect links are resolved against.
	DefaultSiteDomain = "https://s.to"
	// DefaultOutputDir holds the per-season link files and the resume state.
	DefaultOutputDir = "backpack"
	// DefaultStateFileName is the resume state file name inside the output directory.
	DefaultStateFileName = "last_scrape.yaml"
)

type Config struct {
	SiteDomain            string `mapstructure:"site_domain"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	UserAgent             string `mapstructure:"user_agent"`
	StateFile             string `mapstructure:"state_file"`
	RedirectSelection     string `mapstructure:"redirect_selection"` // "first" or "all"
	LogLevel              string `mapstructure:"log_level"`
	SentryDSN             string `mapstructure:"sentry_dsn"`
	Output                struct {
		Dir    string `mapstructure:"dir"`
		Layout string `mapstructure:"layout"` // "flat" or "nested"
	} `mapstructure:"output"`
	Crawl struct {
		Preview             bool `mapstructure:"preview"`
		ConfirmBeforeScrape bool `mapstructure:"confirm_before_scrape"`
	} `mapstructure:"crawl"`
	Fetch struct {
		Concurrency int    `mapstructure:"concurrency"`
		MinDelay    string `mapstructure:"min_delay"`   // Go duration string like "1.5s"
		MaxDelay    string `mapstructure:"max_delay"`   // Go duration string like "2.5s"
		MaxAttempts int    `mapstructure:"max_attempts"`
		RetryDelay  string `mapstructure:"retry_delay"` // fixed, not exponential
		Timeout     string `mapstructure:"timeout"`     // per attempt
	} `mapstructure:"fetch"`
	Cache struct {
		Enabled  bool   `mapstructure:"enabled"`
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`
		TTL      string `mapstructure:"ttl"`
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Patterns struct {
		Season   string `mapstructure:"season"`
		Episode  string `mapstructure:"episode"`
		Redirect string `mapstructure:"redirect"`
	} `mapstructure:"patterns"`
	Downloader struct {
		Command string   `mapstructure:"command"`
		Args    []string `mapstructure:"args"`
		Workers int      `mapstructure:"workers"`
	} `mapstructure:"downloader"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	if err := Reload(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
}

// Reload reads the configuration again and reapplies the log level.
// It is called once at package init and again after CLI flags are bound to viper.
func Reload() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("site_domain", DefaultSiteDomain)
	viper.SetDefault("redirect_selection", "all")
	viper.SetDefault("output.dir", DefaultOutputDir)
	viper.SetDefault("output.layout", "flat")
	viper.SetDefault("crawl.preview", true)
	viper.SetDefault("crawl.confirm_before_scrape", true)
	viper.SetDefault("fetch.concurrency", 5)
	viper.SetDefault("fetch.min_delay", "1.5s")
	viper.SetDefault("fetch.max_delay", "2.5s")
	viper.SetDefault("fetch.max_attempts", 3)
	viper.SetDefault("fetch.retry_delay", "2s")
	viper.SetDefault("fetch.timeout", "15s")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 512)
	viper.SetDefault("cache.ttl", "10m")
	viper.SetDefault("downloader.command", "python")
	viper.SetDefault("downloader.args", []string{"dl.py"})
	viper.SetDefault("downloader.workers", 1)
	viper.SetDefault("metrics.address", "localhost")
	viper.SetDefault("metrics.port", 9090)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

// OutputDir returns the configured output directory, falling back to DefaultOutputDir.
func (c *Config) OutputDir() string {
	if c.Output.Dir == "" {
		return DefaultOutputDir
	}
	return c.Output.Dir
}

// StatePath returns where the resume state record lives.
func (c *Config) StatePath() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	return filepath.Join(c.OutputDir(), DefaultStateFileName)
}

// Domain returns the site domain without a trailing slash.
func (c *Config) Domain() string {
	if c.SiteDomain == "" {
		return DefaultSiteDomain
	}
	return strings.TrimRight(c.SiteDomain, "/")
}

// ParseDuration parses a Go duration string. Empty or invalid values yield fallback;
// invalid ones are logged with the offending field name.
func ParseDuration(field, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logger.Warn().Err(err).Str("field", field).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}

func GetConfig() *Config {
	return globalConfig
}

// GetUserAgent returns the configured User-Agent, DefaultUserAgent when unset.
func (c *Config) GetUserAgent() string {
	if c != nil && c.UserAgent != "" {
		return c.UserAgent
	}
	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
