// Package config loads capman settings from YAML, .env and CAPMAN_* variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/internal/domain"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendWAL    = "wal"
	BackendSQLite = "sqlite"
)

const envPrefix = "CAPMAN_"

// Config full application configuration.
type Config struct {
	Currencies CurrenciesConfig `yaml:"currencies"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	HTTP       HTTPConfig       `yaml:"http"`
	Report     ReportConfig     `yaml:"report"`
}

// CurrenciesConfig display labels of the tracked pair.
type CurrenciesConfig struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
}

// StorageConfig where the ledger record lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file | wal | sqlite
	// Path directory for file and wal, database file for sqlite.
	Path string `yaml:"path"`
}

// LogConfig logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// HTTPConfig JSON API settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// TLSDomain enables autocert HTTPS for this host when set.
	TLSDomain string  `yaml:"tls_domain"`
	CertDir   string  `yaml:"cert_dir"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second
	Burst     int     `yaml:"burst"`
}

// ReportConfig analytics output settings.
type ReportConfig struct {
	TopLimit int `yaml:"top_limit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path (optional when empty), then applies .env and
// CAPMAN_* overrides and fills defaults.
func Load(path string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %q", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "parse config YAML")
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Pair returns the configured currency pair.
func (c *Config) Pair() domain.Pair {
	return domain.Pair{Base: c.Currencies.Base, Quote: c.Currencies.Quote}
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendWAL, BackendSQLite:
	default:
		return errors.Errorf("unknown storage backend %q (file, wal, sqlite)", c.Storage.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.Burst < 0 {
		return errors.New("http rate_limit and burst must not be negative")
	}
	if c.Currencies.Base == c.Currencies.Quote {
		return errors.Errorf("base and quote currencies must differ, both are %q", c.Currencies.Base)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	strOverrides := map[string]*string{
		"BASE":            &cfg.Currencies.Base,
		"QUOTE":           &cfg.Currencies.Quote,
		"STORAGE":         &cfg.Storage.Backend,
		"STORAGE_PATH":    &cfg.Storage.Path,
		"LOG_LEVEL":       &cfg.Log.Level,
		"HTTP_ADDR":       &cfg.HTTP.Addr,
		"HTTP_TLS_DOMAIN": &cfg.HTTP.TLSDomain,
		"HTTP_CERT_DIR":   &cfg.HTTP.CertDir,
	}
	for name, dst := range strOverrides {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(envPrefix + "HTTP_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "parse %sHTTP_RATE_LIMIT", envPrefix)
		}
		cfg.HTTP.RateLimit = limit
	}
	if v := os.Getenv(envPrefix + "HTTP_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %sHTTP_BURST", envPrefix)
		}
		cfg.HTTP.Burst = burst
	}
	if v := os.Getenv(envPrefix + "REPORT_TOP_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %sREPORT_TOP_LIMIT", envPrefix)
		}
		cfg.Report.TopLimit = limit
	}
	return nil
}

func setDefaults(cfg *Config) {
	pair := domain.DefaultPair()
	if cfg.Currencies.Base == "" {
		cfg.Currencies.Base = pair.Base
	}
	if cfg.Currencies.Quote == "" {
		cfg.Currencies.Quote = pair.Quote
	}
	cfg.Currencies.Base = strings.ToUpper(cfg.Currencies.Base)
	cfg.Currencies.Quote = strings.ToUpper(cfg.Currencies.Quote)
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Backend {
		case BackendWAL:
			cfg.Storage.Path = "./wal/ledger"
		case BackendSQLite:
			cfg.Storage.Path = "./data/capman.db"
		default:
			cfg.Storage.Path = "./data"
		}
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.CertDir == "" {
		cfg.HTTP.CertDir = "./certs"
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 5
	}
	if cfg.HTTP.Burst == 0 {
		cfg.HTTP.Burst = 10
	}
	if cfg.Report.TopLimit <= 0 {
		cfg.Report.TopLimit = 5
	}
}
