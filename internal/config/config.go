package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/newthinker/fxscout/internal/collector"
	"github.com/newthinker/fxscout/internal/core"
	"github.com/newthinker/fxscout/internal/indicator"
	"github.com/newthinker/fxscout/internal/storage/archive"
	"github.com/newthinker/fxscout/internal/strategy"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Collectors CollectorsConfig `mapstructure:"collectors"`
	Indicators indicator.Config `mapstructure:"indicators"`
	Strategy   strategy.Config  `mapstructure:"strategy"`
	Scan       ScanConfig       `mapstructure:"scan"`
	Enrich     EnrichConfig     `mapstructure:"enrich"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// CollectorsConfig configures the price sources. Timeout applies to each
// upstream request.
type CollectorsConfig struct {
	Timeout      time.Duration   `mapstructure:"timeout"`
	AlphaVantage CollectorConfig `mapstructure:"alphavantage"`
	Yahoo        CollectorConfig `mapstructure:"yahoo"`
}

type CollectorConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// For returns the collector settings for name.
func (c CollectorsConfig) For(name string) collector.Config {
	var cc CollectorConfig
	switch name {
	case "alphavantage":
		cc = c.AlphaVantage
	case "yahoo":
		cc = c.Yahoo
	}
	return collector.Config{
		APIKey:  cc.APIKey,
		BaseURL: cc.BaseURL,
		Timeout: c.Timeout,
	}
}

// ScanConfig controls which pairs are scanned and how results are ranked.
type ScanConfig struct {
	Pairs     []string `mapstructure:"pairs"`
	Collector string   `mapstructure:"collector"`
	Interval  string   `mapstructure:"interval"`
	History   int      `mapstructure:"history"` // closes kept per pair
	Top       int      `mapstructure:"top"`
	Workers   int      `mapstructure:"workers"`
}

type EnrichConfig struct {
	Collector string         `mapstructure:"collector"`
	Export    archive.Config `mapstructure:"export"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// EnvPrefix prefixes environment overrides: scan.top is FXSCOUT_SCAN_TOP.
const EnvPrefix = "FXSCOUT"

// Load reads configuration from path on top of Defaults, then applies
// environment overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Support environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys(reflect.TypeOf(Config{}), "") {
		if err := v.BindEnv(key); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("binding %s: %w", key, err))
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("reading config: %w", err))
		}
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	// Slices decode element-wise into existing ones, so pairs start empty.
	cfg := Defaults()
	cfg.Scan.Pairs = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}
	if len(cfg.Scan.Pairs) == 0 {
		cfg.Scan.Pairs = DefaultPairs()
	}

	return cfg, nil
}

// envKeys lists the dotted key of every leaf field. Viper only consults the
// environment for keys it knows, and Unmarshal asks for none.
func envKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, envKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// DefaultPairs is the standard FX watchlist.
func DefaultPairs() []string {
	return []string{
		"USD/EUR", "USD/GBP", "USD/JPY", "USD/AUD",
		"EUR/GBP", "EUR/JPY", "EUR/AUD",
		"GBP/JPY", "GBP/AUD", "AUD/JPY",
	}
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Collectors: CollectorsConfig{
			Timeout: 10 * time.Second,
		},
		Indicators: indicator.DefaultConfig(),
		Strategy:   strategy.DefaultConfig(),
		Scan: ScanConfig{
			Pairs:     DefaultPairs(),
			Collector: "alphavantage",
			Interval:  "1d",
			History:   30,
			Top:       3,
			Workers:   4,
		},
		Enrich: EnrichConfig{
			Collector: "yahoo",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Collectors.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("collectors.timeout cannot be negative, got %s", c.Collectors.Timeout))
	}

	if err := c.Indicators.Validate(); err != nil {
		return err
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}

	if len(c.Scan.Pairs) == 0 {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("scan.pairs is empty"))
	}
	for _, p := range c.Scan.Pairs {
		if _, err := core.ParsePair(p); err != nil {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("scan.pairs: %w", err))
		}
	}
	if c.Scan.History < indicator.MinSeriesLength {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scan.history must be at least %d, got %d", indicator.MinSeriesLength, c.Scan.History))
	}
	if c.Scan.Top < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("scan.top must be positive, got %d", c.Scan.Top))
	}
	if c.Scan.Workers < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("scan.workers must be positive, got %d", c.Scan.Workers))
	}

	// API keys are checked when a collector is initialized, so offline
	// commands run without them.
	for _, name := range []string{c.Scan.Collector, c.Enrich.Collector} {
		switch name {
		case "alphavantage", "yahoo":
		default:
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown collector %q", name))
		}
	}

	if c.Enrich.Export.Enabled() {
		switch c.Enrich.Export.Type {
		case "localfs":
			if c.Enrich.Export.Path == "" {
				return core.WrapError(core.ErrConfigMissing, fmt.Errorf("enrich.export.path required for localfs"))
			}
		case "s3":
			if c.Enrich.Export.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing, fmt.Errorf("enrich.export.s3.bucket required for s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown enrich.export.type %q", c.Enrich.Export.Type))
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path))
	}

	return nil
}
