/*
Package config loads runtime settings for the mileage CLI.

PURPOSE:
  One Config struct aggregates every knob the commands read. Values come
  from (highest precedence first): command-line flags bound by cmd/mileage,
  MILEAGE_* environment variables (a .env file is loaded first), an optional
  YAML config file, then the defaults below.

KEYS:
  input.path            flight record file ("-" reads stdin)
  input.skip_malformed  skip bad lines instead of failing
  output.format         text | json | yaml
  store.path            SQLite file for the year-end snapshot ("" disables)
  http.addr             listen address for `mileage serve`
  http.allowed_origins  CORS origins
  log.level             debug | info | warn | error
  log.format            json | console

ENVIRONMENT:
  MILEAGE_INPUT_PATH=flight-data.txt
  MILEAGE_LOG_LEVEL=debug

Tier thresholds and mileage rates are business rules in package tier and
are deliberately not configurable.
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/warp/cancellation-rewards/report"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "MILEAGE"

// Config aggregates runtime configuration.
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Store  StoreConfig  `mapstructure:"store"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
}

// InputConfig controls flight record ingestion.
type InputConfig struct {
	Path          string `mapstructure:"path"`
	SkipMalformed bool   `mapstructure:"skip_malformed"`
}

// OutputConfig controls display formatting.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// StoreConfig controls the year-end snapshot export.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// HTTPConfig controls the lookup API.
type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "flight-data.txt")
	v.SetDefault("input.skip_malformed", false)
	v.SetDefault("output.format", string(report.FormatText))
	v.SetDefault("store.path", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration into a Config. cfgFile may be empty, in which
// case ./mileage.yaml is used when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("mileage")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no command can act on.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Input.Path == "" {
		return fmt.Errorf("%w: input.path is required", ErrInvalidConfig)
	}
	return nil
}

// OutputFormat returns the validated output format.
func (c *Config) OutputFormat() report.Format {
	return report.Format(c.Output.Format)
}
