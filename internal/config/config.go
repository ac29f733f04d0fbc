// Package config loads the runtime configuration of the moonphase command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/internal/names"
)

// EnvPrefix is the prefix of environment variables, e.g. MOONPHASE_LANGUAGE.
// Nested keys use underscores: MOONPHASE_WATCH_CRON.
const EnvPrefix = "MOONPHASE"

// MaxWatchCount bounds watch.count, which sizes the lunation scan.
const MaxWatchCount = 1000

// WatchConfig configures the watch command.
type WatchConfig struct {
	Cron          string `mapstructure:"cron"`
	Count         int    `mapstructure:"count"`
	LookaheadDays int    `mapstructure:"lookahead_days"`
}

// PublishConfig configures the publish command.
type PublishConfig struct {
	URL      string `mapstructure:"url"`
	ETagFile string `mapstructure:"etag_file"`
}

// Config holds all runtime configuration.
// Values are populated from .moonphase.toml, MOONPHASE_* env vars, a .env
// file and CLI flags.
type Config struct {
	LogLevel     string        `mapstructure:"log_level"`
	Environment  string        `mapstructure:"environment"`
	Language     string        `mapstructure:"language"`
	Format       string        `mapstructure:"format"`
	Timezone     string        `mapstructure:"timezone"`
	OutputDir    string        `mapstructure:"output_dir"`
	CalendarName string        `mapstructure:"calendar_name"` // empty means the localised name
	UIDDomain    string        `mapstructure:"uid_domain"`
	Watch        WatchConfig   `mapstructure:"watch"`
	Publish      PublishConfig `mapstructure:"publish"`
}

// Init points viper at the config file and the environment. If cfgFile is
// empty, .moonphase.toml is searched in the working and home directory and
// may be missing. A .env file in the working directory is loaded without
// overriding variables that are already set.
func Init(cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".moonphase")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("environment", "development")
	viper.SetDefault("language", "en")
	viper.SetDefault("format", string(almanac.Text))
	viper.SetDefault("timezone", "UTC")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("calendar_name", "")
	viper.SetDefault("uid_domain", "moonphase.local")
	viper.SetDefault("watch.cron", "0 6 * * *")
	viper.SetDefault("watch.count", 4)
	viper.SetDefault("watch.lookahead_days", 7)
	viper.SetDefault("publish.url", "")
	viper.SetDefault("publish.etag_file", ".moonphase.etag")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)
	return cfg, cfg.Validate()
}

// Validate reports all invalid values of cfg.
func (cfg Config) Validate() error {
	var errs []error
	if _, err := almanac.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := names.Parse(cfg.Language); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Watch.Count <= 0 || cfg.Watch.Count > MaxWatchCount {
		errs = append(errs, fmt.Errorf("invalid watch.count %d: must be between 1 and %d", cfg.Watch.Count, MaxWatchCount))
	}
	if cfg.Watch.LookaheadDays <= 0 {
		errs = append(errs, fmt.Errorf("invalid watch.lookahead_days %d: must be positive", cfg.Watch.LookaheadDays))
	}
	return errors.Join(errs...)
}

// Location returns the time zone that selects the day of calendar events.
func (cfg Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// Names returns the phase labels of the configured language.
func (cfg Config) Names() names.Names {
	n, err := names.Parse(cfg.Language)
	if err != nil {
		return names.English
	}
	return n
}

// Lookahead returns the watch look-ahead as a duration.
func (cfg Config) Lookahead() time.Duration {
	return time.Duration(cfg.Watch.LookaheadDays) * 24 * time.Hour
}
