// Package config loads process-level settings from an optional .env file
// and MEETSLOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/teemow/meetslot/internal/availability"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MEETSLOT"

// Defaults.
const (
	DefaultTimeZone        = "America/New_York"
	DefaultOrgSettingsPath = "org_settings.json"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config holds process-level settings.
type Config struct {
	TimeZone        string `mapstructure:"timezone"`
	OrgSettingsPath string `mapstructure:"org_settings"`
	TopK            int    `mapstructure:"top_k"`
	LocationType    string `mapstructure:"location_type"`
	GoogleAccount   string `mapstructure:"google_account"`
	CalendarsFile   string `mapstructure:"calendars"`
	PeopleDir       string `mapstructure:"people_dir"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		TimeZone:        DefaultTimeZone,
		OrgSettingsPath: DefaultOrgSettingsPath,
		TopK:            availability.DefaultTopK,
		LocationType:    string(availability.LocationVirtual),
		GoogleAccount:   "default",
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load reads envFiles (".env" when none are given) into the environment,
// ignoring files that do not exist, then decodes MEETSLOT_* variables over
// the defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("timezone", DefaultTimeZone)
	v.SetDefault("org_settings", DefaultOrgSettingsPath)
	v.SetDefault("top_k", availability.DefaultTopK)
	v.SetDefault("location_type", string(availability.LocationVirtual))
	v.SetDefault("google_account", "default")
	v.SetDefault("calendars", "")
	v.SetDefault("people_dir", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid %s_TIMEZONE %q: %w", EnvPrefix, c.TimeZone, err)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("invalid %s_TOP_K %d: must be positive", EnvPrefix, c.TopK)
	}
	if _, err := availability.ParseLocationType(c.LocationType); err != nil {
		return fmt.Errorf("invalid %s_LOCATION_TYPE: %w", EnvPrefix, err)
	}
	return nil
}

// Location returns the default time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
