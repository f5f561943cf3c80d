package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/username/work-calendar/internal/calendar"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents calendar source and cache configuration
type CalendarConfig struct {
	Country       string `mapstructure:"country"` // "ru" or "ru:en"
	Locale        string `mapstructure:"locale"`
	CacheFolder   string `mapstructure:"cache_folder"`
	CacheDuration int    `mapstructure:"cache_duration"` // seconds, 0 disables caching
	FileMode      string `mapstructure:"file_mode"`      // octal, e.g. "0640"
	DirMode       string `mapstructure:"dir_mode"`

	SourceURL    string `mapstructure:"source_url"`
	SourceDir    string `mapstructure:"source_dir"` // local mirror, overrides source_url
	HTTPTimeout  string `mapstructure:"http_timeout"`
	FetchRetries int    `mapstructure:"fetch_retries"`

	MaxLookaheadDays int `mapstructure:"max_lookahead_days"`
}

// LogConfig represents logger configuration
type LogConfig struct {
	File  string `mapstructure:"file"` // empty logs to console
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.country", "ru")
	v.SetDefault("calendar.locale", "")
	v.SetDefault("calendar.cache_folder", "")
	v.SetDefault("calendar.cache_duration", int(calendar.DefaultCacheDuration/time.Second))
	v.SetDefault("calendar.file_mode", "")
	v.SetDefault("calendar.dir_mode", "")
	v.SetDefault("calendar.source_url", calendar.DefaultSourceURL)
	v.SetDefault("calendar.source_dir", "")
	v.SetDefault("calendar.http_timeout", "10s")
	v.SetDefault("calendar.fetch_retries", 2)
	v.SetDefault("calendar.max_lookahead_days", calendar.DefaultMaxLookahead)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file and WORKCAL_* environment variables.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.work-calendar")
		v.AddConfigPath("/etc/work-calendar")
	}

	// Read environment variables, calendar.country -> WORKCAL_CALENDAR_COUNTRY
	v.SetEnvPrefix("WORKCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, _, err := calendar.ParseCountryLocale(c.Calendar.Country, c.Calendar.Locale); err != nil {
		return fmt.Errorf("calendar.country/locale: %w", err)
	}
	if c.Calendar.CacheDuration < 0 {
		return fmt.Errorf("calendar.cache_duration must not be negative")
	}
	if _, err := parseMode(c.Calendar.FileMode); err != nil {
		return fmt.Errorf("calendar.file_mode: %w", err)
	}
	if _, err := parseMode(c.Calendar.DirMode); err != nil {
		return fmt.Errorf("calendar.dir_mode: %w", err)
	}
	if c.Calendar.SourceURL == "" && c.Calendar.SourceDir == "" {
		return fmt.Errorf("calendar.source_url or calendar.source_dir is required")
	}
	if c.Calendar.HTTPTimeout != "" {
		d, err := time.ParseDuration(c.Calendar.HTTPTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("calendar.http_timeout must be a positive duration, got '%s'", c.Calendar.HTTPTimeout)
		}
	}
	if c.Calendar.FetchRetries < 0 {
		return fmt.Errorf("calendar.fetch_retries must not be negative")
	}
	if c.Calendar.MaxLookaheadDays < 0 {
		return fmt.Errorf("calendar.max_lookahead_days must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// GetCacheDuration returns how long cached feeds stay valid
func (c *CalendarConfig) GetCacheDuration() time.Duration {
	return time.Duration(c.CacheDuration) * time.Second
}

// GetHTTPTimeout returns the feed download timeout
func (c *CalendarConfig) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetFileMode returns the cache file mode, nil when unset
func (c *CalendarConfig) GetFileMode() *os.FileMode {
	mode, _ := parseMode(c.FileMode)
	return mode
}

// GetDirMode returns the cache folder mode, nil when unset
func (c *CalendarConfig) GetDirMode() *os.FileMode {
	mode, _ := parseMode(c.DirMode)
	return mode
}

// GetFetchRetries returns the retry count in the form HTTPSourceOptions
// expects: zero retries is encoded as a negative value.
func (c *CalendarConfig) GetFetchRetries() int {
	if c.FetchRetries == 0 {
		return -1
	}
	return c.FetchRetries
}

func parseMode(s string) (*os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
	if err != nil || n > 0o777 {
		return nil, fmt.Errorf("invalid octal mode '%s'", s)
	}
	mode := os.FileMode(n)
	return &mode, nil
}

// ExpandEnvVars expands environment variables in path settings
func (c *Config) ExpandEnvVars() {
	c.Calendar.CacheFolder = os.ExpandEnv(c.Calendar.CacheFolder)
	c.Calendar.SourceDir = os.ExpandEnv(c.Calendar.SourceDir)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
