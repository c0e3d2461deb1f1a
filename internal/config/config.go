package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL       = "https://railradar.in/api/v1"
	DefaultUserAgent     = "Mozilla/5.0"
	DefaultTimeout       = 10 * time.Second
	DefaultListenAddr    = ":8080"
	DefaultWatchInterval = 5 * time.Minute
)

type UpstreamConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gte=0"`
}

type StationsConfig struct {
	// Fallback is "first" to pick the first candidate when every search hit
	// is a shed/yard/depot, or "strict" to report not found.
	Fallback string `yaml:"fallback" validate:"omitempty,oneof=first strict"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type WatchConfig struct {
	TrainNumber string        `yaml:"train_number" validate:"required"`
	Interval    time.Duration `yaml:"interval" validate:"gte=0"`
	Days        []string      `yaml:"days"` // e.g., ["monday", "wednesday", "friday"]
}

// IsActiveDay returns true if the given weekday is in the configured days list.
// If no days are configured, returns true (runs every day).
func (w WatchConfig) IsActiveDay(weekday time.Weekday) bool {
	if len(w.Days) == 0 {
		return true
	}
	dayName := strings.ToLower(weekday.String())
	for _, d := range w.Days {
		if strings.ToLower(d) == dayName {
			return true
		}
	}
	return false
}

type Config struct {
	LogLevel string         `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Stations StationsConfig `yaml:"stations"`
	Server   ServerConfig   `yaml:"server"`
	Watch    []WatchConfig  `yaml:"watch" validate:"dive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Watch))
	for i, w := range c.Watch {
		if seen[w.TrainNumber] {
			return fmt.Errorf("watch[%d]: train %s listed twice", i, w.TrainNumber)
		}
		seen[w.TrainNumber] = true
		for _, d := range w.Days {
			if !isWeekday(d) {
				return fmt.Errorf("watch[%d]: unknown day %q", i, d)
			}
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	if c.Upstream.UserAgent == "" {
		c.Upstream.UserAgent = DefaultUserAgent
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultTimeout
	}
	if c.Upstream.FetchTimeout == 0 {
		c.Upstream.FetchTimeout = DefaultTimeout
	}
	if c.Stations.Fallback == "" {
		c.Stations.Fallback = "first"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultListenAddr
	}
	for i := range c.Watch {
		if c.Watch[i].Interval == 0 {
			c.Watch[i].Interval = DefaultWatchInterval
		}
	}
}

func isWeekday(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return true
		}
	}
	return false
}
