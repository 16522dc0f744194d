// Package config loads cbb-gamelogs settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/gamelog"
	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
	"github.com/pfrederiksen/cbb-gamelogs/internal/storage"
)

// DefaultSeason is the season scraped when none is configured.
const DefaultSeason = 2026

// Config holds run settings. Zero values are replaced by defaults.
type Config struct {
	BaseURL    string         `yaml:"base_url"`
	UserAgent  string         `yaml:"user_agent"`
	Timeout    time.Duration  `yaml:"timeout"`
	MaxRetries *int           `yaml:"max_retries"`
	Delay      *time.Duration `yaml:"delay"`
	Season     int            `yaml:"season"`
	DataDir    string         `yaml:"data_dir"`
	SlugMode   slug.Mode      `yaml:"slug_mode"`
	LogLevel   string         `yaml:"log_level"`

	// Descriptive lists names whose two-letter parenthetical is dropped.
	// Replaces slug.DefaultDescriptive when set.
	Descriptive []string `yaml:"descriptive"`

	ConfigDir string `yaml:"-"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML config file, applies defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.ConfigDir = filepath.Dir(path)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	resolvePaths(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = gamelog.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fetch.Timeout
	}
	if cfg.MaxRetries == nil {
		n := fetch.MaxRetries
		cfg.MaxRetries = &n
	}
	if cfg.Delay == nil {
		d := gamelog.DefaultDelay
		cfg.Delay = &d
	}
	if cfg.Season == 0 {
		cfg.Season = DefaultSeason
	}
	if cfg.DataDir == "" {
		cfg.DataDir = storage.DefaultDataDir
	}
	if cfg.SlugMode == "" {
		cfg.SlugMode = slug.ModeCanonical
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Descriptive == nil {
		cfg.Descriptive = append([]string(nil), slug.DefaultDescriptive...)
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("base_url must be an http(s) URL, got %q", c.BaseURL))
	}
	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		problems = append(problems, "max_retries must not be negative")
	}
	if c.Delay != nil && *c.Delay < 0 {
		problems = append(problems, "delay must not be negative")
	}
	if c.Season < 1900 || c.Season > 2100 {
		problems = append(problems, fmt.Sprintf("season %d out of range", c.Season))
	}
	if _, err := slug.Func(c.SlugMode); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// resolvePaths makes a relative data_dir relative to the config file.
func resolvePaths(cfg *Config) {
	if cfg.ConfigDir == "" || filepath.IsAbs(cfg.DataDir) || strings.HasPrefix(cfg.DataDir, "~/") {
		return
	}
	cfg.DataDir = filepath.Join(cfg.ConfigDir, cfg.DataDir)
}

// SlugFunc returns the configured slug function. The canonical rule uses the
// configured descriptive names.
func (c *Config) SlugFunc() (func(string) string, error) {
	fn, err := slug.Func(c.SlugMode)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(string(c.SlugMode)) == string(slug.ModeSimple) {
		return fn, nil
	}
	return slug.New(slug.WithDescriptive(c.Descriptive...)).Generate, nil
}

// FetchOptions converts the HTTP settings to fetch options.
func (c *Config) FetchOptions() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithUserAgent(c.UserAgent),
		fetch.WithTimeout(c.Timeout),
	}
	if c.MaxRetries != nil {
		opts = append(opts, fetch.WithMaxRetries(*c.MaxRetries))
	}
	return opts
}

// DelayDuration returns the configured wait between team requests.
func (c *Config) DelayDuration() time.Duration {
	if c.Delay == nil {
		return gamelog.DefaultDelay
	}
	return *c.Delay
}
