// Package config loads harness configuration from an optional YAML file and
// NOTES_-prefixed environment variables, validates it and applies defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "NOTES"

	keyAPIBaseURL       = "api_base_url"
	keyDBPath           = "db_path"
	keyFixturesDir      = "fixtures_dir"
	keySeedCount        = "seed_count"
	keyThrottleInterval = "throttle_interval"
	keyHTTPTimeout      = "http_timeout"

	// DefaultBaseURL is the live service the harness validates.
	DefaultBaseURL = "https://practice.expandtesting.com/notes/api"
	// DefaultSeedCount matches the pool size one session's scenarios draw from.
	DefaultSeedCount = 250
	// DefaultThrottleInterval spaces scenarios out so the shared practice
	// service is not hammered.
	DefaultThrottleInterval = 5 * time.Second
	DefaultHTTPTimeout      = 30 * time.Second
)

// Config holds everything a harness session needs.
type Config struct {
	// BaseURL is the API root of the service under test.
	BaseURL string
	// DBPath is where the SQLite seed pool lives.
	DBPath string
	// FixturesDir is where per-token fixture records are written.
	FixturesDir string
	// SeedCount is how many candidate rows to seed per session.
	SeedCount int
	// ThrottleInterval is the minimum spacing between scenarios.
	ThrottleInterval time.Duration
	// HTTPTimeout bounds each request to the service.
	HTTPTimeout time.Duration
}

// ValidationError collects every problem found so one run reports them all.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads configFile (may be empty) and the environment, then validates.
// Environment variables use the NOTES_ prefix: NOTES_API_BASE_URL,
// NOTES_DB_PATH, NOTES_FIXTURES_DIR, NOTES_SEED_COUNT,
// NOTES_THROTTLE_INTERVAL, NOTES_HTTP_TIMEOUT.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyAPIBaseURL, DefaultBaseURL)
	v.SetDefault(keyDBPath, "notes-harness.db")
	v.SetDefault(keyFixturesDir, "fixtures")
	v.SetDefault(keySeedCount, DefaultSeedCount)
	v.SetDefault(keyThrottleInterval, DefaultThrottleInterval)
	v.SetDefault(keyHTTPTimeout, DefaultHTTPTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		BaseURL:          v.GetString(keyAPIBaseURL),
		DBPath:           v.GetString(keyDBPath),
		FixturesDir:      v.GetString(keyFixturesDir),
		SeedCount:        v.GetInt(keySeedCount),
		ThrottleInterval: v.GetDuration(keyThrottleInterval),
		HTTPTimeout:      v.GetDuration(keyHTTPTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns a ValidationError listing all
// problems at once.
func (c *Config) Validate() error {
	var problems []string
	if c.BaseURL == "" {
		problems = append(problems, "api_base_url must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("api_base_url must be an http(s) URL, got %q", c.BaseURL))
	}
	if c.DBPath == "" {
		problems = append(problems, "db_path must not be empty")
	}
	if c.FixturesDir == "" {
		problems = append(problems, "fixtures_dir must not be empty")
	}
	if c.SeedCount <= 0 {
		problems = append(problems, fmt.Sprintf("seed_count must be positive, got %d", c.SeedCount))
	}
	if c.ThrottleInterval < 0 {
		problems = append(problems, "throttle_interval must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		problems = append(problems, "http_timeout must be positive")
	}
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}
