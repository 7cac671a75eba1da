package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys holding the bot credentials.
const (
	EnvGithubToken   = "GITHUB_TOKEN"
	EnvTelegramToken = "TELEGRAM_TOKEN"
)

// Credentials are the secrets the bot needs to talk to both services.
type Credentials struct {
	SearchToken    string
	MessagingToken string
}

// ConfigError reports a missing or invalid configuration key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required in environment", e.Key)
	}
	return fmt.Sprintf("invalid %s: %s", e.Key, e.Reason)
}

// LoadCredentials extracts the required tokens from env. Empty values count
// as missing.
func LoadCredentials(env map[string]string) (Credentials, error) {
	var creds Credentials

	for _, v := range []struct {
		key string
		dst *string
	}{
		{EnvGithubToken, &creds.SearchToken},
		{EnvTelegramToken, &creds.MessagingToken},
	} {
		if env[v.key] == "" {
			return Credentials{}, &ConfigError{Key: v.key}
		}
		*v.dst = env[v.key]
	}

	return creds, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Offset store backends.
const (
	DriverFile   = "file"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// maxTrendingLimit keeps a /show reply well inside a single telegram message.
const maxTrendingLimit = 30

// Setting represents server settings
type Setting struct {
	OffsetDriver string `yaml:"offset_driver"`
	OffsetFile   string `yaml:"offset_file"`
	OffsetDSN    string `yaml:"offset_dsn"`

	PollLimit      int           `yaml:"poll_limit"`
	PollTimeout    int           `yaml:"poll_timeout"` // seconds
	Backoff        time.Duration `yaml:"backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	TrendingLimit int           `yaml:"trending_limit"`
	DefaultAge    int           `yaml:"default_age"` // days
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// DefaultSetting returns the settings used when no file is given.
func DefaultSetting() Setting {
	return Setting{
		OffsetDriver:   DriverFile,
		OffsetFile:     "/tmp/github_trending_last_update",
		PollLimit:      5,
		PollTimeout:    60,
		Backoff:        10 * time.Second,
		RequestTimeout: 10 * time.Second,
		TrendingLimit:  10,
		DefaultAge:     7,
		CacheTTL:       10 * time.Minute,
	}
}

// LoadSetting reads a YAML settings file over the defaults. An empty path
// returns the defaults.
func LoadSetting(path string) (Setting, error) {
	setting := DefaultSetting()
	if path == "" {
		return setting, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Setting{}, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(b, &setting); err != nil {
		return Setting{}, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return setting, setting.Validate()
}

// Validate checks that every setting is usable.
func (s Setting) Validate() error {
	switch s.OffsetDriver {
	case DriverFile:
		if s.OffsetFile == "" {
			return &ConfigError{Key: "offset_file", Reason: "must not be empty"}
		}
	case DriverMySQL, DriverSQLite:
		if s.OffsetDSN == "" {
			return &ConfigError{Key: "offset_dsn", Reason: "required by driver " + s.OffsetDriver}
		}
	default:
		return &ConfigError{Key: "offset_driver", Reason: fmt.Sprintf("unknown driver %q", s.OffsetDriver)}
	}

	for _, v := range []struct {
		key string
		n   int64
	}{
		{"poll_limit", int64(s.PollLimit)},
		{"trending_limit", int64(s.TrendingLimit)},
		{"request_timeout", int64(s.RequestTimeout)},
	} {
		if v.n <= 0 {
			return &ConfigError{Key: v.key, Reason: "must be positive"}
		}
	}

	if s.PollLimit > 100 {
		return &ConfigError{Key: "poll_limit", Reason: "must be at most 100"}
	}
	if s.TrendingLimit > maxTrendingLimit {
		return &ConfigError{Key: "trending_limit", Reason: fmt.Sprintf("must be at most %d", maxTrendingLimit)}
	}

	for _, v := range []struct {
		key string
		n   int64
	}{
		{"poll_timeout", int64(s.PollTimeout)},
		{"backoff", int64(s.Backoff)},
		{"default_age", int64(s.DefaultAge)},
		{"cache_ttl", int64(s.CacheTTL)},
	} {
		if v.n < 0 {
			return &ConfigError{Key: v.key, Reason: "must not be negative"}
		}
	}

	return nil
}
