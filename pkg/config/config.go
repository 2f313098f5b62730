// Package config provides configuration management for gumarchive. It handles
// loading, validating, and defaulting application settings from a YAML file,
// with session secrets supplied out-of-band through the environment.
package config

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/packentu/gumarchive/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables carrying the session cookie values. They may live in a
// .env file next to the working directory; godotenv picks that up.
const (
	EnvAppSession = "GUMARCHIVE_APP_SESSION"
	EnvGUID       = "GUMARCHIVE_GUID"
)

// DefaultUserAgent impersonates a desktop browser. The platform serves
// different (and sometimes broken) responses to obvious non-browser agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 OPR/107.0.0.0"

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
	Platform Platform `yaml:"platform"`
	Session  Session  `yaml:"session"`
}

// Session holds the two session-identifying cookie values. These are normally
// supplied via the environment; the config file values are a fallback.
type Session struct {
	AppSession string `yaml:"app_session,omitempty"`
	GUID       string `yaml:"guid,omitempty"`
}

// Platform describes the e-commerce platform being archived.
type Platform struct {
	// BaseURL prefixes the relative download URLs found in product metadata.
	BaseURL string `yaml:"base_url"`
	// LibraryURL is the authenticated listing page enumerating all purchases.
	LibraryURL string `yaml:"library_url"`
	// Domain is the host suffix a download URL must belong to; anything else
	// is treated as a foreign URL and skipped.
	Domain string `yaml:"domain"`
}

// Settings represents general application settings.
type Settings struct {
	OutputDir string `yaml:"output_dir,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`

	// HTTPTimeout of zero leaves the transport defaults in place.
	HTTPTimeout time.Duration `yaml:"http_timeout,omitempty"`

	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			UserAgent: DefaultUserAgent,
			LogLevel:  "info",
		},
		Platform: Platform{
			BaseURL:    "https://app.gumroad.com",
			LibraryURL: "https://app.gumroad.com/library",
			Domain:     "gumroad.com",
		},
	}
}

// GetDefaultConfigPath returns the default location of the config file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gumarchive", "config.yaml"), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadSessionFromEnv overlays session cookie values from the environment,
// reading a .env file first when one is present. Environment values win over
// the config file.
func (c *Config) LoadSessionFromEnv() {
	_ = godotenv.Load() // a missing .env file is fine

	if v := os.Getenv(EnvAppSession); v != "" {
		c.Session.AppSession = v
	}
	if v := os.Getenv(EnvGUID); v != "" {
		c.Session.GUID = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	for _, raw := range []string{c.Platform.BaseURL, c.Platform.LibraryURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "invalid platform URL %q", raw)
		}
	}
	if c.Platform.Domain == "" {
		return errors.Wrap(errors.ErrConfigValidation, "platform domain cannot be empty")
	}
	switch c.Settings.LogLevel {
	case "", "error", "warn", "warning", "info", "debug":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "unknown log level %q", c.Settings.LogLevel)
	}
	return nil
}

// HasSession reports whether both session cookie values are configured.
func (c *Config) HasSession() bool {
	return c.Session.AppSession != "" && c.Session.GUID != ""
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = def.Settings.UserAgent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = def.Settings.LogLevel
	}
	if c.Platform.BaseURL == "" {
		c.Platform.BaseURL = def.Platform.BaseURL
	}
	if c.Platform.LibraryURL == "" {
		c.Platform.LibraryURL = def.Platform.LibraryURL
	}
	if c.Platform.Domain == "" {
		c.Platform.Domain = def.Platform.Domain
	}
}
