// Package config loads the regform YAML configuration, applies environment
// overrides and watches the file for changes.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "regform.yaml"

// Config holds all regform configuration.
type Config struct {
	// Remote registration service
	Client ClientConfig `yaml:"client"`

	// Submission behaviour
	Form FormConfig `yaml:"form"`

	// Host environment (device descriptor, location capability)
	Host        HostConfig        `yaml:"host"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Browser     BrowserConfig     `yaml:"browser"`

	// Map preview
	Map MapConfig `yaml:"map"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ClientConfig configures the remote registration client.
type ClientConfig struct {
	BaseURL              string `yaml:"base_url"`
	Timeout              string `yaml:"timeout"`
	MaxConcurrentLookups int    `yaml:"max_concurrent_lookups"`
}

// FormConfig configures the submission state machine.
type FormConfig struct {
	SuccessMode      string `yaml:"success_mode"` // confirmed, optimistic
	ResetAfterSubmit bool   `yaml:"reset_after_submit"`
}

// UIConfig holds user interface configuration.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, light, dark
}

// MapConfig configures the embedded map preview.
type MapConfig struct {
	EmbedURL string `yaml:"embed_url"`
	Zoom     int    `yaml:"zoom"`
}

// Success modes.
const (
	SuccessConfirmed  = "confirmed"
	SuccessOptimistic = "optimistic"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:              "https://new-optro-back.vercel.app",
			Timeout:              "15s",
			MaxConcurrentLookups: 4,
		},

		Form: FormConfig{
			SuccessMode:      SuccessConfirmed,
			ResetAfterSubmit: true,
		},

		Host: HostConfig{
			Kind: HostTerminal,
		},

		Geolocation: GeolocationConfig{
			Timeout: "10s",
		},

		Browser: BrowserConfig{
			Headless:            true,
			NavigationTimeoutMs: 30000,
		},

		Map: MapConfig{
			EmbedURL: "https://maps.google.com/maps",
			Zoom:     15,
		},

		UI: UIConfig{
			Theme: "auto",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "regform.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("REGFORM_BASE_URL"); v != "" {
		c.Client.BaseURL = v
	}
	if v := os.Getenv("REGFORM_SUCCESS_MODE"); v != "" {
		c.Form.SuccessMode = v
	}
	if v := os.Getenv("REGFORM_RESET_AFTER_SUBMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Form.ResetAfterSubmit = b
		}
	}
	if v := os.Getenv("REGFORM_HOST"); v != "" {
		c.Host.Kind = v
	}
	if v := os.Getenv("REGFORM_USER_AGENT"); v != "" {
		c.Host.UserAgent = v
	}
	if v := os.Getenv("REGFORM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetClientTimeout returns the HTTP timeout as a duration.
func (c *Config) GetClientTimeout() time.Duration {
	d, err := time.ParseDuration(c.Client.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetGeolocationTimeout returns the geolocation timeout as a duration.
func (c *Config) GetGeolocationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Geolocation.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetMaxConcurrentLookups returns the lookup fan-out limit.
func (c *Config) GetMaxConcurrentLookups() int {
	if c.Client.MaxConcurrentLookups <= 0 {
		return 4
	}
	return c.Client.MaxConcurrentLookups
}

// ValidSuccessModes lists all supported success modes.
var ValidSuccessModes = []string{SuccessConfirmed, SuccessOptimistic}

// ValidThemes lists all supported UI themes.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid client base_url: %q", c.Client.BaseURL)
	}
	if !contains(ValidSuccessModes, c.Form.SuccessMode) {
		return fmt.Errorf("invalid form success_mode: %s (valid: %v)", c.Form.SuccessMode, ValidSuccessModes)
	}
	if !contains(ValidHostKinds, c.Host.Kind) {
		return fmt.Errorf("invalid host kind: %s (valid: %v)", c.Host.Kind, ValidHostKinds)
	}
	if c.UI.Theme != "" && !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	for name, value := range map[string]string{
		"client.timeout":      c.Client.Timeout,
		"geolocation.timeout": c.Geolocation.Timeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if err := c.Geolocation.validate(); err != nil {
		return err
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
