package config

import (
	"fmt"
	"time"
)

// Host kinds.
const (
	HostTerminal = "terminal"
	HostBrowser  = "browser"
)

// ValidHostKinds lists all supported host environments.
var ValidHostKinds = []string{HostTerminal, HostBrowser}

// HostConfig selects the environment that supplies the device descriptor and
// the location capability.
type HostConfig struct {
	Kind      string `yaml:"kind"`       // terminal, browser
	UserAgent string `yaml:"user_agent"` // overrides the detected descriptor
}

// GeolocationConfig configures location readings for the terminal host.
// With no coordinates configured the terminal host reports geolocation as
// unsupported.
type GeolocationConfig struct {
	Timeout   string   `yaml:"timeout"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	// Deny makes every request fail as if the user refused access.
	Deny bool `yaml:"deny"`
}

// HasStaticPosition reports whether both coordinates are configured.
func (g GeolocationConfig) HasStaticPosition() bool {
	return g.Latitude != nil && g.Longitude != nil
}

func (g GeolocationConfig) validate() error {
	if (g.Latitude == nil) != (g.Longitude == nil) {
		return fmt.Errorf("geolocation: latitude and longitude must be set together")
	}
	if g.Latitude != nil && (*g.Latitude < -90 || *g.Latitude > 90) {
		return fmt.Errorf("geolocation: latitude %v out of range", *g.Latitude)
	}
	if g.Longitude != nil && (*g.Longitude < -180 || *g.Longitude > 180) {
		return fmt.Errorf("geolocation: longitude %v out of range", *g.Longitude)
	}
	return nil
}

// BrowserConfig configures the headless browser host.
type BrowserConfig struct {
	Bin                 string   `yaml:"bin"` // empty = rod's managed Chromium
	Headless            bool     `yaml:"headless"`
	DebuggerURL         string   `yaml:"debugger_url"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms"`
	EmulateLatitude     *float64 `yaml:"emulate_latitude"`
	EmulateLongitude    *float64 `yaml:"emulate_longitude"`
}

// NavigationTimeout returns the navigation timeout.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}
