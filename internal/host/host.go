// Package host selects the environment the form runs in. A host supplies the
// device descriptor sent with every registration and the one-shot location
// capability.
package host

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"regform/internal/browser"
	"regform/internal/config"
	"regform/internal/geo"
	"regform/internal/logging"

	"go.uber.org/zap"
)

// Host is the environment the form is mounted in.
type Host interface {
	geo.Locator
	// UserAgent returns the device descriptor. It is read once at mount.
	UserAgent(ctx context.Context) (string, error)
	Close() error
}

// Open returns the host selected by cfg.Host.Kind.
func Open(ctx context.Context, cfg *config.Config, version string) (Host, error) {
	switch cfg.Host.Kind {
	case "", config.HostTerminal:
		return NewTerminal(version, cfg.Host, cfg.Geolocation), nil
	case config.HostBrowser:
		b, err := browser.Open(ctx, cfg.Browser)
		if err != nil {
			return nil, fmt.Errorf("failed to open browser host: %w", err)
		}
		if cfg.Host.UserAgent != "" {
			return overrideUA{Host: b, ua: cfg.Host.UserAgent}, nil
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown host kind %q", cfg.Host.Kind)
}

type overrideUA struct {
	Host
	ua string
}

func (o overrideUA) UserAgent(context.Context) (string, error) { return o.ua, nil }

// Terminal is the default host. Its descriptor identifies the binary and
// platform; its location comes from static configuration.
type Terminal struct {
	userAgent string
	locator   geo.Locator
}

// NewTerminal builds a terminal host. A configured user agent replaces the
// detected descriptor.
func NewTerminal(version string, hc config.HostConfig, gc config.GeolocationConfig) *Terminal {
	ua := hc.UserAgent
	if ua == "" {
		ua = DeviceDescriptor(version)
	}
	return &Terminal{userAgent: ua, locator: StaticLocator(gc)}
}

// UserAgent returns the descriptor fixed at construction.
func (t *Terminal) UserAgent(context.Context) (string, error) {
	return t.userAgent, nil
}

// CurrentPosition reads the configured position.
func (t *Terminal) CurrentPosition(ctx context.Context) (geo.Position, error) {
	return t.locator.CurrentPosition(ctx)
}

// Close is a no-op.
func (t *Terminal) Close() error { return nil }

// DeviceDescriptor describes the running binary and platform in user-agent form.
func DeviceDescriptor(version string) string {
	term := os.Getenv("TERM")
	if term == "" {
		term = "unknown"
	}
	return fmt.Sprintf("regform/%s (%s; %s; %s)", version, runtime.GOOS, runtime.GOARCH, term)
}

// StaticLocator serves the position configured in gc. Without coordinates
// the capability is absent; with Deny set every request is refused.
func StaticLocator(gc config.GeolocationConfig) geo.Locator {
	switch {
	case gc.Deny:
		return geo.LocatorFunc(func(context.Context) (geo.Position, error) {
			return geo.Position{}, geo.ErrDenied
		})
	case !gc.HasStaticPosition():
		return geo.Unsupported
	}
	pos := geo.Position{Latitude: *gc.Latitude, Longitude: *gc.Longitude}
	return geo.LocatorFunc(func(ctx context.Context) (geo.Position, error) {
		if err := ctx.Err(); err != nil {
			return geo.Position{}, fmt.Errorf("%w: %v", geo.ErrDenied, err)
		}
		logging.Get(logging.CategoryGeo).Debug("Serving static position", zap.Stringer("position", pos))
		return pos, nil
	})
}
