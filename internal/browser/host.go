// Package browser runs the form against a headless Chrome through go-rod.
// The browser's own user agent becomes the device descriptor and its
// navigator.geolocation API answers location requests.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"regform/internal/config"
	"regform/internal/geo"
	"regform/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// blankPage is where geolocation is evaluated. It needs no network access.
const blankPage = "about:blank"

// Host owns one Chrome instance, either launched or attached to.
type Host struct {
	cfg config.BrowserConfig
	log *zap.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	page       *rod.Page
	launched   *launcher.Launcher
	controlURL string
}

// Open connects to cfg.DebuggerURL, or launches Chrome when none is set.
func Open(ctx context.Context, cfg config.BrowserConfig) (*Host, error) {
	h := &Host{cfg: cfg, log: logging.Get(logging.CategoryBrowser)}
	if err := h.start(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	controlURL := h.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(h.cfg.Headless)
		if h.cfg.Bin != "" {
			l = l.Bin(h.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		h.launched = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		h.cleanupLocked()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	h.browser = b
	h.controlURL = controlURL
	h.log.Info("Browser host connected", zap.String("control_url", controlURL), zap.Bool("launched", h.launched != nil))
	return nil
}

// ControlURL returns the DevTools WebSocket URL in use.
func (h *Host) ControlURL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.controlURL
}

// UserAgent reports the browser's user agent string.
func (h *Host) UserAgent(ctx context.Context) (string, error) {
	h.mu.Lock()
	b := h.browser
	h.mu.Unlock()
	if b == nil {
		return "", errors.New("browser not connected")
	}
	v, err := b.Context(ctx).Version()
	if err != nil {
		return "", fmt.Errorf("browser version: %w", err)
	}
	return v.UserAgent, nil
}

// CurrentPosition grants the geolocation permission, applies the emulated
// position if one is configured, and asks the page for a reading.
func (h *Host) CurrentPosition(ctx context.Context) (geo.Position, error) {
	page, err := h.ensurePage(ctx)
	if err != nil {
		return geo.Position{}, fmt.Errorf("%w: %v", geo.ErrDenied, err)
	}

	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           geolocationScript,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return geo.Position{}, fmt.Errorf("%w: %v", geo.ErrDenied, err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return geo.Position{}, fmt.Errorf("%w: %v", geo.ErrDenied, err)
	}
	pos, err := parseGeolocationResult(raw)
	if err != nil {
		h.log.Debug("Geolocation request failed", zap.Error(err))
		return geo.Position{}, err
	}
	return pos, nil
}

func (h *Host) ensurePage(ctx context.Context) (*rod.Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.browser == nil {
		return nil, errors.New("browser not connected")
	}
	if h.page != nil {
		return h.page, nil
	}

	if err := (proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{proto.BrowserPermissionTypeGeolocation},
	}).Call(h.browser); err != nil {
		return nil, fmt.Errorf("grant geolocation: %w", err)
	}

	page, err := h.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: blankPage})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := page.Timeout(h.cfg.NavigationTimeout()).WaitLoad(); err != nil {
		h.log.Warn("Blank page did not finish loading", zap.Error(err))
	}

	if h.cfg.EmulateLatitude != nil && h.cfg.EmulateLongitude != nil {
		accuracy := 1.0
		if err := (proto.EmulationSetGeolocationOverride{
			Latitude:  h.cfg.EmulateLatitude,
			Longitude: h.cfg.EmulateLongitude,
			Accuracy:  &accuracy,
		}).Call(page); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("emulate geolocation: %w", err)
		}
	}
	h.page = page
	return page, nil
}

// Close closes the page and the browser, and kills Chrome if it was
// launched by Open.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []string
	if h.page != nil {
		if err := h.page.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		h.page = nil
	}
	if h.browser != nil {
		if h.ownsBrowserLocked() {
			if err := h.browser.Close(); err != nil {
				errs = append(errs, err.Error())
			}
		} else {
			// Attached through debugger_url: leave the user's Chrome running.
			h.log.Info("Detached from browser", zap.String("control_url", h.controlURL))
		}
		h.browser = nil
	}
	h.cleanupLocked()
	h.controlURL = ""
	if len(errs) > 0 {
		return fmt.Errorf("close browser: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ownsBrowserLocked reports whether Chrome was launched by this host and
// may be shut down with it.
func (h *Host) ownsBrowserLocked() bool {
	return h.launched != nil
}

func (h *Host) cleanupLocked() {
	if h.launched != nil {
		h.launched.Kill()
		h.launched = nil
	}
}
