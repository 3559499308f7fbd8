// Package geo defines the one-shot geolocation capability and the read-only
// map preview built from a reading.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnsupported means the host has no location capability at all.
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrDenied means the host refused or failed to produce a reading.
	ErrDenied = errors.New("location access denied")
)

// Position is a reading in floating-point degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether p lies within the WGS84 coordinate ranges.
func (p Position) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

func (p Position) String() string {
	return fmt.Sprintf("%g,%g", p.Latitude, p.Longitude)
}

// Locator produces a single current-position reading. Implementations
// return an error wrapping ErrUnsupported or ErrDenied on failure.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

// CurrentPosition calls f.
func (f LocatorFunc) CurrentPosition(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Unsupported is a Locator for hosts without a location capability.
var Unsupported Locator = LocatorFunc(func(context.Context) (Position, error) {
	return Position{}, ErrUnsupported
})
