package browser

import (
	"encoding/json"
	"fmt"

	"regform/internal/geo"
)

// geolocationScript resolves with either a reading or a failure description.
// It never rejects, so every outcome arrives as a value.
const geolocationScript = `
() => new Promise((resolve) => {
	if (!navigator.geolocation) {
		resolve({ ok: false, unsupported: true, code: 0, message: "navigator.geolocation missing" });
		return;
	}
	navigator.geolocation.getCurrentPosition(
		(pos) => resolve({ ok: true, latitude: pos.coords.latitude, longitude: pos.coords.longitude }),
		(err) => resolve({ ok: false, unsupported: false, code: err.code, message: err.message }),
		{ enableHighAccuracy: false, maximumAge: 0 }
	);
})
`

// geolocationResult is the value the script resolves with.
type geolocationResult struct {
	OK          bool     `json:"ok"`
	Unsupported bool     `json:"unsupported"`
	Code        int      `json:"code"`
	Message     string   `json:"message"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// GeolocationPositionError codes.
const (
	codePermissionDenied    = 1
	codePositionUnavailable = 2
	codeTimeout             = 3
)

func parseGeolocationResult(raw []byte) (geo.Position, error) {
	var r geolocationResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return geo.Position{}, fmt.Errorf("%w: undecodable result: %v", geo.ErrDenied, err)
	}
	if r.Unsupported {
		return geo.Position{}, fmt.Errorf("browser: %w", geo.ErrUnsupported)
	}
	if !r.OK {
		return geo.Position{}, fmt.Errorf("%w: %s (%s)", geo.ErrDenied, codeName(r.Code), r.Message)
	}
	if r.Latitude == nil || r.Longitude == nil {
		return geo.Position{}, fmt.Errorf("%w: reading without coordinates", geo.ErrDenied)
	}
	return geo.Position{Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
}

func codeName(code int) string {
	switch code {
	case codePermissionDenied:
		return "permission denied"
	case codePositionUnavailable:
		return "position unavailable"
	case codeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("code %d", code)
	}
}
