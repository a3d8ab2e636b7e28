package ephemeris

import (
	"context"
	"errors"
	"time"
)

// #region body
// Body identifies one of the nine grahas used by the chart.
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mars    Body = "Mars"
	Mercury Body = "Mercury"
	Jupiter Body = "Jupiter"
	Venus   Body = "Venus"
	Saturn  Body = "Saturn"
	Rahu    Body = "Rahu"
	Ketu    Body = "Ketu"
)

// Bodies lists all nine bodies in chart order.
var Bodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// Classical lists the seven bodies served by an ephemeris. The nodes are derived, not observed.
var Classical = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// ParseBody maps a body name to a Body.
func ParseBody(name string) (Body, bool) {
	for _, b := range Bodies {
		if string(b) == name {
			return b, true
		}
	}
	return "", false
}

// #endregion body

// #region errors
var (
	// ErrOutOfRange is returned for instants the backend cannot serve.
	ErrOutOfRange = errors.New("instant outside supported ephemeris range")
	// ErrUnsupportedBody is returned for bodies the backend does not model.
	ErrUnsupportedBody = errors.New("unsupported body")
	// ErrNoSunrise is returned when the sun does not rise on the requested day at that location.
	ErrNoSunrise = errors.New("sunrise unavailable")
)

// #endregion errors

// #region ephemeris-interface
// Ephemeris answers geocentric questions about the sky.
type Ephemeris interface {
	// Longitude returns the tropical geocentric ecliptic longitude of body at t, in [0,360).
	Longitude(ctx context.Context, body Body, t time.Time) (float64, error)
	// Sunrise returns the sunrise instant on the UTC calendar day of day at the given observer.
	Sunrise(ctx context.Context, lat, lon float64, day time.Time) (time.Time, error)
}

// #endregion ephemeris-interface

// #region range
// Supported range of the analytic backend.
var (
	RangeStart = time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)
	RangeEnd   = time.Date(2201, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// InRange reports whether t falls inside [RangeStart, RangeEnd).
func InRange(t time.Time) bool {
	return !t.Before(RangeStart) && t.Before(RangeEnd)
}

// #endregion range
