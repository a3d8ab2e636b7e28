package natal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

// #region errors
var (
	// ErrInvalidDate is returned when the birth date cannot be parsed at all.
	ErrInvalidDate = errors.New("invalid birth date")
	// ErrComputation is returned when the ephemeris fails even after the canonical retry.
	ErrComputation = errors.New("natal computation failed")
)

// #endregion errors

// #region input
// GeoPoint is an observer location in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// BirthInput is a fully resolved birth record. Time is the single effective
// local time of birth; callers settle any rectified-vs-stated choice first.
type BirthInput struct {
	Date     string    // YYYY-MM-DD
	Time     string    // HH:MM local, blank means 12:00
	Zone     string    // IANA zone name
	Location *GeoPoint // optional
	Place    string
}

// #endregion input

// #region resolution
// Resolution records how the local birth time became a UTC instant.
type Resolution string

const (
	ResolvedZone       Resolution = "zone"
	ResolvedLiteralUTC Resolution = "literal_utc"
	ResolvedCanonical  Resolution = "canonical_retry"
)

// #endregion resolution

// #region config
// Config holds the precession model and fallback zone used for the canonical retry.
type Config struct {
	Model       sidereal.Model
	DefaultZone string
}

// DefaultConfig returns the Lahiri linear model with UTC as the fallback zone.
func DefaultConfig() Config {
	return Config{
		Model:       sidereal.DefaultModel(),
		DefaultZone: "UTC",
	}
}

// #endregion config

// #region core
// Core is one natal snapshot: sidereal longitudes of the nine bodies and the
// Moon's nakshatra and sign.
type Core struct {
	BirthUTC      time.Time                  `json:"birthUtc"`
	Ayanamsha     float64                    `json:"ayanamsha"`
	Longitudes    map[ephemeris.Body]float64 `json:"longitudes"`
	MoonNakshatra sidereal.Nakshatra         `json:"moonNakshatra"`
	MoonSign      sidereal.Sign              `json:"moonSign"`
	Sunrise       *time.Time                 `json:"sunriseUtc,omitempty"`
	Resolution    Resolution                 `json:"resolution"`
	Place         string                     `json:"place,omitempty"`
}

// Longitude returns the sidereal longitude of b.
func (c Core) Longitude(b ephemeris.Body) float64 {
	return c.Longitudes[b]
}

// Sign returns the sidereal sign index (0..11) of b.
func (c Core) Sign(b ephemeris.Body) int {
	return sidereal.SignIndex(c.Longitudes[b])
}

// Atmakaraka returns the classical body furthest advanced within its sign.
func (c Core) Atmakaraka() ephemeris.Body {
	best := ephemeris.Sun
	bestDeg := -1.0
	for _, b := range ephemeris.Classical {
		deg := math.Mod(c.Longitudes[b], sidereal.SignSpan)
		if deg > bestDeg {
			best, bestDeg = b, deg
		}
	}
	return best
}

// Primer introduces the atmakaraka for confirmation by the person.
type Primer struct {
	Planet            ephemeris.Body `json:"planet"`
	NarrativeKey      string         `json:"narrativeKey"`
	ResonanceQuestion string         `json:"resonanceQuestion"`
}

// AtmakarakaPrimer names the atmakaraka and its narrative key, atma_<planet>.
func (c Core) AtmakarakaPrimer() Primer {
	b := c.Atmakaraka()
	return Primer{
		Planet:            b,
		NarrativeKey:      "atma_" + strings.ToLower(string(b)),
		ResonanceQuestion: fmt.Sprintf("Your Atmakaraka is %s. Does this core life theme resonate with you?", b),
	}
}

// #endregion core
