// Package sidereal converts tropical longitudes to the sidereal zodiac and
// maps sidereal longitudes onto signs and nakshatras.
package sidereal

import (
	"math"
	"time"
)

// #region constants
const (
	// J2000 is the Julian day of 2000-01-01 12:00 TT, used as UT here.
	J2000 = 2451545.0

	// NakshatraSpan is the width of one nakshatra in degrees (13°20′).
	NakshatraSpan = 360.0 / 27.0
	// PadaSpan is a quarter of a nakshatra.
	PadaSpan = NakshatraSpan / 4.0
	// SignSpan is the width of one sign in degrees.
	SignSpan = 30.0
)

// Nakshatras in zodiacal order starting at 0° sidereal Aries.
var Nakshatras = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Signs (rashis) in zodiacal order.
var Signs = [12]string{
	"Mesha", "Vrishabha", "Mithuna", "Karka", "Simha", "Kanya",
	"Tula", "Vrishchika", "Dhanu", "Makara", "Kumbha", "Meena",
}

// #endregion constants

// #region model
// Model is a linear precession model: Reference degrees at ReferenceJD,
// advancing RateArcsecPerYear per Julian year.
type Model struct {
	ReferenceDegrees  float64 `yaml:"referenceDegrees" json:"referenceDegrees"`
	ReferenceJD       float64 `yaml:"referenceJD" json:"referenceJD"`
	RateArcsecPerYear float64 `yaml:"rateArcsecPerYear" json:"rateArcsecPerYear"`
}

// DefaultModel returns a Lahiri-anchored linear model.
func DefaultModel() Model {
	return Model{
		ReferenceDegrees:  23.853,
		ReferenceJD:       J2000,
		RateArcsecPerYear: 50.29,
	}
}

// Ayanamsha returns the precession correction in degrees at t.
func (m Model) Ayanamsha(t time.Time) float64 {
	years := (JulianDay(t) - m.ReferenceJD) / 365.25
	return m.ReferenceDegrees + years*m.RateArcsecPerYear/3600
}

// #endregion model

// #region conversion
// Normalize folds deg into [0,360).
func Normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod of a tiny negative can round back up to 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// ToSidereal subtracts ayanamsha from a tropical longitude.
func ToSidereal(tropical, ayanamsha float64) float64 {
	return Normalize(tropical - ayanamsha)
}

// JulianDay returns the Julian day number of t (UT).
func JulianDay(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/86400e9 + 2440587.5
}

// MeanNode returns the tropical longitude of the Moon's mean ascending node.
func MeanNode(t time.Time) float64 {
	T := (JulianDay(t) - J2000) / 36525
	return Normalize(125.04452 - 1934.136261*T + 0.0020708*T*T + T*T*T/450000)
}

// #endregion conversion

// #region divisions
// Nakshatra locates a longitude within the 27-fold division.
type Nakshatra struct {
	Index   int     `json:"index"`
	Name    string  `json:"name"`
	Pada    int     `json:"pada"`
	Elapsed float64 `json:"elapsedFraction"`
}

// Sign locates a longitude within the 12-fold division.
type Sign struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// NakshatraOf returns the nakshatra, pada (1-4) and elapsed fraction for a sidereal longitude.
func NakshatraOf(lon float64) Nakshatra {
	lon = Normalize(lon)
	idx := int(math.Floor(lon / NakshatraSpan))
	if idx > 26 {
		idx = 26
	}
	within := lon - float64(idx)*NakshatraSpan
	pada := int(math.Floor(within/PadaSpan)) + 1
	if pada > 4 {
		pada = 4
	}
	return Nakshatra{
		Index:   idx,
		Name:    Nakshatras[idx],
		Pada:    pada,
		Elapsed: within / NakshatraSpan,
	}
}

// SignOf returns the sign for a sidereal longitude.
func SignOf(lon float64) Sign {
	idx := SignIndex(lon)
	return Sign{Index: idx, Name: Signs[idx]}
}

// SignIndex returns floor(lon/30) for a sidereal longitude.
func SignIndex(lon float64) int {
	idx := int(math.Floor(Normalize(lon) / SignSpan))
	if idx > 11 {
		idx = 11
	}
	return idx
}

// SignDistance is the forward cyclic distance from sign from to sign to, in 0..11.
func SignDistance(from, to int) int {
	return ((to-from)%12 + 12) % 12
}

// #endregion divisions
