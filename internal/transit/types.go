package transit

import (
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
)

// #region aspects
// aspectDistances are forward sign distances (0 = same sign) at which a
// transiting body aspects a sign. These are fixed domain constants.
var aspectDistances = map[ephemeris.Body][3]int{
	ephemeris.Saturn:  {2, 6, 9},
	ephemeris.Jupiter: {4, 6, 8},
	ephemeris.Mars:    {3, 6, 7},
}

// Transiting lists the bodies sampled for each analysis.
var Transiting = []ephemeris.Body{ephemeris.Saturn, ephemeris.Jupiter, ephemeris.Mars, ephemeris.Moon}

// #endregion aspects

// #region confidence
// Confidence grades how strongly transits support a period.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// #endregion confidence

// #region result
// Result is the aspect picture at one instant against a natal chart.
type Result struct {
	At                time.Time              `json:"at"`
	Signs             map[ephemeris.Body]int `json:"signs"`
	NatalMoonSign     int                    `json:"natalMoonSign"`
	SaturnAspect      bool                   `json:"saturnAspect"`
	JupiterAspect     bool                   `json:"jupiterAspect"`
	MarsAspect        bool                   `json:"marsAspect"`
	MoonOnNatalSaturn bool                   `json:"moonOnNatalSaturn"`
	Confidence        Confidence             `json:"confidence"`
}

// DoubleTransit reports whether Saturn and Jupiter both aspect the natal Moon sign.
func (r Result) DoubleTransit() bool {
	return r.SaturnAspect && r.JupiterAspect
}

// #endregion result
