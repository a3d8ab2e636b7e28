package dasha

import (
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
)

// #region lords
// Order is the fixed Vimshottari lord cycle.
var Order = [9]ephemeris.Body{
	ephemeris.Ketu, ephemeris.Venus, ephemeris.Sun,
	ephemeris.Moon, ephemeris.Mars, ephemeris.Rahu,
	ephemeris.Jupiter, ephemeris.Saturn, ephemeris.Mercury,
}

var lordYears = map[ephemeris.Body]float64{
	ephemeris.Ketu:    7,
	ephemeris.Venus:   20,
	ephemeris.Sun:     6,
	ephemeris.Moon:    10,
	ephemeris.Mars:    7,
	ephemeris.Rahu:    18,
	ephemeris.Jupiter: 16,
	ephemeris.Saturn:  19,
	ephemeris.Mercury: 17,
}

const (
	TotalYears    = 120.0
	YearDays      = 365.25 // Julian year
	MaxMahadashas = 30
)

// Years returns the full Mahadasha length of lord, or 0 for an unknown body.
func Years(lord ephemeris.Body) float64 {
	return lordYears[lord]
}

// LordOf returns the Vimshottari lord ruling a nakshatra index.
func LordOf(nakshatra int) ephemeris.Body {
	return Order[((nakshatra%9)+9)%9]
}

func position(lord ephemeris.Body) int {
	for i, l := range Order {
		if l == lord {
			return i
		}
	}
	return 0
}

// #endregion lords

// #region intervals
// Interval is one span of a single dasha level.
type Interval struct {
	Lord  ephemeris.Body `json:"lord"`
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
	Years float64        `json:"years"`
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Overlaps reports whether the interval intersects [from, to).
func (i Interval) Overlaps(from, to time.Time) bool {
	return i.Start.Before(to) && i.End.After(from)
}

// PDInterval is one resolved Mahadasha / Antardasha / Pratyantardasha triple.
type PDInterval struct {
	MD    ephemeris.Body `json:"md"`
	AD    ephemeris.Body `json:"ad"`
	PD    ephemeris.Body `json:"pd"`
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
}

// Contains reports whether t lies in [Start, End).
func (p PDInterval) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Overlaps reports whether the interval intersects [from, to).
func (p PDInterval) Overlaps(from, to time.Time) bool {
	return p.Start.Before(to) && p.End.After(from)
}

// #endregion intervals
