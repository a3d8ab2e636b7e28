// Package dasha derives the Vimshottari Mahadasha, Antardasha and
// Pratyantardasha periods from the natal Moon.
package dasha

import (
	"time"

	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

// #region mahadasha
// Mahadashas returns the Mahadasha sequence for a natal core covering birth
// through until.
func Mahadashas(core natal.Core, until time.Time) []Interval {
	return Sequence(core.BirthUTC, core.MoonNakshatra, until)
}

// Sequence starts at birth with the lord of the Moon's nakshatra. The first
// period is shortened by the fraction of the nakshatra already traversed;
// later periods run their full length in cycle order until until is reached
// or MaxMahadashas periods exist.
func Sequence(birth time.Time, moon sidereal.Nakshatra, until time.Time) []Interval {
	elapsed := moon.Elapsed
	if elapsed < 0 || elapsed >= 1 {
		elapsed = 0
	}

	first := position(LordOf(moon.Index))
	out := make([]Interval, 0, 12)
	start := birth
	for i := 0; i < MaxMahadashas; i++ {
		lord := Order[(first+i)%len(Order)]
		years := Years(lord)
		if i == 0 {
			years *= 1 - elapsed
		}
		end := start.Add(yearsToDuration(years))
		out = append(out, Interval{Lord: lord, Start: start, End: end, Years: years})
		if !end.Before(until) {
			break
		}
		start = end
	}
	return out
}

// #endregion mahadasha

// #region subdivide
// Subdivide splits parent into nine children in lord order starting from the
// parent's lord, each proportional to its Mahadasha length. Boundaries come
// from cumulative sums so the children tile the parent exactly.
func Subdivide(parent Interval) []Interval {
	span := float64(parent.End.Sub(parent.Start))
	first := position(parent.Lord)

	out := make([]Interval, len(Order))
	cum := 0.0
	prev := parent.Start
	for i := range Order {
		lord := Order[(first+i)%len(Order)]
		cum += Years(lord)
		end := parent.Start.Add(time.Duration(span * cum / TotalYears))
		if i == len(Order)-1 {
			end = parent.End
		}
		out[i] = Interval{
			Lord:  lord,
			Start: prev,
			End:   end,
			Years: parent.Years * Years(lord) / TotalYears,
		}
		prev = end
	}
	return out
}

// Antardashas subdivides one Mahadasha.
func Antardashas(md Interval) []Interval {
	return Subdivide(md)
}

// Pratyantardashas materializes every MD x AD x PD triple in order.
func Pratyantardashas(mds []Interval) []PDInterval {
	out := make([]PDInterval, 0, len(mds)*81)
	for _, md := range mds {
		for _, ad := range Subdivide(md) {
			for _, pd := range Subdivide(ad) {
				out = append(out, PDInterval{MD: md.Lord, AD: ad.Lord, PD: pd.Lord, Start: pd.Start, End: pd.End})
			}
		}
	}
	return out
}

// #endregion subdivide

// #region walk
// Walk visits, in order, the Pratyantardashas overlapping [from, to). Only
// Mahadashas and Antardashas overlapping the range are expanded. Walking stops
// early when fn returns false.
func Walk(mds []Interval, from, to time.Time, fn func(PDInterval) bool) {
	for _, md := range mds {
		if !md.Overlaps(from, to) {
			continue
		}
		for _, ad := range Subdivide(md) {
			if !ad.Overlaps(from, to) {
				continue
			}
			for _, pd := range Subdivide(ad) {
				if !pd.Overlaps(from, to) {
					continue
				}
				if !fn(PDInterval{MD: md.Lord, AD: ad.Lord, PD: pd.Lord, Start: pd.Start, End: pd.End}) {
					return
				}
			}
		}
	}
}

// At returns the Pratyantardasha running at t.
func At(mds []Interval, t time.Time) (PDInterval, bool) {
	var found PDInterval
	ok := false
	Walk(mds, t, t.Add(time.Nanosecond), func(pd PDInterval) bool {
		if pd.Contains(t) {
			found, ok = pd, true
			return false
		}
		return true
	})
	return found, ok
}

// #endregion walk

func yearsToDuration(years float64) time.Duration {
	return time.Duration(years * YearDays * float64(24*time.Hour))
}
