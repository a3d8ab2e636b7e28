// Package transit compares transiting Saturn, Jupiter, Mars and Moon with a
// natal chart using sign-distance aspects.
package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

// #region analyzer
// Analyzer evaluates transits against natal charts.
type Analyzer struct {
	eph   ephemeris.Ephemeris
	model sidereal.Model
}

// NewAnalyzer creates an analyzer using eph and the given precession model.
func NewAnalyzer(eph ephemeris.Ephemeris, model sidereal.Model) *Analyzer {
	return &Analyzer{eph: eph, model: model}
}

// Signs returns the sidereal sign index of each body at t.
func (a *Analyzer) Signs(ctx context.Context, t time.Time, bodies ...ephemeris.Body) (map[ephemeris.Body]int, error) {
	ayan := a.model.Ayanamsha(t)
	out := make(map[ephemeris.Body]int, len(bodies))
	for _, b := range bodies {
		var trop float64
		switch b {
		case ephemeris.Rahu:
			trop = sidereal.MeanNode(t)
		case ephemeris.Ketu:
			trop = sidereal.MeanNode(t) + 180
		default:
			lon, err := a.eph.Longitude(ctx, b, t)
			if err != nil {
				return nil, fmt.Errorf("transit %s at %s: %w", b, t.Format(time.RFC3339), err)
			}
			trop = lon
		}
		out[b] = sidereal.SignIndex(sidereal.ToSidereal(trop, ayan))
	}
	return out, nil
}

// Analyze computes the aspect flags and confidence at t against core.
func (a *Analyzer) Analyze(ctx context.Context, t time.Time, core natal.Core) (Result, error) {
	signs, err := a.Signs(ctx, t, Transiting...)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(t, signs, core.MoonSign.Index, core.Sign(ephemeris.Saturn)), nil
}

// #endregion analyzer

// #region evaluate
// Evaluate applies the aspect tables to already sampled transit signs.
func Evaluate(t time.Time, signs map[ephemeris.Body]int, natalMoonSign, natalSaturnSign int) Result {
	r := Result{
		At:                t,
		Signs:             signs,
		NatalMoonSign:     natalMoonSign,
		SaturnAspect:      Aspects(ephemeris.Saturn, signs[ephemeris.Saturn], natalMoonSign),
		JupiterAspect:     Aspects(ephemeris.Jupiter, signs[ephemeris.Jupiter], natalMoonSign),
		MarsAspect:        Aspects(ephemeris.Mars, signs[ephemeris.Mars], natalMoonSign),
		MoonOnNatalSaturn: signs[ephemeris.Moon] == natalSaturnSign,
	}

	switch {
	case r.DoubleTransit():
		r.Confidence = High
	case r.MarsAspect || r.MoonOnNatalSaturn:
		r.Confidence = Medium
	default:
		r.Confidence = Low
	}
	return r
}

// Aspects reports whether body transiting fromSign aspects toSign.
func Aspects(body ephemeris.Body, fromSign, toSign int) bool {
	dists, ok := aspectDistances[body]
	if !ok {
		return false
	}
	d := sidereal.SignDistance(fromSign, toSign)
	for _, want := range dists {
		if d == want {
			return true
		}
	}
	return false
}

// #endregion evaluate
