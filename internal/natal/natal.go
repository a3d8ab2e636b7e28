// Package natal computes the sidereal birth snapshot from local birth inputs.
package natal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // zone resolution must not depend on the host

	"github.com/prasanthkuna/vedaos/internal/clock"
	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

// #region calculator
// Calculator turns birth inputs into a Core using an ephemeris.
type Calculator struct {
	eph    ephemeris.Ephemeris
	config Config
}

// NewCalculator creates a calculator over eph.
func NewCalculator(eph ephemeris.Ephemeris, config Config) *Calculator {
	if config.DefaultZone == "" {
		config.DefaultZone = "UTC"
	}
	return &Calculator{eph: eph, config: config}
}

// Compute resolves the birth instant and builds the natal snapshot.
// An ephemeris failure is retried once with noon in the default zone; a second
// failure is returned wrapped in ErrComputation.
func (c *Calculator) Compute(ctx context.Context, in BirthInput) (Core, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return Core{}, err
	}

	utc, res := ResolveUTC(date, in.Time, in.Zone)
	core, err := c.computeAt(ctx, utc, in.Location, date)
	if err == nil {
		core.Resolution = res
		core.Place = in.Place
		return core, nil
	}

	log.Printf("[natal] ephemeris failed at %s: %v; retrying at %s in %s",
		utc.Format(time.RFC3339), err, clock.Noon, c.config.DefaultZone)

	canonical, _ := ResolveUTC(date, clock.Noon, c.config.DefaultZone)
	core, retryErr := c.computeAt(ctx, canonical, in.Location, date)
	if retryErr != nil {
		return Core{}, fmt.Errorf("%w: %w", ErrComputation, retryErr)
	}
	core.Resolution = ResolvedCanonical
	core.Place = in.Place
	return core, nil
}

// #endregion calculator

// #region compute-at
func (c *Calculator) computeAt(ctx context.Context, utc time.Time, loc *GeoPoint, date time.Time) (Core, error) {
	ayan := c.config.Model.Ayanamsha(utc)
	lons := make(map[ephemeris.Body]float64, len(ephemeris.Bodies))

	for _, b := range ephemeris.Classical {
		trop, err := c.eph.Longitude(ctx, b, utc)
		if err != nil {
			return Core{}, fmt.Errorf("longitude %s: %w", b, err)
		}
		lons[b] = sidereal.ToSidereal(trop, ayan)
	}

	rahu := sidereal.ToSidereal(sidereal.MeanNode(utc), ayan)
	lons[ephemeris.Rahu] = rahu
	lons[ephemeris.Ketu] = sidereal.Normalize(rahu + 180)

	moon := lons[ephemeris.Moon]
	core := Core{
		BirthUTC:      utc,
		Ayanamsha:     ayan,
		Longitudes:    lons,
		MoonNakshatra: sidereal.NakshatraOf(moon),
		MoonSign:      sidereal.SignOf(moon),
	}

	if loc != nil {
		rise, err := c.eph.Sunrise(ctx, loc.Lat, loc.Lon, date)
		if err == nil {
			core.Sunrise = &rise
		} else if !errors.Is(err, ephemeris.ErrNoSunrise) {
			log.Printf("[natal] sunrise unavailable at %.4f,%.4f: %v", loc.Lat, loc.Lon, err)
		}
	}
	return core, nil
}

// #endregion compute-at

// #region resolve
// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return d, nil
}

// ResolveUTC converts a local wall-clock time on date in zone to UTC. A blank
// time means noon. If the time or zone cannot be parsed, or the zone is the
// host's "Local", the literal clock values are read as UTC instead and the
// result is marked ResolvedLiteralUTC.
func ResolveUTC(date time.Time, localTime, zone string) (time.Time, Resolution) {
	if strings.TrimSpace(localTime) == "" {
		localTime = clock.Noon
	}
	h, m, ok := clock.Parse(localTime)
	if !ok {
		return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC), ResolvedLiteralUTC
	}

	zone = strings.TrimSpace(zone)
	if zone == "" {
		return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.UTC), ResolvedLiteralUTC
	}
	loc, err := clock.LoadZone(zone)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.UTC), ResolvedLiteralUTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc).UTC(), ResolvedZone
}

// #endregion resolve
