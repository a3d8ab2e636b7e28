package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
)

// #region analytic
// Analytic computes positions from mean orbital elements with the principal
// perturbation terms. Accuracy is a few arcminutes for the Sun and planets and
// roughly a quarter degree for the Moon, enough for sign and nakshatra work.
type Analytic struct{}

// NewAnalytic returns the built-in analytic ephemeris.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Longitude returns the tropical geocentric ecliptic longitude of body at t.
func (a *Analytic) Longitude(_ context.Context, body Body, t time.Time) (float64, error) {
	if !InRange(t) {
		return 0, fmt.Errorf("%s at %s: %w", body, t.UTC().Format(time.RFC3339), ErrOutOfRange)
	}
	d := dayNumber(t)
	switch body {
	case Sun:
		lon, _ := sunPosition(d)
		return norm(lon), nil
	case Moon:
		return moonLongitude(d), nil
	case Mercury, Venus, Mars, Jupiter, Saturn:
		return planetLongitude(body, d), nil
	default:
		return 0, fmt.Errorf("%s: %w", body, ErrUnsupportedBody)
	}
}

// Sunrise returns the sunrise instant for the UTC calendar date of day.
func (a *Analytic) Sunrise(_ context.Context, lat, lon float64, day time.Time) (time.Time, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return time.Time{}, fmt.Errorf("observer %.4f,%.4f: %w", lat, lon, ErrNoSunrise)
	}
	day = day.UTC()
	rise, _ := sunrise.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
	if rise.IsZero() {
		return time.Time{}, ErrNoSunrise
	}
	return rise.UTC(), nil
}

// #endregion analytic

// #region elements
type elements struct {
	N, i, w, a, e, M float64 // degrees, except a (AU or earth radii) and e
}

// dayNumber counts days from 2000 Jan 0.0 UT.
func dayNumber(t time.Time) float64 {
	return julianDay(t) - 2451543.5
}

func julianDay(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/86400e9 + 2440587.5
}

func planetElements(body Body, d float64) elements {
	switch body {
	case Mercury:
		return elements{48.3313 + 3.24587e-5*d, 7.0047 + 5.00e-8*d, 29.1241 + 1.01444e-5*d, 0.387098, 0.205635 + 5.59e-10*d, 168.6562 + 4.0923344368*d}
	case Venus:
		return elements{76.6799 + 2.46590e-5*d, 3.3946 + 2.75e-8*d, 54.8910 + 1.38374e-5*d, 0.723330, 0.006773 - 1.302e-9*d, 48.0052 + 1.6021302244*d}
	case Mars:
		return elements{49.5574 + 2.11081e-5*d, 1.8497 - 1.78e-8*d, 286.5016 + 2.92961e-5*d, 1.523688, 0.093405 + 2.516e-9*d, 18.6021 + 0.5240207766*d}
	case Jupiter:
		return elements{100.4542 + 2.76854e-5*d, 1.3030 - 1.557e-7*d, 273.8777 + 1.64505e-5*d, 5.20256, 0.048498 + 4.469e-9*d, 19.8950 + 0.0830853001*d}
	case Saturn:
		return elements{113.6634 + 2.38980e-5*d, 2.4886 - 1.081e-7*d, 339.3939 + 2.97661e-5*d, 9.55475, 0.055546 - 9.499e-9*d, 316.9670 + 0.0334442282*d}
	}
	return elements{}
}

func moonElements(d float64) elements {
	return elements{125.1228 - 0.0529538083*d, 5.1454, 318.0634 + 0.1643573223*d, 60.2666, 0.054900, 115.3654 + 13.0649929509*d}
}

// #endregion elements

// #region positions
// sunPosition returns the Sun's geocentric longitude and distance (AU).
func sunPosition(d float64) (lon, r float64) {
	w := 282.9404 + 4.70935e-5*d
	e := 0.016709 - 1.151e-9*d
	M := norm(356.0470 + 0.9856002585*d)
	E := eccentricAnomaly(M, e)
	xv := cosd(E) - e
	yv := math.Sqrt(1-e*e) * sind(E)
	v := atan2d(yv, xv)
	r = math.Hypot(xv, yv)
	return v + w, r
}

// heliocentric returns ecliptic rectangular coordinates for an element set.
func heliocentric(el elements) (x, y, z float64) {
	M := norm(el.M)
	E := eccentricAnomaly(M, el.e)
	xv := el.a * (cosd(E) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * sind(E)
	v := atan2d(yv, xv)
	r := math.Hypot(xv, yv)
	vw := v + el.w
	x = r * (cosd(el.N)*cosd(vw) - sind(el.N)*sind(vw)*cosd(el.i))
	y = r * (sind(el.N)*cosd(vw) + cosd(el.N)*sind(vw)*cosd(el.i))
	z = r * sind(vw) * sind(el.i)
	return x, y, z
}

func moonLongitude(d float64) float64 {
	el := moonElements(d)
	x, y, _ := heliocentric(el)
	lon := atan2d(y, x)

	sunM := norm(356.0470 + 0.9856002585*d)
	sunW := 282.9404 + 4.70935e-5*d
	Ls := sunM + sunW
	Lm := el.M + el.w + el.N
	Mm := el.M
	D := Lm - Ls
	F := Lm - el.N

	lon += -1.274*sind(Mm-2*D) +
		0.658*sind(2*D) -
		0.186*sind(sunM) -
		0.059*sind(2*Mm-2*D) -
		0.057*sind(Mm-2*D+sunM) +
		0.053*sind(Mm+2*D) +
		0.046*sind(2*D-sunM) +
		0.041*sind(Mm-sunM) -
		0.035*sind(D) -
		0.031*sind(Mm+sunM) -
		0.015*sind(2*F-2*D) +
		0.011*sind(Mm-4*D)
	return norm(lon)
}

func planetLongitude(body Body, d float64) float64 {
	x, y, z := heliocentric(planetElements(body, d))
	lon := atan2d(y, x)
	lat := atan2d(z, math.Hypot(x, y))
	r := math.Sqrt(x*x + y*y + z*z)

	if body == Jupiter || body == Saturn {
		Mj := norm(planetElements(Jupiter, d).M)
		Ms := norm(planetElements(Saturn, d).M)
		if body == Jupiter {
			lon += -0.332*sind(2*Mj-5*Ms-67.6) -
				0.056*sind(2*Mj-2*Ms+21) +
				0.042*sind(3*Mj-5*Ms+21) -
				0.036*sind(Mj-2*Ms) +
				0.022*cosd(Mj-Ms) +
				0.023*sind(2*Mj-3*Ms+52) -
				0.016*sind(Mj-5*Ms-69)
		} else {
			lon += 0.812*sind(2*Mj-5*Ms-67.6) -
				0.229*cosd(2*Mj-4*Ms-2) +
				0.119*sind(Mj-2*Ms-3) +
				0.046*sind(2*Mj-6*Ms-69) +
				0.014*sind(Mj-3*Ms+32)
		}
		x = r * cosd(lon) * cosd(lat)
		y = r * sind(lon) * cosd(lat)
	}

	sunLon, sunR := sunPosition(d)
	xg := x + sunR*cosd(sunLon)
	yg := y + sunR*sind(sunLon)
	return norm(atan2d(yg, xg))
}

// eccentricAnomaly solves Kepler's equation in degrees.
func eccentricAnomaly(M, e float64) float64 {
	E := M + rad2deg*e*sind(M)*(1+e*cosd(M))
	for iter := 0; iter < 20; iter++ {
		next := E - (E-rad2deg*e*sind(E)-M)/(1-e*cosd(E))
		if math.Abs(next-E) < 1e-9 {
			return next
		}
		E = next
	}
	return E
}

// #endregion positions

// #region helpers
const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

func sind(x float64) float64      { return math.Sin(x * deg2rad) }
func cosd(x float64) float64      { return math.Cos(x * deg2rad) }
func atan2d(y, x float64) float64 { return math.Atan2(y, x) * rad2deg }

func norm(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// #endregion helpers
