package natal

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
)

// #region fakes
// noonOnly fails every longitude query except at 12:00 UTC.
type noonOnly struct {
	ephemeris.Ephemeris
	calls int
}

func (n *noonOnly) Longitude(ctx context.Context, b ephemeris.Body, t time.Time) (float64, error) {
	n.calls++
	if t.UTC().Hour() != 12 || t.UTC().Minute() != 0 {
		return 0, ephemeris.ErrOutOfRange
	}
	return n.Ephemeris.Longitude(ctx, b, t)
}

type alwaysFail struct {
	ephemeris.Ephemeris
	calls int
}

func (a *alwaysFail) Longitude(context.Context, ephemeris.Body, time.Time) (float64, error) {
	a.calls++
	return 0, ephemeris.ErrOutOfRange
}

// #endregion fakes

// #region compute-tests
func TestComputeGoldenKolkata(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{
		Date: "1992-10-24", Time: "00:30", Zone: "Asia/Kolkata", Place: "Hyderabad",
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantUTC := time.Date(1992, 10, 23, 19, 0, 0, 0, time.UTC)
	if !core.BirthUTC.Equal(wantUTC) {
		t.Fatalf("birth UTC = %s, want %s", core.BirthUTC, wantUTC)
	}
	if core.Resolution != ResolvedZone {
		t.Errorf("resolution = %s, want zone", core.Resolution)
	}
	if core.MoonNakshatra.Index != 11 || core.MoonNakshatra.Name != "Uttara Phalguni" || core.MoonNakshatra.Pada != 4 {
		t.Errorf("moon nakshatra = %+v", core.MoonNakshatra)
	}
	if core.MoonSign.Index != 5 || core.MoonSign.Name != "Kanya" {
		t.Errorf("moon sign = %+v", core.MoonSign)
	}
	if len(core.Longitudes) != 9 {
		t.Fatalf("expected 9 longitudes, got %d", len(core.Longitudes))
	}
	for b, lon := range core.Longitudes {
		if lon < 0 || lon >= 360 {
			t.Errorf("%s = %v outside [0,360)", b, lon)
		}
	}
	diff := math.Abs(core.Longitude(ephemeris.Ketu) - core.Longitude(ephemeris.Rahu))
	if math.Abs(diff-180) > 1e-9 {
		t.Errorf("Rahu/Ketu separation = %v, want 180", diff)
	}
	if core.Sunrise != nil {
		t.Error("sunrise should be nil without a location")
	}
}

func TestComputeBlankTimeDefaultsToNoon(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{Date: "2001-05-06", Zone: "UTC"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !core.BirthUTC.Equal(time.Date(2001, 5, 6, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("birth UTC = %s", core.BirthUTC)
	}
}

func TestComputeBadZoneFallsBackToLiteralUTC(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{Date: "1992-10-24", Time: "00:30", Zone: "Mars/Olympus"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if core.Resolution != ResolvedLiteralUTC {
		t.Errorf("resolution = %s, want literal_utc", core.Resolution)
	}
	if !core.BirthUTC.Equal(time.Date(1992, 10, 24, 0, 30, 0, 0, time.UTC)) {
		t.Errorf("birth UTC = %s", core.BirthUTC)
	}
}

func TestComputeInvalidDate(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	_, err := calc.Compute(context.Background(), BirthInput{Date: "24/10/1992", Time: "00:30"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestComputeRetriesWithCanonicalInputs(t *testing.T) {
	eph := &noonOnly{Ephemeris: ephemeris.NewAnalytic()}
	calc := NewCalculator(eph, DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{Date: "1992-10-24", Time: "00:30", Zone: "Asia/Kolkata"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if core.Resolution != ResolvedCanonical {
		t.Errorf("resolution = %s, want canonical_retry", core.Resolution)
	}
	if !core.BirthUTC.Equal(time.Date(1992, 10, 24, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("canonical birth UTC = %s", core.BirthUTC)
	}
}

func TestComputeSurfacesFailureAfterOneRetry(t *testing.T) {
	eph := &alwaysFail{Ephemeris: ephemeris.NewAnalytic()}
	calc := NewCalculator(eph, DefaultConfig())
	_, err := calc.Compute(context.Background(), BirthInput{Date: "1992-10-24", Time: "00:30", Zone: "Asia/Kolkata"})
	if !errors.Is(err, ErrComputation) {
		t.Fatalf("expected ErrComputation, got %v", err)
	}
	if !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("expected wrapped ErrOutOfRange, got %v", err)
	}
	// First attempt fails on its first body, and so does the retry.
	if eph.calls != 2 {
		t.Errorf("expected 2 ephemeris calls, got %d", eph.calls)
	}
}

func TestComputeSunriseWithLocation(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{
		Date: "1992-10-24", Time: "00:30", Zone: "Asia/Kolkata",
		Location: &GeoPoint{Lat: 17.385, Lon: 78.4867},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if core.Sunrise == nil {
		t.Fatal("expected sunrise for Hyderabad")
	}
	if y, m, d := core.Sunrise.Date(); y != 1992 || m != time.October || d != 24 {
		t.Errorf("sunrise date = %s", core.Sunrise)
	}
}

func TestComputePolarSunriseIsNil(t *testing.T) {
	calc := NewCalculator(ephemeris.NewAnalytic(), DefaultConfig())
	core, err := calc.Compute(context.Background(), BirthInput{
		Date: "2020-12-21", Time: "10:00", Zone: "UTC",
		Location: &GeoPoint{Lat: 89.5, Lon: 0},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if core.Sunrise != nil {
		t.Errorf("expected nil sunrise in polar night, got %s", core.Sunrise)
	}
}

// #endregion compute-tests

// #region resolve-tests
func TestResolveUTCUnparseableTime(t *testing.T) {
	date := time.Date(2000, 2, 3, 0, 0, 0, 0, time.UTC)
	got, res := ResolveUTC(date, "quarter past", "Asia/Kolkata")
	if res != ResolvedLiteralUTC {
		t.Errorf("resolution = %s", res)
	}
	if !got.Equal(time.Date(2000, 2, 3, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("got %s", got)
	}
}

func TestResolveUTCIgnoresHostZone(t *testing.T) {
	saved := time.Local
	t.Cleanup(func() { time.Local = saved })

	date := time.Date(1992, 10, 24, 0, 0, 0, 0, time.UTC)
	want := time.Date(1992, 10, 24, 0, 30, 0, 0, time.UTC)
	for _, host := range []*time.Location{time.FixedZone("east", 5*3600), time.FixedZone("west", -7*3600)} {
		time.Local = host
		got, res := ResolveUTC(date, "00:30", "Local")
		if res != ResolvedLiteralUTC || !got.Equal(want) {
			t.Errorf("host %s: got %s (%s), want %s literal", host, got, res, want)
		}
	}
}

func TestAtmakaraka(t *testing.T) {
	core := Core{Longitudes: map[ephemeris.Body]float64{
		ephemeris.Sun: 10, ephemeris.Moon: 59.5, ephemeris.Mars: 100,
		ephemeris.Mercury: 200, ephemeris.Jupiter: 5, ephemeris.Venus: 28, ephemeris.Saturn: 3,
		ephemeris.Rahu: 29.9, ephemeris.Ketu: 209.9,
	}}
	if got := core.Atmakaraka(); got != ephemeris.Moon {
		t.Errorf("atmakaraka = %s, want Moon", got)
	}
	pr := core.AtmakarakaPrimer()
	if pr.Planet != ephemeris.Moon || pr.NarrativeKey != "atma_moon" || !strings.Contains(pr.ResonanceQuestion, "Moon") {
		t.Errorf("primer = %+v", pr)
	}
}

// #endregion resolve-tests
