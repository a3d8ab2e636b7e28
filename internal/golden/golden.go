package golden

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/natal"
)

// DefaultToleranceDeg applies when a fixture does not set its own tolerance.
const DefaultToleranceDeg = 0.01

// #region types
// Mismatch is one field where the computed snapshot disagrees with the fixture.
type Mismatch struct {
	Case  string `json:"case"`
	Field string `json:"field"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s want %s, got %s", m.Case, m.Field, m.Want, m.Got)
}

// Summary provides aggregate stats from a verification run.
type Summary struct {
	Cases      int        `json:"cases"`
	Passed     int        `json:"passed"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every case matched.
func (s Summary) OK() bool {
	return len(s.Mismatches) == 0
}

// #endregion types

// #region verify
// Verify computes every case with calc and compares it to the recorded values.
// A computation error aborts the run.
func Verify(ctx context.Context, calc *natal.Calculator, f *Fixture) (Summary, error) {
	tol := f.ToleranceDeg
	if tol <= 0 {
		tol = DefaultToleranceDeg
	}
	sum := Summary{Cases: len(f.Cases)}
	for _, c := range f.Cases {
		core, err := calc.Compute(ctx, c.Input.ToBirthInput())
		if err != nil {
			return sum, fmt.Errorf("case %s: %w", c.Name, err)
		}
		ms := Compare(c, core, tol)
		if len(ms) == 0 {
			sum.Passed++
		}
		sum.Mismatches = append(sum.Mismatches, ms...)
	}
	return sum, nil
}

// Compare lists the differences between core and the expectations of c.
func Compare(c Case, core natal.Core, tol float64) []Mismatch {
	var out []Mismatch
	add := func(field string, want, got any) {
		out = append(out, Mismatch{Case: c.Name, Field: field, Want: fmt.Sprint(want), Got: fmt.Sprint(got)})
	}
	exp := c.Expected

	if exp.BirthUTC != "" {
		if got := core.BirthUTC.UTC().Format(time.RFC3339); got != exp.BirthUTC {
			add("birth_utc", exp.BirthUTC, got)
		}
	}
	if exp.Resolution != "" && string(core.Resolution) != exp.Resolution {
		add("resolution", exp.Resolution, core.Resolution)
	}
	if exp.Ayanamsha != 0 && math.Abs(core.Ayanamsha-exp.Ayanamsha) > tol {
		add("ayanamsha", exp.Ayanamsha, core.Ayanamsha)
	}
	if core.MoonNakshatra.Index != exp.MoonNakshatra.Index {
		add("moon_nakshatra.index", exp.MoonNakshatra.Index, core.MoonNakshatra.Index)
	}
	if exp.MoonNakshatra.Name != "" && core.MoonNakshatra.Name != exp.MoonNakshatra.Name {
		add("moon_nakshatra.name", exp.MoonNakshatra.Name, core.MoonNakshatra.Name)
	}
	if exp.MoonNakshatra.Pada != 0 && core.MoonNakshatra.Pada != exp.MoonNakshatra.Pada {
		add("moon_nakshatra.pada", exp.MoonNakshatra.Pada, core.MoonNakshatra.Pada)
	}
	if core.MoonSign.Index != exp.MoonSign.Index {
		add("moon_sign.index", exp.MoonSign.Index, core.MoonSign.Index)
	}
	if exp.MoonSign.Name != "" && core.MoonSign.Name != exp.MoonSign.Name {
		add("moon_sign.name", exp.MoonSign.Name, core.MoonSign.Name)
	}

	for _, b := range ephemeris.Bodies {
		want, ok := exp.Sidereal[string(b)]
		if !ok {
			continue
		}
		got, ok := core.Longitudes[b]
		if !ok {
			add("sidereal."+string(b), want, "missing")
			continue
		}
		if angularGap(want, got) > tol {
			add("sidereal."+string(b), fmt.Sprintf("%.4f", want), fmt.Sprintf("%.4f", got))
		}
	}
	return out
}

// #endregion verify

// #region capture
// Capture records the snapshot for in as a new case, for refreshing fixtures
// after a deliberate model change.
func Capture(ctx context.Context, calc *natal.Calculator, name string, in CaseInput) (Case, error) {
	core, err := calc.Compute(ctx, in.ToBirthInput())
	if err != nil {
		return Case{}, fmt.Errorf("capture %s: %w", name, err)
	}
	sid := make(map[string]float64, len(core.Longitudes))
	for b, lon := range core.Longitudes {
		sid[string(b)] = math.Round(lon*1e4) / 1e4
	}
	return Case{
		Name:  name,
		Input: in,
		Expected: CaseExpected{
			BirthUTC:   core.BirthUTC.UTC().Format(time.RFC3339),
			Resolution: string(core.Resolution),
			Ayanamsha:  math.Round(core.Ayanamsha*1e5) / 1e5,
			MoonNakshatra: ExpectedNakshatra{
				Index: core.MoonNakshatra.Index,
				Name:  core.MoonNakshatra.Name,
				Pada:  core.MoonNakshatra.Pada,
			},
			MoonSign: ExpectedSign{Index: core.MoonSign.Index, Name: core.MoonSign.Name},
			Sidereal: sid,
		},
	}, nil
}

// #endregion capture

func angularGap(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
