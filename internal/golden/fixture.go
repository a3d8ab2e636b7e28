// Package golden checks natal snapshots against recorded reference cases.
package golden

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prasanthkuna/vedaos/internal/natal"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a golden natal fixture.
type Fixture struct {
	Description  string  `json:"description"`
	ToleranceDeg float64 `json:"tolerance_deg"`
	Cases        []Case  `json:"cases"`
}

// Case is one birth input and its expected snapshot.
type Case struct {
	Name     string       `json:"name"`
	Input    CaseInput    `json:"input"`
	Expected CaseExpected `json:"expected"`
}

// CaseInput mirrors natal.BirthInput with JSON tags.
type CaseInput struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Zone  string `json:"zone"`
	Place string `json:"place,omitempty"`
}

// CaseExpected is the recorded snapshot. Sidereal is keyed by body name.
type CaseExpected struct {
	BirthUTC      string             `json:"birth_utc"`
	Resolution    string             `json:"resolution"`
	Ayanamsha     float64            `json:"ayanamsha"`
	MoonNakshatra ExpectedNakshatra  `json:"moon_nakshatra"`
	MoonSign      ExpectedSign       `json:"moon_sign"`
	Sidereal      map[string]float64 `json:"sidereal"`
}

type ExpectedNakshatra struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Pada  int    `json:"pada"`
}

type ExpectedSign struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.ToleranceDeg <= 0 {
		f.ToleranceDeg = DefaultToleranceDeg
	}
	return &f, nil
}

// SaveFixture writes f as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ToBirthInput converts a CaseInput to natal calculator input.
func (in CaseInput) ToBirthInput() natal.BirthInput {
	return natal.BirthInput{
		Date:  in.Date,
		Time:  in.Time,
		Zone:  in.Zone,
		Place: in.Place,
	}
}

// #endregion fixture-loader
