// Package profile resolves the read-only profile record into the single
// inputs the computation core expects.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/prasanthkuna/vedaos/internal/birthtime"
	"github.com/prasanthkuna/vedaos/internal/natal"
)

// ErrMissingDOB is returned by Validate when no birth date is set.
var ErrMissingDOB = errors.New("profile has no date of birth")

// #region profile
// Profile mirrors the stored profile record. Optional coordinates are pointers.
type Profile struct {
	Name                   string              `yaml:"name,omitempty" json:"name,omitempty"`
	DOB                    string              `yaml:"dob" json:"dob"`
	TobLocal               string              `yaml:"tobLocal,omitempty" json:"tobLocal,omitempty"`
	RectifiedTobLocal      string              `yaml:"rectifiedTobLocal,omitempty" json:"rectifiedTobLocal,omitempty"`
	Place                  string              `yaml:"pobText,omitempty" json:"pobText,omitempty"`
	Zone                   string              `yaml:"tzIana" json:"tzIana"`
	Lat                    *float64            `yaml:"lat,omitempty" json:"lat,omitempty"`
	Lon                    *float64            `yaml:"lon,omitempty" json:"lon,omitempty"`
	CurrentLat             *float64            `yaml:"currentLat,omitempty" json:"currentLat,omitempty"`
	CurrentLon             *float64            `yaml:"currentLon,omitempty" json:"currentLon,omitempty"`
	CurrentZone            string              `yaml:"currentTzIana,omitempty" json:"currentTzIana,omitempty"`
	InputMode              birthtime.InputMode `yaml:"birthTimeInputMode,omitempty" json:"birthTimeInputMode,omitempty"`
	RectificationCompleted bool                `yaml:"rectificationCompleted,omitempty" json:"rectificationCompleted,omitempty"`
}

// Validate checks the fields the core cannot default.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.DOB) == "" {
		return ErrMissingDOB
	}
	if _, err := natal.ParseDate(p.DOB); err != nil {
		return err
	}
	if (p.Lat == nil) != (p.Lon == nil) {
		return fmt.Errorf("birth location needs both lat and lon")
	}
	if (p.CurrentLat == nil) != (p.CurrentLon == nil) {
		return fmt.Errorf("current location needs both lat and lon")
	}
	return nil
}

// #endregion profile

// #region resolution
// EffectiveTime is the rectified time when one exists, else the stated time.
func (p Profile) EffectiveTime() string {
	if t := strings.TrimSpace(p.RectifiedTobLocal); t != "" {
		return t
	}
	return strings.TrimSpace(p.TobLocal)
}

// Mode is the stated input mode, unknown when blank or unrecognized.
func (p Profile) Mode() birthtime.InputMode {
	return birthtime.ParseInputMode(string(p.InputMode))
}

// BirthLocation returns the birth coordinates, or nil.
func (p Profile) BirthLocation() *natal.GeoPoint {
	if p.Lat == nil || p.Lon == nil {
		return nil
	}
	return &natal.GeoPoint{Lat: *p.Lat, Lon: *p.Lon}
}

// ReferenceLocation is the current city when known, else the birth location.
func (p Profile) ReferenceLocation() *natal.GeoPoint {
	if p.CurrentLat != nil && p.CurrentLon != nil {
		return &natal.GeoPoint{Lat: *p.CurrentLat, Lon: *p.CurrentLon}
	}
	return p.BirthLocation()
}

// ReferenceZone is the current-city zone when set, else the birth zone.
func (p Profile) ReferenceZone() string {
	if z := strings.TrimSpace(p.CurrentZone); z != "" {
		return z
	}
	return strings.TrimSpace(p.Zone)
}

// BirthInput resolves the profile into natal calculator input.
func (p Profile) BirthInput() natal.BirthInput {
	return natal.BirthInput{
		Date:     strings.TrimSpace(p.DOB),
		Time:     p.EffectiveTime(),
		Zone:     strings.TrimSpace(p.Zone),
		Location: p.BirthLocation(),
		Place:    p.Place,
	}
}

// #endregion resolution

// #region cache-key
// CacheKey hashes the resolved birth input with xxhash64. The key is
// reproducible across runs and machines but is not a secure digest: do not
// use it where collisions could be chosen by an adversary.
func (p Profile) CacheKey() string {
	in := p.BirthInput()
	var b strings.Builder
	b.WriteString(in.Date)
	b.WriteByte('|')
	b.WriteString(in.Time)
	b.WriteByte('|')
	b.WriteString(in.Zone)
	b.WriteByte('|')
	if in.Location != nil {
		b.WriteString(strconv.FormatFloat(in.Location.Lat, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(in.Location.Lon, 'f', 6, 64))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// #endregion cache-key

// #region load
// Load reads a profile from a YAML or JSON file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON profile document and validates it.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("validate profile: %w", err)
	}
	return p, nil
}

// #endregion load
