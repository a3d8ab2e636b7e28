package phase

import (
	"errors"
	"fmt"
	"time"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/transit"
)

// ErrUnknownMode is returned for a journey mode other than quick5y or full15y.
var ErrUnknownMode = errors.New("unknown journey mode")

// #region mode
// Mode selects how far back a journey looks.
type Mode string

const (
	Quick5y Mode = "quick5y"
	Full15y Mode = "full15y"
)

type modeParams struct {
	years    int // look-back span
	fallback int // segments kept when nothing overlaps the span
}

var modes = map[Mode]modeParams{
	Quick5y: {years: 5, fallback: 10},
	Full15y: {years: 15, fallback: 30},
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modes[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// #endregion mode

// #region trigger
// TriggerType tags the transit fact a highlight is grounded on.
type TriggerType string

const (
	TriggerDoubleTransit TriggerType = "saturn_jupiter_double_transit"
	TriggerMarsMoon      TriggerType = "mars_moon_trigger"
	TriggerMoonSaturn    TriggerType = "moon_saturn_trigger"
	TriggerSaturnAspect  TriggerType = "saturn_aspect"
	TriggerJupiterAspect TriggerType = "jupiter_aspect"
	TriggerDashaOnly     TriggerType = "dasha_only"
)

// LevelPD is the only segment level produced today.
const LevelPD = "pd"

// #endregion trigger

// #region segment
// Highlight is one grounding fact attached to a segment.
type Highlight struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Detail      string      `json:"detail"`
	TriggerType TriggerType `json:"triggerType"`
	TriggerRef  string      `json:"triggerRef,omitempty"`
}

// Segment is one Pratyantardasha on the user-facing timeline.
type Segment struct {
	ID             string             `json:"id"`
	Level          string             `json:"level"`
	MD             ephemeris.Body     `json:"md"`
	AD             ephemeris.Body     `json:"ad"`
	PD             ephemeris.Body     `json:"pd"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	Ord            int                `json:"ord"`
	ConfidenceBand transit.Confidence `json:"confidenceBand"`
	Highlights     []Highlight        `json:"highlights"`
}

// Journey is an ordered batch of segments for one generation call.
type Journey struct {
	Mode            Mode      `json:"mode"`
	AsOf            time.Time `json:"asOf"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Fallback        bool      `json:"fallback,omitempty"`
	Segments        []Segment `json:"segments"`
	ActiveSegmentID string    `json:"activeSegmentId"`
}

// Active returns the active segment.
func (j Journey) Active() (Segment, bool) {
	for _, s := range j.Segments {
		if s.ID == j.ActiveSegmentID {
			return s, true
		}
	}
	return Segment{}, false
}

// #endregion segment
