package windows

import (
	"time"

	"github.com/prasanthkuna/vedaos/internal/dasha"
)

// #region kind
// Kind classifies a window.
type Kind string

const (
	Support  Kind = "support"
	Friction Kind = "friction"
)

// Fixed reason strings.
const (
	ReasonMoonSaturn      = "Moon-Saturn friction window"
	ReasonMarsActivation  = "Mars activation, avoid escalation"
	ReasonMoonJupiter     = "Moon-Jupiter supportive window"
	ReasonJupiterSupport  = "Jupiter supportive window"
	ReasonFrictionDefault = "General caution window"
	ReasonSupportDefault  = "Clear decision window"
)

// Weekly themes, chosen by the UTC day of month of the week start mod 3.
const (
	ThemeExecution    = "Execution with discipline"
	ThemeRelationship = "Relationship clarity and boundaries"
	ThemeLearning     = "Learning and strategic patience"
)

// Muhurtha-lite purposes.
const (
	PurposeDifficultConversation = "difficult_conversation"
	PurposePaperworkSubmission   = "paperwork_submission"
)

// #endregion kind

// #region slots
// slot is a local clock range within a day, in hours.
type slot struct{ from, to int }

var (
	frictionSlot     = slot{6, 9}
	supportSlot      = slot{9, 12}
	conversationSlot = slot{14, 16}
	paperworkSlot    = slot{10, 12}
)

const (
	WeekDays  = 7
	MonthDays = 30
	// MaxTransitions caps the dasha transitions listed for a month.
	MaxTransitions = 3

	frictionFallbackDay = 1
	supportFallbackDay  = 2
)

// #endregion slots

// #region records
// Window is one day-level timing window.
type Window struct {
	Start    time.Time `json:"startUtc"`
	End      time.Time `json:"endUtc"`
	Kind     Kind      `json:"kind"`
	Reason   string    `json:"reason"`
	Fallback bool      `json:"fallback,omitempty"`
}

// Slot is a purpose-tagged muhurtha-lite window.
type Slot struct {
	Purpose string    `json:"purpose"`
	Start   time.Time `json:"startUtc"`
	End     time.Time `json:"endUtc"`
}

// Set is the window set for a scanned range.
type Set struct {
	Start    time.Time `json:"startUtc"`
	End      time.Time `json:"endUtc"`
	Zone     string    `json:"zone"`
	Theme    string    `json:"theme,omitempty"`
	Friction []Window  `json:"friction"`
	Support  []Window  `json:"support"`

	MuhurthaLite []Slot `json:"muhurthaLite"`

	// ReferenceSunrise is the sunrise on the first day at the current city,
	// or at the birth place when no current city is known.
	ReferenceSunrise *time.Time `json:"referenceSunriseUtc,omitempty"`
}

// Monthly adds date lists and dasha transitions to a 30-day set.
type Monthly struct {
	Set
	BestDates    []string           `json:"bestDates"`
	CautionDates []string           `json:"cautionDates"`
	Transitions  []dasha.PDInterval `json:"transitions"`
}

// Day is the classification of one scanned day.
type Day struct {
	Date           time.Time // local midnight
	Friction       bool
	Support        bool
	FrictionReason string
	SupportReason  string
}

// #endregion records
