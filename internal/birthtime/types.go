package birthtime

// #region risk
// RiskLevel grades how close a stated birth time sits to a chart-changing boundary.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskMethod names the heuristic behind RiskAssessment.
const RiskMethod = "moon_boundary_proximity_v1"

// RiskAssessment is the birth-time reliability verdict.
type RiskAssessment struct {
	Level                 RiskLevel `json:"riskLevel"`
	BoundaryDistance      int       `json:"boundaryDistance"` // minutes
	RectificationRequired bool      `json:"rectificationRequired"`
	Method                string    `json:"method"`
}

// #endregion risk

// #region input-mode
// InputMode is how the birth time was supplied.
type InputMode string

const (
	ModeExactTime       InputMode = "exact_time"
	ModeSixWindowApprox InputMode = "six_window_approx"
	ModeNakshatraOnly   InputMode = "nakshatra_only"
	ModeUnknown         InputMode = "unknown"
)

// baseHalfWidth is the initial rectification half-width in minutes per mode.
var baseHalfWidth = map[InputMode]int{
	ModeExactTime:       30,
	ModeSixWindowApprox: 90,
	ModeNakshatraOnly:   150,
	ModeUnknown:         180,
}

// ParseInputMode maps a name to an InputMode; unrecognized names are ModeUnknown.
func ParseInputMode(s string) InputMode {
	m := InputMode(s)
	if _, ok := baseHalfWidth[m]; ok {
		return m
	}
	return ModeUnknown
}

// #endregion input-mode

// #region rectification
const (
	MinHalfWidth        = 10
	WidthPerAnswer      = 8
	BaseConfidence      = 0.42
	ConfidencePerAnswer = 0.08
	MaxConfidence       = 0.96
	lastMinuteOfDay     = 23*60 + 59
)

// Rectification is a narrowed birth-time window in local clock time.
type Rectification struct {
	WindowStart   string    `json:"windowStart"`
	WindowEnd     string    `json:"windowEnd"`
	HalfWidth     int       `json:"halfWidthMinutes"`
	Confidence    float64   `json:"confidence"`
	EffectiveTime string    `json:"effectiveTobLocal"`
	Answers       int       `json:"answerCount"`
	Mode          InputMode `json:"mode"`
}

// #endregion rectification

// #region next-step
// Step tells the caller whether rectification must happen before phase generation.
type Step string

const (
	StepProceed               Step = "proceed"
	StepRectificationOptional Step = "rectification_optional"
	StepRectificationRequired Step = "rectification_required"
)

// #endregion next-step
