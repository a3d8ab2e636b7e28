package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	RunID      string // empty for computations that produce no run
	InputKey   string
	Operation  string // "natal" | "journey" | "weekly" | "monthly" | "risk" | "rectify"
	ParamsJSON string
	Outcome    string // "computed" | "cached" | "failed"
	Reason     string
	CreatedAt  time.Time
}

const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
)

// #endregion provenance-entry

// #region computation-record
// ComputationRecord captures the inputs that determined one computation.
// Serialized as JSON into provenance_log.params_json so a run can be reproduced.
type ComputationRecord struct {
	Operation string `json:"operation"`
	Mode      string `json:"mode,omitempty"`
	AsOf      string `json:"as_of,omitempty"`

	// Birth inputs after boundary resolution
	Date       string `json:"date"`
	Time       string `json:"time"`
	Zone       string `json:"zone"`
	Resolution string `json:"resolution,omitempty"`

	// Model active at computation time
	Ephemeris         string  `json:"ephemeris"`
	AyanamshaRefDeg   float64 `json:"ayanamsha_ref_deg"`
	AyanamshaRefJD    float64 `json:"ayanamsha_ref_jd"`
	AyanamshaRateSecs float64 `json:"ayanamsha_rate_arcsec"`

	SegmentCount int    `json:"segment_count,omitempty"`
	ActiveID     string `json:"active_id,omitempty"`
}

// #endregion computation-record
