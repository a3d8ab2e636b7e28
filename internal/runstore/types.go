package runstore

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a run or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// #region run
// Kind names what a run produced.
type Kind string

const (
	KindJourney Kind = "journey"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// Run is one persisted engine output for a profile.
type Run struct {
	ID         string    `json:"runId"`
	InputKey   string    `json:"inputKey"`
	Kind       Kind      `json:"kind"`
	Mode       string    `json:"mode,omitempty"`
	AsOf       time.Time `json:"asOf"`
	ResultJSON string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// #endregion run
