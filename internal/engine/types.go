package engine

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/prasanthkuna/vedaos/internal/runstore"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

// #region options
// Options configures an Engine. Store is optional; without it nothing is
// cached or recorded.
type Options struct {
	Store       *runstore.Store
	Backend     string // recorded in provenance rows
	Model       sidereal.Model
	DefaultZone string
	WeekStart   cron.Schedule
	Now         func() time.Time
}

// DefaultOptions returns the Lahiri model, UTC, Monday-midnight weeks and the wall clock.
func DefaultOptions() Options {
	sched, _ := cron.ParseStandard("0 0 * * 1")
	return Options{
		Backend:     "analytic",
		Model:       sidereal.DefaultModel(),
		DefaultZone: "UTC",
		WeekStart:   sched,
		Now:         time.Now,
	}
}

// #endregion options
