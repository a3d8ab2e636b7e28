// Package engine composes the computation core for one profile and, when a
// run store is attached, caches natal snapshots, saves runs and records the
// provenance of every computation.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/prasanthkuna/vedaos/internal/birthtime"
	"github.com/prasanthkuna/vedaos/internal/clock"
	"github.com/prasanthkuna/vedaos/internal/dasha"
	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/logging"
	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/phase"
	"github.com/prasanthkuna/vedaos/internal/profile"
	"github.com/prasanthkuna/vedaos/internal/runstore"
	"github.com/prasanthkuna/vedaos/internal/transit"
	"github.com/prasanthkuna/vedaos/internal/windows"
)

// ErrNoStore is returned by operations that need a run store when none is attached.
var ErrNoStore = errors.New("no run store configured")

// #region engine-struct

// Engine is the top-level coordinator for natal, journey and window computations.
type Engine struct {
	eph     ephemeris.Ephemeris
	calc    *natal.Calculator
	builder *phase.Builder
	gen     *windows.Generator
	opts    Options
}

// #endregion engine-struct

// #region constructor

// New creates a fully wired engine over eph. Zero option fields take their defaults.
func New(eph ephemeris.Ephemeris, opts Options) *Engine {
	def := DefaultOptions()
	if opts.Backend == "" {
		opts.Backend = def.Backend
	}
	if opts.Model.ReferenceJD == 0 {
		opts.Model = def.Model
	}
	if opts.DefaultZone == "" {
		opts.DefaultZone = def.DefaultZone
	}
	if opts.WeekStart == nil {
		opts.WeekStart = def.WeekStart
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}

	analyzer := transit.NewAnalyzer(eph, opts.Model)
	return &Engine{
		eph:     eph,
		calc:    natal.NewCalculator(eph, natal.Config{Model: opts.Model, DefaultZone: opts.DefaultZone}),
		builder: phase.NewBuilder(analyzer),
		gen:     windows.NewGenerator(analyzer),
		opts:    opts,
	}
}

// Calculator exposes the natal calculator, e.g. for golden verification.
func (e *Engine) Calculator() *natal.Calculator {
	return e.calc
}

// Store returns the attached run store, or nil.
func (e *Engine) Store() *runstore.Store {
	return e.opts.Store
}

// #endregion constructor

// #region natal

// Natal returns the natal snapshot for p, from the store when cached.
func (e *Engine) Natal(ctx context.Context, p profile.Profile) (natal.Core, error) {
	key := p.CacheKey()
	if s := e.opts.Store; s != nil {
		core, err := s.GetNatal(key)
		if err == nil {
			// place text is not part of the key
			core.Place = p.Place
			e.record(p, logging.OutcomeCached, "", "", logging.ComputationRecord{
				Operation:  "natal",
				Resolution: string(core.Resolution),
			})
			return core, nil
		}
		if !errors.Is(err, runstore.ErrNotFound) {
			log.Printf("[engine] natal cache read %s: %v", key, err)
		}
	}

	core, err := e.calc.Compute(ctx, p.BirthInput())
	if err != nil {
		e.record(p, logging.OutcomeFailed, "", err.Error(), logging.ComputationRecord{Operation: "natal"})
		return natal.Core{}, fmt.Errorf("compute natal: %w", err)
	}
	if s := e.opts.Store; s != nil {
		if err := s.PutNatal(key, core); err != nil {
			log.Printf("[engine] natal cache write %s: %v", key, err)
		}
	}
	e.record(p, logging.OutcomeComputed, "", "", logging.ComputationRecord{
		Operation:  "natal",
		Resolution: string(core.Resolution),
	})
	return core, nil
}

// Dasha returns the Mahadashas from birth until until.
func (e *Engine) Dasha(ctx context.Context, p profile.Profile, until time.Time) ([]dasha.Interval, error) {
	core, err := e.Natal(ctx, p)
	if err != nil {
		return nil, err
	}
	return dasha.Mahadashas(core, until), nil
}

// Atmakaraka returns the atmakaraka primer for p.
func (e *Engine) Atmakaraka(ctx context.Context, p profile.Profile) (natal.Primer, error) {
	core, err := e.Natal(ctx, p)
	if err != nil {
		return natal.Primer{}, err
	}
	pr := core.AtmakarakaPrimer()
	e.record(p, logging.OutcomeComputed, "", pr.NarrativeKey, logging.ComputationRecord{
		Operation:  "atmakaraka",
		Resolution: string(core.Resolution),
	})
	return pr, nil
}

// #endregion natal

// #region journey

// Journey builds the phase journey for mode as of now. A zero now means the wall clock.
func (e *Engine) Journey(ctx context.Context, p profile.Profile, mode phase.Mode, now time.Time) (phase.Journey, error) {
	if now.IsZero() {
		now = e.opts.Now()
	}
	core, err := e.Natal(ctx, p)
	if err != nil {
		return phase.Journey{}, err
	}
	j, err := e.builder.Build(ctx, mode, core, now)
	if err != nil {
		e.record(p, logging.OutcomeFailed, "", err.Error(), logging.ComputationRecord{
			Operation: "journey", Mode: string(mode), AsOf: now.UTC().Format(time.RFC3339),
		})
		return phase.Journey{}, fmt.Errorf("build journey: %w", err)
	}

	runID := e.saveRun(p, runstore.KindJourney, string(mode), now, j)
	e.record(p, logging.OutcomeComputed, runID, "", logging.ComputationRecord{
		Operation:    "journey",
		Mode:         string(mode),
		AsOf:         now.UTC().Format(time.RFC3339),
		Resolution:   string(core.Resolution),
		SegmentCount: len(j.Segments),
		ActiveID:     j.ActiveSegmentID,
	})
	return j, nil
}

// #endregion journey

// #region windows

// Weekly generates the window set for the week containing from, aligned to
// the configured week start in the profile's reference zone.
func (e *Engine) Weekly(ctx context.Context, p profile.Profile, from time.Time) (windows.Set, error) {
	if from.IsZero() {
		from = e.opts.Now()
	}
	core, err := e.Natal(ctx, p)
	if err != nil {
		return windows.Set{}, err
	}
	zone := e.Zone(p)
	start := e.WeekStart(from, zone)

	set, err := e.gen.Weekly(ctx, start, core, zone)
	if err != nil {
		e.record(p, logging.OutcomeFailed, "", err.Error(), logging.ComputationRecord{
			Operation: "weekly", AsOf: start.UTC().Format(time.RFC3339),
		})
		return windows.Set{}, fmt.Errorf("weekly windows: %w", err)
	}
	set.ReferenceSunrise = e.referenceSunrise(ctx, p, set.Start, zone)
	runID := e.saveRun(p, runstore.KindWeekly, "", start, set)
	e.record(p, logging.OutcomeComputed, runID, "", logging.ComputationRecord{
		Operation: "weekly", AsOf: start.UTC().Format(time.RFC3339), Resolution: string(core.Resolution),
	})
	return set, nil
}

// Monthly generates thirty days of windows starting on the local date of from.
func (e *Engine) Monthly(ctx context.Context, p profile.Profile, from time.Time) (windows.Monthly, error) {
	if from.IsZero() {
		from = e.opts.Now()
	}
	core, err := e.Natal(ctx, p)
	if err != nil {
		return windows.Monthly{}, err
	}
	zone := e.Zone(p)
	mds := dasha.Mahadashas(core, from.AddDate(0, 0, windows.MonthDays+1))

	m, err := e.gen.Monthly(ctx, from, core, zone, mds)
	if err != nil {
		e.record(p, logging.OutcomeFailed, "", err.Error(), logging.ComputationRecord{
			Operation: "monthly", AsOf: from.UTC().Format(time.RFC3339),
		})
		return windows.Monthly{}, fmt.Errorf("monthly windows: %w", err)
	}
	m.ReferenceSunrise = e.referenceSunrise(ctx, p, m.Start, zone)
	runID := e.saveRun(p, runstore.KindMonthly, "", m.Start, m)
	e.record(p, logging.OutcomeComputed, runID, "", logging.ComputationRecord{
		Operation: "monthly", AsOf: m.Start.UTC().Format(time.RFC3339), Resolution: string(core.Resolution),
	})
	return m, nil
}

// referenceSunrise is the sunrise on the local date of start at the profile's
// reference location, or nil when there is none.
func (e *Engine) referenceSunrise(ctx context.Context, p profile.Profile, start time.Time, zone *time.Location) *time.Time {
	loc := p.ReferenceLocation()
	if loc == nil {
		return nil
	}
	local := start.In(zone)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	rise, err := e.eph.Sunrise(ctx, loc.Lat, loc.Lon, day)
	if err != nil {
		if !errors.Is(err, ephemeris.ErrNoSunrise) {
			log.Printf("[engine] reference sunrise at %.4f,%.4f: %v", loc.Lat, loc.Lon, err)
		}
		return nil
	}
	return &rise
}

// WeekStart returns the latest scheduled week start at or before t, read in zone.
func (e *Engine) WeekStart(t time.Time, zone *time.Location) time.Time {
	if zone == nil {
		zone = time.UTC
	}
	t = t.In(zone)
	s := e.opts.WeekStart.Next(t.AddDate(0, 0, -windows.WeekDays).Add(-time.Second))
	if s.IsZero() || s.After(t) {
		return t
	}
	for {
		next := e.opts.WeekStart.Next(s)
		if next.IsZero() || next.After(t) {
			return s
		}
		s = next
	}
}

// Zone resolves the profile's reference zone, falling back to the default
// zone and then to UTC.
func (e *Engine) Zone(p profile.Profile) *time.Location {
	for _, name := range []string{p.ReferenceZone(), e.opts.DefaultZone} {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if loc, err := clock.LoadZone(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// #endregion windows

// #region birth-time

// Risk assesses the stated birth time.
func (e *Engine) Risk(p profile.Profile) birthtime.RiskAssessment {
	r := birthtime.AssessRisk(p.TobLocal)
	e.record(p, logging.OutcomeComputed, "", string(r.Level), logging.ComputationRecord{Operation: "risk"})
	return r
}

// Rectify narrows the stated birth time after answers questionnaire responses.
func (e *Engine) Rectify(p profile.Profile, answers int) birthtime.Rectification {
	r := birthtime.RectificationWindow(p.TobLocal, answers, p.Mode())
	e.record(p, logging.OutcomeComputed, "", r.EffectiveTime, logging.ComputationRecord{
		Operation: "rectify", Mode: string(r.Mode),
	})
	return r
}

// NextStep reports whether the profile can proceed to timelines.
func (e *Engine) NextStep(p profile.Profile) birthtime.Step {
	return birthtime.NextStep(p.Mode(), p.RectificationCompleted)
}

// #endregion birth-time

// #region runs

// Runs lists saved runs for p, newest first.
func (e *Engine) Runs(p profile.Profile, limit int) ([]runstore.Run, error) {
	if e.opts.Store == nil {
		return nil, ErrNoStore
	}
	return e.opts.Store.ListRuns(p.CacheKey(), limit)
}

// Provenance lists recorded computations for p, newest first.
func (e *Engine) Provenance(p profile.Profile, limit int) ([]logging.ProvenanceEntry, error) {
	if e.opts.Store == nil {
		return nil, ErrNoStore
	}
	return logging.List(e.opts.Store.DB(), p.CacheKey(), limit)
}

func (e *Engine) saveRun(p profile.Profile, kind runstore.Kind, mode string, asOf time.Time, result any) string {
	s := e.opts.Store
	if s == nil {
		return ""
	}
	body, err := json.Marshal(result)
	if err != nil {
		log.Printf("[engine] marshal %s run: %v", kind, err)
		return ""
	}
	run, err := s.SaveRun(runstore.Run{
		InputKey:   p.CacheKey(),
		Kind:       kind,
		Mode:       mode,
		AsOf:       asOf,
		ResultJSON: string(body),
	})
	if err != nil {
		log.Printf("[engine] save %s run: %v", kind, err)
		return ""
	}
	return run.ID
}

// record writes a provenance row. Failures are logged, never returned.
func (e *Engine) record(p profile.Profile, outcome, runID, reason string, rec logging.ComputationRecord) {
	s := e.opts.Store
	if s == nil {
		return
	}
	in := p.BirthInput()
	rec.Date, rec.Time, rec.Zone = in.Date, in.Time, in.Zone
	rec.Ephemeris = e.opts.Backend
	rec.AyanamshaRefDeg = e.opts.Model.ReferenceDegrees
	rec.AyanamshaRefJD = e.opts.Model.ReferenceJD
	rec.AyanamshaRateSecs = e.opts.Model.RateArcsecPerYear

	entry, err := logging.Record(p.CacheKey(), outcome, rec)
	if err != nil {
		log.Printf("[engine] provenance: %v", err)
		return
	}
	entry.RunID = runID
	entry.Reason = reason
	if err := logging.LogComputation(s.DB(), entry); err != nil {
		log.Printf("[engine] provenance: %v", err)
	}
}

// #endregion runs
