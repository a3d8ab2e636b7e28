// Package windows scans days for supportive and frictional transits to a
// natal chart and turns them into weekly and monthly timing windows.
package windows

import (
	"context"
	"fmt"
	"time"

	"github.com/prasanthkuna/vedaos/internal/dasha"
	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/transit"
)

var scanned = []ephemeris.Body{ephemeris.Moon, ephemeris.Mars, ephemeris.Jupiter}

// #region generator
// Generator produces window sets. Days are local to the reference zone.
type Generator struct {
	analyzer *transit.Analyzer
}

// NewGenerator creates a generator sampling transits through analyzer.
func NewGenerator(analyzer *transit.Analyzer) *Generator {
	return &Generator{analyzer: analyzer}
}

// Weekly scans seven days from the local date of start. A nil zone means UTC.
func (g *Generator) Weekly(ctx context.Context, start time.Time, core natal.Core, zone *time.Location) (Set, error) {
	days, err := g.Scan(ctx, start, WeekDays, core, zone)
	if err != nil {
		return Set{}, err
	}
	s := build(days, zone)
	s.Theme = Theme(s.Start)
	return s, nil
}

// Theme labels the week beginning at weekStart.
func Theme(weekStart time.Time) string {
	switch weekStart.UTC().Day() % 3 {
	case 0:
		return ThemeExecution
	case 1:
		return ThemeRelationship
	}
	return ThemeLearning
}

// Monthly scans thirty days and adds best and caution dates and up to
// MaxTransitions Pratyantardasha starts inside the month.
func (g *Generator) Monthly(ctx context.Context, start time.Time, core natal.Core, zone *time.Location, mds []dasha.Interval) (Monthly, error) {
	days, err := g.Scan(ctx, start, MonthDays, core, zone)
	if err != nil {
		return Monthly{}, err
	}

	m := Monthly{Set: build(days, zone), BestDates: []string{}, CautionDates: []string{}}
	for _, d := range days {
		switch {
		case d.Support && !d.Friction:
			m.BestDates = append(m.BestDates, d.Date.Format(time.DateOnly))
		case d.Friction && !d.Support:
			m.CautionDates = append(m.CautionDates, d.Date.Format(time.DateOnly))
		}
	}

	m.Transitions = []dasha.PDInterval{}
	dasha.Walk(mds, m.Start, m.End, func(pd dasha.PDInterval) bool {
		if !pd.Start.Before(m.Start) && pd.Start.Before(m.End) {
			m.Transitions = append(m.Transitions, pd)
		}
		return len(m.Transitions) < MaxTransitions
	})
	return m, nil
}

// #endregion generator

// #region scan
// Scan classifies n consecutive local days starting at the local date of start.
func (g *Generator) Scan(ctx context.Context, start time.Time, n int, core natal.Core, zone *time.Location) ([]Day, error) {
	if zone == nil {
		zone = time.UTC
	}
	local := start.In(zone)
	first := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)

	natalMoon := core.MoonSign.Index
	natalSaturn := core.Sign(ephemeris.Saturn)
	natalJupiter := core.Sign(ephemeris.Jupiter)

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date := first.AddDate(0, 0, i)
		noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, zone)
		signs, err := g.analyzer.Signs(ctx, noon.UTC(), scanned...)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", date.Format(time.DateOnly), err)
		}

		d := Day{Date: date}
		switch {
		case signs[ephemeris.Moon] == natalSaturn:
			d.Friction, d.FrictionReason = true, ReasonMoonSaturn
		case transit.Aspects(ephemeris.Mars, signs[ephemeris.Mars], natalMoon):
			d.Friction, d.FrictionReason = true, ReasonMarsActivation
		}
		switch {
		case signs[ephemeris.Moon] == natalJupiter:
			d.Support, d.SupportReason = true, ReasonMoonJupiter
		case transit.Aspects(ephemeris.Jupiter, signs[ephemeris.Jupiter], natalMoon):
			d.Support, d.SupportReason = true, ReasonJupiterSupport
		}
		days = append(days, d)
	}
	return days, nil
}

// #endregion scan

// #region build
func build(days []Day, zone *time.Location) Set {
	if zone == nil {
		zone = time.UTC
	}
	first := days[0].Date
	s := Set{
		Start:    first.UTC(),
		End:      first.AddDate(0, 0, len(days)).UTC(),
		Zone:     zone.String(),
		Friction: []Window{},
		Support:  []Window{},
	}

	for _, d := range days {
		if d.Friction {
			s.Friction = append(s.Friction, window(d.Date, frictionSlot, Friction, d.FrictionReason))
		}
		if d.Support {
			s.Support = append(s.Support, window(d.Date, supportSlot, Support, d.SupportReason))
		}
	}

	if len(s.Friction) == 0 {
		w := window(first.AddDate(0, 0, frictionFallbackDay), frictionSlot, Friction, ReasonFrictionDefault)
		w.Fallback = true
		s.Friction = append(s.Friction, w)
	}
	if len(s.Support) == 0 {
		w := window(first.AddDate(0, 0, supportFallbackDay), supportSlot, Support, ReasonSupportDefault)
		w.Fallback = true
		s.Support = append(s.Support, w)
	}

	s.MuhurthaLite = muhurtha(s.Support, zone)
	return s
}

func window(date time.Time, sl slot, kind Kind, reason string) Window {
	return Window{
		Start:  atHour(date, sl.from),
		End:    atHour(date, sl.to),
		Kind:   kind,
		Reason: reason,
	}
}

func atHour(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location()).UTC()
}

// muhurtha places the conversation slot on the first support day and the
// paperwork slot on the second, reusing the first when there is only one.
func muhurtha(support []Window, zone *time.Location) []Slot {
	dayOf := func(w Window) time.Time {
		l := w.Start.In(zone)
		return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, zone)
	}
	convDay := dayOf(support[0])
	paperDay := convDay
	if len(support) > 1 {
		paperDay = dayOf(support[1])
	}

	conv := window(convDay, conversationSlot, Support, "")
	paper := window(paperDay, paperworkSlot, Support, "")
	return []Slot{
		{Purpose: PurposeDifficultConversation, Start: conv.Start, End: conv.End},
		{Purpose: PurposePaperworkSubmission, Start: paper.Start, End: paper.End},
	}
}

// #endregion build
