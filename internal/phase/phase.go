// Package phase turns the Pratyantardasha timeline into annotated journey segments.
package phase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasanthkuna/vedaos/internal/dasha"
	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
	"github.com/prasanthkuna/vedaos/internal/transit"
)

// segmentSpace namespaces segment IDs.
var segmentSpace = uuid.MustParse("6f1c2a9e-3b7d-4e58-9a0c-1d2e3f405162")

// horizon is how far past now the timeline is derived.
const horizonYears = 2

// #region builder
// Builder assembles journeys from a natal core.
type Builder struct {
	analyzer *transit.Analyzer
}

// NewBuilder creates a builder that grounds segments with analyzer.
func NewBuilder(analyzer *transit.Analyzer) *Builder {
	return &Builder{analyzer: analyzer}
}

// Build returns the segments overlapping the mode's look-back span ending at now.
func (b *Builder) Build(ctx context.Context, mode Mode, core natal.Core, now time.Time) (Journey, error) {
	params, ok := modes[mode]
	if !ok {
		return Journey{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	from := now.AddDate(-params.years, 0, 0)
	mds := dasha.Mahadashas(core, now.AddDate(horizonYears, 0, 0))

	var picked []dasha.PDInterval
	dasha.Walk(mds, from, now.Add(time.Nanosecond), func(pd dasha.PDInterval) bool {
		picked = append(picked, pd)
		return true
	})
	fallback := len(picked) == 0
	if fallback {
		picked = recent(dasha.Pratyantardashas(mds), now, params.fallback)
	}

	j := Journey{Mode: mode, AsOf: now, Start: from, End: now, Fallback: fallback}
	j.Segments = make([]Segment, 0, len(picked))
	for i, pd := range picked {
		seg, err := b.segment(ctx, core, pd, i+1)
		if err != nil {
			return Journey{}, fmt.Errorf("build segment %d: %w", i+1, err)
		}
		j.Segments = append(j.Segments, seg)
	}

	if n := len(j.Segments); n > 0 {
		j.ActiveSegmentID = j.Segments[n-1].ID
		for _, s := range j.Segments {
			if !now.Before(s.Start) && !now.After(s.End) {
				j.ActiveSegmentID = s.ID
				break
			}
		}
	}
	return j, nil
}

// recent keeps the last n intervals starting before now, or the first n if none do.
func recent(pds []dasha.PDInterval, now time.Time, n int) []dasha.PDInterval {
	cut := 0
	for cut < len(pds) && pds[cut].Start.Before(now) {
		cut++
	}
	if cut == 0 {
		return pds[:min(n, len(pds))]
	}
	return pds[max(0, cut-n):cut]
}

// #endregion builder

// #region segment
func (b *Builder) segment(ctx context.Context, core natal.Core, pd dasha.PDInterval, ord int) (Segment, error) {
	res, err := b.analyzer.Analyze(ctx, pd.Start, core)
	if err != nil {
		return Segment{}, err
	}

	id := SegmentID(core.BirthUTC, pd)
	trigger, detail := describe(res)
	h := Highlight{
		ID:          uuid.NewSHA1(id, []byte(trigger)).String(),
		Title:       fmt.Sprintf("%s Mahadasha - %s Antardasha - %s Pratyantar", pd.MD, pd.AD, pd.PD),
		Detail:      detail,
		TriggerType: trigger,
		TriggerRef:  HouseRef(core, pd.PD),
	}

	return Segment{
		ID:             id.String(),
		Level:          LevelPD,
		MD:             pd.MD,
		AD:             pd.AD,
		PD:             pd.PD,
		Start:          pd.Start,
		End:            pd.End,
		Ord:            ord,
		ConfidenceBand: res.Confidence,
		Highlights:     []Highlight{h},
	}, nil
}

// SegmentID derives a stable ID from the birth instant and the interval.
func SegmentID(birth time.Time, pd dasha.PDInterval) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		birth.UTC().Format(time.RFC3339Nano), pd.MD, pd.AD, pd.PD,
		pd.Start.UTC().Format(time.RFC3339Nano), pd.End.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(segmentSpace, []byte(key))
}

func describe(r transit.Result) (TriggerType, string) {
	switch {
	case r.DoubleTransit():
		return TriggerDoubleTransit, "Saturn and Jupiter both aspect the natal Moon sign at the start of this period."
	case r.MarsAspect:
		return TriggerMarsMoon, "Transiting Mars aspects the natal Moon sign as this period opens."
	case r.MoonOnNatalSaturn:
		return TriggerMoonSaturn, "The transiting Moon sits in the natal Saturn sign as this period opens."
	case r.SaturnAspect:
		return TriggerSaturnAspect, "Transiting Saturn aspects the natal Moon sign."
	case r.JupiterAspect:
		return TriggerJupiterAspect, "Transiting Jupiter aspects the natal Moon sign."
	default:
		return TriggerDashaOnly, "No major transit aspect; this period is read from the dasha sequence alone."
	}
}

// HouseRef is the house, counted from the natal Moon sign, holding the natal
// placement of lord, as an ordinal such as "7th".
func HouseRef(core natal.Core, lord ephemeris.Body) string {
	house := sidereal.SignDistance(core.MoonSign.Index, core.Sign(lord)) + 1
	return ordinal(house)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// #endregion segment
