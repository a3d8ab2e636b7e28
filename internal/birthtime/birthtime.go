// Package birthtime grades stated birth times and narrows uncertain ones.
package birthtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/prasanthkuna/vedaos/internal/clock"
)

// #region risk
// AssessRisk measures how far the stated minute is from the half hour. The
// half hour stands in for a nakshatra or sign cusp. An unreadable minute
// counts as distance 30.
func AssessRisk(tobLocal string) RiskAssessment {
	distance := 30
	if minute, ok := leadingMinute(tobLocal); ok {
		distance = abs(30 - minute)
	}

	level := RiskSafe
	switch {
	case distance <= 3:
		level = RiskHigh
	case distance <= 8:
		level = RiskMedium
	}
	return RiskAssessment{
		Level:                 level,
		BoundaryDistance:      distance,
		RectificationRequired: level == RiskHigh,
		Method:                RiskMethod,
	}
}

// leadingMinute reads the digits after the first colon. A missing minute
// field reads as 0.
func leadingMinute(s string) (int, bool) {
	_, rest, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, true
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	m, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return m, true
}

// #endregion risk

// #region rectify
// RectificationWindow narrows the birth time around tobLocal using the number
// of answered anchor questions. An unreadable time is centred on noon.
func RectificationWindow(tobLocal string, answers int, mode InputMode) Rectification {
	if answers < 0 {
		answers = 0
	}
	mode = ParseInputMode(string(mode))

	center, ok := clock.Minutes(tobLocal)
	if !ok {
		center, _ = clock.Minutes(clock.Noon)
	}

	half := max(MinHalfWidth, baseHalfWidth[mode]-answers*WidthPerAnswer)
	start := max(0, center-half)
	end := min(lastMinuteOfDay, center+half)
	mid := int(math.Round(float64(start+end) / 2))
	conf := math.Min(MaxConfidence, BaseConfidence+float64(answers)*ConfidencePerAnswer)

	return Rectification{
		WindowStart:   clock.Format(start),
		WindowEnd:     clock.Format(end),
		HalfWidth:     half,
		Confidence:    math.Round(conf*100) / 100,
		EffectiveTime: clock.Format(mid),
		Answers:       answers,
		Mode:          mode,
	}
}

// #endregion rectify

// #region next-step
// NextStep decides whether a profile may proceed to phase generation.
func NextStep(mode InputMode, rectificationCompleted bool) Step {
	if ParseInputMode(string(mode)) == ModeExactTime {
		return StepProceed
	}
	if rectificationCompleted {
		return StepRectificationOptional
	}
	return StepRectificationRequired
}

// #endregion next-step

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
