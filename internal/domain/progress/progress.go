// Package progress derives the 0-100 progress indicator from the session
// position across the two question pools merged into one linear sequence.
package progress

import (
	"math"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
)

const maxPercent = 100

// Percent maps the session position to a clamped 0-100 value.
//
// The current step is the normal index while in the normal phase and
// normalCount+strategicIndex while in the strategic phase. The main
// transition sits exactly at the end of the normal pool; the final
// transition and the result saturate at the full sequence, so the indicator
// reads 100 once both pools are exhausted. A zero-sized sequence yields 0.
func Percent(phase model.Phase, normalIndex, strategicIndex, normalCount, strategicCount int) int {
	totalSteps := normalCount + strategicCount
	if totalSteps <= 0 {
		return 0
	}

	var currentStep int
	switch phase {
	case model.PhaseIntro:
		currentStep = 0
	case model.PhaseNormal:
		currentStep = normalIndex
	case model.PhaseMainTransition:
		currentStep = normalCount
	case model.PhaseStrategic:
		currentStep = normalCount + strategicIndex
	case model.PhaseFinalTransition, model.PhaseResult:
		currentStep = totalSteps
	default:
		currentStep = 0
	}

	pct := int(math.Round(float64(currentStep) / float64(totalSteps) * maxPercent))
	return clamp(pct, 0, maxPercent)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
