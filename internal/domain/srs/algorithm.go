package srs

import (
	"math"
	"time"

	"github.com/phrazzld/palace-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease factor update.
//
// The adjustment depends only on the grade:
//
//	EF' = EF + (0.1 - (5-g)*(0.08 + (5-g)*0.02))
//
// so grade 5 adds 0.1, grade 4 leaves the factor unchanged and every lower
// grade subtracts an increasing amount. The update is applied on both passing
// and failing grades. The result is floored at params.MinEaseFactor and has
// no upper bound.
func calculateNewEaseFactor(currentEF float64, grade domain.Grade, params *Params) float64 {
	q := float64(domain.MaxGrade - grade)
	newEF := currentEF + (params.EaseBonus - q*(params.EaseLinear+q*params.EaseQuadratic))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the number of days until the next review.
//
// Algorithm behavior:
//   - Failed recall: the interval resets to params.FirstInterval
//   - First successful recall (repetition 0): params.FirstInterval
//   - Second successful recall (repetition 1): params.SecondInterval
//   - Later recalls: previous interval times the previous ease factor,
//     rounded half-to-even
//
// The previous ease factor is used, not the one produced by this review.
func calculateNewInterval(previous domain.ReviewState, grade domain.Grade, params *Params) int {
	if grade < params.PassingGrade {
		return params.FirstInterval
	}

	switch previous.Repetition {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	}

	interval := int(math.RoundToEven(float64(previous.Interval) * previous.EaseFactor))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// calculateNewRepetition counts consecutive successful recalls.
func calculateNewRepetition(previous domain.ReviewState, grade domain.Grade, params *Params) int {
	if grade < params.PassingGrade {
		return 0
	}
	return previous.Repetition + 1
}

// calculateNextState produces the review state that follows a graded review.
// It never mutates previous.
func calculateNextState(
	previous domain.ReviewState,
	grade domain.Grade,
	now time.Time,
	params *Params,
) domain.ReviewState {
	interval := calculateNewInterval(previous, grade, params)

	return domain.ReviewState{
		Repetition: calculateNewRepetition(previous, grade, params),
		Interval:   interval,
		EaseFactor: calculateNewEaseFactor(previous.EaseFactor, grade, params),
		NextReview: now.AddDate(0, 0, interval),
	}
}

// ComputeNextState is the SM-2 transition with the default parameters.
// The grade must already be validated; out-of-range grades produce a
// meaningless state. Use Service when the input comes from a client.
func ComputeNextState(previous domain.ReviewState, grade domain.Grade, now time.Time) domain.ReviewState {
	return calculateNextState(previous, grade, now, defaultParams)
}

var defaultParams = NewDefaultParams()
