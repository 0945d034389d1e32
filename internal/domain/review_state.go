package domain

import (
	"errors"
	"time"
)

// Default review state values for a newly created flashcard.
const (
	DefaultEaseFactor = 2.5
	DefaultInterval   = 1
	MinEaseFactor     = 1.3
)

// Grade bounds. Grades below PassingGrade are lapses.
const (
	MinGrade     Grade = 0
	MaxGrade     Grade = 5
	PassingGrade Grade = 3
)

// Validation errors for ReviewState.
var (
	ErrNegativeRepetition = errors.New("repetition must be greater than or equal to 0")
	ErrInvalidInterval    = errors.New("interval must be greater than or equal to 1")
	ErrInvalidEaseFactor  = errors.New("ease factor must be greater than or equal to 1.3")
	ErrEmptyNextReview    = errors.New("next review time cannot be empty")
)

// Grade is the recall quality reported for one review, 0 (blackout) to 5 (perfect).
type Grade int

// Valid reports whether g is within 0..5.
func (g Grade) Valid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Passed reports whether g counts as a successful recall.
func (g Grade) Passed() bool {
	return g >= PassingGrade
}

// ReviewState is the spaced repetition state of one flashcard.
type ReviewState struct {
	Repetition int       `json:"repetition"`  // Consecutive successful reviews
	Interval   int       `json:"interval"`    // Days until the next review
	EaseFactor float64   `json:"ease_factor"` // Interval growth multiplier, never below 1.3
	NextReview time.Time `json:"next_review"`
}

// NewReviewState returns the state of a card that has never been reviewed.
// The card is due immediately.
func NewReviewState(now time.Time) ReviewState {
	return ReviewState{
		Repetition: 0,
		Interval:   DefaultInterval,
		EaseFactor: DefaultEaseFactor,
		NextReview: now,
	}
}

// Validate checks the ReviewState invariants.
func (s ReviewState) Validate() error {
	if s.Repetition < 0 {
		return ErrNegativeRepetition
	}
	if s.Interval < 1 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	if s.NextReview.IsZero() {
		return ErrEmptyNextReview
	}
	return nil
}

// IsDue reports whether the card should be reviewed at now.
func (s ReviewState) IsDue(now time.Time) bool {
	return !s.NextReview.After(now)
}
