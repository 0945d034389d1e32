package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/palace-api/internal/domain"
)

// Common errors
var (
	ErrNilParams    = errors.New("srs params cannot be nil")
	ErrInvalidState = errors.New("invalid review state")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// ComputeNextState returns the state that follows a review graded 0..5.
	// It returns domain.ErrInvalidGrade for out-of-range grades and an error
	// wrapping ErrInvalidState when previous violates the state invariants.
	ComputeNextState(
		previous domain.ReviewState,
		grade domain.Grade,
		now time.Time,
	) (domain.ReviewState, error)
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	return &defaultService{
		params: params,
	}, nil
}

// ComputeNextState implements Service.
func (s *defaultService) ComputeNextState(
	previous domain.ReviewState,
	grade domain.Grade,
	now time.Time,
) (domain.ReviewState, error) {
	if !grade.Valid() {
		return domain.ReviewState{}, domain.ErrInvalidGrade
	}

	if err := previous.Validate(); err != nil {
		return domain.ReviewState{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	return calculateNextState(previous, grade, now, s.params), nil
}
