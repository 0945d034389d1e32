package srs

import (
	"github.com/phrazzld/palace-api/internal/domain"
)

// Params defines all configurable parameters for the SM-2 algorithm
type Params struct {
	// Grades at or above this value count as a successful recall
	PassingGrade domain.Grade

	// Floor for the ease factor; there is no ceiling
	MinEaseFactor float64

	// Fixed intervals (days) for the first two successful reviews
	FirstInterval  int
	SecondInterval int

	// Coefficients of the ease factor update:
	// EF' = EF + (EaseBonus - q*(EaseLinear + q*EaseQuadratic)), q = MaxGrade-grade
	EaseBonus     float64
	EaseLinear    float64
	EaseQuadratic float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	PassingGrade   domain.Grade
	MinEaseFactor  float64
	FirstInterval  int
	SecondInterval int
	EaseBonus      float64
	EaseLinear     float64
	EaseQuadratic  float64
}

// NewDefaultParams creates a new Params instance with the standard SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		PassingGrade:   domain.PassingGrade,
		MinEaseFactor:  domain.MinEaseFactor,
		FirstInterval:  1,
		SecondInterval: 6,
		EaseBonus:      0.1,
		EaseLinear:     0.08,
		EaseQuadratic:  0.02,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.PassingGrade > 0 && config.PassingGrade.Valid() {
		params.PassingGrade = config.PassingGrade
	}
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.EaseBonus != 0 {
		params.EaseBonus = config.EaseBonus
	}
	if config.EaseLinear != 0 {
		params.EaseLinear = config.EaseLinear
	}
	if config.EaseQuadratic != 0 {
		params.EaseQuadratic = config.EaseQuadratic
	}

	return params
}
