package predict

import (
	"time"

	"github.com/athlytics/stature/internal/domain/growth"
)

// params collects the optional inputs to AdultHeight.
type params struct {
	birth      time.Time
	currentAge float64
	phv        *growth.Result
}

// Option applies an optional input to AdultHeight.
type Option func(*params)

// WithBirthDate supplies the subject's birth date; the current age is then
// derived from the latest measurement date unless WithCurrentAge overrides it.
func WithBirthDate(birth time.Time) Option {
	return func(p *params) {
		p.birth = birth
	}
}

// WithCurrentAge supplies a precomputed fractional age in years.
func WithCurrentAge(age float64) Option {
	return func(p *params) {
		if age > 0 {
			p.currentAge = age
		}
	}
}

// WithPHV supplies a precomputed peak-height-velocity result, enabling the
// growth-velocity method.
func WithPHV(r growth.Result) Option {
	return func(p *params) {
		p.phv = &r
	}
}
