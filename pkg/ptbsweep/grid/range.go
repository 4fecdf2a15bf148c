package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange is returned when a Range cannot produce values.
var ErrInvalidRange = errors.New("invalid range")

// Range describes Count evenly spaced values beginning at Start.
//
// An inclusive range ends exactly on Stop. An exclusive range uses the step
// (Stop-Start)/Count and ends one step short of Stop, which matches the
// half-open ranges used when the sweeps were first written.
type Range struct {
	Start     float64 `yaml:"start" json:"start"`
	Stop      float64 `yaml:"stop" json:"stop"`
	Count     int     `yaml:"count" json:"count"`
	Inclusive bool    `yaml:"inclusive,omitempty" json:"inclusive,omitempty"`
}

// Validate reports whether the range can produce values.
func (r Range) Validate() error {
	if r.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidRange, r.Count)
	}
	if !isFinite(r.Start) || !isFinite(r.Stop) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	return nil
}

// Step returns the spacing between consecutive values.
func (r Range) Step() float64 {
	switch {
	case r.Count < 1:
		return 0
	case r.Inclusive && r.Count == 1:
		return 0
	case r.Inclusive:
		return (r.Stop - r.Start) / float64(r.Count-1)
	default:
		return (r.Stop - r.Start) / float64(r.Count)
	}
}

// Values expands the range into its ordered values.
func (r Range) Values() ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Count == 1 {
		return []float64{r.Start}, nil
	}

	n := r.Count
	if !r.Inclusive {
		// Span the closed interval with one extra point, then drop Stop.
		n++
	}
	values := floats.Span(make([]float64, n), r.Start, r.Stop)
	return values[:r.Count], nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
