package plan

import (
	"fmt"
	"math"
	"slices"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/grid"
)

// settings collects option values before New validates them.
type settings struct {
	executable string
	constants  Constants
	specs      map[string]AxisSpec
	errs       []error
}

func newSettings() *settings {
	return &settings{
		executable: DefaultExecutable,
		constants:  DefaultConstants(),
		specs:      DefaultAxes(),
	}
}

// Option is a functional option for configuring a Plan.
type Option func(*settings)

// WithExecutable sets the simulation binary path.
func WithExecutable(path string) Option {
	return func(s *settings) {
		s.executable = path
	}
}

// WithConstants replaces the scalar parameters.
func WithConstants(c Constants) Option {
	return func(s *settings) {
		s.constants = c
	}
}

// WithAxis sets an axis to an explicit list of values.
func WithAxis(name string, values ...float64) Option {
	return WithAxisSpec(name, AxisSpec{Values: slices.Clone(values)})
}

// WithRange sets an axis to evenly spaced values.
func WithRange(name string, r grid.Range) Option {
	return WithAxisSpec(name, AxisSpec{Range: &r})
}

// WithAxisSpec sets an axis from a spec. Unknown names are reported by New.
func WithAxisSpec(name string, spec AxisSpec) Option {
	return func(s *settings) {
		if !slices.Contains(AxisOrder, name) {
			s.errs = append(s.errs, fmt.Errorf("%w: %s", ErrUnknownAxis, name))
			return
		}
		s.specs[name] = spec.clone()
	}
}

// WithoutAxis removes an optional perturbation axis so its field is derived
// again. Removing a required axis is reported by New.
func WithoutAxis(name string) Option {
	return func(s *settings) {
		if !slices.Contains(AxisOrder, name) {
			s.errs = append(s.errs, fmt.Errorf("%w: %s", ErrUnknownAxis, name))
			return
		}
		delete(s.specs, name)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
