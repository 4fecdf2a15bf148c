package plan

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/grid"
)

// Errors returned when building a plan.
var (
	ErrUnknownAxis     = errors.New("unknown axis")
	ErrRequiredAxis    = errors.New("axis is required")
	ErrAmbiguousAxis   = errors.New("axis sets both values and range")
	ErrEmptyAxis       = errors.New("axis has no values")
	ErrEmptyExecutable = errors.New("executable path is empty")
	ErrNonFinite       = errors.New("constant is not finite")
)

// Constants are the scalar parameters shared by every run.
type Constants struct {
	// C is the strength of selection.
	C float64 `json:"c" yaml:"c"`

	// MuG and SdMuG are the mutation rate and size of the genetic loci.
	MuG   float64 `json:"mu_g" yaml:"mu_g"`
	SdMuG float64 `json:"sdmu_g" yaml:"sdmu_g"`

	// SdMuM is the mutation size of the maternal effect loci. Their
	// mutation rate is the mu_m axis.
	SdMuM float64 `json:"sdmu_m" yaml:"sdmu_m"`

	// M holds the initial maternal effect matrix as m11, m12, m21, m22.
	M [4]float64 `json:"m" yaml:"m"`

	// VarP is the phenotypic variance.
	VarP float64 `json:"var_p" yaml:"var_p"`

	// DiagonalOnly restricts evolution to m11 and m22 when non-zero.
	DiagonalOnly int `json:"diagonal_only" yaml:"diagonal_only"`
}

func (c Constants) validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"c", c.C}, {"mu_g", c.MuG}, {"sdmu_g", c.SdMuG}, {"sdmu_m", c.SdMuM},
		{"m11", c.M[0]}, {"m12", c.M[1]}, {"m21", c.M[2]}, {"m22", c.M[3]},
		{"var_p", c.VarP},
	}
	for _, n := range named {
		if !isFinite(n.v) {
			return fmt.Errorf("%w: %s", ErrNonFinite, n.name)
		}
	}
	return nil
}

// AxisSpec describes the values of one axis, either listed or as a range.
type AxisSpec struct {
	Values []float64   `json:"values,omitempty" yaml:"values,omitempty,flow"`
	Range  *grid.Range `json:"range,omitempty" yaml:"range,omitempty"`
}

// Expand returns the ordered values of the spec.
func (s AxisSpec) Expand() ([]float64, error) {
	switch {
	case s.Range != nil && len(s.Values) > 0:
		return nil, ErrAmbiguousAxis
	case s.Range != nil:
		return s.Range.Values()
	case len(s.Values) > 0:
		return slices.Clone(s.Values), nil
	default:
		return nil, ErrEmptyAxis
	}
}

func (s AxisSpec) clone() AxisSpec {
	out := AxisSpec{Values: slices.Clone(s.Values)}
	if s.Range != nil {
		r := *s.Range
		out.Range = &r
	}
	return out
}

// Plan is an immutable sweep: the executable, its scalar constants and the
// grid of varied parameters.
type Plan struct {
	executable string
	constants  Constants
	specs      map[string]AxisSpec
	grid       *grid.Grid
}

// New builds a plan from the reference defaults and the given options.
func New(opts ...Option) (*Plan, error) {
	s := newSettings()
	for _, opt := range opts {
		opt(s)
	}
	if err := errors.Join(s.errs...); err != nil {
		return nil, err
	}

	if s.executable == "" {
		return nil, ErrEmptyExecutable
	}
	if err := s.constants.validate(); err != nil {
		return nil, err
	}

	axes := make([]grid.Axis, 0, len(AxisOrder))
	for _, name := range AxisOrder {
		spec, ok := s.specs[name]
		if !ok {
			if _, optional := optionalAxes[name]; optional {
				continue
			}
			return nil, fmt.Errorf("%w: %s", ErrRequiredAxis, name)
		}
		values, err := spec.Expand()
		if err != nil {
			return nil, fmt.Errorf("axis %s: %w", name, err)
		}
		axes = append(axes, grid.Axis{Name: name, Values: values})
	}

	g, err := grid.New(axes...)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	return &Plan{
		executable: s.executable,
		constants:  s.constants,
		specs:      s.specs,
		grid:       g,
	}, nil
}

// Default returns the reference sweep.
func Default() *Plan {
	p, err := New()
	if err != nil {
		panic(fmt.Sprintf("plan: invalid defaults: %v", err))
	}
	return p
}

// Executable returns the simulation binary path.
func (p *Plan) Executable() string {
	return p.executable
}

// Constants returns the scalar parameters.
func (p *Plan) Constants() Constants {
	return p.constants
}

// Axes returns the grid axes in nesting order.
func (p *Plan) Axes() []grid.Axis {
	return p.grid.Axes()
}

// Axis returns the expanded values of the named axis.
func (p *Plan) Axis(name string) (grid.Axis, bool) {
	return p.grid.Axis(name)
}

// Spec returns the spec the named axis was built from.
func (p *Plan) Spec(name string) (AxisSpec, bool) {
	s, ok := p.specs[name]
	if !ok {
		return AxisSpec{}, false
	}
	return s.clone(), true
}

// Derived reports whether the named perturbation field is computed from its
// base rate rather than varied on its own axis.
func (p *Plan) Derived(name string) bool {
	if _, optional := optionalAxes[name]; !optional {
		return false
	}
	return !p.grid.Has(name)
}

// Count returns the number of runs without enumerating them.
func (p *Plan) Count() int {
	return p.grid.Size()
}

// Runs enumerates the sweep. Each call starts a fresh pass with the run
// index counting from 1.
func (p *Plan) Runs() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		counter := 0
		for pt := range p.grid.Points() {
			r := p.resolve(pt)
			counter++
			r.Index = counter
			if !yield(r) {
				return
			}
		}
	}
}

// resolve fills the independent values of a point and computes the derived
// perturbation fields.
func (p *Plan) resolve(pt grid.Point) Run {
	r := Run{
		Constants:  p.constants,
		IntSize1:   pt.Value(AxisIntSize1),
		IntSize2:   pt.Value(AxisIntSize2),
		Direction1: pt.Value(AxisDirection1),
		Direction2: pt.Value(AxisDirection2),
		MuM:        pt.Value(AxisMuM),
		Rate1:      pt.Value(AxisRate1),
		Rate2:      pt.Value(AxisRate2),
		Phi:        pt.Value(AxisPhi),
	}

	r.Int1Ptb = r.IntSize1 * r.Direction1
	r.Int2Ptb = r.IntSize2 * r.Direction2

	r.Rate1Ptb = r.Rate1
	if v, ok := pt.Lookup(AxisRate1Ptb); ok {
		r.Rate1Ptb = v
	}
	r.Rate2Ptb = r.Rate2
	if v, ok := pt.Lookup(AxisRate2Ptb); ok {
		r.Rate2Ptb = v
	}

	r.PhiPtb = r.Phi
	return r
}
