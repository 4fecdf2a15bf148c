// Package grid provides ordered parameter axes and the Cartesian product
// over them.
//
// A Grid is an ordered list of named axes. Iterating a grid yields every
// combination of axis values, with the first axis varying slowest and the
// last axis varying fastest, the same order nested loops would produce.
//
// Basic usage:
//
//	g, err := grid.New(
//	    grid.Axis{Name: "direction", Values: []float64{-1, 1}},
//	    grid.Axis{Name: "rate", Values: []float64{0, 0.5}},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for p := range g.Points() {
//	    fmt.Println(p.Value("direction"), p.Value("rate"))
//	}
package grid

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Errors returned when building a grid.
var (
	ErrEmptyAxis     = errors.New("axis has no values")
	ErrDuplicateAxis = errors.New("duplicate axis name")
	ErrUnnamedAxis   = errors.New("axis has no name")
	ErrNonFinite     = errors.New("axis value is not finite")
)

// Axis is a named parameter with an ordered sequence of candidate values.
type Axis struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Len returns the number of values on the axis.
func (a Axis) Len() int {
	return len(a.Values)
}

// Validate checks that the axis is named and holds finite values.
func (a Axis) Validate() error {
	if a.Name == "" {
		return ErrUnnamedAxis
	}
	if len(a.Values) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyAxis, a.Name)
	}
	for i, v := range a.Values {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s[%d]", ErrNonFinite, a.Name, i)
		}
	}
	return nil
}

// Grid is an ordered set of axes.
type Grid struct {
	axes  []Axis
	index map[string]int
}

// New builds a grid from axes in nesting order. The axis value slices are
// copied so later changes by the caller do not leak into the grid.
func New(axes ...Axis) (*Grid, error) {
	g := &Grid{
		axes:  make([]Axis, 0, len(axes)),
		index: make(map[string]int, len(axes)),
	}
	for _, a := range axes {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, ok := g.index[a.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAxis, a.Name)
		}
		g.index[a.Name] = len(g.axes)
		g.axes = append(g.axes, Axis{Name: a.Name, Values: slices.Clone(a.Values)})
	}
	return g, nil
}

// Axes returns a copy of the axes in nesting order.
func (g *Grid) Axes() []Axis {
	out := make([]Axis, len(g.axes))
	for i, a := range g.axes {
		out[i] = Axis{Name: a.Name, Values: slices.Clone(a.Values)}
	}
	return out
}

// Names returns the axis names in nesting order.
func (g *Grid) Names() []string {
	names := make([]string, len(g.axes))
	for i, a := range g.axes {
		names[i] = a.Name
	}
	return names
}

// Axis looks up an axis by name.
func (g *Grid) Axis(name string) (Axis, bool) {
	i, ok := g.index[name]
	if !ok {
		return Axis{}, false
	}
	a := g.axes[i]
	return Axis{Name: a.Name, Values: slices.Clone(a.Values)}, true
}

// Has reports whether the grid contains the named axis.
func (g *Grid) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Size returns the number of points in the product. A grid with no axes
// has exactly one (empty) point.
func (g *Grid) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Points returns the Cartesian product of the axes. The last axis varies
// fastest. Each yielded Point is only valid until the next iteration step;
// use Point.Clone to keep one.
func (g *Grid) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		pos := make([]int, len(g.axes))
		p := Point{grid: g, values: make([]float64, len(g.axes))}
		for i, a := range g.axes {
			p.values[i] = a.Values[0]
		}

		for {
			if !yield(p) {
				return
			}

			// Advance the odometer from the innermost axis outwards.
			i := len(g.axes) - 1
			for ; i >= 0; i-- {
				pos[i]++
				if pos[i] < len(g.axes[i].Values) {
					p.values[i] = g.axes[i].Values[pos[i]]
					break
				}
				pos[i] = 0
				p.values[i] = g.axes[i].Values[0]
			}
			if i < 0 {
				return
			}
		}
	}
}

// Point is one combination of axis values.
type Point struct {
	grid   *Grid
	values []float64
}

// Value returns the value of the named axis. It panics if the axis does not
// exist, since axis names are fixed when the grid is built.
func (p Point) Value(name string) float64 {
	i, ok := p.grid.index[name]
	if !ok {
		panic(fmt.Sprintf("grid: unknown axis %q", name))
	}
	return p.values[i]
}

// Lookup returns the value of the named axis and whether it exists.
func (p Point) Lookup(name string) (float64, bool) {
	i, ok := p.grid.index[name]
	if !ok {
		return 0, false
	}
	return p.values[i], true
}

// Values returns a copy of the point's values in axis order.
func (p Point) Values() []float64 {
	return slices.Clone(p.values)
}

// Clone returns a point that is not reused by the iterator.
func (p Point) Clone() Point {
	return Point{grid: p.grid, values: slices.Clone(p.values)}
}
