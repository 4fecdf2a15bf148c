package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValues(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		want  []float64
		check func(t *testing.T, got []float64)
	}{
		{
			name: "exclusive stops one step short",
			r:    Range{Start: 0, Stop: 1, Count: 4},
			want: []float64{0, 0.25, 0.5, 0.75},
		},
		{
			name: "inclusive ends on stop",
			r:    Range{Start: 0, Stop: 1, Count: 5, Inclusive: true},
			want: []float64{0, 0.25, 0.5, 0.75, 1},
		},
		{
			name: "single value is start",
			r:    Range{Start: 0.5, Stop: 3, Count: 1},
			want: []float64{0.5},
		},
		{
			name: "descending range",
			r:    Range{Start: 1, Stop: -1, Count: 3, Inclusive: true},
			want: []float64{1, 0, -1},
		},
		{
			name: "int size axis has 25 steps of 0.2",
			r:    Range{Start: 0, Stop: 5, Count: 25},
			check: func(t *testing.T, got []float64) {
				require.Len(t, got, 25)
				for i, v := range got {
					assert.InDelta(t, 0.2*float64(i), v, 1e-12, "index %d", i)
				}
				assert.Less(t, got[24], 5.0)
			},
		},
		{
			name: "rate axis covers zero to pi",
			r:    Range{Start: 0, Stop: math.Pi, Count: 11, Inclusive: true},
			check: func(t *testing.T, got []float64) {
				require.Len(t, got, 11)
				assert.Equal(t, 0.0, got[0])
				assert.InDelta(t, math.Pi, got[10], 1e-15)
				assert.InDelta(t, math.Pi/10, got[1], 1e-15)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.Values()
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, got)
				return
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Values() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{"zero count", Range{Start: 0, Stop: 1, Count: 0}},
		{"negative count", Range{Start: 0, Stop: 1, Count: -2}},
		{"nan start", Range{Start: math.NaN(), Stop: 1, Count: 2}},
		{"infinite stop", Range{Start: 0, Stop: math.Inf(1), Count: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.r.Values()
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestRangeStep(t *testing.T) {
	assert.InDelta(t, 0.2, Range{Start: 0, Stop: 5, Count: 25}.Step(), 1e-15)
	assert.InDelta(t, math.Pi/10, Range{Start: 0, Stop: math.Pi, Count: 11, Inclusive: true}.Step(), 1e-15)
	assert.Equal(t, 0.0, Range{Start: 1, Stop: 2, Count: 1, Inclusive: true}.Step())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		axes []Axis
		want error
	}{
		{
			name: "empty axis",
			axes: []Axis{{Name: "a"}},
			want: ErrEmptyAxis,
		},
		{
			name: "duplicate axis",
			axes: []Axis{{Name: "a", Values: []float64{1}}, {Name: "a", Values: []float64{2}}},
			want: ErrDuplicateAxis,
		},
		{
			name: "unnamed axis",
			axes: []Axis{{Values: []float64{1}}},
			want: ErrUnnamedAxis,
		},
		{
			name: "nan value",
			axes: []Axis{{Name: "a", Values: []float64{1, math.NaN()}}},
			want: ErrNonFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.axes...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestPoints_Order(t *testing.T) {
	g, err := New(
		Axis{Name: "outer", Values: []float64{1, 2}},
		Axis{Name: "middle", Values: []float64{10}},
		Axis{Name: "inner", Values: []float64{-1, 0, 1}},
	)
	require.NoError(t, err)

	var got [][]float64
	for p := range g.Points() {
		got = append(got, p.Values())
	}

	want := [][]float64{
		{1, 10, -1},
		{1, 10, 0},
		{1, 10, 1},
		{2, 10, -1},
		{2, 10, 0},
		{2, 10, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Points() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(want), g.Size())
}

func TestPoints_ValueLookup(t *testing.T) {
	g, err := New(
		Axis{Name: "a", Values: []float64{1, 2}},
		Axis{Name: "b", Values: []float64{3}},
	)
	require.NoError(t, err)

	var sums []float64
	for p := range g.Points() {
		sums = append(sums, p.Value("a")+p.Value("b"))

		_, ok := p.Lookup("missing")
		assert.False(t, ok)
	}
	assert.Equal(t, []float64{4, 5}, sums)

	assert.Panics(t, func() {
		for p := range g.Points() {
			p.Value("missing")
		}
	})
}

func TestPoints_EarlyStop(t *testing.T) {
	g, err := New(Axis{Name: "a", Values: []float64{1, 2, 3, 4}})
	require.NoError(t, err)

	n := 0
	for range g.Points() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestPoints_Clone(t *testing.T) {
	g, err := New(Axis{Name: "a", Values: []float64{1, 2, 3}})
	require.NoError(t, err)

	var kept []Point
	for p := range g.Points() {
		kept = append(kept, p.Clone())
	}
	require.Len(t, kept, 3)
	assert.Equal(t, 1.0, kept[0].Value("a"))
	assert.Equal(t, 3.0, kept[2].Value("a"))
}

func TestGrid_NoAxes(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())

	n := 0
	for range g.Points() {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestGrid_CopiesValues(t *testing.T) {
	values := []float64{1, 2}
	g, err := New(Axis{Name: "a", Values: values})
	require.NoError(t, err)

	values[0] = 99
	a, ok := g.Axis("a")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, a.Values)

	a.Values[1] = 42
	again, _ := g.Axis("a")
	assert.Equal(t, []float64{1, 2}, again.Values)

	assert.Equal(t, []string{"a"}, g.Names())
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("b"))
}
