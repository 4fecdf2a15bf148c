package plan

import (
	"math"
	"testing"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Count(t *testing.T) {
	p := Default()

	assert.Equal(t, 55000, p.Count())

	n := 0
	for range p.Runs() {
		n++
	}
	assert.Equal(t, 55000, n)
}

func TestDefault_Axes(t *testing.T) {
	p := Default()

	names := make([]string, 0)
	lengths := make(map[string]int)
	for _, a := range p.Axes() {
		names = append(names, a.Name)
		lengths[a.Name] = a.Len()
	}

	assert.Equal(t, []string{
		AxisIntSize1, AxisIntSize2, AxisDirection1, AxisDirection2,
		AxisMuM, AxisRate1, AxisRate2, AxisPhi,
	}, names)
	assert.Equal(t, 25, lengths[AxisIntSize1])
	assert.Equal(t, 25, lengths[AxisIntSize2])
	assert.Equal(t, 2, lengths[AxisDirection1])
	assert.Equal(t, 2, lengths[AxisDirection2])
	assert.Equal(t, 2, lengths[AxisMuM])
	assert.Equal(t, 11, lengths[AxisRate1])
	assert.Equal(t, 1, lengths[AxisRate2])
	assert.Equal(t, 1, lengths[AxisPhi])

	assert.True(t, p.Derived(AxisRate1Ptb))
	assert.True(t, p.Derived(AxisRate2Ptb))
	assert.False(t, p.Derived(AxisRate1))
	assert.Equal(t, DefaultExecutable, p.Executable())
	assert.Equal(t, math.Sqrt(0.7), p.Constants().C)
}

func TestRuns_Invariants(t *testing.T) {
	p := Default()

	want := 1
	for r := range p.Runs() {
		require.Equal(t, want, r.Index, "counter must increase by one")
		want++

		assert.Equal(t, r.Rate1, r.Rate1Ptb)
		assert.Equal(t, r.Rate2, r.Rate2Ptb)
		assert.Equal(t, r.Phi, r.PhiPtb)
		assert.Equal(t, r.IntSize1*r.Direction1, r.Int1Ptb)
		assert.Equal(t, r.IntSize2*r.Direction2, r.Int2Ptb)

		if t.Failed() {
			t.Fatalf("invariant broken at run %d: %+v", r.Index, r)
		}
	}
}

func TestRuns_FirstAndLast(t *testing.T) {
	p := Default()

	var first, last Run
	for r := range p.Runs() {
		if r.Index == 1 {
			first = r
		}
		last = r
	}

	assert.Equal(t, 0.0, first.IntSize1)
	assert.Equal(t, 0.0, first.IntSize2)
	assert.Equal(t, -1.0, first.Direction1)
	assert.Equal(t, -1.0, first.Direction2)
	assert.Equal(t, 0.01, first.MuM)
	assert.Equal(t, 0.0, first.Rate1)
	assert.Equal(t, 0.5, first.Rate2)
	assert.Equal(t, 0.0, first.Phi)
	assert.Zero(t, first.Int1Ptb)
	assert.Zero(t, first.Int2Ptb)
	assert.Equal(t, 0.0, first.Rate1Ptb)
	assert.Equal(t, 0.5, first.Rate2Ptb)

	assert.Equal(t, 55000, last.Index)
	assert.InDelta(t, 4.8, last.IntSize1, 1e-12)
	assert.InDelta(t, 4.8, last.IntSize2, 1e-12)
	assert.Equal(t, 1.0, last.Direction1)
	assert.Equal(t, 1.0, last.Direction2)
	assert.Equal(t, 0.0, last.MuM)
	assert.InDelta(t, math.Pi, last.Rate1, 1e-12)
	assert.InDelta(t, 4.8, last.Int1Ptb, 1e-12)
}

func TestRuns_NestingOrder(t *testing.T) {
	p, err := New(
		WithAxis(AxisIntSize1, 0, 1),
		WithAxis(AxisIntSize2, 0),
		WithAxis(AxisDirection1, 1),
		WithAxis(AxisDirection2, 1),
		WithAxis(AxisMuM, 0.01),
		WithAxis(AxisRate1, 0, 2),
	)
	require.NoError(t, err)

	var got [][2]float64
	for r := range p.Runs() {
		got = append(got, [2]float64{r.IntSize1, r.Rate1})
	}
	assert.Equal(t, [][2]float64{{0, 0}, {0, 2}, {1, 0}, {1, 2}}, got)
}

func TestRuns_Restartable(t *testing.T) {
	p, err := New(WithAxis(AxisIntSize1, 0), WithAxis(AxisIntSize2, 0, 1))
	require.NoError(t, err)

	collect := func() []int {
		var idx []int
		for r := range p.Runs() {
			idx = append(idx, r.Index)
		}
		return idx
	}

	first := collect()
	second := collect()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second[0])
}

func TestRuns_PerturbationAxes(t *testing.T) {
	p, err := New(
		WithAxis(AxisIntSize1, 0),
		WithAxis(AxisIntSize2, 0),
		WithAxis(AxisDirection1, 1),
		WithAxis(AxisDirection2, 1),
		WithAxis(AxisMuM, 0.01),
		WithAxis(AxisRate1, 0.1),
		WithAxis(AxisRate1Ptb, -1, 1),
	)
	require.NoError(t, err)

	assert.False(t, p.Derived(AxisRate1Ptb))
	assert.True(t, p.Derived(AxisRate2Ptb))
	assert.Equal(t, 2, p.Count())

	var ptb []float64
	for r := range p.Runs() {
		ptb = append(ptb, r.Rate1Ptb)
		assert.Equal(t, 0.1, r.Rate1)
		assert.Equal(t, r.Rate2, r.Rate2Ptb)
	}
	assert.Equal(t, []float64{-1, 1}, ptb)

	derived, err := New(WithAxis(AxisRate1Ptb, 2), WithoutAxis(AxisRate1Ptb))
	require.NoError(t, err)
	assert.True(t, derived.Derived(AxisRate1Ptb))
}

func TestRuns_Args(t *testing.T) {
	p, err := New(
		WithExecutable("/opt/sim"),
		WithConstants(Constants{C: 1, MuG: 2, SdMuG: 3, SdMuM: 5, M: [4]float64{7, 8, 9, 10}, VarP: 11, DiagonalOnly: 1}),
		WithAxis(AxisIntSize1, 2),
		WithAxis(AxisIntSize2, 3),
		WithAxis(AxisDirection1, -1),
		WithAxis(AxisDirection2, 1),
		WithAxis(AxisMuM, 4),
		WithAxis(AxisRate1, 12),
		WithAxis(AxisRate2, 13),
		WithAxis(AxisPhi, 6),
	)
	require.NoError(t, err)
	assert.Equal(t, "/opt/sim", p.Executable())

	var runs []Run
	for r := range p.Runs() {
		runs = append(runs, r)
	}
	require.Len(t, runs, 1)

	args := runs[0].Args()
	require.Len(t, args, len(ArgNames))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 12, 13, 6, -2, 3, 1}, args)

	fields := runs[0].Fields()
	for i, f := range fields {
		assert.Equal(t, ArgNames[i], f.Name)
		assert.Equal(t, f.Name == "diagonal_only", f.Integer, f.Name)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"unknown axis", []Option{WithAxis("rate3", 1)}, ErrUnknownAxis},
		{"unknown removal", []Option{WithoutAxis("rate3")}, ErrUnknownAxis},
		{"required axis removed", []Option{WithoutAxis(AxisRate1)}, ErrRequiredAxis},
		{"empty axis", []Option{WithAxis(AxisPhi)}, ErrEmptyAxis},
		{"empty executable", []Option{WithExecutable("")}, ErrEmptyExecutable},
		{"invalid range", []Option{WithRange(AxisRate1, grid.Range{Start: 0, Stop: 1, Count: 0})}, grid.ErrInvalidRange},
		{
			"ambiguous axis",
			[]Option{WithAxisSpec(AxisRate1, AxisSpec{Values: []float64{1}, Range: &grid.Range{Count: 2}})},
			ErrAmbiguousAxis,
		},
		{
			"non-finite constant",
			[]Option{WithConstants(Constants{C: math.Inf(1)})},
			ErrNonFinite,
		},
		{"non-finite axis value", []Option{WithAxis(AxisPhi, math.NaN())}, grid.ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlan_SpecIsCopy(t *testing.T) {
	p := Default()

	spec, ok := p.Spec(AxisRate1)
	require.True(t, ok)
	require.NotNil(t, spec.Range)
	spec.Range.Count = 3

	again, _ := p.Spec(AxisRate1)
	assert.Equal(t, 11, again.Range.Count)

	_, ok = p.Spec(AxisRate1Ptb)
	assert.False(t, ok)
}
