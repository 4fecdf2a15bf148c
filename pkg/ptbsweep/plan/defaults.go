// Package plan builds the perturbation sweep for the two-trait maternal
// effects simulation and enumerates one Run per parameter combination.
package plan

import (
	"math"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/grid"
)

// Axis names in nesting order. The first axis varies slowest.
const (
	AxisIntSize1   = "int_size1"
	AxisIntSize2   = "int_size2"
	AxisDirection1 = "direction1"
	AxisDirection2 = "direction2"
	AxisMuM        = "mu_m"
	AxisRate1      = "rate1"
	AxisRate2      = "rate2"
	AxisRate1Ptb   = "rate1ptb"
	AxisRate2Ptb   = "rate2ptb"
	AxisPhi        = "phi"
)

// AxisOrder is the fixed nesting order of the sweep.
var AxisOrder = []string{
	AxisIntSize1,
	AxisIntSize2,
	AxisDirection1,
	AxisDirection2,
	AxisMuM,
	AxisRate1,
	AxisRate2,
	AxisRate1Ptb,
	AxisRate2Ptb,
	AxisPhi,
}

// optionalAxes are only part of the grid when configured. When absent, the
// matching run field is derived from its base rate.
var optionalAxes = map[string]string{
	AxisRate1Ptb: AxisRate1,
	AxisRate2Ptb: AxisRate2,
}

// DefaultExecutable is the simulation binary invoked by generated lines.
const DefaultExecutable = "./xmatfluct_two_trait_sin"

// DefaultConstants returns the scalar parameters of the reference sweep.
func DefaultConstants() Constants {
	return Constants{
		C:            math.Sqrt(0.7),
		MuG:          0.01,
		SdMuG:        0.02,
		SdMuM:        0.02,
		M:            [4]float64{0, 0, 0, 0},
		VarP:         0.1,
		DiagonalOnly: 0,
	}
}

// DefaultAxes returns the axis specs of the reference sweep. Optional
// perturbation axes are omitted.
func DefaultAxes() map[string]AxisSpec {
	return map[string]AxisSpec{
		AxisIntSize1:   {Range: &grid.Range{Start: 0, Stop: 5, Count: 25}},
		AxisIntSize2:   {Range: &grid.Range{Start: 0, Stop: 5, Count: 25}},
		AxisDirection1: {Values: []float64{-1, 1}},
		AxisDirection2: {Values: []float64{-1, 1}},
		AxisMuM:        {Values: []float64{0.01, 0}},
		AxisRate1:      {Range: &grid.Range{Start: 0, Stop: math.Pi, Count: 11, Inclusive: true}},
		AxisRate2:      {Values: []float64{0.5}},
		AxisPhi:        {Values: []float64{0}},
	}
}
