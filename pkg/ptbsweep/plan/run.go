package plan

// ArgNames are the positional arguments of the simulation binary, in the
// order it reads them from argv.
var ArgNames = []string{
	"c",
	"mu_g",
	"sdmu_g",
	"mu_m",
	"sdmu_m",
	"phi",
	"m11",
	"m12",
	"m21",
	"m22",
	"var_p",
	"rate1",
	"rate2",
	"rate1ptb",
	"rate2ptb",
	"phiptb",
	"int1ptb",
	"int2ptb",
	"diagonal_only",
}

// Run is one fully resolved invocation of the simulation binary.
type Run struct {
	// Index is the 1-based position of the run in its generation pass.
	Index int

	Constants Constants

	IntSize1   float64
	IntSize2   float64
	Direction1 float64
	Direction2 float64
	MuM        float64
	Rate1      float64
	Rate2      float64
	Phi        float64

	// Derived perturbation fields.
	Rate1Ptb float64
	Rate2Ptb float64
	PhiPtb   float64
	Int1Ptb  float64
	Int2Ptb  float64
}

// Field is one positional argument of a run.
type Field struct {
	Name  string
	Value float64

	// Integer marks arguments the binary parses with atoi.
	Integer bool
}

// Fields returns the positional arguments in ArgNames order.
func (r Run) Fields() []Field {
	c := r.Constants
	return []Field{
		{Name: "c", Value: c.C},
		{Name: "mu_g", Value: c.MuG},
		{Name: "sdmu_g", Value: c.SdMuG},
		{Name: "mu_m", Value: r.MuM},
		{Name: "sdmu_m", Value: c.SdMuM},
		{Name: "phi", Value: r.Phi},
		{Name: "m11", Value: c.M[0]},
		{Name: "m12", Value: c.M[1]},
		{Name: "m21", Value: c.M[2]},
		{Name: "m22", Value: c.M[3]},
		{Name: "var_p", Value: c.VarP},
		{Name: "rate1", Value: r.Rate1},
		{Name: "rate2", Value: r.Rate2},
		{Name: "rate1ptb", Value: r.Rate1Ptb},
		{Name: "rate2ptb", Value: r.Rate2Ptb},
		{Name: "phiptb", Value: r.PhiPtb},
		{Name: "int1ptb", Value: r.Int1Ptb},
		{Name: "int2ptb", Value: r.Int2Ptb},
		{Name: "diagonal_only", Value: float64(c.DiagonalOnly), Integer: true},
	}
}

// Args returns the positional argument values in ArgNames order.
func (r Run) Args() []float64 {
	fields := r.Fields()
	args := make([]float64, len(fields))
	for i, f := range fields {
		args[i] = f.Value
	}
	return args
}
