package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// runRecord is one run in structured output. Fields follow the argument
// order of the simulation binary.
type runRecord struct {
	Index        int     `json:"index" yaml:"index"`
	C            float64 `json:"c" yaml:"c"`
	MuG          float64 `json:"mu_g" yaml:"mu_g"`
	SdMuG        float64 `json:"sdmu_g" yaml:"sdmu_g"`
	MuM          float64 `json:"mu_m" yaml:"mu_m"`
	SdMuM        float64 `json:"sdmu_m" yaml:"sdmu_m"`
	Phi          float64 `json:"phi" yaml:"phi"`
	M11          float64 `json:"m11" yaml:"m11"`
	M12          float64 `json:"m12" yaml:"m12"`
	M21          float64 `json:"m21" yaml:"m21"`
	M22          float64 `json:"m22" yaml:"m22"`
	VarP         float64 `json:"var_p" yaml:"var_p"`
	Rate1        float64 `json:"rate1" yaml:"rate1"`
	Rate2        float64 `json:"rate2" yaml:"rate2"`
	Rate1Ptb     float64 `json:"rate1ptb" yaml:"rate1ptb"`
	Rate2Ptb     float64 `json:"rate2ptb" yaml:"rate2ptb"`
	PhiPtb       float64 `json:"phiptb" yaml:"phiptb"`
	Int1Ptb      float64 `json:"int1ptb" yaml:"int1ptb"`
	Int2Ptb      float64 `json:"int2ptb" yaml:"int2ptb"`
	DiagonalOnly int     `json:"diagonal_only" yaml:"diagonal_only"`
}

// newRunRecord converts a run. Negative zero is written as zero.
func newRunRecord(r plan.Run) runRecord {
	c := r.Constants
	return runRecord{
		Index:        r.Index,
		C:            unsigned(c.C),
		MuG:          unsigned(c.MuG),
		SdMuG:        unsigned(c.SdMuG),
		MuM:          unsigned(r.MuM),
		SdMuM:        unsigned(c.SdMuM),
		Phi:          unsigned(r.Phi),
		M11:          unsigned(c.M[0]),
		M12:          unsigned(c.M[1]),
		M21:          unsigned(c.M[2]),
		M22:          unsigned(c.M[3]),
		VarP:         unsigned(c.VarP),
		Rate1:        unsigned(r.Rate1),
		Rate2:        unsigned(r.Rate2),
		Rate1Ptb:     unsigned(r.Rate1Ptb),
		Rate2Ptb:     unsigned(r.Rate2Ptb),
		PhiPtb:       unsigned(r.PhiPtb),
		Int1Ptb:      unsigned(r.Int1Ptb),
		Int2Ptb:      unsigned(r.Int2Ptb),
		DiagonalOnly: c.DiagonalOnly,
	}
}

func unsigned(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// axisRecord describes one axis in structured output.
type axisRecord struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values,flow"`
}

// document is the full structured output of a plan.
type document struct {
	Executable string       `json:"executable" yaml:"executable"`
	Count      int          `json:"count" yaml:"count"`
	Axes       []axisRecord `json:"axes" yaml:"axes"`
	Derived    []string     `json:"derived,omitempty" yaml:"derived,omitempty"`
	Runs       []runRecord  `json:"runs" yaml:"runs"`
}

// buildDocument collects the plan and its runs, honouring the limit.
func buildDocument(p *plan.Plan, opts Options) document {
	doc := document{
		Executable: p.Executable(),
		Count:      opts.Count(p),
		Runs:       make([]runRecord, 0, opts.Count(p)),
	}

	for _, a := range p.Axes() {
		values := make([]float64, len(a.Values))
		for i, v := range a.Values {
			values[i] = unsigned(v)
		}
		doc.Axes = append(doc.Axes, axisRecord{Name: a.Name, Values: values})
	}
	for _, name := range []string{plan.AxisRate1Ptb, plan.AxisRate2Ptb} {
		if p.Derived(name) {
			doc.Derived = append(doc.Derived, name)
		}
	}

	for r := range opts.Runs(p) {
		doc.Runs = append(doc.Runs, newRunRecord(r))
	}
	return doc
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with the executable, the axes and
// every run.
type JSONFormatter struct{}

// Format writes the formatted output to w.
func (f *JSONFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(p, opts))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one run per line).
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to w.
func (f *JSONLFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	bw := bufio.NewWriter(w)
	encoder := json.NewEncoder(bw)
	for r := range opts.Runs(p) {
		if err := encoder.Encode(newRunRecord(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
