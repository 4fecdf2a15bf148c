package output

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// tableHeader returns the column names of the csv and tsv formats.
func tableHeader() []string {
	return append([]string{"index"}, plan.ArgNames...)
}

// tableRow returns one row of the csv and tsv formats.
func tableRow(r plan.Run, style FloatStyle) []string {
	return append([]string{strconv.Itoa(r.Index)}, FormatArgs(r, style)...)
}

// TSVFormatter formats output as tab-separated values.
// It produces a simple table with a header row followed by one row per run.
type TSVFormatter struct{}

// Format writes the formatted output to w.
func (f *TSVFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(tableHeader(), "\t"))
	bw.WriteByte('\n')

	for r := range opts.Runs(p) {
		bw.WriteString(strings.Join(tableRow(r, opts.FloatStyle), "\t"))
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to w.
func (f *CSVFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader()); err != nil {
		return err
	}

	for r := range opts.Runs(p) {
		if err := writer.Write(tableRow(r, opts.FloatStyle)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)
