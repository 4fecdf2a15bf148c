package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// maxListed is the number of values shown before a list is abbreviated.
const maxListed = 6

// axisRow is one line of the axis summary.
type axisRow struct {
	name   string
	count  string
	source string
	values string
}

// summaryRows lists the plan's axes in nesting order. Perturbation fields
// without an axis of their own are listed as derived.
func summaryRows(p *plan.Plan) []axisRow {
	var rows []axisRow
	for _, name := range plan.AxisOrder {
		if p.Derived(name) {
			base := strings.TrimSuffix(name, "ptb")
			rows = append(rows, axisRow{name: name, count: "-", source: "derived", values: "= " + base})
			continue
		}
		a, ok := p.Axis(name)
		if !ok {
			continue
		}
		source := "values"
		if spec, ok := p.Spec(name); ok && spec.Range != nil {
			source = describeRange(spec)
		}
		rows = append(rows, axisRow{
			name:   name,
			count:  strconv.Itoa(a.Len()),
			source: source,
			values: abbreviate(a.Values),
		})
	}
	return rows
}

func describeRange(spec plan.AxisSpec) string {
	r := spec.Range
	bound := ")"
	if r.Inclusive {
		bound = "]"
	}
	return fmt.Sprintf("range [%s, %s%s", FormatFloat(r.Start, StyleGo), FormatFloat(r.Stop, StyleGo), bound)
}

// abbreviate lists values, eliding the middle of long lists.
func abbreviate(values []float64) string {
	if len(values) <= maxListed {
		return FormatList(values, StyleGo)
	}
	head := FormatList(values[:maxListed-1], StyleGo)
	last := FormatFloat(values[len(values)-1], StyleGo)
	return strings.TrimSuffix(head, "]") + ", ..., " + last + "]"
}

// WriteSummary writes the executable, the axes and the run count of p.
// When styled is set the output is colored for a terminal; otherwise it is
// a plain aligned table.
func WriteSummary(w io.Writer, p *plan.Plan, styled bool) error {
	rows := summaryRows(p)
	if styled {
		return writeStyledSummary(w, p, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "executable:\t%s\n", p.Executable())
	fmt.Fprintf(tw, "runs:\t%s\n\n", humanize.Comma(int64(p.Count())))
	fmt.Fprintln(tw, "AXIS\tCOUNT\tSOURCE\tVALUES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.name, r.count, r.source, r.values)
	}
	return tw.Flush()
}

func writeStyledSummary(w io.Writer, p *plan.Plan, rows []axisRow) error {
	header := strings.Join([]string{
		LabelStyle.Render("Executable:") + " " + ValueStyle.Render(p.Executable()),
		LabelStyle.Render("Runs:") + " " + CountStyle.Render(humanize.Comma(int64(p.Count()))),
	}, "\n")

	var sb strings.Builder
	sb.WriteString(HeaderBox.Render(header))
	sb.WriteString("\n")

	nameWidth, sourceWidth := len("AXIS"), len("SOURCE")
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.name))
		sourceWidth = max(sourceWidth, len(r.source))
	}

	sb.WriteString("  ")
	sb.WriteString(TableHeaderStyle.Render(padRight("AXIS", nameWidth)))
	sb.WriteString(TableHeaderStyle.Render(padLeft("COUNT", 5)))
	sb.WriteString(TableHeaderStyle.Render(padRight("SOURCE", sourceWidth)))
	sb.WriteString(TableHeaderStyle.Render("VALUES"))
	sb.WriteString("\n")

	for _, r := range rows {
		style := ValueStyle
		if r.source == "derived" {
			style = DerivedStyle
		}
		sb.WriteString("  ")
		sb.WriteString(TableRowStyle.Render(style.Render(padRight(r.name, nameWidth))))
		sb.WriteString(TableRowStyle.Render(CountStyle.Render(padLeft(r.count, 5))))
		sb.WriteString(TableRowStyle.Render(MutedStyle.Render(padRight(r.source, sourceWidth))))
		sb.WriteString(style.Render(r.values))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
