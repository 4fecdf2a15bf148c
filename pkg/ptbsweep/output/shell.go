package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// ShellFormatter writes the sweep as a sequence of shell lines: an
// "echo <index>" line followed by the simulation command for every run.
// With Options.Diagnostic set, the rate1 values are listed first.
type ShellFormatter struct{}

// Format writes the formatted output to w.
func (f *ShellFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	bw := bufio.NewWriter(w)

	if opts.Diagnostic {
		rate1, _ := p.Axis(plan.AxisRate1)
		bw.WriteString(FormatList(rate1.Values, opts.FloatStyle))
		bw.WriteByte('\n')
	}

	n, err := writeCommands(bw, p, opts)
	if err != nil {
		return err
	}

	logger.Debug("wrote shell commands", "runs", humanize.Comma(int64(n)))
	return bw.Flush()
}

func init() {
	Register("shell", func() Formatter {
		return &ShellFormatter{}
	})
}

// Ensure ShellFormatter implements Formatter.
var _ Formatter = (*ShellFormatter)(nil)

// ScriptFormatter writes the shell lines as a standalone sh script. The
// diagnostic list is never written since it is not a valid command.
type ScriptFormatter struct{}

// Format writes the formatted output to w.
func (f *ScriptFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("#!/bin/sh\n")
	bw.WriteString("# " + humanize.Comma(int64(opts.Count(p))) + " runs of " + p.Executable() + "\n")

	if _, err := writeCommands(bw, p, opts); err != nil {
		return err
	}
	return bw.Flush()
}

func init() {
	Register("script", func() Formatter {
		return &ScriptFormatter{}
	})
}

// Ensure ScriptFormatter implements Formatter.
var _ Formatter = (*ScriptFormatter)(nil)

// CommandLine returns the simulation command of one run.
func CommandLine(executable string, r plan.Run, style FloatStyle) string {
	return executable + " " + strings.Join(FormatArgs(r, style), " ")
}

// writeCommands writes the echo and command lines and returns the number of
// runs written.
func writeCommands(bw *bufio.Writer, p *plan.Plan, opts Options) (int, error) {
	exe := p.Executable()
	n := 0
	for r := range opts.Runs(p) {
		bw.WriteString("echo ")
		bw.WriteString(strconv.Itoa(r.Index))
		bw.WriteByte('\n')

		bw.WriteString(CommandLine(exe, r, opts.FloatStyle))
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
