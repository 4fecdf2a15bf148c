package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/output"
	"github.com/spf13/cobra"
)

var plainAxes bool

var axesCmd = &cobra.Command{
	Use:   "axes",
	Short: "Show the sweep axes",
	Long: `Show the executable, run count and axes of the sweep.

Derived axes copy their base axis on every run. Output is styled when
stdout is a terminal; pass --plain for aligned text.`,
	Args: cobra.NoArgs,
	RunE: runAxes,
}

func init() {
	axesCmd.Flags().BoolVar(&plainAxes, "plain", false, "plain text even on a terminal")
	rootCmd.AddCommand(axesCmd)
}

// runAxes writes the sweep summary.
func runAxes(cmd *cobra.Command, _ []string) error {
	p, err := buildPlan(loaded, cmd.Flags().Changed("exe"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return output.WriteSummary(out, p, !plainAxes && isTerminal(out))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
