package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
	"github.com/spf13/cobra"
)

var forceDefinition bool

var definitionCmd = &cobra.Command{
	Use:   "definition",
	Short: "Manage sweep definition files",
	Long: `Manage sweep definition files.

A definition file overrides the executable, the constant parameters and
any axis of the built-in sweep. An axis is either a list of values or a
range:

  axes:
    mu_m:
      values: [0.01, 0.02]
    rate1:
      range: {start: 0, stop: 3.141592653589793, count: 11, inclusive: true}

Select a file with -f or the definition config key.`,
}

var definitionInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the built-in sweep as a definition file",
	Long: `Write the built-in sweep with every field spelled out. Without a
file the definition is written to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDefinitionInit,
}

var definitionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective sweep definition",
	Long: `Show the sweep after the definition file and flags are applied,
followed by its fingerprint.`,
	Args: cobra.NoArgs,
	RunE: runDefinitionShow,
}

func init() {
	definitionInitCmd.Flags().BoolVar(&forceDefinition, "force", false, "overwrite an existing file")

	definitionCmd.AddCommand(definitionInitCmd)
	definitionCmd.AddCommand(definitionShowCmd)
	rootCmd.AddCommand(definitionCmd)
}

// runDefinitionInit writes the default definition.
func runDefinitionInit(cmd *cobra.Command, args []string) error {
	def := plan.DefaultDefinition()
	if len(args) == 0 {
		return def.Encode(cmd.OutOrStdout())
	}

	path := args[0]
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if forceDefinition {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("definition file %s already exists: use --force to overwrite", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create definition file: %w", err)
	}

	if err := def.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write definition file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write definition file: %w", err)
	}

	printInfo(cmd, "Created definition file: %s", path)
	return nil
}

// runDefinitionShow writes the effective definition.
func runDefinitionShow(cmd *cobra.Command, _ []string) error {
	p, err := buildPlan(loaded, cmd.Flags().Changed("exe"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := p.Definition().Encode(out); err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}

	fingerprint, err := p.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# fingerprint: %s\n", fingerprint)
	return nil
}
