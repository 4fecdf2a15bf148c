package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/config"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/manifest"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/output"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	templateStr  string
	noDiagnostic bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the sweep command lines (default command)",
	Long: `Write one "echo <n>" line and one simulation command line per run.

The shell format starts with the rate1 values on a line of their own;
pass --no-diagnostic to omit it. Other formats are selected with -o:
` + "  shell, script, json, jsonl, yaml, csv, tsv, template",
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// runGenerate writes the sweep to the command's stdout.
func runGenerate(cmd *cobra.Command, _ []string) error {
	p, err := buildPlan(loaded, cmd.Flags().Changed("exe"))
	if err != nil {
		return err
	}

	opts, err := buildOptions(loaded, viper.GetInt("limit"), noDiagnostic)
	if err != nil {
		return err
	}

	format, formatter, err := buildFormatter(loaded.Output, templateStr)
	if err != nil {
		return err
	}

	runs := opts.Count(p)
	logger.Info("generating sweep",
		"runs", humanize.Comma(int64(runs)),
		"format", format,
		"executable", p.Executable())

	if err := formatter.Format(cmd.OutOrStdout(), p, opts); err != nil {
		return fmt.Errorf("writing sweep: %w", err)
	}

	if viper.GetBool("record") || loaded.Manifest.Enabled {
		recordGeneration(p, format, opts, loaded)
	}
	return nil
}

// buildPlan builds the sweep from the definition file and flags. The
// executable from an explicit --exe wins over the definition file, which
// wins over the configured executable.
func buildPlan(cfg *config.Config, exeFlag bool) (*plan.Plan, error) {
	def := &plan.Definition{}
	if cfg.Definition != "" {
		loadedDef, err := plan.LoadDefinition(cfg.Definition)
		if err != nil {
			return nil, err
		}
		def = loadedDef
		logger.Debug("loaded definition", "path", cfg.Definition)
	}

	var extra []plan.Option
	if exeFlag || def.Executable == "" {
		extra = append(extra, plan.WithExecutable(cfg.Executable))
	}

	p, err := def.Plan(extra...)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep: %w", err)
	}
	return p, nil
}

// buildOptions creates output options from the config and flags.
func buildOptions(cfg *config.Config, limit int, noDiag bool) (output.Options, error) {
	style, err := output.ParseFloatStyle(cfg.FloatStyle)
	if err != nil {
		return output.Options{}, err
	}
	if limit < 0 {
		return output.Options{}, fmt.Errorf("invalid limit %d: must not be negative", limit)
	}

	return output.Options{
		FloatStyle: style,
		Diagnostic: cfg.Diagnostic && !noDiag,
		Limit:      limit,
	}, nil
}

// buildFormatter selects the output formatter. A template always selects
// the template formatter.
func buildFormatter(format, tmpl string) (string, output.Formatter, error) {
	if tmpl != "" {
		return "template", output.NewTemplateFormatter(tmpl), nil
	}
	if format == "" {
		format = config.DefaultOutput
	}

	formatter, err := output.Get(format)
	if err != nil {
		return "", nil, fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	return format, formatter, nil
}

// recordGeneration writes a manifest entry. Failures are logged and do not
// fail the generation since the sweep is already written.
func recordGeneration(p *plan.Plan, format string, opts output.Options, cfg *config.Config) {
	entry, err := manifest.NewEntry(p, format, opts.Count(p))
	if err != nil {
		logger.Warn("failed to describe sweep for history", "error", err)
		return
	}
	entry.FloatStyle = string(opts.FloatStyle)
	entry.Definition = cfg.Definition

	m, err := manifest.New(cfg.Manifest.Path)
	if err != nil {
		logger.Warn("failed to open history", "error", err)
		return
	}

	recorded, err := m.Record(entry)
	if err != nil {
		logger.Warn("failed to record sweep", "error", err)
		return
	}
	logger.Debug("recorded sweep", "id", recorded.ID)
}
