package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/config"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/manifest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultHistoryLimit applies when --limit is not given.
const defaultHistoryLimit = 20

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View generated sweeps",
	Long: `View the history of generated sweeps.

A sweep is recorded when it is generated with --record or when
manifest.enabled is set in the configuration. Use --limit to change
the number of entries listed.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a recorded sweep",
	Long:  `Display a recorded sweep by its ID or a unique prefix of it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns a manifest instance with the configured directory.
func getManifest() (*manifest.Manifest, error) {
	m, err := manifest.New(loaded.Manifest.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize manifest: %w", err)
	}
	return m, nil
}

// runHistory lists recent generations.
func runHistory(cmd *cobra.Command, _ []string) error {
	m, err := getManifest()
	if err != nil {
		return err
	}

	limit := viper.GetInt("limit")
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := m.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		printInfo(cmd, "No history entries found.")
		printInfo(cmd, "Run 'ptbsweep --record' to record a sweep.")
		return nil
	}

	fmt.Fprintf(out, "\n%-10s  %-16s  %-8s  %-15s  %s\n", "ID", "WHEN", "FORMAT", "RUNS", "EXECUTABLE")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, entry := range entries {
		fmt.Fprintf(out, "%-10s  %-16s  %-8s  %-15s  %s\n",
			shortID(entry.ID),
			humanize.Time(entry.Timestamp),
			entry.Format,
			formatRuns(entry),
			entry.Executable,
		)
	}

	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Fprintln(out, "Use 'ptbsweep history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a recorded sweep.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return err
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nSweep Details")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "ID:          %s\n", entry.ID)
	fmt.Fprintf(out, "Timestamp:   %s (%s)\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"), humanize.Time(entry.Timestamp))
	fmt.Fprintf(out, "Executable:  %s\n", entry.Executable)
	fmt.Fprintf(out, "Format:      %s\n", entry.Format)
	if entry.FloatStyle != "" {
		fmt.Fprintf(out, "Float style: %s\n", entry.FloatStyle)
	}
	fmt.Fprintf(out, "Runs:        %s\n", formatRuns(*entry))
	if entry.Definition != "" {
		fmt.Fprintf(out, "Definition:  %s\n", entry.Definition)
	}
	fmt.Fprintf(out, "Fingerprint: %s\n", entry.Fingerprint)

	if len(entry.Axes) > 0 {
		fmt.Fprintln(out, "\nAxes:")
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, a := range entry.Axes {
			fmt.Fprintf(out, "%-12s  %d\n", a.Name, a.Count)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, _ []string) error {
	m, err := getManifest()
	if err != nil {
		return err
	}

	retentionDays := loaded.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo(cmd, "Cleaning history entries older than %d days...", retentionDays)

	removed, err := m.Clean(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo(cmd, "Removed %d %s.", removed, plural(removed, "entry", "entries"))
	return nil
}

// formatRuns writes the run count, with the sweep size when truncated.
func formatRuns(e manifest.Entry) string {
	if e.Truncated() {
		return humanize.Comma(int64(e.Runs)) + "/" + humanize.Comma(int64(e.Total))
	}
	return humanize.Comma(int64(e.Runs))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// shortID returns the leading part of an ID, which history show accepts.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
