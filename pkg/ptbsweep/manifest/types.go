// Package manifest keeps a history of generated sweeps.
//
// Each generation is stored as one JSON file named after its entry ID, so
// concurrent ptbsweep processes never write the same file.
package manifest

import "time"

// Entry records one generated sweep.
type Entry struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Executable  string        `json:"executable"`
	Format      string        `json:"format"`
	FloatStyle  string        `json:"float_style,omitempty"`
	Runs        int           `json:"runs"`
	Total       int           `json:"total"`
	Definition  string        `json:"definition,omitempty"`
	Fingerprint string        `json:"fingerprint"`
	Axes        []AxisSummary `json:"axes,omitempty"`
}

// AxisSummary is the size of one axis of the recorded sweep.
type AxisSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Truncated reports whether fewer runs were written than the sweep holds.
func (e Entry) Truncated() bool {
	return e.Runs < e.Total
}
