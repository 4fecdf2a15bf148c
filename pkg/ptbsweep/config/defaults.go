// Package config provides configuration management for ptbsweep.
package config

import "github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"

// AppName names the configuration, state and manifest directories.
const AppName = "ptbsweep"

// EnvPrefix prefixes environment overrides (e.g., PTBSWEEP_EXECUTABLE).
const EnvPrefix = "PTBSWEEP"

// Default configuration values for ptbsweep.
const (
	// DefaultExecutable is the simulation binary written into every command.
	DefaultExecutable = plan.DefaultExecutable

	// DefaultOutput is the formatter used when none is specified.
	DefaultOutput = "shell"

	// DefaultFloatStyle is the text form of argument values.
	DefaultFloatStyle = "go"

	// DefaultRetentionDays is the default number of days to retain manifests.
	DefaultRetentionDays = 30

	// DefaultLogLevel is the log file level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the size at which the log file is rotated.
	DefaultLogMaxSize = "10MB"

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 5
)
