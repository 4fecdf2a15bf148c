package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/logging"
)

// Note: these tests modify global state and must not run in parallel.

func TestInit(t *testing.T) {
	validDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name:    "console only",
			cfg:     logging.Config{Level: "info", ConsoleLevel: "warn"},
			wantErr: false,
		},
		{
			name:    "log file",
			cfg:     logging.Config{Level: "debug", Path: filepath.Join(validDir, "ptbsweep.log")},
			wantErr: false,
		},
		{
			name: "component overrides",
			cfg: logging.Config{
				Level:      "info",
				Components: map[string]string{"output": "debug", "manifest": "warn"},
			},
			wantErr: false,
		},
		{
			name:    "invalid level",
			cfg:     logging.Config{Level: "loud"},
			wantErr: true,
		},
		{
			name:    "invalid console level",
			cfg:     logging.Config{Level: "info", ConsoleLevel: "loud"},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level:      "info",
				Components: map[string]string{"output": "loud"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, logging.ErrInvalidLevel) {
				t.Errorf("Init() error = %v, want ErrInvalidLevel", err)
			}
			if err := logging.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestGet_BeforeInitIsSilent(t *testing.T) {
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Must not panic or write anywhere.
	logger := logging.Get("early")
	logger.Error("dropped")

	if logging.Get("early") != logger {
		t.Error("Get() returned a different logger for the same component")
	}
}

func TestInit_ReconfiguresExistingLoggers(t *testing.T) {
	logger := logging.Get("reconfigure")

	var console bytes.Buffer
	if err := logging.Init(logging.Config{Level: "info", ConsoleLevel: "info", Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer logging.Close()

	logger.Info("plan built", "runs", 55000)

	out := console.String()
	if !strings.Contains(out, "plan built") || !strings.Contains(out, "runs=55000") {
		t.Errorf("console output = %q", out)
	}
	if !strings.Contains(out, "reconfigure") {
		t.Errorf("console output %q missing component prefix", out)
	}
}

func TestConsoleLevel(t *testing.T) {
	var console bytes.Buffer
	if err := logging.Init(logging.Config{Level: "debug", ConsoleLevel: "warn", Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer logging.Close()

	logger := logging.Get("levels")
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := console.String()
	for _, hidden := range []string{"debug message", "info message"} {
		if strings.Contains(out, hidden) {
			t.Errorf("console output contains %q below console level", hidden)
		}
	}
	for _, shown := range []string{"warn message", "error message"} {
		if !strings.Contains(out, shown) {
			t.Errorf("console output missing %q", shown)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ptbsweep.log")

	err := logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"verbose": "debug"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("quiet").Debug("quiet debug")
	logging.Get("quiet").Info("quiet info")
	logging.Get("verbose").Debug("verbose debug")

	with := logging.Get("quiet").With("definition", "sweep.yaml")
	with.Warn("with context")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "quiet debug") {
		t.Error("log file contains debug message below default level")
	}
	for _, want := range []string{"quiet info", "verbose debug", "with context", "definition=sweep.yaml"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q:\n%s", want, content)
		}
	}
}

func TestClose_Idempotent(t *testing.T) {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := logging.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := logging.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"", logging.LevelInfo, true},
		{"trace", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	levels := map[logging.Level]string{
		logging.LevelDebug: "debug",
		logging.LevelInfo:  "info",
		logging.LevelWarn:  "warn",
		logging.LevelError: "error",
		logging.Level(99):  "unknown",
	}
	for level, want := range levels {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
