package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/logging"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"` // empty disables the log file
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ManifestConfig configures the generation history.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Executable string         `mapstructure:"executable"`
	Output     string         `mapstructure:"output"`
	FloatStyle string         `mapstructure:"float_style"`
	Definition string         `mapstructure:"definition"`
	Diagnostic bool           `mapstructure:"diagnostic"`
	Manifest   ManifestConfig `mapstructure:"manifest"`
	Logging    LoggingConfig  `mapstructure:"logging"`
}

// Setup points v at the configuration file and environment and registers
// the defaults. An empty cfgFile searches the standard locations:
//   - $XDG_CONFIG_HOME/ptbsweep/config.yaml
//   - $HOME/.config/ptbsweep/config.yaml
//
// Environment variables are prefixed with PTBSWEEP_ (e.g.,
// PTBSWEEP_FLOAT_STYLE, PTBSWEEP_MANIFEST_ENABLED).
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("executable", DefaultExecutable)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("float_style", DefaultFloatStyle)
	v.SetDefault("definition", "")
	v.SetDefault("diagnostic", true)

	v.SetDefault("manifest.enabled", false)
	v.SetDefault("manifest.path", "") // Empty means use ManifestDir
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 0)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.components", map[string]string{})
}

// Read reads the configuration file of v. A missing file is not an error
// when the standard locations are searched.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	Setup(v, "")
	if err := Read(v); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode builds a Config from the merged settings of v and resolves paths.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Manifest.Path == "" {
		dir, err := ManifestDir()
		if err != nil {
			return nil, err
		}
		cfg.Manifest.Path = dir
	}

	paths := []*string{&cfg.Manifest.Path, &cfg.Logging.Path, &cfg.Definition}
	for _, p := range paths {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return &cfg, nil
}

// LogConfig converts the logging settings. consoleLevel is passed through
// to logging.Config.ConsoleLevel.
func (c LoggingConfig) LogConfig(consoleLevel string) (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Rotation.MaxSize != "" {
		size, err := humanize.ParseBytes(c.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("invalid logging.rotation.max_size %q: %w", c.Rotation.MaxSize, err)
		}
		rotation.MaxSize = int64(size)
	}
	rotation.MaxAge = c.Rotation.MaxAge
	rotation.MaxBackups = c.Rotation.MaxBackups

	return logging.Config{
		Level:        c.Level,
		Path:         c.Path,
		Rotation:     rotation,
		Components:   c.Components,
		ConsoleLevel: consoleLevel,
	}, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the path of the default configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ManifestDir returns the default manifest directory path.
func ManifestDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".manifest"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	manifestDir, err := ManifestDir()
	if err != nil {
		return "", err
	}

	defaultConfig := fmt.Sprintf(`# ptbsweep configuration

# Simulation binary written at the start of every command line
executable: %s

# Output format: shell, script, json, jsonl, yaml, csv, tsv, template
output: %s

# Float text: go (shortest round-trip) or python (repr compatible)
float_style: %s

# Sweep definition file (empty uses the built-in sweep)
definition: ""

# Print the rate1 values before the shell commands
diagnostic: true

# History of generated sweeps
manifest:
  enabled: false
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means no log file, e.g. %s)
  path: ""
  rotation:
    max_size: %s
    max_age: 0        # days, 0 keeps backups regardless of age
    max_backups: %d
`, DefaultExecutable, DefaultOutput, DefaultFloatStyle, manifestDir, DefaultRetentionDays,
		DefaultLogLevel, DefaultLogPath(), DefaultLogMaxSize, DefaultLogMaxBackups)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/ptbsweep/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultLogPath returns the suggested log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}
