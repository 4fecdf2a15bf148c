package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage ptbsweep configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/ptbsweep/config.yaml (if set)
  2. ~/.config/ptbsweep/config.yaml

Environment variables can override config file settings using the PTBSWEEP_ prefix:
  PTBSWEEP_EXECUTABLE=/opt/sim/xmatfluct_two_trait_sin
  PTBSWEEP_FLOAT_STYLE=python
  PTBSWEEP_MANIFEST_ENABLED=true`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// envOverrides lists the environment variables reported by config show.
var envOverrides = []string{
	"PTBSWEEP_EXECUTABLE",
	"PTBSWEEP_OUTPUT",
	"PTBSWEEP_FLOAT_STYLE",
	"PTBSWEEP_DEFINITION",
	"PTBSWEEP_DIAGNOSTIC",
	"PTBSWEEP_MANIFEST_ENABLED",
	"PTBSWEEP_MANIFEST_PATH",
	"PTBSWEEP_MANIFEST_RETENTION_DAYS",
	"PTBSWEEP_LOGGING_LEVEL",
	"PTBSWEEP_LOGGING_PATH",
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := loaded
	out := cmd.OutOrStdout()

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	definition := cfg.Definition
	if definition == "" {
		definition = "(built-in sweep)"
	}
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = "(none)"
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "executable:           %s\n", cfg.Executable)
	fmt.Fprintf(out, "output:               %s\n", cfg.Output)
	fmt.Fprintf(out, "float_style:          %s\n", cfg.FloatStyle)
	fmt.Fprintf(out, "definition:           %s\n", definition)
	fmt.Fprintf(out, "diagnostic:           %t\n", cfg.Diagnostic)
	fmt.Fprintf(out, "manifest.enabled:     %t\n", cfg.Manifest.Enabled)
	fmt.Fprintf(out, "manifest.path:        %s\n", cfg.Manifest.Path)
	fmt.Fprintf(out, "manifest.retention:   %d days\n", cfg.Manifest.RetentionDays)
	fmt.Fprintf(out, "logging.level:        %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "logging.path:         %s\n", logPath)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	anyOverrides := false
	for _, name := range envOverrides {
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(out, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, _ []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	logger.Debug("opening config", "path", configPath, "editor", editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo(cmd, "Config file already exists: %s", configPath)
		printInfo(cmd, "Use 'ptbsweep config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo(cmd, "Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		logger.Debug("config file exists", "path", configPath)
	} else if os.IsNotExist(err) {
		logger.Debug("config file does not exist, using defaults", "path", configPath)
	}

	return nil
}
