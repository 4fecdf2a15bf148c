package main

import (
	"fmt"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/config"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// configErr holds a config file read error until a command runs.
	configErr error

	// loaded is the configuration resolved before each command runs.
	loaded *config.Config

	logger = logging.Get("cli")

	rootCmd = &cobra.Command{
		Use:   "ptbsweep",
		Short: "Generate parameter sweeps for xmatfluct_two_trait_sin",
		Long: `ptbsweep writes the command lines of a parameter sweep to stdout.

Every combination of the sweep axes becomes one invocation of the simulation
binary, preceded by "echo <n>". Pipe the output to a shell or a job runner.

Examples:
  ptbsweep > runs.sh                     # The reference sweep (55,000 runs)
  ptbsweep --limit 10                    # First ten runs only
  ptbsweep -f wide.yaml -x /opt/sim/bin  # Custom axes and binary
  ptbsweep -o csv > runs.csv             # One row per run
  ptbsweep axes                          # Show the sweep axes
  ptbsweep definition init sweep.yaml    # Start a custom sweep`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runGenerate,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/ptbsweep/config.yaml)")
	flags.BoolP("verbose", "v", false, "debug output")
	flags.BoolP("quiet", "q", false, "errors only")
	flags.StringP("exe", "x", "", "simulation binary (default: "+config.DefaultExecutable+")")
	flags.StringP("definition", "f", "", "sweep definition file")
	flags.String("float-style", "", "float text: go or python (default: go)")
	flags.StringP("output", "o", "", "output format (default: shell)")
	flags.StringVar(&templateStr, "template", "", "Go template executed per run (implies -o template)")
	flags.BoolVar(&noDiagnostic, "no-diagnostic", false, "omit the leading rate1 list")
	flags.Int("limit", 0, "stop after this many runs (0 = all)")
	flags.Bool("record", false, "record the generation in the history")

	bindFlags()
}

// bindFlags binds flags to viper keys.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("executable", flags.Lookup("exe"))
	_ = viper.BindPFlag("definition", flags.Lookup("definition"))
	_ = viper.BindPFlag("float_style", flags.Lookup("float-style"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("limit", flags.Lookup("limit"))
	_ = viper.BindPFlag("record", flags.Lookup("record"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	config.Setup(viper.GetViper(), cfgFile)
	configErr = config.Read(viper.GetViper())
}

// setup resolves the configuration and starts logging.
func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}
	loaded = cfg

	consoleLevel := "warn"
	switch {
	case getQuiet():
		consoleLevel = "error"
	case getVerbose():
		consoleLevel = "debug"
	}

	logCfg, err := cfg.Logging.LogConfig(consoleLevel)
	if err != nil {
		return err
	}
	logCfg.Console = cmd.ErrOrStderr()
	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", "file", used)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message to the command's stdout unless quiet mode is enabled.
func printInfo(cmd *cobra.Command, format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
}
