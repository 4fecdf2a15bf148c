package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firstCommand = "./xmatfluct_two_trait_sin 0.8366600265340756 0.01 0.02 0.01 0.02 0 0 0 0 0 0.1 0 0.5 0 0.5 0 0 0 0"

// testHome points the config and state directories at a temporary
// directory and returns the ptbsweep config directory.
func testHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return filepath.Join(home, ".config", "ptbsweep")
}

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	bindFlags()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	logging.Close()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestGenerate_Default(t *testing.T) {
	testHome(t)

	out, _, err := execute(t, "--limit", "2")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 5)
	assert.True(t, strings.HasPrefix(got[0], "[0, 0.3141592653589793, "), got[0])
	assert.Equal(t, "echo 1", got[1])
	assert.Equal(t, firstCommand, got[2])
	assert.Equal(t, "echo 2", got[3])
}

func TestGenerate_Subcommand(t *testing.T) {
	testHome(t)

	root, _, err := execute(t, "--limit", "3")
	require.NoError(t, err)

	sub, _, err := execute(t, "generate", "--limit", "3")
	require.NoError(t, err)
	assert.Equal(t, root, sub)
}

func TestGenerate_Flags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "executable flag",
			args: []string{"--limit", "1", "--no-diagnostic", "-x", "/opt/sim"},
			want: "echo 1\n/opt/sim" + strings.TrimPrefix(firstCommand, "./xmatfluct_two_trait_sin") + "\n",
		},
		{
			name: "python floats",
			args: []string{"--limit", "1", "--no-diagnostic", "--float-style", "python"},
			want: "echo 1\n./xmatfluct_two_trait_sin 0.8366600265340756 0.01 0.02 0.01 0.02 " +
				"0.0 0.0 0.0 0.0 0.0 0.1 0.0 0.5 0.0 0.5 0.0 -0.0 -0.0 0\n",
		},
		{
			name: "template",
			args: []string{"--limit", "2", "--template", "{{.Index}}/{{.Total}} {{num .Rate2}}"},
			want: "1/2 0.5\n2/2 0.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHome(t)

			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGenerate_EnvironmentAndConfigFile(t *testing.T) {
	dir := testHome(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: csv\n"), 0o644))
	t.Setenv("PTBSWEEP_EXECUTABLE", "/env/sim")

	out, _, err := execute(t, "--limit", "1")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "index,c,mu_g,"), got[0])
	assert.True(t, strings.HasPrefix(got[1], "1,0.8366600265340756,"), got[1])

	// The executable only appears in command lines.
	out, _, err = execute(t, "--limit", "1", "-o", "shell", "--no-diagnostic")
	require.NoError(t, err)
	assert.Contains(t, out, "/env/sim 0.8366600265340756")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown format", []string{"-o", "xml"}, "unknown output format"},
		{"unknown float style", []string{"--float-style", "fortran"}, "unknown float style"},
		{"missing definition", []string{"-f", "/nonexistent/sweep.yaml"}, "definition"},
		{"unexpected argument", []string{"extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHome(t)

			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestHistory_RecordAndShow(t *testing.T) {
	dir := testHome(t)

	out, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history entries found.")

	_, _, err = execute(t, "--record", "--limit", "3")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, ".manifest", "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	id := strings.TrimSuffix(filepath.Base(files[0]), ".json")

	out, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "3/55,000")

	out, _, err = execute(t, "history", "show", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "ID:          "+id)
	assert.Contains(t, out, "Fingerprint: ")
	assert.Contains(t, out, "rate1")

	out, _, err = execute(t, "history", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 entries.")
}

func TestDefinitionCommands(t *testing.T) {
	testHome(t)
	path := filepath.Join(t.TempDir(), "sweep.yaml")

	_, _, err := execute(t, "definition", "init", path)
	require.NoError(t, err)

	_, _, err = execute(t, "definition", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = execute(t, "definition", "init", "--force", path)
	require.NoError(t, err)

	out, _, err := execute(t, "-f", path, "--limit", "1", "--no-diagnostic")
	require.NoError(t, err)
	assert.Equal(t, "echo 1\n"+firstCommand+"\n", out)

	out, _, err = execute(t, "definition", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "executable: ./xmatfluct_two_trait_sin")
	assert.Contains(t, out, "# fingerprint: ")

	fromFile, _, err := execute(t, "definition", "show", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, out, fromFile)
}

func TestAxesCommand(t *testing.T) {
	testHome(t)

	out, _, err := execute(t, "axes")
	require.NoError(t, err)
	assert.Contains(t, out, "55,000")
	assert.Contains(t, out, "rate1")
	assert.Contains(t, out, "= rate1")
}

func TestConfigCommands(t *testing.T) {
	dir := testHome(t)

	out, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml")+"\n", out)

	out, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default config file")
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	out, _, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+filepath.Join(dir, "config.yaml"))
	assert.Contains(t, out, "executable:           ./xmatfluct_two_trait_sin")
}

func TestVersionCommand(t *testing.T) {
	testHome(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ptbsweep dev\n"), out)
}
