package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebula-lang/nbcheck/internal/config"
	"github.com/nebula-lang/nbcheck/internal/exec"
	"github.com/nebula-lang/nbcheck/internal/exec/exectest"
	"github.com/nebula-lang/nbcheck/internal/pipeline"
	"github.com/nebula-lang/nbcheck/internal/report"
)

// execute runs the root command with args against fake and returns the exit
// status and stdout.
func execute(t *testing.T, fake exec.Runner, args ...string) (int, string) {
	t.Helper()
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("CI", "")

	prev := runner
	runner = fake
	resetFlags(rootCmd)
	cfg = nil
	t.Cleanup(func() {
		runner = prev
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	return Execute(), out.String()
}

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func newProject(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "examples", "src")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fn main() {}\n"), 0o644))
	}
	return root
}

func TestGateSucceeds(t *testing.T) {
	root := newProject(t, "a.n", "c.txt")
	fake := exectest.NewFake()

	code, out := execute(t, fake, "-C", root, "--no-color")
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.Contains(t, out, "[INFO] antlr check a.n succeed!")
	assert.NotContains(t, out, "c.txt")
	assert.Len(t, fake.Calls(), 3)
}

func TestGateScenarioMixedSamples(t *testing.T) {
	root := newProject(t, "a.n", "b.n", "c.txt")
	fake := exectest.NewFake().
		On("antlr4-parse specs/NebulaParser.g4 entry_file examples/src/b.n",
			exectest.Response{Stdout: "line 1:3 missing '{' at 'main'\n"})

	code, out := execute(t, fake, "-C", root, "--no-color")
	assert.Equal(t, pipeline.ExitFailure, code)
	assert.Contains(t, out, "[INFO] antlr check a.n succeed!")
	assert.Contains(t, out, "[ERROR] antlr check b.n failed!\n\tline 1:3 missing '{' at 'main'")
	assert.NotContains(t, out, "c.txt")
}

func TestGateStaticCheckFailure(t *testing.T) {
	root := newProject(t, "a.n")
	fake := exectest.NewFake().On("cargo check", exectest.Response{ExitCode: 101})

	code, out := execute(t, fake, "-C", root, "--no-color")
	assert.Equal(t, pipeline.ExitFailure, code)
	assert.Contains(t, out, "[ERROR] cargo check failed!")
	assert.Equal(t, []string{"cargo check"}, fake.Lines())
}

func TestGateCustomConfig(t *testing.T) {
	root := newProject(t, "a.neb", "b.n")
	cfg := config.DefaultConfig()
	cfg.Checks.Static = []string{"cargo", "clippy"}
	cfg.Samples.Extension = ".neb"
	require.NoError(t, cfg.Save(filepath.Join(root, config.YAMLFile)))
	fake := exectest.NewFake()

	code, _ := execute(t, fake, "-C", root, "--no-color")
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.Equal(t, []string{
		"cargo clippy",
		"cargo test",
		"antlr4-parse specs/NebulaParser.g4 entry_file examples/src/a.neb",
	}, fake.Lines())
}

func TestGateInvalidConfig(t *testing.T) {
	root := newProject(t, "a.n")
	require.NoError(t, os.WriteFile(filepath.Join(root, config.YAMLFile), []byte("samples:\n  extension: n\n"), 0o644))
	fake := exectest.NewFake()

	code, _ := execute(t, fake, "-C", root, "--no-color")
	assert.Equal(t, pipeline.ExitFailure, code)
	assert.Empty(t, fake.Calls())
}

func TestGateWritesReport(t *testing.T) {
	root := newProject(t, "a.n", "b.n")
	fake := exectest.NewFake().
		On("antlr4-parse specs/NebulaParser.g4 entry_file examples/src/b.n",
			exectest.Response{Stdout: "line 1:0 extraneous input\n"})
	path := filepath.Join(t.TempDir(), "report.json")

	code, _ := execute(t, fake, "-C", root, "--no-color", "--report", path)
	assert.Equal(t, pipeline.ExitFailure, code)

	rep, err := report.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "failed", rep.State)
	assert.Equal(t, "grammar check", rep.FailedStage)
	require.Len(t, rep.Samples, 2)
	assert.Equal(t, "examples/src/b.n", rep.Samples[1].Path)
	assert.Equal(t, "fail", rep.Samples[1].Status)
}

func TestGateMissingExplicitConfig(t *testing.T) {
	root := newProject(t, "a.n")
	fake := exectest.NewFake()

	code, _ := execute(t, fake, "-C", root, "--no-color", "--config", filepath.Join(root, "typo.yaml"))
	assert.Equal(t, pipeline.ExitFailure, code)
	assert.Empty(t, fake.Calls())
}

func TestGateExplicitConfig(t *testing.T) {
	root := newProject(t, "a.n")
	path := filepath.Join(t.TempDir(), "gate.toml")
	require.NoError(t, os.WriteFile(path, []byte("[checks]\nstatic = [\"cargo\", \"clippy\"]\n"), 0o644))
	fake := exectest.NewFake()

	code, _ := execute(t, fake, "-C", root, "--no-color", "--config", path)
	assert.Equal(t, pipeline.ExitSuccess, code)
	require.NotEmpty(t, fake.Lines())
	assert.Equal(t, "cargo clippy", fake.Lines()[0])
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	root := newProject(t, "a.n")
	_, _ = execute(t, exectest.NewFake(), "-C", root, "--no-color", "--config", filepath.Join(root, "typo.yaml"))

	fake := exectest.NewFake()
	code, _ := execute(t, fake, "-C", root)
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.False(t, noColor)
	assert.Empty(t, cfgFile)
	assert.Len(t, fake.Calls(), 3)
}

func TestRootVersionFlag(t *testing.T) {
	code, out := execute(t, exectest.NewFake(), "--version")
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.Equal(t, "nbcheck version "+rootCmd.Version+"\n", out)
}

func TestGateRejectsArguments(t *testing.T) {
	code, _ := execute(t, exectest.NewFake(), "unexpected")
	assert.Equal(t, pipeline.ExitFailure, code)
}

func TestVersion(t *testing.T) {
	code, out := execute(t, exectest.NewFake(), "version", "--no-color")
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.Contains(t, out, "Version:    dev")
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()

	code, out := execute(t, exectest.NewFake(), "init", dir, "--no-color", "--entry-rule", "program", "--force")
	assert.Equal(t, pipeline.ExitSuccess, code)
	assert.Contains(t, out, "Configuration written to")

	loaded, err := config.Load(filepath.Join(dir, config.YAMLFile))
	require.NoError(t, err)
	assert.Equal(t, "program", loaded.Grammar.EntryRule)
	assert.Equal(t, "specs/NebulaParser.g4", loaded.Grammar.File)
}
