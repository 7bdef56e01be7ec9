package exec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	res := Run(context.Background(), "sh", []string{"-c", "printf 'line 1:2 mismatched input'"}, DefaultOptions())
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "line 1:2 mismatched input", res.Stdout)
	assert.True(t, res.Started())
}

func TestRunExitCode(t *testing.T) {
	res := Run(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"}, DefaultOptions())
	require.Error(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom\n", res.Stderr)
	assert.True(t, res.Started(), "a non-zero exit is not a start fault")
	assert.False(t, errors.Is(res.Err, ErrStart))
}

func TestRunMissingExecutable(t *testing.T) {
	res := Run(context.Background(), "nbcheck-definitely-not-installed", nil, DefaultOptions())
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrStart)
	assert.False(t, res.Started())
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunInDir(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Dir = dir
	res := Run(context.Background(), "sh", []string{"-c", "pwd -P"}, opts)
	require.NoError(t, res.Err)
	assert.NotEmpty(t, FirstLine(res.Stdout))
}

func TestRunnerFunc(t *testing.T) {
	var got string
	r := RunnerFunc(func(_ context.Context, name string, args []string, _ Options) *Result {
		got = FormatCommand(name, args)
		return &Result{Command: name}
	})
	r.Run(context.Background(), "cargo", []string{"check"}, DefaultOptions())
	assert.Equal(t, "cargo check", got)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "line 3:0 extraneous input", FirstLine("\n  \nline 3:0 extraneous input\nmore"))
	assert.Equal(t, "", FirstLine(""))
}
