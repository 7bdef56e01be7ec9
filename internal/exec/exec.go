// Package exec provides command execution utilities for nbcheck
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrStart marks a command that could not be started at all (missing
// executable, permission denied). It is distinct from a command that ran
// and exited non-zero.
var ErrStart = errors.New("command could not be started")

// Result holds the result of a command execution
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// Started reports whether the process was launched.
func (r *Result) Started() bool {
	return r.Err == nil || !errors.Is(r.Err, ErrStart)
}

// Options configures command execution
type Options struct {
	Dir          string
	StreamStderr bool // Stream stderr to the terminal, stdout stays captured
	Logger       *log.Logger
}

// DefaultOptions returns default execution options
func DefaultOptions() Options {
	return Options{}
}

// Runner executes external commands. The pipeline depends on this rather
// than on Run so tests can script tool behavior.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) *Result
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args []string, opts Options) *Result

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args []string, opts Options) *Result {
	return f(ctx, name, args, opts)
}

// OS is the Runner backed by real processes.
var OS Runner = RunnerFunc(Run)

// Run executes a command and returns the result
func Run(ctx context.Context, name string, args []string, opts Options) *Result {
	start := time.Now()

	result := &Result{
		Command: name,
		Args:    args,
	}

	cmd := exec.CommandContext(ctx, name, args...)

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.StreamStderr {
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)
	}

	if opts.Logger != nil {
		opts.Logger.Debug("executing command", "cmd", name, "args", args, "dir", opts.Dir)
	}

	if err := cmd.Start(); err != nil {
		result.Duration = time.Since(start)
		result.ExitCode = -1
		result.Err = fmt.Errorf("%w: %s: %w", ErrStart, name, err)
		if opts.Logger != nil {
			opts.Logger.Debug("command did not start", "cmd", name, "error", err)
		}
		return result
	}

	err := cmd.Wait()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		result.Err = err
	}

	if opts.Logger != nil {
		if err != nil {
			opts.Logger.Debug("command failed",
				"cmd", name,
				"exit_code", result.ExitCode,
				"duration", result.Duration,
			)
		} else {
			opts.Logger.Debug("command succeeded",
				"cmd", name,
				"duration", result.Duration,
			)
		}
	}

	return result
}

// FormatCommand formats a command for display
func FormatCommand(name string, args []string) string {
	parts := append([]string{name}, args...)
	return strings.Join(parts, " ")
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
