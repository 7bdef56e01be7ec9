// Package validate checks sample inputs against the published grammar using
// an external parse tool.
package validate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nebula-lang/nbcheck/internal/exec"
	"github.com/nebula-lang/nbcheck/internal/samples"
)

// ErrSamplesFailed is returned when at least one sample was rejected.
var ErrSamplesFailed = errors.New("grammar check failed")

// Reporter receives per-sample status lines.
type Reporter interface {
	Success(text string)
	Error(text string)
	Detail(text string)
}

// Options configures a Checker.
type Options struct {
	Tool        string
	GrammarFile string
	EntryRule   string
	Extension   string
	// Dir is the project root: the tool's working directory and the base
	// for the sample paths handed to it.
	Dir string
	// StrictExitCode fails samples whose tool run exits non-zero even when
	// it printed nothing.
	StrictExitCode bool
	Logger         *log.Logger
}

// Checker runs the grammar tool over samples, one at a time.
type Checker struct {
	runner   exec.Runner
	reporter Reporter
	opts     Options
}

// NewChecker returns a Checker.
func NewChecker(runner exec.Runner, reporter Reporter, opts Options) *Checker {
	return &Checker{runner: runner, reporter: reporter, opts: opts}
}

// Check runs the tool once per sample with the configured extension; other
// samples are ignored entirely. A failing sample is reported and the loop
// moves on. An error is returned only when the tool cannot be started.
func (c *Checker) Check(ctx context.Context, in []samples.Sample) (Outcome, error) {
	outcome := Outcome{Passed: true}

	for _, s := range in {
		if !s.HasExtension(c.opts.Extension) {
			continue
		}

		res, err := c.checkOne(ctx, s)
		if err != nil {
			return outcome, err
		}
		outcome.add(res)

		if res.Passed() {
			c.reporter.Success(fmt.Sprintf("antlr check %s succeed!", s.Name))
		} else {
			c.reporter.Error(fmt.Sprintf("antlr check %s failed!", s.Name))
			c.reporter.Detail(res.Output)
		}
	}

	return outcome, nil
}

func (c *Checker) checkOne(ctx context.Context, s samples.Sample) (SampleResult, error) {
	args := []string{c.opts.GrammarFile, c.opts.EntryRule, c.samplePath(s)}

	opts := exec.DefaultOptions()
	opts.Dir = c.opts.Dir
	opts.StreamStderr = true
	opts.Logger = c.opts.Logger

	run := c.runner.Run(ctx, c.opts.Tool, args, opts)
	if !run.Started() {
		return SampleResult{}, fmt.Errorf("running %s: %w", exec.FormatCommand(c.opts.Tool, args), run.Err)
	}
	if err := ctx.Err(); err != nil {
		return SampleResult{}, err
	}

	res := SampleResult{
		Sample:   s,
		Output:   run.Stdout,
		ExitCode: run.ExitCode,
		Status:   StatusSuccess,
	}
	if len(run.Stdout) > 0 || (c.opts.StrictExitCode && run.ExitCode != 0) {
		res.Status = StatusError
	}
	if res.Status == StatusError && strings.TrimSpace(res.Output) == "" {
		res.Output = fmt.Sprintf("%s exited with status %d", c.opts.Tool, run.ExitCode)
	}
	return res, nil
}

// samplePath makes the sample path relative to the project root when
// possible, matching how the tool is invoked by hand.
func (c *Checker) samplePath(s samples.Sample) string {
	if c.opts.Dir == "" || !filepath.IsAbs(s.Path) {
		return s.Path
	}
	rel, err := filepath.Rel(c.opts.Dir, s.Path)
	if err != nil {
		return s.Path
	}
	return rel
}
