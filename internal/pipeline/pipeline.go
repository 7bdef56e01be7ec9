// Package pipeline runs the nbcheck gate: static check, then tests, then the
// grammar check over the samples. The first failing stage ends the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nebula-lang/nbcheck/internal/ci"
	"github.com/nebula-lang/nbcheck/internal/config"
	"github.com/nebula-lang/nbcheck/internal/exec"
	"github.com/nebula-lang/nbcheck/internal/samples"
	"github.com/nebula-lang/nbcheck/internal/ui"
	"github.com/nebula-lang/nbcheck/internal/validate"
)

// ErrAlreadyRun is returned by Run on a Pipeline that has left NotStarted.
var ErrAlreadyRun = errors.New("pipeline already run")

// SpinFunc blocks until fn returns, optionally animating message meanwhile.
type SpinFunc func(message string, fn func() error) error

func runInline(_ string, fn func() error) error {
	return fn()
}

// Result describes a finished run.
type Result struct {
	State       State
	FailedStage Stage // meaningful only when State is StateFailed
	Durations   map[Stage]time.Duration
	Grammar     validate.Outcome
}

// Pipeline is a single-use gate run over one project.
type Pipeline struct {
	cfg      *config.Config
	root     string
	runner   exec.Runner
	reporter *ui.Reporter
	logger   *log.Logger
	spin     SpinFunc
	ci       *ci.Environment

	state State
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSpinner waits on stage processes through fn, e.g. ui.RunWithSpinner.
func WithSpinner(fn SpinFunc) Option {
	return func(p *Pipeline) {
		p.spin = fn
	}
}

// WithCI emits workflow groups, annotations and a job summary to env.
func WithCI(env *ci.Environment) Option {
	return func(p *Pipeline) {
		p.ci = env
	}
}

// New returns a Pipeline for the project at root.
func New(cfg *config.Config, root string, runner exec.Runner, reporter *ui.Reporter, logger *log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		root:     root,
		runner:   runner,
		reporter: reporter,
		logger:   logger,
		spin:     runInline,
		ci:       &ci.Environment{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the stages in order. A nil error means every stage passed.
// Otherwise the error is a *StageError naming the stage that ended the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.state != StateNotStarted {
		return nil, ErrAlreadyRun
	}

	res := &Result{Durations: make(map[Stage]time.Duration, len(Stages))}

	for _, stage := range Stages {
		p.transition(runningState(stage))

		start := time.Now()
		err := p.runStage(ctx, stage, res)
		res.Durations[stage] = time.Since(start)
		p.logger.Debug("stage finished", "stage", stage, "duration", res.Durations[stage].Round(time.Millisecond), "ok", err == nil)

		if err != nil {
			p.transition(StateFailed)
			res.State = p.state
			res.FailedStage = stage
			return res, &StageError{Stage: stage, Err: err}
		}
	}

	p.transition(StateSucceeded)
	res.State = p.state
	return res, nil
}

func (p *Pipeline) transition(to State) {
	p.logger.Debug("pipeline state", "from", p.state, "to", to)
	p.state = to
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, res *Result) error {
	switch stage {
	case StageStaticCheck:
		_, err := p.runTool(ctx, p.cfg.Checks.Static)
		return err
	case StageTestRun:
		run, err := p.runTool(ctx, p.cfg.Checks.Test)
		if err == nil {
			p.reporter.Echo(run.Stdout)
		}
		return err
	case StageGrammarCheck:
		outcome, err := p.checkGrammar(ctx)
		res.Grammar = outcome
		return err
	default:
		return fmt.Errorf("unknown stage %d", stage)
	}
}

// runTool runs a static-check or test command in the project root and
// reports its outcome. Any error, including a non-zero exit, fails the stage.
func (p *Pipeline) runTool(ctx context.Context, argv []string) (*exec.Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("no command configured")
	}
	label := config.StageLabel(argv)
	p.reporter.Info("start " + label + "...")

	p.ci.StartGroup(label)
	defer p.ci.EndGroup()

	opts := exec.DefaultOptions()
	opts.Dir = p.root
	opts.Logger = p.logger

	var run *exec.Result
	spinErr := p.spin(label, func() error {
		run = p.runner.Run(ctx, argv[0], argv[1:], opts)
		return run.Err
	})

	if run == nil {
		if spinErr == nil {
			spinErr = errors.New("command was not run")
		}
		p.reporter.Error(label + " failed!")
		p.reporter.Detail(spinErr.Error())
		p.ci.LogError(label+" failed", "", 0)
		return nil, fmt.Errorf("%s: %w", label, spinErr)
	}

	if run.Err != nil {
		p.reporter.Error(label + " failed!")
		p.reporter.Detail(failureDetail(label, run))
		p.ci.LogError(label+" failed", "", 0)
		return run, fmt.Errorf("%s: %w", label, run.Err)
	}

	p.reporter.Success(label + " succeed!")
	return run, nil
}

func failureDetail(label string, run *exec.Result) string {
	if !run.Started() {
		return run.Err.Error()
	}
	detail := fmt.Sprintf("Command failed: %s (%v)", label, run.Err)
	if run.Stderr != "" {
		detail += "\n" + run.Stderr
	}
	return detail
}

func (p *Pipeline) checkGrammar(ctx context.Context) (validate.Outcome, error) {
	tool := p.cfg.Grammar.Tool
	p.reporter.Info("start " + tool + " check...")

	p.ci.StartGroup(tool)
	defer p.ci.EndGroup()

	dir := p.cfg.Samples.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.root, dir)
	}

	listed, err := samples.List(dir)
	if err != nil {
		p.fatal(tool, err)
		return validate.Outcome{}, err
	}
	selected, err := samples.Filter(listed, p.cfg.Samples.Extension, p.cfg.Samples.Exclude)
	if err != nil {
		p.fatal(tool, err)
		return validate.Outcome{}, err
	}
	p.logger.Debug("samples selected", "dir", dir, "listed", len(listed), "selected", len(selected))

	checker := validate.NewChecker(p.runner, p.reporter, validate.Options{
		Tool:           tool,
		GrammarFile:    p.cfg.Grammar.File,
		EntryRule:      p.cfg.Grammar.EntryRule,
		Extension:      p.cfg.Samples.Extension,
		Dir:            p.root,
		StrictExitCode: p.cfg.Grammar.StrictExitCode,
		Logger:         p.logger,
	})

	outcome, err := checker.Check(ctx, selected)
	if err != nil {
		p.fatal(tool, err)
		return outcome, err
	}

	p.publish(tool, outcome)
	if !outcome.Passed {
		_, failed := outcome.Counts()
		return outcome, fmt.Errorf("%d of %d samples rejected: %w", failed, len(outcome.Results), validate.ErrSamplesFailed)
	}
	return outcome, nil
}

func (p *Pipeline) relPath(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil {
		return rel
	}
	return path
}

func (p *Pipeline) fatal(tool string, err error) {
	p.reporter.Error(tool + " check failed!")
	p.reporter.Detail(err.Error())
	p.ci.LogError(err.Error(), "", 0)
}

// publish sends per-sample annotations and a summary table to CI.
func (p *Pipeline) publish(tool string, outcome validate.Outcome) {
	for _, r := range outcome.Failed() {
		p.ci.LogError(exec.FirstLine(r.Output), p.relPath(r.Sample.Path), 0)
	}

	if len(outcome.Results) == 0 {
		return
	}
	rows := make([][]string, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		rows = append(rows, []string{p.relPath(r.Sample.Path), r.Status.String()})
	}

	passed, failed := outcome.Counts()
	if failed == 0 {
		p.ci.LogNotice(fmt.Sprintf("%d samples accepted by %s", passed, tool))
	}

	var b strings.Builder
	b.WriteString("### Grammar check\n\n")
	if run := p.ci.RunContext(); run != "" {
		fmt.Fprintf(&b, "_%s_\n\n", run)
	}
	fmt.Fprintf(&b, "%d passed, %d failed\n\n", passed, failed)
	b.WriteString(ci.SummaryTable([]string{"Sample", "Result"}, rows))
	if err := p.ci.AddSummary(b.String()); err != nil {
		p.logger.Warn("could not write job summary", "error", err)
	}
}
