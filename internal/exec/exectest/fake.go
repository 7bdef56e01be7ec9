// Package exectest provides a scripted exec.Runner for tests.
package exectest

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	nbexec "github.com/nebula-lang/nbcheck/internal/exec"
)

// Call records one invocation seen by a Fake.
type Call struct {
	Name string
	Args []string
	Dir  string
}

// Line returns the invocation formatted as a shell-like command line.
func (c Call) Line() string {
	return nbexec.FormatCommand(c.Name, c.Args)
}

// Response is the scripted outcome for a command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// NotFound simulates a command that cannot be started.
	NotFound bool
}

// Fake is an exec.Runner that answers from a table keyed by the formatted
// command line. Unscripted commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// On scripts the response for the exact command line.
func (f *Fake) On(line string, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = resp
	return f
}

// Calls returns a copy of the invocations seen so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lines returns the formatted command lines seen so far.
func (f *Fake) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Run implements exec.Runner.
func (f *Fake) Run(_ context.Context, name string, args []string, opts nbexec.Options) *nbexec.Result {
	call := Call{Name: name, Args: append([]string(nil), args...), Dir: opts.Dir}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	resp := f.responses[call.Line()]
	f.mu.Unlock()

	result := &nbexec.Result{
		Command:  name,
		Args:     args,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	switch {
	case resp.NotFound:
		result.ExitCode = -1
		result.Err = fmt.Errorf("%w: %s: %w", nbexec.ErrStart, name, exec.ErrNotFound)
	case resp.ExitCode != 0:
		result.Err = fmt.Errorf("exit status %d", resp.ExitCode)
	}
	return result
}
