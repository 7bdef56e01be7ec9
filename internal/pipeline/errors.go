package pipeline

import (
	"errors"
	"fmt"
)

// Exit codes returned by the nbcheck command.
const (
	// ExitSuccess indicates every stage passed.
	ExitSuccess = 0

	// ExitFailure indicates a stage failed (static check, tests, or any sample).
	ExitFailure = 1
)

// StageError reports the stage that ended the run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return 0, false
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
