package pipeline

// Stage is one sequential phase of the gate.
type Stage int

const (
	StageStaticCheck Stage = iota
	StageTestRun
	StageGrammarCheck
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageStaticCheck, StageTestRun, StageGrammarCheck}

func (s Stage) String() string {
	switch s {
	case StageStaticCheck:
		return "static check"
	case StageTestRun:
		return "test run"
	case StageGrammarCheck:
		return "grammar check"
	default:
		return "unknown stage"
	}
}

// State is the orchestrator's position in the run.
type State int

const (
	StateNotStarted State = iota
	StateRunningStaticCheck
	StateRunningTests
	StateRunningGrammarCheck
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunningStaticCheck:
		return "running static check"
	case StateRunningTests:
		return "running tests"
	case StateRunningGrammarCheck:
		return "running grammar check"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// runningState maps a stage to the state held while it runs.
func runningState(s Stage) State {
	switch s {
	case StageStaticCheck:
		return StateRunningStaticCheck
	case StageTestRun:
		return StateRunningTests
	default:
		return StateRunningGrammarCheck
	}
}
