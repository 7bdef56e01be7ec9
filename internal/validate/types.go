package validate

import "github.com/nebula-lang/nbcheck/internal/samples"

// Status represents the outcome of a checked sample.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "pass"
	}
	return "fail"
}

// SampleResult is the grammar tool's verdict on one sample.
type SampleResult struct {
	Sample   samples.Sample
	Output   string
	ExitCode int
	Status   Status
}

// Passed reports whether the sample was accepted.
func (r SampleResult) Passed() bool {
	return r.Status == StatusSuccess
}

// Outcome aggregates sample results for the grammar stage. Passed starts
// true and flips on the first failure; later samples are still checked.
type Outcome struct {
	Passed  bool
	Results []SampleResult
}

// add records r and folds it into Passed.
func (o *Outcome) add(r SampleResult) {
	o.Results = append(o.Results, r)
	if !r.Passed() {
		o.Passed = false
	}
}

// Failed returns the failing results in check order.
func (o Outcome) Failed() []SampleResult {
	var out []SampleResult
	for _, r := range o.Results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// Counts returns the number of passing and failing samples.
func (o Outcome) Counts() (passed, failed int) {
	for _, r := range o.Results {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
