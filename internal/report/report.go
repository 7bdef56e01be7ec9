// Package report writes a machine-readable record of a gate run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nebula-lang/nbcheck/internal/pipeline"
	"github.com/nebula-lang/nbcheck/internal/version"
)

// SchemaVersion is bumped on incompatible changes to Report.
const SchemaVersion = "1.0.0"

// Report holds the complete record of one run
type Report struct {
	SchemaVersion string       `json:"schema_version"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Project       string       `json:"project"`
	Tool          version.Info `json:"tool"`
	State         string       `json:"state"`
	FailedStage   string       `json:"failed_stage,omitempty"`
	Stages        []Stage      `json:"stages"`
	Samples       []Sample     `json:"samples,omitempty"`
}

// Stage records one stage that ran
type Stage struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Passed     bool   `json:"passed"`
}

// Sample records the grammar verdict for one sample
type Sample struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output,omitempty"`
}

// New creates an empty report for project
func New(project string, tool version.Info) *Report {
	return &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		Project:       project,
		Tool:          tool,
		State:         pipeline.StateNotStarted.String(),
		Stages:        []Stage{},
	}
}

// Record fills the report from a pipeline result. Stages that never ran
// are left out. Sample paths are made relative to the project.
func (r *Report) Record(res *pipeline.Result) {
	if res == nil {
		return
	}
	r.State = res.State.String()
	if res.State == pipeline.StateFailed {
		r.FailedStage = res.FailedStage.String()
	}

	r.Stages = r.Stages[:0]
	for _, stage := range pipeline.Stages {
		d, ok := res.Durations[stage]
		if !ok {
			continue
		}
		r.Stages = append(r.Stages, Stage{
			Name:       stage.String(),
			DurationMS: d.Milliseconds(),
			Passed:     res.State != pipeline.StateFailed || stage != res.FailedStage,
		})
	}

	r.Samples = nil
	for _, s := range res.Grammar.Results {
		path := s.Sample.Path
		if rel, err := filepath.Rel(r.Project, path); err == nil {
			path = rel
		}
		r.Samples = append(r.Samples, Sample{
			Name:     s.Sample.Name,
			Path:     filepath.ToSlash(path),
			Status:   s.Status.String(),
			ExitCode: s.ExitCode,
			Output:   s.Output,
		})
	}
}

// Save saves the report to a file
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// Load loads a report from a file
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}

	return &r, nil
}
