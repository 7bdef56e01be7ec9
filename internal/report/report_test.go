package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebula-lang/nbcheck/internal/pipeline"
	"github.com/nebula-lang/nbcheck/internal/samples"
	"github.com/nebula-lang/nbcheck/internal/validate"
	"github.com/nebula-lang/nbcheck/internal/version"
)

func failedGrammarResult(root string) *pipeline.Result {
	return &pipeline.Result{
		State:       pipeline.StateFailed,
		FailedStage: pipeline.StageGrammarCheck,
		Durations: map[pipeline.Stage]time.Duration{
			pipeline.StageStaticCheck:  1500 * time.Millisecond,
			pipeline.StageTestRun:      2 * time.Second,
			pipeline.StageGrammarCheck: 300 * time.Millisecond,
		},
		Grammar: validate.Outcome{
			Results: []validate.SampleResult{
				{
					Sample: samples.Sample{Name: "a.n", Ext: ".n", Path: filepath.Join(root, "examples", "src", "a.n")},
					Status: validate.StatusSuccess,
				},
				{
					Sample:   samples.Sample{Name: "b.n", Ext: ".n", Path: filepath.Join(root, "examples", "src", "b.n")},
					Output:   "line 1:3 missing '{'\n",
					ExitCode: 1,
					Status:   validate.StatusError,
				},
			},
		},
	}
}

func TestNew(t *testing.T) {
	r := New("/work/nebula", version.Info{Version: "1.0.0"})
	assert.Equal(t, SchemaVersion, r.SchemaVersion)
	assert.Equal(t, "not started", r.State)
	assert.Empty(t, r.Stages)
	assert.False(t, r.GeneratedAt.IsZero())
}

func TestRecordFailedRun(t *testing.T) {
	root := "/work/nebula"
	r := New(root, version.Info{Version: "1.0.0"})
	r.Record(failedGrammarResult(root))

	assert.Equal(t, "failed", r.State)
	assert.Equal(t, "grammar check", r.FailedStage)
	assert.Equal(t, []Stage{
		{Name: "static check", DurationMS: 1500, Passed: true},
		{Name: "test run", DurationMS: 2000, Passed: true},
		{Name: "grammar check", DurationMS: 300, Passed: false},
	}, r.Stages)

	require.Len(t, r.Samples, 2)
	assert.Equal(t, "examples/src/a.n", r.Samples[0].Path)
	assert.Equal(t, "pass", r.Samples[0].Status)
	assert.Equal(t, "fail", r.Samples[1].Status)
	assert.Equal(t, 1, r.Samples[1].ExitCode)
}

func TestRecordStopsAtFailedStage(t *testing.T) {
	r := New("/work/nebula", version.Info{})
	r.Record(&pipeline.Result{
		State:       pipeline.StateFailed,
		FailedStage: pipeline.StageStaticCheck,
		Durations:   map[pipeline.Stage]time.Duration{pipeline.StageStaticCheck: time.Second},
	})

	assert.Equal(t, "static check", r.FailedStage)
	assert.Equal(t, []Stage{{Name: "static check", DurationMS: 1000, Passed: false}}, r.Stages)
	assert.Empty(t, r.Samples)
}

func TestRecordSucceeded(t *testing.T) {
	r := New("/work/nebula", version.Info{})
	r.Record(&pipeline.Result{
		State: pipeline.StateSucceeded,
		Durations: map[pipeline.Stage]time.Duration{
			pipeline.StageStaticCheck:  time.Second,
			pipeline.StageTestRun:      time.Second,
			pipeline.StageGrammarCheck: time.Second,
		},
	})

	assert.Equal(t, "succeeded", r.State)
	assert.Empty(t, r.FailedStage)
	for _, s := range r.Stages {
		assert.True(t, s.Passed, s.Name)
	}
}

func TestRecordNil(t *testing.T) {
	r := New("/work/nebula", version.Info{})
	r.Record(nil)
	assert.Equal(t, "not started", r.State)
}

func TestSaveLoad(t *testing.T) {
	root := "/work/nebula"
	path := filepath.Join(t.TempDir(), "out", "report.json")

	r := New(root, version.Info{Version: "1.0.0", GoVersion: "go1.24.2", Platform: "linux/amd64"})
	r.Record(failedGrammarResult(root))
	require.NoError(t, r.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r.Project, loaded.Project)
	assert.Equal(t, r.Tool, loaded.Tool)
	assert.Equal(t, r.Stages, loaded.Stages)
	assert.Equal(t, r.Samples, loaded.Samples)
	assert.True(t, r.GeneratedAt.Equal(loaded.GeneratedAt))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
