// Package ci provides CI integration utilities for nbcheck
package ci

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Environment represents the CI environment
type Environment struct {
	IsGitHubActions bool

	// GitHub Actions specific
	Repository  string
	SHA         string
	Workflow    string
	SummaryFile string

	out io.Writer
}

// Detect detects the current CI environment
func Detect() *Environment {
	env := &Environment{out: os.Stdout}

	env.IsGitHubActions = os.Getenv("GITHUB_ACTIONS") == "true"

	if env.IsGitHubActions {
		env.Repository = os.Getenv("GITHUB_REPOSITORY")
		env.SHA = os.Getenv("GITHUB_SHA")
		env.Workflow = os.Getenv("GITHUB_WORKFLOW")
		env.SummaryFile = os.Getenv("GITHUB_STEP_SUMMARY")
	}

	return env
}

// WithOutput directs workflow commands to w instead of stdout.
func (e *Environment) WithOutput(w io.Writer) *Environment {
	e.out = w
	return e
}

func (e *Environment) writer() io.Writer {
	if e.out == nil {
		return os.Stdout
	}
	return e.out
}

// StartGroup starts a log group in GitHub Actions
func (e *Environment) StartGroup(name string) {
	if e.IsGitHubActions {
		fmt.Fprintf(e.writer(), "::group::%s\n", name)
	}
}

// EndGroup ends a log group in GitHub Actions
func (e *Environment) EndGroup() {
	if e.IsGitHubActions {
		fmt.Fprintln(e.writer(), "::endgroup::")
	}
}

// LogError logs an error annotation
func (e *Environment) LogError(message string, file string, line int) {
	if !e.IsGitHubActions {
		return
	}
	message = escapeData(message)
	switch {
	case file != "" && line > 0:
		fmt.Fprintf(e.writer(), "::error file=%s,line=%d::%s\n", escapeProperty(file), line, message)
	case file != "":
		fmt.Fprintf(e.writer(), "::error file=%s::%s\n", escapeProperty(file), message)
	default:
		fmt.Fprintf(e.writer(), "::error::%s\n", message)
	}
}

// LogNotice logs a notice annotation
func (e *Environment) LogNotice(message string) {
	if e.IsGitHubActions {
		fmt.Fprintf(e.writer(), "::notice::%s\n", escapeData(message))
	}
}

// AddSummary adds content to the job summary
func (e *Environment) AddSummary(markdown string) error {
	if e.SummaryFile == "" {
		return nil
	}

	f, err := os.OpenFile(e.SummaryFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_STEP_SUMMARY: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s\n", markdown)
	return err
}

// RunContext names the workflow run for the job summary, e.g.
// "CI on nebula-lang/nebula@0123456". It is empty outside Actions.
func (e *Environment) RunContext() string {
	if e.Repository == "" {
		return e.Workflow
	}
	ref := e.Repository
	if sha := e.SHA; sha != "" {
		if len(sha) > 7 {
			sha = sha[:7]
		}
		ref += "@" + sha
	}
	if e.Workflow == "" {
		return ref
	}
	return e.Workflow + " on " + ref
}

// SummaryTable renders a markdown table for the job summary.
func SummaryTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
