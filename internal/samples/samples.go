// Package samples enumerates the example inputs checked against the grammar.
package samples

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Sample is one file from the samples directory.
type Sample struct {
	Name string
	Ext  string
	// Path is Name joined to the directory passed to List.
	Path string
}

// HasExtension reports whether the sample name ends in ext.
func (s Sample) HasExtension(ext string) bool {
	return ext != "" && strings.HasSuffix(s.Name, ext)
}

// DirectoryAccessError reports a samples directory that is missing or
// unreadable.
type DirectoryAccessError struct {
	Dir string
	Err error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("reading samples directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// List reads dir once, without recursing, and returns its files in
// directory-listing order. Subdirectories are skipped; nothing else is
// filtered.
func List(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryAccessError{Dir: dir, Err: err}
	}

	out := make([]Sample, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		out = append(out, Sample{
			Name: name,
			Ext:  filepath.Ext(name),
			Path: filepath.Join(dir, name),
		})
	}
	return out, nil
}

// Filter keeps samples whose name ends in ext and that match none of the
// exclude glob patterns. Order is preserved.
func Filter(in []Sample, ext string, exclude []string) ([]Sample, error) {
	patterns := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		patterns = append(patterns, g)
	}

	out := make([]Sample, 0, len(in))
	for _, s := range in {
		if !s.HasExtension(ext) || excluded(s.Name, patterns) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func excluded(name string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
