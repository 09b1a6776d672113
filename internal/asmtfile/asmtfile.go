// Package asmtfile reads and writes the .autolab-asmt marker files that tie
// a working directory to a course assessment.
package asmtfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the marker file dropped into an assessment directory.
const FileName = ".autolab-asmt"

// maxSearchDepth bounds the upward search for a marker file.
const maxSearchDepth = 8

// Ref names one assessment within a course.
type Ref struct {
	Course     string
	Assessment string
}

func (r Ref) String() string {
	return r.Course + ":" + r.Assessment
}

// Parse splits a "course:assessment" argument.
func Parse(s string) (Ref, error) {
	course, asmt, ok := strings.Cut(s, ":")
	if !ok || course == "" || asmt == "" {
		return Ref{}, fmt.Errorf("invalid assessment %q: expected course:assessment", s)
	}
	return Ref{Course: course, Assessment: asmt}, nil
}

// Write drops a marker file for ref into dir.
func Write(dir string, ref Ref) error {
	if ref.Course == "" || ref.Assessment == "" {
		return fmt.Errorf("cannot write marker without course and assessment")
	}
	path := filepath.Join(dir, FileName)
	return os.WriteFile(path, []byte(ref.String()+"\n"), 0o644)
}

// Find searches dir and up to maxSearchDepth parent directories for a
// marker file. The boolean reports whether one was found; a malformed
// marker is reported as an error.
func Find(dir string) (Ref, bool, error) {
	current := dir
	for i := 0; i <= maxSearchDepth; i++ {
		path := filepath.Join(current, FileName)
		data, err := os.ReadFile(path)
		if err == nil {
			ref, perr := Parse(strings.TrimSpace(string(data)))
			if perr != nil {
				return Ref{}, false, fmt.Errorf("malformed %s: %w", path, perr)
			}
			return ref, true, nil
		}
		if !os.IsNotExist(err) {
			return Ref{}, false, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return Ref{}, false, nil
}

// FindFromWorkingDir searches from the process working directory.
func FindFromWorkingDir() (Ref, bool, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Ref{}, false, err
	}
	return Find(wd)
}
