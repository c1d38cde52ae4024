// Package report collects the failures of a batch run.
//
// Per-record problems (a malformed annotation, a box that collapses under
// resizing) do not stop the batch. They are gathered in Errors so that the
// caller can list every bad file at once. Problems with the run itself are
// reported as a ConfigError and abort immediately.
package report

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigError reports that the preconditions of a whole run are unsound:
// mutually exclusive options, a split that leaves a subset empty,
// images without annotations.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Msg
}

// Configf returns a ConfigError with a formatted message.
func Configf(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// RecordError ties a failure to the file it came from.
type RecordError struct {
	File string
	Err  error
}

func (e *RecordError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error { return e.Err }

// Errors is an ordered list of per-record failures.
// The zero value is empty and ready to use.
type Errors struct {
	list []*RecordError
}

// Add records a failure for file. Nil errors are ignored.
func (e *Errors) Add(file string, err error) {
	if err == nil {
		return
	}
	e.list = append(e.list, &RecordError{File: file, Err: err})
}

// Len returns the number of failures.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.list)
}

// List returns the failures sorted by file name.
func (e *Errors) List() []*RecordError {
	if e == nil {
		return nil
	}
	out := append([]*RecordError(nil), e.list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Has reports whether file has a recorded failure.
func (e *Errors) Has(file string) bool {
	if e == nil {
		return false
	}
	for _, r := range e.list {
		if r.File == file {
			return true
		}
	}
	return false
}

// Err returns nil if there are no failures and e otherwise.
func (e *Errors) Err() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	list := e.List()
	lines := make([]string, len(list))
	for i, r := range list {
		lines[i] = r.Error()
	}
	return fmt.Sprintf("%d record(s) failed:\n  %s", len(list), strings.Join(lines, "\n  "))
}
