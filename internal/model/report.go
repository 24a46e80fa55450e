package model

import "fmt"

// ErrorKind classifies a recoverable per-line failure.
type ErrorKind string

const (
	ErrorUnmatched ErrorKind = "unmatched"
	ErrorDate      ErrorKind = "date"
	ErrorTimestamp ErrorKind = "timestamp"
	ErrorDuplicate ErrorKind = "duplicate"
)

// ParseError records a line that could not be turned into an entry, or
// an entry that collided with an earlier pod name.
type ParseError struct {
	Line  int
	Input string
	Kind  ErrorKind
	Err   error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q: %v", e.Line, e.Kind, e.Input, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// Report accumulates everything a parse produced. Entries keep input
// order, duplicates included.
type Report struct {
	Entries []PodEntry
	Errors  []ParseError
}

// ErrorCount returns the number of recorded errors.
func (r *Report) ErrorCount() int {
	if r == nil {
		return 0
	}
	return len(r.Errors)
}

// AddEntry appends an entry.
func (r *Report) AddEntry(e PodEntry) {
	r.Entries = append(r.Entries, e)
}

// AddError appends a recoverable error.
func (r *Report) AddError(e ParseError) {
	r.Errors = append(r.Errors, e)
}
