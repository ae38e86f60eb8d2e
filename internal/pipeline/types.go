package pipeline

import "fmt"

// Summary describes the outcome of a single run.
type Summary struct {
	Candidates int
	Indexed    int
	Skipped    int
	Deleted    int
	ObjectIDs  []string
}

// IndexSubmissionError wraps a failure returned by the search backend so
// callers can tell it apart from input and read errors.
type IndexSubmissionError struct {
	Op    string // "save" or "delete"
	Count int
	Err   error
}

func (e *IndexSubmissionError) Error() string {
	return fmt.Sprintf("%s %d documents: %v", e.Op, e.Count, e.Err)
}

func (e *IndexSubmissionError) Unwrap() error { return e.Err }
