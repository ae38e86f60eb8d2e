package docs

import "fmt"

// InputParseError reports a file list that is not a JSON array of strings.
type InputParseError struct {
	Input string
	Err   error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Input, e.Err)
}

func (e *InputParseError) Unwrap() error { return e.Err }

// FileReadError reports a listed path whose content could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
