package cdf

import "fmt"

// ParseError reports a structural problem in an instrument file: bad magic,
// truncated header or data, inconsistent arrays, or missing required
// metadata. A ParseError is fatal for the run that hit it; no partially
// populated series is ever returned alongside one.
type ParseError struct {
	File string // path of the offending file
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.File, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseErrorf builds a ParseError with a formatted message.
func parseErrorf(file string, format string, args ...any) *ParseError {
	return &ParseError{File: file, Msg: fmt.Sprintf(format, args...)}
}

// wrapParseError attaches an underlying cause.
func wrapParseError(file, msg string, err error) *ParseError {
	return &ParseError{File: file, Msg: msg, Err: err}
}
