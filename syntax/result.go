package syntax

import (
	"fmt"
	"strings"
)

// Status classifies a validation outcome.
type Status int

const (
	// StatusOK means the candidate was accepted.
	StatusOK Status = iota
	// StatusInvalid means the candidate does not parse.
	StatusInvalid
	// StatusMismatch means the candidate parses but behaves differently from the original.
	StatusMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalid:
		return "INVALID"
	case StatusMismatch:
		return "MISMATCH"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "OK":
		*s = StatusOK
	case "INVALID":
		*s = StatusInvalid
	case "MISMATCH":
		*s = StatusMismatch
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Result is the outcome of a validation.
type Result struct {
	Status Status `json:"status"`
	Detail string `json:"detail"`
}

// OK reports whether the result accepts the candidate.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Valid is the result of a successful validation.
func Valid() Result {
	return Result{Status: StatusOK}
}

// Invalid builds an INVALID result with the given detail.
func Invalid(detail string) Result {
	return Result{Status: StatusInvalid, Detail: detail}
}

// Mismatch builds a MISMATCH result with the given detail.
func Mismatch(detail string) Result {
	return Result{Status: StatusMismatch, Detail: detail}
}

// ParseError describes where a program failed to parse.
type ParseError struct {
	// Class is the kind of error, e.g. "SyntaxError".
	Class string
	// Msg is the parser's message.
	Msg string
	// Line and Column are 1-based.
	Line   int
	Column int
	// Text is the offending source line. When empty it is taken from the source.
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Class, e.Msg, e.Line, e.Column)
}

// Detail renders the error in the multi-line form carried in Result.Detail.
func (e *ParseError) Detail() string {
	col := e.Column
	if col < 1 {
		col = 1
	}
	return fmt.Sprintf("%s: %s\nLine %d, Column %d\n%s\n%s^",
		e.Class, e.Msg, e.Line, e.Column, e.Text, strings.Repeat(" ", col-1))
}

// sourceLine returns the 1-based line of src, without its line terminator.
func sourceLine(src string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
