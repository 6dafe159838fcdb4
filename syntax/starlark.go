package syntax

import (
	"context"
	"errors"

	starsyntax "go.starlark.net/syntax"
)

// starlarkOptions accepts the Python-like constructs that Starlark can opt into.
var starlarkOptions = &starsyntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// NewStarlark returns a Language that parses code in process with the Starlark
// parser, a dialect of Python.
func NewStarlark() Language {
	return &language{name: "starlark", parse: parseStarlark}
}

func parseStarlark(_ context.Context, code string) error {
	_, err := starlarkOptions.Parse("candidate.star", code, 0)
	if err == nil {
		return nil
	}
	var se starsyntax.Error
	if errors.As(err, &se) {
		return &ParseError{
			Class:  "SyntaxError",
			Msg:    se.Msg,
			Line:   int(se.Pos.Line),
			Column: int(se.Pos.Col),
		}
	}
	return err
}
