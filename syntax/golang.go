package syntax

import (
	"context"
	"errors"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
)

// NewGo returns a Language for Go source files.
func NewGo() Language {
	return &language{name: "go", parse: parseGo, format: formatGo}
}

func parseGo(_ context.Context, code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "candidate.go", code, 0)
	if err == nil {
		return nil
	}
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		return &ParseError{
			Class:  "SyntaxError",
			Msg:    first.Msg,
			Line:   first.Pos.Line,
			Column: first.Pos.Column,
		}
	}
	return err
}

func formatGo(code string) (string, error) {
	out, err := format.Source([]byte(code))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
