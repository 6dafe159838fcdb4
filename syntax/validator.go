package syntax

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownLanguage is returned by Lookup for a language without a validator.
	ErrUnknownLanguage = errors.New("unknown target language")

	// ErrInterpreterNotFound is returned when an external parser is not installed.
	ErrInterpreterNotFound = errors.New("interpreter not found")
)

// Validator checks whether code is structurally parseable.
type Validator interface {
	// Validate never fails: every fault is reported as an INVALID Result.
	Validate(ctx context.Context, code string) Result
}

// Formatter normalises accepted code before it is written out.
type Formatter interface {
	Format(code string) (string, error)
}

// Language is a target language: a name, a validator and a formatter.
type Language interface {
	Validator
	Formatter
	Name() string
}

// parseFunc parses code and returns a *ParseError for syntax errors or any other
// error for internal failures.
type parseFunc func(ctx context.Context, code string) error

// language adapts a parseFunc to the Language interface.
type language struct {
	name   string
	parse  parseFunc
	format func(code string) (string, error)
}

func (l *language) Name() string { return l.name }

// Validate runs the parser, converting parse errors, internal errors and panics
// into INVALID results.
func (l *language) Validate(ctx context.Context, code string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Invalid(fmt.Sprintf("Compilation Error: %v", p))
		}
	}()

	err := l.parse(ctx, code)
	if err == nil {
		return Valid()
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.Text == "" {
			pe.Text = sourceLine(code, pe.Line)
		}
		return Invalid(pe.Detail())
	}
	return Invalid(fmt.Sprintf("Compilation Error: %v", err))
}

func (l *language) Format(code string) (string, error) {
	if l.format == nil {
		return normalize(code), nil
	}
	return l.format(code)
}

// normalize strips trailing whitespace from every line and ends the text with a
// single newline.
func normalize(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// Options configures Lookup.
type Options struct {
	// Interpreter is the executable used by external parsers such as python.
	Interpreter string
}

// Option mutates Options.
type Option func(*Options)

// WithInterpreter sets the executable used by external parsers.
func WithInterpreter(path string) Option {
	return func(o *Options) {
		o.Interpreter = path
	}
}

type constructor func(opts Options) (Language, error)

var registry = map[string]constructor{
	"starlark": func(Options) (Language, error) { return NewStarlark(), nil },
	"go":       func(Options) (Language, error) { return NewGo(), nil },
	"python": func(o Options) (Language, error) {
		return NewPython(o.Interpreter)
	},
}

// Lookup returns the Language registered under name.
func Lookup(name string, opts ...Option) (Language, error) {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
	}
	return ctor(o)
}

// Languages returns the registered language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
