// Package prompt holds the instruction templates used by the model-backed stages.
//
// A template has a single substitution slot written "{}". Literal braces are
// written "{{" and "}}".
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Template keys used by the workflow stages.
const (
	KeySummary    = "summary"
	KeyPlan       = "plan"
	KeyTranspile  = "transpile"
	KeyCompileErr = "transpile_compile_err"
	KeyOutputErr  = "transpile_output_err"
)

var (
	// ErrTemplateNotFound is returned when a store has no template for a key.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMalformedTemplate is returned by Format for an unbalanced brace.
	ErrMalformedTemplate = errors.New("malformed template")
)

// Store resolves templates by key.
type Store interface {
	Template(name string) (string, error)
}

// Templates is an in-memory Store.
type Templates map[string]string

// Template implements Store.
func (t Templates) Template(name string) (string, error) {
	tmpl, ok := t[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

// Keys returns the template keys, sorted.
func (t Templates) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of t with the entries of other added, other winning on
// conflicts.
func (t Templates) Merge(other Templates) Templates {
	out := make(Templates, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Format fills every "{}" slot in tmpl with arg and unescapes doubled braces.
func Format(tmpl, arg string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl) + len(arg))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteString(arg)
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{' || c == '}':
			return "", fmt.Errorf("%w: unbalanced %q at offset %d", ErrMalformedTemplate, c, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Render looks up name in store and formats it with arg.
func Render(store Store, name, arg string) (string, error) {
	tmpl, err := store.Template(name)
	if err != nil {
		return "", err
	}
	out, err := Format(tmpl, arg)
	if err != nil {
		return "", fmt.Errorf("template %q: %w", name, err)
	}
	return out, nil
}
