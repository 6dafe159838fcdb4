package transpile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallnest/transpilegraph/syntax"
)

// State is the record threaded through the stages of one run. Its fields are
// read through accessors and changed only by the With methods, each of which
// returns a complete new value. The original program has no setter.
type State struct {
	code       string
	original   string
	notes      string
	validation syntax.Result
	iterations int
}

// NewState returns the initial state of a run: no candidate, no notes, status OK
// and zero generations.
func NewState(original string) State {
	return State{original: original, validation: syntax.Valid()}
}

// Code is the current candidate translation, "" before the first generation.
func (s State) Code() string { return s.code }

// Original is the program being translated.
func (s State) Original() string { return s.original }

// Notes holds what upstream stages wrote about the program.
func (s State) Notes() string { return s.notes }

// Validation is the outcome of the last validation.
func (s State) Validation() syntax.Result { return s.validation }

// Iterations counts completed generations.
func (s State) Iterations() int { return s.iterations }

// WithCandidate records a freshly generated candidate. It replaces the code and
// counts the generation in one step.
func (s State) WithCandidate(code string) State {
	s.code = code
	s.iterations++
	return s
}

// WithValidation replaces the validation result.
func (s State) WithValidation(r syntax.Result) State {
	s.validation = r
	return s
}

// WithNotes appends a section to the notes, separated from earlier sections by a
// blank line. Blank sections are ignored.
func (s State) WithNotes(section string) State {
	section = strings.TrimSpace(section)
	if section == "" {
		return s
	}
	if s.notes == "" {
		s.notes = section
	} else {
		s.notes = s.notes + "\n\n" + section
	}
	return s
}

type stateJSON struct {
	Code       string        `json:"code"`
	Original   string        `json:"original"`
	Notes      string        `json:"notes,omitempty"`
	Validation syntax.Result `json:"validation"`
	Iterations int           `json:"iterations"`
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Code:       s.code,
		Original:   s.original,
		Notes:      s.notes,
		Validation: s.validation,
		Iterations: s.iterations,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Iterations < 0 {
		return fmt.Errorf("negative iteration count %d", raw.Iterations)
	}
	*s = State{
		code:       raw.Code,
		original:   raw.Original,
		notes:      raw.Notes,
		validation: raw.Validation,
		iterations: raw.Iterations,
	}
	return nil
}
