package transpile_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/syntax"
	"github.com/smallnest/transpilegraph/transpile"
)

func TestNewState(t *testing.T) {
	s := transpile.NewState("class Main {}")
	assert.Equal(t, "class Main {}", s.Original())
	assert.Empty(t, s.Code())
	assert.Empty(t, s.Notes())
	assert.Equal(t, 0, s.Iterations())
	assert.Equal(t, syntax.StatusOK, s.Validation().Status)
	assert.Empty(t, s.Validation().Detail)
}

func TestState_WithCandidate(t *testing.T) {
	s0 := transpile.NewState("orig")
	s1 := s0.WithCandidate("a")
	s2 := s1.WithCandidate("b")

	assert.Equal(t, "b", s2.Code())
	assert.Equal(t, 2, s2.Iterations())
	assert.Equal(t, "orig", s2.Original())

	// Earlier values are unaffected.
	assert.Equal(t, "", s0.Code())
	assert.Equal(t, 0, s0.Iterations())
	assert.Equal(t, "a", s1.Code())
	assert.Equal(t, 1, s1.Iterations())
}

func TestState_WithValidation(t *testing.T) {
	s := transpile.NewState("orig").WithCandidate("x").WithValidation(syntax.Invalid("bad"))
	assert.Equal(t, syntax.StatusInvalid, s.Validation().Status)
	assert.Equal(t, "bad", s.Validation().Detail)
	assert.Equal(t, "x", s.Code())
	assert.Equal(t, 1, s.Iterations())
}

func TestState_WithNotesAppends(t *testing.T) {
	s := transpile.NewState("orig").
		WithNotes("summary").
		WithNotes("   ").
		WithNotes("plan\n")
	assert.Equal(t, "summary\n\nplan", s.Notes())
}

func TestState_JSON(t *testing.T) {
	s := transpile.NewState("orig").
		WithNotes("n").
		WithCandidate("code").
		WithValidation(syntax.Mismatch("diff"))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"code","original":"orig","notes":"n","validation":{"status":"MISMATCH","detail":"diff"},"iterations":1}`, string(data))

	var back transpile.State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)

	assert.Error(t, json.Unmarshal([]byte(`{"iterations":-1}`), &back))
}
