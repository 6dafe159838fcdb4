package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/config"
	"github.com/smallnest/transpilegraph/syntax"
	"github.com/smallnest/transpilegraph/transpile"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		input, lang, want string
	}{
		{"prog.py", "starlark", "prog.star"},
		{"dir/prog.py", "go", "dir/prog.go"},
		{"prog", "python", "prog.py"},
		{"prog.go", "go", "prog.out.go"},
		{"prog.c", "Rust", "prog.rust"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outputPathFor(tt.input, tt.lang), tt.input)
	}
}

func TestCollectJobs(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.py"), []byte("print(2)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.py"), []byte("print(1)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.py"), 0o755))

	jobs, err := collectJobs(in, "out", "*.py", "starlark")
	require.NoError(t, err)
	assert.Equal(t, []transpile.Job{
		{Input: filepath.Join(in, "a.py"), Output: filepath.Join("out", "a.star")},
		{Input: filepath.Join(in, "b.py"), Output: filepath.Join("out", "b.star")},
	}, jobs)

	_, err = collectJobs(in, "out", "[", "go")
	assert.Error(t, err)
}

func TestLoadCases(t *testing.T) {
	cases, err := loadCases("")
	require.NoError(t, err)
	assert.Nil(t, cases)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-large"), []byte("100\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-small"), []byte("1\n"), 0o644))

	cases, err = loadCases(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "01-small", cases[0].Name)
	assert.Equal(t, "1\n", cases[0].Stdin)

	_, err = loadCases(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoadTemplates(t *testing.T) {
	c := &config.Config{Workflow: config.WorkflowConfig{SourceLanguage: "python", TargetLanguage: "go"}}
	templates, err := loadTemplates(c)
	require.NoError(t, err)
	assert.Len(t, templates, 5)

	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"transpile": "Translate it.\n{}"}`), 0o644))
	c.Workflow.PromptsPath = path

	templates, err = loadTemplates(c)
	require.NoError(t, err)
	tmpl, err := templates.Template("transpile")
	require.NoError(t, err)
	assert.Equal(t, "Translate it.\n{}", tmpl)
	_, err = templates.Template("summary")
	assert.NoError(t, err)
}

func TestDescribeRun(t *testing.T) {
	line := describeRun("a.py", transpile.Result{Output: "a.star", Status: syntax.StatusOK, Iterations: 1}, nil)
	assert.Contains(t, line, "ACCEPTED")
	assert.Contains(t, line, "a.py -> a.star (1 generations)")

	line = describeRun("a.py", transpile.Result{
		Output: "a.star", Status: syntax.StatusInvalid, Detail: "SyntaxError: bad\n", Iterations: 4,
	}, nil)
	assert.Contains(t, line, "EXHAUSTED")
	assert.Contains(t, line, "last status INVALID")
	assert.Contains(t, line, "SyntaxError: bad")

	line = describeRun("a.py", transpile.Result{}, errors.New("model down"))
	assert.Contains(t, line, "FAILED")
	assert.Contains(t, line, "model down")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "--layout", "planned", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "summary")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "generate")

	out, err = execute(t, "graph", "--layout", "direct", "--format", "dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph G {"))
	assert.Contains(t, out, "START -> generate;")

	_, err = execute(t, "graph", "--format", "svg")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.star")
	bad := filepath.Join(dir, "bad.star")
	require.NoError(t, os.WriteFile(good, []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("def f(:\n"), 0o644))

	out, err := execute(t, "check", "--target", "starlark", good)
	require.NoError(t, err)
	assert.Contains(t, out, "parses as starlark")

	out, err = execute(t, "check", "--target", "starlark", bad)
	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, exitExhausted, ee.code)
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "Line 1")
}

func TestInvalidFlagOverride(t *testing.T) {
	_, err := execute(t, "graph", "--layout", "spiral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
