package syntax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPythonInterpreter is used when no interpreter is configured.
const DefaultPythonInterpreter = "python3"

// pythonCheck parses stdin with ast.parse and prints a JSON verdict.
const pythonCheck = `import ast, json, sys
src = sys.stdin.read()
try:
    ast.parse(src)
    print(json.dumps({"ok": True}))
except SyntaxError as e:
    print(json.dumps({
        "ok": False,
        "class": type(e).__name__,
        "msg": e.msg or "",
        "lineno": e.lineno or 0,
        "offset": e.offset or 0,
        "text": (e.text or "").rstrip("\r\n"),
    }))
`

type pythonVerdict struct {
	OK     bool   `json:"ok"`
	Class  string `json:"class"`
	Msg    string `json:"msg"`
	Lineno int    `json:"lineno"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// NewPython returns a Language that parses code with CPython's ast module,
// running interpreter as a subprocess. It fails if the interpreter is not on PATH.
func NewPython(interpreter string) (Language, error) {
	if interpreter == "" {
		interpreter = DefaultPythonInterpreter
	}
	path, err := exec.LookPath(interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, interpreter, err)
	}
	return &language{name: "python", parse: pythonParser(path)}, nil
}

func pythonParser(path string) parseFunc {
	return func(ctx context.Context, code string) error {
		cmd := exec.CommandContext(ctx, path, "-c", pythonCheck)
		cmd.Stdin = strings.NewReader(code)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		out, err := cmd.Output()
		if err != nil {
			return fmt.Errorf("run %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
		}

		var v pythonVerdict
		if err := json.Unmarshal(bytes.TrimSpace(out), &v); err != nil {
			return fmt.Errorf("decode parser output: %w", err)
		}
		if v.OK {
			return nil
		}
		return &ParseError{
			Class:  v.Class,
			Msg:    v.Msg,
			Line:   v.Lineno,
			Column: v.Offset,
			Text:   v.Text,
		}
	}
}
