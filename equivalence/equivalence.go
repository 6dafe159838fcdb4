// Package equivalence compares the runtime behaviour of an original program and its
// translation by running both on the same inputs.
package equivalence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// FilePlaceholder in Runner.Args is replaced by the program's path. When no
// argument contains it the path is appended.
const FilePlaceholder = "{file}"

// DefaultTimeout bounds a single program execution.
const DefaultTimeout = 10 * time.Second

// ErrOriginalFailed is returned when the original program cannot be run on a case.
// The translation is not at fault, so the check cannot conclude.
var ErrOriginalFailed = errors.New("original program failed")

// Runner describes how to execute a program of one language.
type Runner struct {
	// Args is the command line, e.g. ["python3", "{file}"].
	Args []string
	// FileName is the name the program is written under, e.g. "Main.java".
	FileName string
}

// Case is one input to feed both programs.
type Case struct {
	Name  string
	Stdin string
}

// CommandChecker runs the original and the candidate with their Runners on every
// Case and compares standard output.
type CommandChecker struct {
	Original  Runner
	Candidate Runner
	Cases     []Case
	Timeout   time.Duration
}

// Check reports whether candidate behaves like original on every case. On a
// mismatch detail names the case and holds a unified diff of the outputs.
func (c *CommandChecker) Check(ctx context.Context, original, candidate string) (bool, string, error) {
	dir, err := os.MkdirTemp("", "equivalence-*")
	if err != nil {
		return false, "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	origPath, err := writeProgram(filepath.Join(dir, "original"), c.Original.FileName, original)
	if err != nil {
		return false, "", err
	}
	candPath, err := writeProgram(filepath.Join(dir, "candidate"), c.Candidate.FileName, candidate)
	if err != nil {
		return false, "", err
	}

	cases := c.Cases
	if len(cases) == 0 {
		cases = []Case{{Name: "empty input"}}
	}

	for _, tc := range cases {
		want, err := c.run(ctx, c.Original, origPath, tc.Stdin)
		if err != nil {
			return false, "", fmt.Errorf("%w on case %q: %v", ErrOriginalFailed, tc.Name, err)
		}

		got, err := c.run(ctx, c.Candidate, candPath, tc.Stdin)
		if err != nil {
			if ctx.Err() != nil {
				return false, "", ctx.Err()
			}
			return false, fmt.Sprintf("case %q: candidate failed: %v", tc.Name, err), nil
		}

		if got != want {
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(want),
				B:        difflib.SplitLines(got),
				FromFile: "original",
				ToFile:   "candidate",
				Context:  3,
			})
			if err != nil {
				return false, "", fmt.Errorf("diff outputs: %w", err)
			}
			return false, fmt.Sprintf("case %q: output differs\n%s", tc.Name, diff), nil
		}
	}
	return true, "", nil
}

func (c *CommandChecker) run(ctx context.Context, r Runner, path, stdin string) (string, error) {
	if len(r.Args) == 0 {
		return "", errors.New("runner has no command")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := expandArgs(r.Args, path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = filepath.Dir(path)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("timed out after %v", timeout)
		}
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func expandArgs(args []string, path string) []string {
	out := make([]string, 0, len(args)+1)
	replaced := false
	for _, a := range args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			replaced = true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, path)
	}
	return out
}

func writeProgram(dir, name, text string) (string, error) {
	if name == "" {
		name = "program"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create program dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write program: %w", err)
	}
	return path, nil
}
