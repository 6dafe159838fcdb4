package syntax

import (
	"regexp"
	"strings"
)

const fence = "```"

// fencedBlock matches a fenced block: an opening fence with an optional info
// string on its own line, the body, and the next closing fence.
var fencedBlock = regexp.MustCompile("(?s)```[^\\n`]*\\n(.*?)```")

// commentPrefixes are dropped by the line filter. They cover comment leaders and
// string delimiters that models use for prose around the code.
var commentPrefixes = []string{"#", "//", "/*", "*", `"""`, `'''`, fence}

// Sanitize extracts the program from a raw model response.
//
// In order of preference:
//  1. the whole response is a single fenced block: its body, trimmed;
//  2. the response contains fenced blocks: their trimmed bodies joined by a blank line;
//  3. otherwise the non-blank lines that do not start with a comment or string
//     delimiter, in their original order.
func Sanitize(raw string) string {
	if body, ok := wholeBlock(raw); ok {
		return body
	}

	if blocks := fencedBlock.FindAllStringSubmatch(raw, -1); len(blocks) > 0 {
		bodies := make([]string, 0, len(blocks))
		for _, m := range blocks {
			bodies = append(bodies, strings.TrimSpace(m[1]))
		}
		return strings.Join(bodies, "\n\n")
	}

	return filterLines(raw)
}

// wholeBlock reports whether raw is one fenced block, surrounding whitespace
// aside, and returns its trimmed body. Fence lines inside the body belong to
// the code unless they read as a close followed by a new block: a bare fence,
// then either a fence with an info string or a bare fence after blank lines only.
func wholeBlock(raw string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 || !isOpeningFence(lines[0]) {
		return "", false
	}

	last := strings.TrimRight(lines[len(lines)-1], " \t\r")
	if !strings.HasSuffix(last, fence) {
		return "", false
	}

	inner := lines[1 : len(lines)-1]
	if splitsBlocks(inner) {
		return "", false
	}

	body := append(append([]string(nil), inner...), strings.TrimSuffix(last, fence))
	return strings.TrimSpace(strings.Join(body, "\n")), true
}

func isOpeningFence(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, fence) && !strings.Contains(line[len(fence):], "`")
}

// splitsBlocks reports whether the fence lines in body pair up as
// close-then-open, so the response holds several blocks.
func splitsBlocks(body []string) bool {
	var fences []int
	for i, line := range body {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			fences = append(fences, i)
		}
	}
	if len(fences) == 0 || len(fences)%2 != 0 {
		return false
	}

	for i := 0; i < len(fences); i += 2 {
		if strings.TrimSpace(body[fences[i]]) != fence {
			return false
		}
		if strings.TrimSpace(body[fences[i+1]]) != fence {
			continue
		}
		for _, gap := range body[fences[i]+1 : fences[i+1]] {
			if strings.TrimSpace(gap) != "" {
				return false
			}
		}
	}
	return true
}

func filterLines(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		stripped := strings.TrimSpace(line)
		if stripped == "" || hasCommentPrefix(stripped) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func hasCommentPrefix(s string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
