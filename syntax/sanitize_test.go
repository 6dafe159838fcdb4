package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/transpilegraph/syntax"
)

func TestSanitize_WholeFencedBlock(t *testing.T) {
	codes := []string{
		"print('hi')",
		"def add(a, b):\n    return a + b\n\nprint(add(1, 2))",
		"x = 1\n\n\ny = 2",
		"# a comment kept inside the block\nx = 1",
		"doc = \"\"\"\n```\nexample\n```\n\"\"\"\nprint(doc)",
		"marker = \"\"\"\n```\n\"\"\"\nprint(marker)",
	}
	for _, code := range codes {
		for _, info := range []string{"", "python", "starlark"} {
			raw := "```" + info + "\n" + code + "\n```"
			assert.Equal(t, code, syntax.Sanitize(raw), "info %q", info)
			assert.Equal(t, code, syntax.Sanitize("\n  "+raw+"\n\n"), "padded, info %q", info)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	codes := []string{
		"print('hi')",
		"def add(a, b):\n    return a + b\nprint(add(1, 2))",
		"for i in range(3):\n    print(i)",
	}
	for _, code := range codes {
		once := syntax.Sanitize(code)
		assert.Equal(t, code, once)
		assert.Equal(t, once, syntax.Sanitize(once))
	}
}

func TestSanitize_FencedOutputIsNotAFixedPoint(t *testing.T) {
	once := syntax.Sanitize("```\nx = 1\n\n# keep\ny = 2\n```")
	assert.Equal(t, "x = 1\n\n# keep\ny = 2", once)

	// Unfenced text goes through the line filter, which drops blank and comment lines.
	twice := syntax.Sanitize(once)
	assert.Equal(t, "x = 1\ny = 2", twice)
	assert.Equal(t, twice, syntax.Sanitize(twice))
}

func TestSanitize_AdjacentBlocks(t *testing.T) {
	raw := "```python\nx = 1\n```\n\n```python\ny = 2\n```"
	assert.Equal(t, "x = 1\n\ny = 2", syntax.Sanitize(raw))

	bare := "```\nx = 1\n```\n\n```\ny = 2\n```"
	assert.Equal(t, "x = 1\n\ny = 2", syntax.Sanitize(bare))
}

func TestSanitize_EmbeddedBlocks(t *testing.T) {
	raw := "Here is the translation:\n\n```python\nx = 1\n```\n\nand a helper:\n\n```\ndef f():\n    return x\n```\nHope this helps."
	assert.Equal(t, "x = 1\n\ndef f():\n    return x", syntax.Sanitize(raw))
}

func TestSanitize_SingleEmbeddedBlock(t *testing.T) {
	raw := "Sure!\n```python\nprint(42)\n```"
	assert.Equal(t, "print(42)", syntax.Sanitize(raw))
}

func TestSanitize_LineFilterFallback(t *testing.T) {
	raw := "# translated program\n// produced automatically\n\nprint(42)\n\"\"\"\n# done\n"
	assert.Equal(t, "print(42)", syntax.Sanitize(raw))
}

func TestSanitize_UnclosedFence(t *testing.T) {
	raw := "```python\nprint(1)\nprint(2)"
	assert.Equal(t, "print(1)\nprint(2)", syntax.Sanitize(raw))
}

func TestSanitize_PreservesIndentation(t *testing.T) {
	raw := "def f():\n    return 1\n\n# trailing note"
	assert.Equal(t, "def f():\n    return 1", syntax.Sanitize(raw))
}

func TestSanitize_Empty(t *testing.T) {
	assert.Equal(t, "", syntax.Sanitize(""))
	assert.Equal(t, "", syntax.Sanitize("# only a comment\n\n"))
	assert.Equal(t, "", syntax.Sanitize("```\n```"))
}
