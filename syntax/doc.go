// Package syntax turns raw model output into a checkable program and decides
// whether that program parses in the target language.
//
// Sanitize extracts code from a free-form response. It prefers fenced code blocks
// and falls back to a line filter; it never fails.
//
// A Validator reports a Result. Parse failures and internal faults are both data:
// Validate never returns an error and never panics. On a parse failure the detail
// names the error class, the 1-based line and column, the offending source line and
// a caret under the column:
//
//	SyntaxError: got ':', want parameter
//	Line 1, Column 7
//	def f(:
//	      ^
//
// Validators are looked up by language name with Lookup.
package syntax
