// Package config loads the transpile command configuration from the
// environment. Command line flags override the loaded values.
//
// A run translates Java to Python unless TRANSPILE_SOURCE_LANGUAGE and
// TRANSPILE_TARGET_LANGUAGE say otherwise. Python candidates are checked with
// the interpreter named by TRANSPILE_PYTHON.
package config
