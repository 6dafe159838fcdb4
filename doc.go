// TranspileGraph - Iterative Program Translation with Language Models
//
// TranspileGraph translates a program from one language to another by asking a
// language model for a candidate, checking that the candidate parses in the
// target language (and, optionally, that it behaves like the original), and
// sending failures back for repair until a candidate is accepted or the
// iteration budget runs out.
//
// The workflow is a small state graph. Every run threads one transpile.State
// through a fixed sequence of stages:
//
//	[summary] -> [plan] -> generate -> validate -+-> finalize -> END
//	                          ^                  |
//	                          +---- continue ----+
//
// The router after validate terminates when the candidate is accepted or when
// the number of generations exceeds the budget, so a run performs at most
// MaxIterations+1 generations.
//
// # Quick Start
//
//	model, _ := llm.New(llm.Config{Provider: "openai", Model: "gpt-4o"})
//	lang, _ := syntax.Lookup("starlark")
//
//	t, err := transpile.New(transpile.Config{
//		Model:     model,
//		Templates: prompt.Defaults("python", "starlark"),
//		Language:  lang,
//		Files:     artifact.NewDir(""),
//		Layout:    transpile.LayoutPlanned,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := t.RunFile(ctx, "prog.py", "prog.star")
//	switch {
//	case err != nil:
//		// a stage failed; nothing after it ran
//	case !res.Accepted():
//		// budget exhausted; prog.star holds the last candidate
//	}
//
// # Packages
//
//   - graph: generic state graph with conditional routes, listeners, tracing
//     and Mermaid/DOT export
//   - transpile: workflow state, stages, router, layouts and the batch runner
//   - syntax: sanitizer for model output and per-language validators
//   - prompt: stage instructions with a single {} slot, JSON/YAML loaders
//   - equivalence: runs the original and the candidate and diffs their output
//   - store: run checkpoints in memory, files, Redis, SQLite or PostgreSQL
//   - llm: model providers (OpenAI, Anthropic, Ollama, Azure OpenAI)
//   - metrics: Prometheus counters and histograms for runs and stages
//   - config: environment configuration for the command
//   - log: leveled logging backed by golog
//
// The transpile command in cmd/transpile wires all of the above.
package transpilegraph // import "github.com/smallnest/transpilegraph"
