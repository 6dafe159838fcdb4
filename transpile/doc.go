// Package transpile runs the iterative translation workflow: optional summary and
// planning stages, then a generate/validate cycle bounded by an iteration budget,
// then a final stage that writes the translation.
//
// The workflow state is a State value. Every stage receives the state returned
// by the previous one and returns a complete replacement; nothing else is shared
// between stages. Validation outcomes are data in the state and drive Route.
// Errors returned by stages are fatal and end the run.
//
//	t, err := transpile.New(transpile.Config{
//		Model:     model,
//		Templates: prompt.Defaults("java", "python"),
//		Language:  lang,
//		Files:     artifact.NewDir(""),
//		Layout:    transpile.LayoutSummary,
//	})
//	res, err := t.RunFile(ctx, "Main.java", "main.py")
//	if err == nil && !res.Accepted() {
//		// the budget ran out; res.Code is the last candidate
//	}
package transpile
