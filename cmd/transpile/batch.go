package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/transpile"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir> <output-dir>",
	Short: "Translate every matching program in a directory",
	Long: `Translates the files in <input-dir> matching --pattern concurrently and
writes each translation into <output-dir> under the target language's extension.

Exits with 1 if any run failed, otherwise with 2 if any ran out of budget.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pattern, _ := cmd.Flags().GetString("pattern")

		jobs, err := collectJobs(args[0], args[1], pattern, cfg.Workflow.TargetLanguage)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no files in %s match %q", args[0], pattern)
		}
		if err := os.MkdirAll(args[1], 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		outcomes := transpile.RunBatch(ctx, a.transpiler, jobs, cfg.Workflow.Concurrency)
		out := cmd.OutOrStdout()
		for _, o := range outcomes {
			fmt.Fprintln(out, describeRun(o.Job.Input, o.Result, o.Err))
		}

		sum := transpile.Summarize(outcomes)
		fmt.Fprintf(out, "\n%s %d  %s %d  %s %d\n",
			acceptedStyle.Render("accepted"), sum.Accepted,
			exhaustedStyle.Render("exhausted"), sum.Exhausted,
			failedStyle.Render("failed"), sum.Failed)

		switch {
		case sum.Failed > 0:
			return &exitError{code: exitFailed}
		case sum.Exhausted > 0:
			return &exitError{code: exitExhausted}
		}
		return nil
	},
}

// collectJobs pairs every regular file in inDir matching pattern with its
// output path in outDir.
func collectJobs(inDir, outDir, pattern, language string) ([]transpile.Job, error) {
	matches, err := filepath.Glob(filepath.Join(inDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var jobs []transpile.Job
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		jobs = append(jobs, transpile.Job{
			Input:  m,
			Output: filepath.Join(outDir, filepath.Base(outputPathFor(m, language))),
		})
	}
	return jobs, nil
}

func init() {
	batchCmd.Flags().String("pattern", "*", "Glob selecting the programs to translate")
	batchCmd.Flags().Int("concurrency", 0, "Runs in flight at once")
	rootCmd.AddCommand(batchCmd)
}
