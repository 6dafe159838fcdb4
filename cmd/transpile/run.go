package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run <input> [output]",
	Short: "Translate one program",
	Long: `Translates the program in <input> and writes the result to [output], which
defaults to <input> with the target language's extension.

Exits with 2 when the budget ran out before a candidate was accepted; the last
candidate is still written.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input := args[0]
		output := outputPathFor(input, cfg.Workflow.TargetLanguage)
		if len(args) == 2 {
			output = args[1]
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.transpiler.RunFile(ctx, input, output)
		fmt.Fprintln(cmd.OutOrStdout(), describeRun(input, res, err))
		if res.RunID != "" && a.checkpoints != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", res.RunID)
		}

		switch metrics.Outcome(res, err) {
		case metrics.OutcomeFailed:
			return &exitError{code: exitFailed}
		case metrics.OutcomeExhausted:
			return &exitError{code: exitExhausted}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
