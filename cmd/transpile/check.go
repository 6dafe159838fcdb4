package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/syntax"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a program in the target language",
	Long: `Parses <file> with the target language's validator and prints the result
in the same form the model receives it. Exits with 2 if it does not parse.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		lang, err := openLanguage(cfg)
		if err != nil {
			return err
		}

		res := lang.Validate(cmd.Context(), string(data))
		out := cmd.OutOrStdout()
		if res.Status == syntax.StatusOK {
			fmt.Fprintf(out, "%s %s parses as %s\n", acceptedStyle.Render("OK"), args[0], lang.Name())
			return nil
		}
		fmt.Fprintf(out, "%s %s\n%s\n", failedStyle.Render(res.Status.String()), args[0], detailStyle.Render(res.Detail))
		return &exitError{code: exitExhausted}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
