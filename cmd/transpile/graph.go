package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/transpile"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the workflow graph",
	Long:  `Prints the stages and routes of the configured layout as a Mermaid (default) or DOT diagram.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")

		layout, err := transpile.ParseLayout(cfg.Workflow.Layout)
		if err != nil {
			return err
		}
		g, err := transpile.Describe(layout, cfg.Workflow.MaxIterations)
		if err != nil {
			return err
		}

		exp := graph.NewExporter(g)
		switch format {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), exp.DrawMermaid())
		case "dot":
			fmt.Fprint(cmd.OutOrStdout(), exp.DrawDOT())
		default:
			return fmt.Errorf("unknown format %q (want mermaid or dot)", format)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().String("format", "mermaid", "Diagram format: mermaid or dot")
	rootCmd.AddCommand(graphCmd)
}
