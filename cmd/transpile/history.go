package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/config"
	"github.com/smallnest/transpilegraph/store"
	"github.com/smallnest/transpilegraph/transpile"
)

var historyCmd = &cobra.Command{
	Use:   "history <run-id>",
	Short: "List the checkpoints of a run",
	Long: `Lists the checkpoints a run saved after each stage. With --code, prints the
candidate of the latest checkpoint instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runID := args[0]

		if cfg.Store.Backend == config.StoreNone || cfg.Store.Backend == config.StoreMemory {
			return fmt.Errorf("store %q keeps no history between processes", cfg.Store.Backend)
		}
		a := &app{}
		defer a.Close()
		s, err := openStore(ctx, a, cfg.Store)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if code, _ := cmd.Flags().GetBool("code"); code {
			state, _, err := transpile.LoadState(ctx, s, runID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no checkpoints for run %s", runID)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(out, state.Code())
			return nil
		}

		cps, err := s.List(ctx, runID)
		if err != nil {
			return err
		}
		if len(cps) == 0 {
			return fmt.Errorf("no checkpoints for run %s", runID)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTAGE\tITERATION\tSTATUS\tTIME")
		for _, cp := range cps {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", cp.Version, cp.Stage, cp.Iteration, cp.Status, cp.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().Bool("code", false, "Print the latest candidate instead of the list")
	rootCmd.AddCommand(historyCmd)
}
