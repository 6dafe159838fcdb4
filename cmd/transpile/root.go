package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/smallnest/transpilegraph/config"
	"github.com/smallnest/transpilegraph/log"
)

// Exit codes.
const (
	exitFailed    = 1
	exitExhausted = 2
)

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "transpile",
	Short: "Translate programs with a language model",
	Long: `transpile asks a language model to translate a program, checks that the
result parses in the target language and, when configured, that it behaves like
the original. Failed candidates are sent back for repair until the budget runs out.

Settings come from TRANSPILE_*, LLM_* and REDIS_* environment variables; flags
override them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// exitError ends the process with code after printing err, if any.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, failedStyle.Render("error:"), ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(os.Stderr, failedStyle.Render("error:"), err)
	return exitFailed
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Log level: debug, info, warn, error or none")
	flags.String("source", "", "Language of the original program, used in prompts")
	flags.String("target", "", "Target language: go, python or starlark")
	flags.String("layout", "", "Stages ahead of generation: direct, summary or planned")
	flags.Int("max-iterations", 0, "Repairs allowed after the first generation")
	flags.Duration("stage-timeout", 0, "Deadline for each model call and the final write")
	flags.Bool("debug", false, "Write every candidate to the output, not only the last one")
	flags.String("prompts", "", "JSON or YAML file overriding the built-in prompts")
	flags.String("provider", "", "Model provider: openai, anthropic, ollama or azure")
	flags.String("model", "", "Model name, or deployment name for azure")
	flags.String("store", "", "Checkpoint store: none, memory, file, redis, sqlite or postgres")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Parse()
	if err != nil {
		return err
	}
	applyFlags(cmd, c)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, _ := log.ParseLevel(c.LogLevel)
	log.SetOutput(os.Stderr, level)

	cfg = c
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	str("log-level", &c.LogLevel)
	str("source", &c.Workflow.SourceLanguage)
	str("target", &c.Workflow.TargetLanguage)
	str("layout", &c.Workflow.Layout)
	str("prompts", &c.Workflow.PromptsPath)
	str("provider", &c.LLM.Provider)
	str("model", &c.LLM.Model)
	str("store", &c.Store.Backend)
	str("metrics-textfile", &c.MetricsTextfile)

	if flags.Changed("max-iterations") {
		c.Workflow.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("stage-timeout") {
		c.Workflow.StageTimeout, _ = flags.GetDuration("stage-timeout")
	}
	if flags.Changed("debug") {
		c.Workflow.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("concurrency") {
		c.Workflow.Concurrency, _ = flags.GetInt("concurrency")
	}
}
