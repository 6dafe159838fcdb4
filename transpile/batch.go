package transpile

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one file to translate.
type Job struct {
	Input  string
	Output string
}

// Outcome pairs a Job with its Result, or with the fatal error that ended it.
type Outcome struct {
	Job    Job
	Result Result
	Err    error
}

// RunBatch runs jobs with at most concurrency runs in flight. Each run has its
// own state; a fatal error ends only its own job. Outcomes are returned in job
// order. Cancelling ctx stops jobs that have not started.
func RunBatch(ctx context.Context, t *Transpiler, jobs []Job, concurrency int) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if concurrency <= 0 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			outcomes[i].Job = job
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result, outcomes[i].Err = t.RunFile(ctx, job.Input, job.Output)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Summary counts outcomes by kind.
type Summary struct {
	Accepted  int
	Exhausted int
	Failed    int
}

// Summarize counts accepted, exhausted and failed outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			s.Failed++
		case o.Result.Accepted():
			s.Accepted++
		default:
			s.Exhausted++
		}
	}
	return s
}
