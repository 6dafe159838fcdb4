package transpile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/store"
	"github.com/smallnest/transpilegraph/syntax"
)

// Result is the outcome of a run that reached its final stage, or of a run that
// failed, in which case it holds the state at the point of failure.
type Result struct {
	RunID      string
	Output     string
	Code       string
	Status     syntax.Status
	Detail     string
	Iterations int
	State      State
}

// Accepted reports whether the final candidate passed validation. A run that
// exhausted its budget returns a Result that is not accepted. It is only
// meaningful when the run returned no error.
func (r Result) Accepted() bool {
	return r.Status == syntax.StatusOK
}

func newResult(runID, output string, s State) Result {
	v := s.Validation()
	return Result{
		RunID:      runID,
		Output:     output,
		Code:       s.Code(),
		Status:     v.Status,
		Detail:     v.Detail,
		Iterations: s.Iterations(),
		State:      s,
	}
}

// RunObserver is told about every finished run.
type RunObserver func(ctx context.Context, res Result, err error)

// Transpiler runs the workflow described by a Config, one graph per run.
type Transpiler struct {
	cfg         Config
	listeners   []graph.NodeListener[State]
	traceHooks  []graph.TraceHook
	checkpoints store.CheckpointStore
	observers   []RunObserver
}

// Option configures a Transpiler.
type Option func(*Transpiler)

// WithListener adds a node listener to every run.
func WithListener(l graph.NodeListener[State]) Option {
	return func(t *Transpiler) {
		t.listeners = append(t.listeners, l)
	}
}

// WithTraceHook traces every run and passes its spans to h.
func WithTraceHook(h graph.TraceHook) Option {
	return func(t *Transpiler) {
		t.traceHooks = append(t.traceHooks, h)
	}
}

// WithCheckpoints saves a checkpoint after every completed stage.
func WithCheckpoints(s store.CheckpointStore) Option {
	return func(t *Transpiler) {
		t.checkpoints = s
	}
}

// WithRunObserver registers fn to be called when a run finishes.
func WithRunObserver(fn RunObserver) Option {
	return func(t *Transpiler) {
		t.observers = append(t.observers, fn)
	}
}

// New validates cfg and returns a Transpiler.
func New(cfg Config, opts ...Option) (*Transpiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := wire(cfg.Layout, stageSet{}, cfg.maxIterations(), 0); err != nil {
		return nil, err
	}
	t := &Transpiler{cfg: cfg}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the configuration the Transpiler was built with.
func (t *Transpiler) Config() Config {
	return t.cfg
}

// Run translates original and writes the result to outputPath.
//
// A nil error means the run reached its final stage; the Result then tells an
// accepted translation from one written after the budget ran out. A non-nil
// error is fatal: no stage after the failing one ran.
func (t *Transpiler) Run(ctx context.Context, original, outputPath string) (Result, error) {
	runID := uuid.NewString()
	logger := t.cfg.logger()

	res, err := t.run(ctx, runID, original, outputPath)
	for _, obs := range t.observers {
		obs(ctx, res, err)
	}

	switch {
	case err != nil:
		logger.Error("run %s: %v", runID, err)
	case !res.Accepted():
		logger.Warn("run %s: budget exhausted after %d generations, wrote %s with status %s",
			runID, res.Iterations, outputPath, res.Status)
	default:
		logger.Info("run %s: accepted after %d generations, wrote %s", runID, res.Iterations, outputPath)
	}
	return res, err
}

func (t *Transpiler) run(ctx context.Context, runID, original, outputPath string) (Result, error) {
	initial := NewState(original)

	g, err := Build(t.cfg, outputPath)
	if err != nil {
		return newResult(runID, outputPath, initial), err
	}
	runnable, err := g.Compile()
	if err != nil {
		return newResult(runID, outputPath, initial), fmt.Errorf("compile workflow: %w", err)
	}

	if len(t.traceHooks) > 0 {
		tracer := graph.NewTracer()
		for _, h := range t.traceHooks {
			tracer.AddHook(h)
		}
		runnable.SetTracer(tracer)
	}
	for _, l := range t.listeners {
		runnable.AddListener(l)
	}
	if t.checkpoints != nil {
		runnable.AddListener(CheckpointListener(t.checkpoints, runID, t.cfg.logger()))
	}
	if t.cfg.Debug {
		runnable.AddListener(graph.OnNode(NodeValidate, CandidateRecorder(t.cfg.Files, outputPath, t.cfg.logger())))
	}

	t.cfg.logger().Debug("run %s: layout %s, budget %d, output %s", runID, t.cfg.Layout, t.cfg.maxIterations(), outputPath)
	final, err := runnable.Invoke(ctx, initial)
	return newResult(runID, outputPath, final), err
}

// RunFile reads the original from inputPath and translates it into outputPath.
// A missing input reads as an empty program.
func (t *Transpiler) RunFile(ctx context.Context, inputPath, outputPath string) (Result, error) {
	original, err := t.cfg.Files.Read(ctx, inputPath)
	if err != nil {
		return Result{Output: outputPath}, err
	}
	if original == "" {
		t.cfg.logger().Warn("input %s is missing or empty", inputPath)
	}
	return t.Run(ctx, original, outputPath)
}
