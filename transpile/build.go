package transpile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/transpilegraph/artifact"
	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/log"
	"github.com/smallnest/transpilegraph/prompt"
	"github.com/smallnest/transpilegraph/syntax"
)

// Node names.
const (
	NodeSummary  = "summary"
	NodePlan     = "plan"
	NodeGenerate = "generate"
	NodeValidate = "validate"
	NodeFinalize = "finalize"
)

// Layout selects which stages run ahead of the generate/validate cycle.
type Layout int

const (
	// LayoutDirect goes straight to generation.
	LayoutDirect Layout = iota
	// LayoutSummary summarises the original first.
	LayoutSummary
	// LayoutPlanned summarises the original, then plans the translation.
	LayoutPlanned
)

// ErrUnknownLayout is returned for a Layout outside the defined values.
var ErrUnknownLayout = errors.New("unknown layout")

func (l Layout) String() string {
	switch l {
	case LayoutDirect:
		return "direct"
	case LayoutSummary:
		return "summary"
	case LayoutPlanned:
		return "planned"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout converts "direct", "summary" or "planned" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "direct", "":
		return LayoutDirect, nil
	case "summary":
		return LayoutSummary, nil
	case "planned", "plan":
		return LayoutPlanned, nil
	default:
		return LayoutDirect, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
}

// requiredTemplates lists the template keys a configuration needs.
func (l Layout) requiredTemplates(withChecker bool) []string {
	var keys []string
	switch l {
	case LayoutSummary:
		keys = append(keys, prompt.KeySummary)
	case LayoutPlanned:
		keys = append(keys, prompt.KeySummary, prompt.KeyPlan)
	}
	keys = append(keys, prompt.KeyTranspile, prompt.KeyCompileErr)
	if withChecker {
		keys = append(keys, prompt.KeyOutputErr)
	}
	return keys
}

// Config is the fixed configuration of a workflow. It is read-only once a run
// starts and may be shared by concurrent runs.
type Config struct {
	// Model answers the summary, plan and generate stages.
	Model llms.Model
	// Templates holds the stage instructions.
	Templates prompt.Store
	// Language validates and formats candidates.
	Language syntax.Language
	// Checker, if set, compares behaviour after a successful parse.
	Checker EquivalenceChecker
	// Files reads originals and writes translations.
	Files artifact.ReadWriter
	// Layout selects the stages ahead of generation.
	Layout Layout
	// MaxIterations bounds retries; a run performs at most MaxIterations+1
	// generations. Zero means DefaultMaxIterations.
	MaxIterations int
	// StageTimeout bounds each model call and the final write. Zero disables it.
	StageTimeout time.Duration
	// Debug writes every validated candidate to the output path, not only the
	// final one.
	Debug bool
	// Logger defaults to the package logger.
	Logger log.Logger
}

func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}

func (c Config) logger() log.Logger {
	if c.Logger == nil {
		return log.GetDefaultLogger()
	}
	return c.Logger
}

// Validate reports missing collaborators and templates. Every error it returns
// would otherwise surface as a fatal error mid-run.
func (c Config) Validate() error {
	switch {
	case c.Model == nil:
		return errors.New("config: model is required")
	case c.Templates == nil:
		return errors.New("config: templates are required")
	case c.Language == nil:
		return errors.New("config: language is required")
	case c.Files == nil:
		return errors.New("config: files are required")
	}
	for _, key := range c.Layout.requiredTemplates(c.Checker != nil) {
		if _, err := c.Templates.Template(key); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// Build wires the stages of cfg into a graph whose finalize stage writes to
// outputPath.
func Build(cfg Config, outputPath string) (*graph.StateGraph[State], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return wire(cfg.Layout, stageSet{
		summary:  SummaryStage(cfg.Model, cfg.Templates),
		plan:     PlanStage(cfg.Model, cfg.Templates),
		generate: GenerateStage(cfg.Model, cfg.Templates),
		validate: ValidateStage(cfg.Language, cfg.Checker),
		finalize: FinalizeStage(cfg.Language, cfg.Files, outputPath),
	}, cfg.maxIterations(), cfg.StageTimeout)
}

// Describe returns the graph of layout with placeholder stages, for rendering.
func Describe(layout Layout, maxIterations int) (*graph.StateGraph[State], error) {
	pass := func(_ context.Context, s State) (State, error) { return s, nil }
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return wire(layout, stageSet{pass, pass, pass, pass, pass}, maxIterations, 0)
}

type stageSet struct {
	summary, plan, generate, validate, finalize graph.NodeFunc[State]
}

func wire(layout Layout, st stageSet, maxIterations int, timeout time.Duration) (*graph.StateGraph[State], error) {
	g := graph.NewStateGraph[State]()

	entry := NodeGenerate
	switch layout {
	case LayoutDirect:
	case LayoutSummary:
		g.AddNodeWithTimeout(NodeSummary, "Summarise the original program", st.summary, timeout)
		g.AddEdge(NodeSummary, NodeGenerate)
		entry = NodeSummary
	case LayoutPlanned:
		g.AddNodeWithTimeout(NodeSummary, "Summarise the original program", st.summary, timeout)
		g.AddNodeWithTimeout(NodePlan, "Plan the translation", st.plan, timeout)
		g.AddEdge(NodeSummary, NodePlan)
		g.AddEdge(NodePlan, NodeGenerate)
		entry = NodeSummary
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}

	g.AddNodeWithTimeout(NodeGenerate, "Generate or repair the translation", st.generate, timeout)
	g.AddNode(NodeValidate, "Validate the candidate", st.validate)
	g.AddNodeWithTimeout(NodeFinalize, "Format and write the translation", st.finalize, timeout)

	g.SetEntryPoint(entry)
	g.AddEdge(NodeGenerate, NodeValidate)
	g.AddConditionalEdge(NodeValidate, Router(maxIterations), map[graph.Route]string{
		graph.RouteContinue:  NodeGenerate,
		graph.RouteTerminate: NodeFinalize,
	})
	g.SetFinishPoint(NodeFinalize)

	return g, nil
}
