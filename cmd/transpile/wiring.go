package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smallnest/transpilegraph/artifact"
	"github.com/smallnest/transpilegraph/config"
	"github.com/smallnest/transpilegraph/equivalence"
	"github.com/smallnest/transpilegraph/llm"
	"github.com/smallnest/transpilegraph/log"
	"github.com/smallnest/transpilegraph/metrics"
	"github.com/smallnest/transpilegraph/prompt"
	"github.com/smallnest/transpilegraph/store"
	"github.com/smallnest/transpilegraph/store/file"
	"github.com/smallnest/transpilegraph/store/memory"
	"github.com/smallnest/transpilegraph/store/postgres"
	"github.com/smallnest/transpilegraph/store/redis"
	"github.com/smallnest/transpilegraph/store/sqlite"
	"github.com/smallnest/transpilegraph/syntax"
	"github.com/smallnest/transpilegraph/transpile"
)

// app holds everything a command needs for one process.
type app struct {
	transpiler  *transpile.Transpiler
	checkpoints store.CheckpointStore
	metrics     *metrics.Collector
	closers     []func()
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	a := &app{metrics: metrics.NewCollector()}

	model, err := llm.New(c.ModelConfig())
	if err != nil {
		return nil, err
	}
	lang, err := openLanguage(c)
	if err != nil {
		return nil, err
	}
	templates, err := loadTemplates(c)
	if err != nil {
		return nil, err
	}
	layout, err := transpile.ParseLayout(c.Workflow.Layout)
	if err != nil {
		return nil, err
	}

	tc := transpile.Config{
		Model:         model,
		Templates:     templates,
		Language:      lang,
		Files:         artifact.NewDir(""),
		Layout:        layout,
		MaxIterations: c.Workflow.MaxIterations,
		StageTimeout:  c.Workflow.StageTimeout,
		Debug:         c.Workflow.Debug,
		Logger:        log.GetDefaultLogger(),
	}
	if c.Check.Enabled() {
		checker, err := newChecker(c.Check)
		if err != nil {
			return nil, err
		}
		tc.Checker = checker
	}

	a.checkpoints, err = openStore(ctx, a, c.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := a.metrics.Options()
	if a.checkpoints != nil {
		opts = append(opts, transpile.WithCheckpoints(a.checkpoints))
	}
	a.transpiler, err = transpile.New(tc, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close flushes metrics and releases the checkpoint store.
func (a *app) Close() {
	if a.metrics != nil && cfg != nil && cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn("write metrics to %s: %v", cfg.MetricsTextfile, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openLanguage(c *config.Config) (syntax.Language, error) {
	return syntax.Lookup(c.Workflow.TargetLanguage, syntax.WithInterpreter(c.Workflow.Interpreter))
}

func loadTemplates(c *config.Config) (prompt.Templates, error) {
	templates := prompt.Defaults(c.Workflow.SourceLanguage, c.Workflow.TargetLanguage)
	if c.Workflow.PromptsPath == "" {
		return templates, nil
	}
	loaded, err := prompt.Load(c.Workflow.PromptsPath)
	if err != nil {
		return nil, err
	}
	return templates.Merge(loaded), nil
}

func newChecker(c config.CheckConfig) (*equivalence.CommandChecker, error) {
	cases, err := loadCases(c.CasesDir)
	if err != nil {
		return nil, err
	}
	return &equivalence.CommandChecker{
		Original:  equivalence.Runner{Args: c.OriginalCommand, FileName: c.OriginalFile},
		Candidate: equivalence.Runner{Args: c.CandidateCommand, FileName: c.CandidateFile},
		Cases:     cases,
		Timeout:   c.Timeout,
	}, nil
}

// loadCases reads every regular file in dir as the stdin of one case.
func loadCases(dir string) ([]equivalence.Case, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var cases []equivalence.Case
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read case %s: %w", e.Name(), err)
		}
		cases = append(cases, equivalence.Case{Name: e.Name(), Stdin: string(data)})
	}
	return cases, nil
}

func openStore(ctx context.Context, a *app, c config.StoreConfig) (store.CheckpointStore, error) {
	switch c.Backend {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreFile:
		return file.New(c.Dir)
	case config.StoreRedis:
		s := redis.NewRedisCheckpointStore(redis.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPass,
			DB:       c.RedisDB,
			TTL:      c.RedisTTL,
		})
		a.closers = append(a.closers, func() { _ = s.Close() })
		return s, nil
	case config.StoreSqlite:
		if dir := filepath.Dir(c.SqlitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		s, err := sqlite.NewSqliteCheckpointStore(sqlite.SqliteOptions{Path: c.SqlitePath})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		return s, nil
	case config.StorePostgres:
		s, err := postgres.NewPostgresCheckpointStore(ctx, postgres.PostgresOptions{ConnString: c.PostgresURL})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		if err := s.InitSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, nil
}

var extensions = map[string]string{
	"go":       ".go",
	"python":   ".py",
	"starlark": ".star",
}

// outputPathFor swaps the extension of input for the target language's.
func outputPathFor(input, language string) string {
	ext, ok := extensions[strings.ToLower(language)]
	if !ok {
		ext = "." + strings.ToLower(language)
	}
	out := strings.TrimSuffix(input, filepath.Ext(input)) + ext
	if out == input {
		out = strings.TrimSuffix(input, ext) + ".out" + ext
	}
	return out
}
