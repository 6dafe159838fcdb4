package transpile

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/transpilegraph/artifact"
	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/log"
	"github.com/smallnest/transpilegraph/prompt"
	"github.com/smallnest/transpilegraph/syntax"
)

// ErrEmptyResponse is returned when the model answers with no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// EquivalenceChecker compares the behaviour of the original program and a
// candidate that parses. ok=false carries a human-readable detail; err is kept
// for failures of the checker itself.
type EquivalenceChecker interface {
	Check(ctx context.Context, original, candidate string) (ok bool, detail string, err error)
}

// SummaryStage asks the model to describe the original program and appends the
// answer to the notes.
func SummaryStage(model llms.Model, templates prompt.Store) graph.NodeFunc[State] {
	return notesStage(model, templates, prompt.KeySummary)
}

// PlanStage asks the model for the questions and answers a faithful translation
// depends on, given the notes so far, and appends them to the notes.
func PlanStage(model llms.Model, templates prompt.Store) graph.NodeFunc[State] {
	return notesStage(model, templates, prompt.KeyPlan)
}

func notesStage(model llms.Model, templates prompt.Store, key string) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) (State, error) {
		system, err := prompt.Render(templates, key, s.Notes())
		if err != nil {
			return s, err
		}

		log.Debug("%s: asking model", key)
		text, err := generate(ctx, model, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, s.Original()),
		})
		if err != nil {
			return s, err
		}
		return s.WithNotes(text), nil
	}
}

// GenerateStage produces the next candidate. The first pass sends the translate
// instruction and the original program. After a failed validation the previous
// candidate and a repair instruction carrying the validation detail are added.
// The sanitized answer becomes the new candidate.
func GenerateStage(model llms.Model, templates prompt.Store) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) (State, error) {
		system, err := prompt.Render(templates, prompt.KeyTranspile, s.Notes())
		if err != nil {
			return s, err
		}

		messages := []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, s.Original()),
		}

		v := s.Validation()
		if !v.OK() {
			key := prompt.KeyCompileErr
			if v.Status == syntax.StatusMismatch {
				key = prompt.KeyOutputErr
			}
			repair, err := prompt.Render(templates, key, v.Detail)
			if err != nil {
				return s, err
			}
			messages = append(messages,
				llms.TextParts(llms.ChatMessageTypeAI, s.Code()),
				llms.TextParts(llms.ChatMessageTypeHuman, repair),
			)
		}

		log.Debug("generate: iteration %d, previous status %s", s.Iterations(), v.Status)
		text, err := generate(ctx, model, messages)
		if err != nil {
			return s, err
		}
		return s.WithCandidate(syntax.Sanitize(text)), nil
	}
}

// ValidateStage checks that the candidate parses and, when a checker is given,
// that it behaves like the original. Rejections are recorded in the state; only
// a failing checker is an error.
func ValidateStage(validator syntax.Validator, checker EquivalenceChecker) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) (State, error) {
		res := validator.Validate(ctx, s.Code())
		if res.OK() && checker != nil {
			same, detail, err := checker.Check(ctx, s.Original(), s.Code())
			if err != nil {
				return s, fmt.Errorf("equivalence check: %w", err)
			}
			if !same {
				res = syntax.Mismatch(detail)
			}
		}
		log.Debug("validate: iteration %d, status %s", s.Iterations(), res.Status)
		return s.WithValidation(res), nil
	}
}

// FinalizeStage formats the candidate and writes it to path. A candidate the
// formatter rejects is written as is.
func FinalizeStage(formatter syntax.Formatter, writer artifact.Writer, path string) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) (State, error) {
		code := s.Code()
		if formatter != nil {
			formatted, err := formatter.Format(code)
			if err != nil {
				log.Warn("finalize: writing unformatted code: %v", err)
			} else {
				code = formatted
			}
		}
		if err := writer.Write(ctx, path, code); err != nil {
			return s, fmt.Errorf("write %s: %w", path, err)
		}
		log.Debug("finalize: wrote %s", path)
		return s, nil
	}
}

func generate(ctx context.Context, model llms.Model, messages []llms.MessageContent) (string, error) {
	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
