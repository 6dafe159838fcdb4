package transpile_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// scriptedModel answers GenerateContent with its responses in order.
type scriptedModel struct {
	mu        sync.Mutex
	responses []string
	calls     [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, messages)
	i := len(m.calls) - 1
	if i >= len(m.responses) {
		return nil, errors.New("script exhausted")
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.responses[i]}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *scriptedModel) call(i int) []llms.MessageContent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

// echoModel returns the original program, fenced, as its translation. An
// original containing "FAIL" makes it return an error.
type echoModel struct{}

func (echoModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	original := text(messages[1])
	if strings.Contains(original, "FAIL") {
		return nil, errors.New("provider unavailable")
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "```python\n" + original + "\n```"}},
	}, nil
}

func (echoModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

// emptyModel answers with no choices.
type emptyModel struct{}

func (emptyModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (emptyModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", nil
}

// blockingModel waits for its context to end.
type blockingModel struct{}

func (blockingModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", nil
}

func text(m llms.MessageContent) string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(llms.TextContent); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// stubChecker returns its verdicts in order; past the end it accepts.
type stubChecker struct {
	verdicts []bool
	detail   string
	err      error
	calls    int
}

func (c *stubChecker) Check(context.Context, string, string) (bool, string, error) {
	if c.err != nil {
		return false, "", c.err
	}
	i := c.calls
	c.calls++
	if i < len(c.verdicts) && !c.verdicts[i] {
		return false, c.detail, nil
	}
	return true, "", nil
}

// recordingWriter records every write.
type recordingWriter struct {
	mu     sync.Mutex
	files  map[string]string
	writes []string
	err    error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{files: map[string]string{}}
}

func (w *recordingWriter) Read(_ context.Context, path string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path], nil
}

func (w *recordingWriter) Write(_ context.Context, path, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.files[path] = text
	w.writes = append(w.writes, text)
	return nil
}
