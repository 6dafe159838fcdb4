package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeChat struct {
	got  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestNewAzure_Validation(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "")

	_, err := NewAzure()
	assert.ErrorIs(t, err, ErrMissingAzureKey)

	_, err = NewAzure(WithAPIKey("k"))
	assert.ErrorIs(t, err, ErrMissingEndpoint)

	_, err = NewAzure(WithAPIKey("k"), WithEndpoint("https://x.openai.azure.com"))
	assert.ErrorIs(t, err, ErrMissingDeploy)

	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "from-env")
	a, err := NewAzure(WithAPIKey("k"), WithEndpoint("https://x.openai.azure.com"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", a.deployment)
}

func TestAzureLLM_GenerateContent(t *testing.T) {
	fake := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "print(1)"},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}}
	a := &AzureLLM{client: fake, deployment: "gpt4o"}

	resp, err := a.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "translate"),
		llms.TextParts(llms.ChatMessageTypeHuman, "print 1", "\n"),
		llms.TextParts(llms.ChatMessageTypeAI, "print(0)"),
	}, llms.WithTemperature(0.5), llms.WithMaxTokens(100))
	require.NoError(t, err)

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "print(1)", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)
	assert.Equal(t, 5, resp.Choices[0].GenerationInfo["total_tokens"])

	assert.Equal(t, "gpt4o", fake.got.Model)
	assert.Equal(t, float32(0.5), fake.got.Temperature)
	assert.Equal(t, 100, fake.got.MaxTokens)
	assert.Equal(t, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "translate"},
		{Role: openai.ChatMessageRoleUser, Content: "print 1\n"},
		{Role: openai.ChatMessageRoleAssistant, Content: "print(0)"},
	}, fake.got.Messages)
}

func TestAzureLLM_Errors(t *testing.T) {
	boom := errors.New("boom")
	a := &AzureLLM{client: &fakeChat{err: boom}, deployment: "d"}
	_, err := a.GenerateContent(context.Background(), nil)
	assert.ErrorIs(t, err, boom)

	a = &AzureLLM{client: &fakeChat{}, deployment: "d"}
	_, err = a.GenerateContent(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAzureLLM_Call(t *testing.T) {
	fake := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "hi"}}},
	}}
	a := &AzureLLM{client: fake, deployment: "d"}

	out, err := a.Call(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.got.Messages[0].Role)
}
