package llm

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
)

// DefaultAzureAPIVersion is the Azure OpenAI REST version used when none is set.
const DefaultAzureAPIVersion = "2024-06-01"

var (
	ErrEmptyResponse   = errors.New("no response")
	ErrMissingAzureKey = errors.New("azure api key not set")
	ErrMissingEndpoint = errors.New("azure endpoint not set")
	ErrMissingDeploy   = errors.New("azure deployment not set")
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AzureLLM talks to an Azure OpenAI chat deployment.
type AzureLLM struct {
	client           chatClient
	deployment       string
	CallbacksHandler callbacks.Handler
}

var _ llms.Model = (*AzureLLM)(nil)

type azureOptions struct {
	apiKey           string
	endpoint         string
	deployment       string
	apiVersion       string
	httpClient       *http.Client
	callbacksHandler callbacks.Handler
}

// AzureOption configures NewAzure.
type AzureOption func(*azureOptions)

// WithAPIKey sets the resource key. Defaults to AZURE_OPENAI_API_KEY.
func WithAPIKey(key string) AzureOption {
	return func(o *azureOptions) { o.apiKey = key }
}

// WithEndpoint sets the resource endpoint, e.g. https://name.openai.azure.com.
// Defaults to AZURE_OPENAI_ENDPOINT.
func WithEndpoint(endpoint string) AzureOption {
	return func(o *azureOptions) { o.endpoint = endpoint }
}

// WithDeployment sets the deployment name. Defaults to AZURE_OPENAI_DEPLOYMENT.
func WithDeployment(name string) AzureOption {
	return func(o *azureOptions) { o.deployment = name }
}

func WithAPIVersion(version string) AzureOption {
	return func(o *azureOptions) { o.apiVersion = version }
}

func WithHTTPClient(c *http.Client) AzureOption {
	return func(o *azureOptions) { o.httpClient = c }
}

func WithCallbacks(h callbacks.Handler) AzureOption {
	return func(o *azureOptions) { o.callbacksHandler = h }
}

// NewAzure returns a model bound to one Azure OpenAI deployment.
func NewAzure(opts ...AzureOption) (*AzureLLM, error) {
	o := &azureOptions{
		apiKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		apiVersion: DefaultAzureAPIVersion,
	}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case o.apiKey == "":
		return nil, ErrMissingAzureKey
	case o.endpoint == "":
		return nil, ErrMissingEndpoint
	case o.deployment == "":
		return nil, ErrMissingDeploy
	}

	cfg := openai.DefaultAzureConfig(o.apiKey, o.endpoint)
	cfg.APIVersion = o.apiVersion
	deployment := o.deployment
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &AzureLLM{
		client:           openai.NewClientWithConfig(cfg),
		deployment:       o.deployment,
		CallbacksHandler: o.callbacksHandler,
	}, nil
}

// Call generates a response for a single prompt.
func (a *AzureLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, a, prompt, options...)
}

// GenerateContent implements llms.Model.
func (a *AzureLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if a.CallbacksHandler != nil {
		a.CallbacksHandler.HandleLLMGenerateContentStart(ctx, messages)
	}

	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	req := openai.ChatCompletionRequest{
		Model:       a.deployment,
		Messages:    toChatMessages(messages),
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	result, err := a.client.CreateChatCompletion(ctx, req)
	if err == nil && len(result.Choices) == 0 {
		err = ErrEmptyResponse
	}
	if err != nil {
		if a.CallbacksHandler != nil {
			a.CallbacksHandler.HandleLLMError(ctx, err)
		}
		return nil, err
	}

	resp := &llms.ContentResponse{Choices: make([]*llms.ContentChoice, 0, len(result.Choices))}
	for _, c := range result.Choices {
		resp.Choices = append(resp.Choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"prompt_tokens":     result.Usage.PromptTokens,
				"completion_tokens": result.Usage.CompletionTokens,
				"total_tokens":      result.Usage.TotalTokens,
			},
		})
	}

	if a.CallbacksHandler != nil {
		a.CallbacksHandler.HandleLLMGenerateContentEnd(ctx, resp)
	}
	return resp, nil
}

func toChatMessages(messages []llms.MessageContent) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			role = openai.ChatMessageRoleSystem
		case llms.ChatMessageTypeAI:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}

		var content strings.Builder
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content.WriteString(text.Text)
			}
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: content.String()})
	}
	return out
}
