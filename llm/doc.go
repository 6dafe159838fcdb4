// Package llm builds the chat model used by the transpiler stages.
//
// The openai, anthropic and ollama providers come from langchaingo. The azure
// provider is implemented here on top of github.com/sashabaranov/go-openai and
// pins every request to a single deployment.
//
//	model, err := llm.New(llm.Config{Provider: "anthropic", Model: "claude-3-5-sonnet-latest"})
package llm
