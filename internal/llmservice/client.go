package llmservice

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"document-chat/internal/config"
)

// NewChatModel creates a chat-completion client for an OpenAI-compatible
// endpoint.
func NewChatModel(llmCfg *config.LLMConfig) (*openai.LLM, error) {
	return openai.New(
		openai.WithBaseURL(llmCfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmCfg.Key, "Bearer ")),
		openai.WithModel(llmCfg.Model),
	)
}

// GenerateContent runs one synchronous completion round trip.
func GenerateContent(ctx context.Context, model llms.Model, messages []llms.MessageContent) (*llms.ContentResponse, error) {
	return model.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
}
