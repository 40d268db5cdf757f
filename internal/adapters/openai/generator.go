package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mikey/icp-outreach/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Generator is an implementation of the TextGenerator interface using
// OpenAI chat completions.
type Generator struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new OpenAI text generator.
func NewGenerator(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// GenerateText produces the raw model output for a prompt. Rate limits and
// server-side failures are classified transient.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a B2B sales agent. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(fmt.Errorf("failed to create chat completion with OpenAI: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	g.logger.Debug("OpenAI completion received",
		zap.String("model", g.modelName),
		zap.String("completion_id", resp.ID))

	return resp.Choices[0].Message.Content, nil
}

// classify marks rate-limit, server-side and transport failures as
// transient so the shared retry policy picks them up.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return core.Transient(err)
		}
		return err
	}
	// Non-API errors are transport-level (timeouts, connection resets).
	return core.Transient(err)
}
