package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// Generator is an implementation of the TextGenerator interface using
// Amazon Bedrock.
type Generator struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new Bedrock text generator.
func NewGenerator(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// isAnthropicModel reports whether the configured model uses the Anthropic
// messages payload.
func (g *Generator) isAnthropicModel() bool {
	return strings.Contains(g.modelID, "anthropic.")
}

// GenerateText produces the raw model output for a prompt. Throttling and
// service-side failures are classified transient.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	if g.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"anthropic_version": "bedrock-2023-05-31",
			"max_tokens":        g.maxTokens,
			"temperature":       g.temperature,
			"top_p":             g.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": prompt},
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", classify(fmt.Errorf("failed to invoke Bedrock model: %w", err))
	}

	var text string
	if g.isAnthropicModel() {
		var claudeResp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		for _, block := range claudeResp.Content {
			text += block.Text
		}
	} else {
		var genericResp struct {
			Completion string `json:"completion"`
			OutputText string `json:"outputText"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
		}
		text = genericResp.Completion
		if text == "" {
			text = genericResp.OutputText
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Bedrock model %s", g.modelID)
	}

	g.logger.Debug("Bedrock completion received", zap.String("model_id", g.modelID))

	return text, nil
}

// classify marks throttling, server-side and transport failures as
// transient so the shared retry policy picks them up.
func classify(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		if status == http.StatusTooManyRequests || status >= 500 {
			return core.Transient(err)
		}
		return err
	}
	return core.Transient(err)
}
