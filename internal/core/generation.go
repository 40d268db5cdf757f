package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/utils"
)

// DefaultMaxPromptSize bounds how much of each prompt field reaches the
// generative-text collaborator.
const DefaultMaxPromptSize = 4096

// promptFormat is the documented contract with the generative-text
// collaborator: the response must be a single JSON object with a "subject"
// key and a "body_html" key, and nothing else.
const promptFormat = `You are a B2B sales agent. Write a personalized outreach email to a potential client.

Recipient name: %s
Recipient title: %s
Company: %s
Industry: %s
Why this matters to them: %s

Our product vision:
%s

Generate a concise and compelling email. The email body must be HTML.
The response MUST be a single JSON object with exactly two keys: 'subject'
for the email subject line, and 'body_html' for the HTML content of the
email body. All newlines and special characters within the 'body_html'
string MUST be properly escaped for JSON.

Respond only with the JSON object and nothing else.`

// GenerationService builds personalization prompts, invokes the
// generative-text collaborator and parses its output into immutable
// drafts. Provider failures are retried when transient; parse failures
// are surfaced immediately, since retrying cannot fix malformed output.
type GenerationService struct {
	generator     TextGenerator
	retry         RetryPolicy
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	maxPromptSize int
}

// NewGenerationService creates a new content generation orchestrator.
func NewGenerationService(
	generator TextGenerator,
	retry RetryPolicy,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	maxPromptSize int,
) *GenerationService {
	if maxPromptSize <= 0 {
		maxPromptSize = DefaultMaxPromptSize
	}
	return &GenerationService{
		generator:     generator,
		retry:         retry,
		logger:        logger,
		textProcessor: textProcessor,
		maxPromptSize: maxPromptSize,
	}
}

// draftPayload is the expected shape of the collaborator's JSON response.
type draftPayload struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

// Generate produces a new immutable draft for one decision-maker. The
// prompt contains only the fields required for personalization, and the
// exact inputs are snapshotted on the draft for auditability.
func (s *GenerationService) Generate(
	ctx context.Context,
	dm DecisionMaker,
	company CompanyCandidate,
	productVision string,
) (*OutreachDraft, error) {
	genCtx := GenerationContext{
		RecipientName:  dm.Name,
		RecipientTitle: dm.Title,
		CompanyName:    company.Name,
		Industry:       primaryIndustry(company),
		ValueProp:      inferValueProp(dm, company),
		ProductVision:  s.textProcessor.ProcessText(productVision, s.maxPromptSize),
	}
	prompt := fmt.Sprintf(promptFormat,
		genCtx.RecipientName,
		genCtx.RecipientTitle,
		genCtx.CompanyName,
		genCtx.Industry,
		genCtx.ValueProp,
		genCtx.ProductVision,
	)

	var raw string
	err := s.retry.DoTransient(ctx, func(ctx context.Context) error {
		var gerr error
		raw, gerr = s.generator.GenerateText(ctx, prompt)
		return gerr
	})
	if err != nil {
		if IsTransient(err) {
			return nil, &UpstreamUnavailableError{Collaborator: "generative-text", Err: err}
		}
		return nil, err
	}

	subject, body, err := parseDraftResponse(raw)
	if err != nil {
		s.logger.Warn("Generated content failed to parse",
			zap.String("recipient", dm.Name),
			zap.Error(err))
		return nil, err
	}

	draft := &OutreachDraft{
		ID:            uuid.NewString(),
		RecipientName: dm.Name,
		Subject:       subject,
		Body:          body,
		Context:       genCtx,
		GeneratedAt:   time.Now(),
	}

	s.logger.Info("Draft generated",
		zap.String("draft_id", draft.ID),
		zap.String("recipient", dm.Name),
		zap.String("company", company.Name))

	return draft, nil
}

// parseDraftResponse extracts the JSON object between the first '{' and
// the last '}' and decodes it. It fails closed: no identifiable object,
// undecodable content or a missing subject/body yields a
// GenerationParseError rather than degraded output.
func parseDraftResponse(raw string) (subject, body string, err error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", "", &GenerationParseError{
			Reason: "no JSON object delimiters in response",
			Raw:    excerpt(raw),
		}
	}

	var payload draftPayload
	if jerr := json.Unmarshal([]byte(raw[start:end+1]), &payload); jerr != nil {
		return "", "", &GenerationParseError{
			Reason: fmt.Sprintf("invalid JSON object: %v", jerr),
			Raw:    excerpt(raw),
		}
	}
	if strings.TrimSpace(payload.Subject) == "" {
		return "", "", &GenerationParseError{Reason: "missing subject", Raw: excerpt(raw)}
	}
	if strings.TrimSpace(payload.BodyHTML) == "" {
		return "", "", &GenerationParseError{Reason: "missing body_html", Raw: excerpt(raw)}
	}
	return payload.Subject, payload.BodyHTML, nil
}

// primaryIndustry picks the candidate's first listed industry.
func primaryIndustry(company CompanyCandidate) string {
	if len(company.Industries) > 0 {
		return company.Industries[0]
	}
	return "their industry"
}

// inferValueProp derives the single value-proposition sentence included in
// the prompt. Deterministic on its inputs.
func inferValueProp(dm DecisionMaker, company CompanyCandidate) string {
	industry := primaryIndustry(company)
	switch dm.Tier {
	case TierExecutive:
		return fmt.Sprintf("As %s at %s, you set the direction for how %s teams adopt new tooling.",
			dm.Title, company.Name, industry)
	case TierManager:
		return fmt.Sprintf("As %s at %s, you see first-hand where %s workflows slow your team down.",
			dm.Title, company.Name, industry)
	default:
		return fmt.Sprintf("Working in %s at %s puts you close to the problems we solve.",
			industry, company.Name)
	}
}

const maxExcerptLen = 256

// excerpt truncates raw provider output for error reporting.
func excerpt(raw string) string {
	if len(raw) > maxExcerptLen {
		return raw[:maxExcerptLen]
	}
	return raw
}
