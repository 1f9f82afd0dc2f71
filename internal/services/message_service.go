package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/white/campaign-manager/config"
	"github.com/white/campaign-manager/internal/models"
)

// MessageGenerator writes a personalized outreach message for a profile
type MessageGenerator interface {
	Generate(ctx context.Context, profile models.LinkedInProfile) (string, error)
}

// UpstreamServiceError wraps a failure of the external text-generation service
type UpstreamServiceError struct {
	Err error
}

func (e *UpstreamServiceError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamServiceError) Unwrap() error {
	return e.Err
}

// outreachPrompt is the fixed prompt; profile fields are inserted verbatim
var outreachPrompt = template.Must(template.New("outreach").Parse(
	`Generate a personalized LinkedIn outreach message for the following profile:
Name: {{.Name}}
Job Title: {{.JobTitle}}
Company: {{.Company}}
Location: {{.Location}}
Summary: {{.Summary}}

The message should be:
1. Professional but conversational
2. Reference their specific role and company
3. Mention how Outflo can help with their outreach and sales
4. Keep it concise (2-3 sentences)
5. End with a call to connect`))

// BuildOutreachPrompt renders the prompt for profile
func BuildOutreachPrompt(profile models.LinkedInProfile) (string, error) {
	var b strings.Builder
	if err := outreachPrompt.Execute(&b, profile); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

// OpenAIMessageGenerator generates messages with the OpenAI chat completions API
type OpenAIMessageGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewOpenAIMessageGenerator creates a generator from config.
// SDK retries are disabled; a failed call surfaces immediately.
func NewOpenAIMessageGenerator(cfg config.OpenAIConfig) *OpenAIMessageGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 150
	}

	return &OpenAIMessageGenerator{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}
}

// Generate sends the outreach prompt and returns the first choice, trimmed
func (g *OpenAIMessageGenerator) Generate(ctx context.Context, profile models.LinkedInProfile) (string, error) {
	prompt, err := BuildOutreachPrompt(profile)
	if err != nil {
		return "", err
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(g.model),
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", &UpstreamServiceError{Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
