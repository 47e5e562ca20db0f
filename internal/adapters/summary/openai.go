package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
)

const (
	DefaultModel    = "gpt-4o-mini"
	maxOutputTokens = 1200
)

var ErrEmptySummary = errors.New("empty summary from model")

const instructions = "You are an AI meeting assistant. Be concise and factual. Only use what the transcript says."

// OpenAI asks a hosted model for summary, minutes and optional sections.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAI{client: &client, model: model}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Summarize(ctx context.Context, transcript string, opts core.SummaryOptions) (string, error) {
	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(BuildPrompt(transcript, opts), responses.EasyInputMessageRoleUser),
			},
		},
	}
	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai summary: %w", err)
	}
	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}

// BuildPrompt asks for the sections the caller wants, in a fixed layout.
func BuildPrompt(transcript string, opts core.SummaryOptions) string {
	parts := []string{
		"Analyze the following meeting transcript and produce:",
		"1. A concise meeting summary (3-5 sentences).",
		"2. Clear meeting minutes with key discussion points.",
	}
	if opts.IncludeActionItems {
		parts = append(parts, "3. Action items with assignees if mentioned.")
	}
	if opts.IncludeSentiment {
		parts = append(parts, "4. Overall meeting sentiment and tone.")
	}
	parts = append(parts, "\nTranscript:\n"+transcript, "\nFormat the response as:", "Summary:", "...", "", "Meeting Minutes:", "- Point 1", "- Point 2", "")
	if opts.IncludeActionItems {
		parts = append(parts, "Action Items:", "- Task 1 (Assignee: Name)", "")
	}
	if opts.IncludeSentiment {
		parts = append(parts, "Meeting Sentiment:", "Overall tone: [Positive/Neutral/Negative]", "Key observations: ...")
	}
	return strings.Join(parts, "\n")
}

// WithFallback answers from primary and uses fallback when it fails.
type WithFallback struct {
	Primary  core.Summarizer
	Fallback core.Summarizer
}

func (w WithFallback) Name() string { return w.Primary.Name() }

func (w WithFallback) Summarize(ctx context.Context, transcript string, opts core.SummaryOptions) (string, error) {
	out, err := w.Primary.Summarize(ctx, transcript, opts)
	if err == nil {
		return out, nil
	}
	log.Warn().Err(err).Str("module", "adapters.summary").Str("backend", w.Primary.Name()).Msg("summary failed, using fallback")
	return w.Fallback.Summarize(ctx, transcript, opts)
}

// Select picks the hosted model when a key is configured.
func Select(apiKey, model string) (core.Summarizer, error) {
	fb, err := NewFallback()
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		log.Info().Str("module", "adapters.summary").Msg("no summary api key, using fallback summarizer")
		return fb, nil
	}
	return WithFallback{Primary: NewOpenAI(apiKey, model), Fallback: fb}, nil
}
