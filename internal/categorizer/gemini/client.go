// Package gemini implements classify.Categorizer on top of the Gemini
// generative language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pennywise/internal/classify"

	genai "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var ErrEmptyResponse = errors.New("gemini: empty response")

type Client struct {
	svc   *genai.Service
	model string
}

var _ classify.Categorizer = (*Client)(nil)

// New creates a client authenticated with an API key.
func New(ctx context.Context, apiKey, model string, opts ...goption.ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	opts = append([]goption.ClientOption{goption.WithAPIKey(apiKey)}, opts...)
	svc, err := genai.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("generativelanguage service: %w", err)
	}
	slog.InfoContext(ctx, "Gemini categorizer ready", "model", model)
	return &Client{svc: svc, model: model}, nil
}

func (c *Client) Categorize(ctx context.Context, text string) (string, error) {
	out, err := c.generate(ctx, categoryPrompt(text))
	if err != nil {
		return "", err
	}
	return parseCategory(out), nil
}

func (c *Client) ClassifyTier(ctx context.Context, name, category string, amount int64) (string, error) {
	out, err := c.generate(ctx, tierPrompt(name, category, amount))
	if err != nil {
		return "", err
	}
	return parseTier(out), nil
}

func (c *Client) SuggestSavingsTips(ctx context.Context, summary classify.SpendingSummary) ([]string, error) {
	out, err := c.generate(ctx, tipsPrompt(summary))
	if err != nil {
		return nil, err
	}
	return parseTips(out), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	req := &genai.GenerateContentRequest{
		Contents: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
	}
	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return ""
}
