// Package gemini provides the inference-backed markdown cleanup pass using
// Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/snoai/url2mda"
)

const model = "gemini-2.5-flash"

// Ensure Cleaner implements url2mda.Cleaner at compile time.
var _ url2mda.Cleaner = (*Cleaner)(nil)

// Cleaner implements url2mda.Cleaner using Google Gemini.
type Cleaner struct {
	client *genai.Client
}

// NewCleaner creates a new Cleaner.
func NewCleaner(client *genai.Client) *Cleaner {
	return &Cleaner{client: client}
}

// Clean rewrites extracted markdown, removing ads and boilerplate while
// keeping substantive content.
func (c *Cleaner) Clean(ctx context.Context, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", url2mda.Errorf(url2mda.EINVALID, "markdown required")
	}

	result, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(markdown)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", url2mda.Errorf(url2mda.EINTERNAL, "gemini returned nil result")
	}

	cleaned := StripFence(result.Text())
	if strings.TrimSpace(cleaned) == "" {
		return "", url2mda.Errorf(url2mda.EINTERNAL, "gemini returned empty cleanup")
	}

	return cleaned, nil
}

// BuildConfig returns the GenerateContentConfig for cleanup calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an AI assistant that converts webpage content to markdown while filtering out unnecessary information. " +
					"Remove any inappropriate content, ads, or irrelevant information. " +
					"If unsure about including something, err on the side of keeping it. " +
					"Answer in English. Include all points in markdown in sufficient detail to be useful. " +
					"Aim for clean, readable markdown. " +
					"Return the markdown and nothing else.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the markdown to clean.
func BuildUserPrompt(markdown string) string {
	var sb strings.Builder
	sb.WriteString("Input:\n")
	fmt.Fprintf(&sb, "%s\n\n", markdown)
	sb.WriteString("Output:")
	return sb.String()
}

// StripFence removes a wrapping markdown code fence from a model response.
// Models regularly fence their output despite instructions not to.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```markdown")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
