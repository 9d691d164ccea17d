package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiLookup answers general questions with a short Gemini completion.
type GeminiLookup struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiLookup(ctx context.Context, apiKey, modelName string) (*GeminiLookup, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(256)

	return &GeminiLookup{client: client, model: model}, nil
}

func (g *GeminiLookup) Close() {
	g.client.Close()
}

func (g *GeminiLookup) Lookup(ctx context.Context, query string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildLookupPrompt(query)))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" || strings.EqualFold(text, "NO_ANSWER") {
		return "", ErrNoAnswer
	}
	return text, nil
}

func buildLookupPrompt(query string) string {
	return "Answer the following question for a university student in at most three sentences, " +
		"like an encyclopedia abstract. If you do not know, reply with exactly NO_ANSWER.\n\n" +
		"Question: " + query
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
