package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const enhanceModel = "gemini-2.5-flash-image-preview"

// GeminiEditor edits property photos through the Gemini image model.
type GeminiEditor struct {
	client  *genai.Client
	model   string
	fetcher *http.Client
}

func NewGeminiEditor(ctx context.Context, apiKey string) (*GeminiEditor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiEditor{
		client:  client,
		model:   enhanceModel,
		fetcher: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (e *GeminiEditor) Edit(ctx context.Context, req EditRequest) (EditResult, error) {
	data, mimeType, err := resolveImagePayload(ctx, e.fetcher, req.ImageURL)
	if err != nil {
		return EditResult{}, fmt.Errorf("resolve image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return EditResult{}, fmt.Errorf("generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return EditResult{}, nil
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
			return EditResult{ImageURL: fmt.Sprintf("data:%s;base64,%s", mime, encoded)}, nil
		}
	}

	// No image part back from the model; caller falls back to the original.
	return EditResult{}, nil
}
