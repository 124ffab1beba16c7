package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/agrichat/agrichat/internal/domain"
)

// GeminiClient implements domain.Generator against the Gemini API. The
// model name is resolved once at construction; there is no runtime
// model-name probing.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient builds a Generator from an API key. An empty key is a
// configuration error; callers treat it as "provider unavailable".
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required: %w", domain.ErrProviderUnavailable)
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateReply implements domain.Generator.
func (g *GeminiClient) GenerateReply(ctx context.Context, message string) (string, error) {
	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: 8192,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(message), genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// ListModels implements domain.Generator. It backs the diagnostic
// /models endpoint.
func (g *GeminiClient) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("gemini list models: %w", err)
	}

	out := make([]domain.ModelInfo, 0, len(page.Items))
	for _, m := range page.Items {
		out = append(out, domain.ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
		})
	}
	return out, nil
}
