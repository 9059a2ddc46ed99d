package service

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/shubham-bhadra-10/Legalyze/config"
)

// Generator is the generative-AI backend consumed by the classifier and
// the analysis engine. No structured-output guarantee: callers must treat
// the reply as free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// VertexGenerator is the production Generator backed by a Gemini model on
// Vertex AI.
type VertexGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewVertexGenerator(ctx context.Context, cfg *config.AIConfig) (*VertexGenerator, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("ai project_id must be configured")
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.GenerationConfig = genai.GenerationConfig{
		// Low temperature for deterministic, structured output
		Temperature: genai.Ptr[float32](0.1),
	}

	return &VertexGenerator{
		client: client,
		model:  model,
		name:   cfg.Model,
	}, nil
}

func (g *VertexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *VertexGenerator) Model() string {
	return g.name
}

func (g *VertexGenerator) Close() error {
	return g.client.Close()
}
