package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

// GeminiClient implements domain.TextGenerator on top of Vertex AI (Gemini).
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates the Vertex-backed generator.
func NewGeminiClient(ctx context.Context, projectID, location, modelName string) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("gcp project and location must be set")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.TextGenerator.
func (c *GeminiClient) Generate(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
	res, err := c.generate(ctx, system, user, opts, nil)
	if err != nil {
		return domain.GenerateResult{}, err
	}
	return domain.GenerateResult{Text: res}, nil
}

// GenerateStructured implements domain.TextGenerator. The schema constrains
// the model's response to JSON of the requested shape.
func (c *GeminiClient) GenerateStructured(ctx context.Context, system, user string, schema *domain.Schema, opts domain.GenerateOptions) ([]byte, error) {
	res, err := c.generate(ctx, system, user, opts, toGenaiSchema(schema))
	if err != nil {
		return nil, err
	}
	return []byte(res), nil
}

func (c *GeminiClient) generate(ctx context.Context, system, user string, opts domain.GenerateOptions, schema *genai.Schema) (string, error) {
	temp := opts.Temperature
	if temp == 0 {
		temp = 0.7
	}
	topP := float32(0.9)

	outputTokens := opts.MaxOutputTokens
	if outputTokens == 0 {
		outputTokens = 8192
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// toGenaiSchema converts the domain schema into the SDK's schema type.
func toGenaiSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
