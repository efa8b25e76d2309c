package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// GeminiConfig selects the backend and model for GeminiClient.
// With Project set the Vertex AI backend is used, otherwise APIKey is required.
type GeminiConfig struct {
	Project     string
	Location    string
	APIKey      string
	ModelName   string
	Temperature float32
}

type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiClient creates an LLMClient backed by Gemini, either through
// Vertex AI or through the Gemini API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.Project != "":
		if cfg.Location == "" {
			return nil, errors.New("location is required for the Vertex AI backend")
		}
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("either a GCP project or a Gemini API key must be set")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		temperature: cfg.Temperature,
	}, nil
}

// GenerateJSON implements domain.LLMClient. The schema is enforced by the
// model through structured output.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt domain.Prompt) (string, error) {
	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(8192),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ToGenaiSchema(prompt.Schema),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt.User, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", &domain.RequestError{Op: "gemini generate content", Err: err}
	}

	text := res.Text()
	if text == "" {
		return "", &domain.RequestError{Op: "gemini generate content", Err: errors.New("empty response text")}
	}
	return text, nil
}

// ToGenaiSchema converts the contract schema into the genai form.
func ToGenaiSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genaiType(s.Type),
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		MinItems:         s.MinItems,
		MaxItems:         s.MaxItems,
		Items:            ToGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = ToGenaiSchema(p)
		}
	}
	return out
}

func genaiType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.SchemaObject:
		return genai.TypeObject
	case domain.SchemaArray:
		return genai.TypeArray
	case domain.SchemaString:
		return genai.TypeString
	default:
		return genai.TypeUnspecified
	}
}
