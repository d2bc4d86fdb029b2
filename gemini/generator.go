package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/provider"
)

// Generator implements llm.Provider.
type Generator struct {
	client *Client
	rr     provider.RequestResponse[call, *genai.GenerateContentResponse]
}

var _ llm.Provider = (*Generator)(nil)

// NewGenerator creates a text-generation adapter.
func NewGenerator(c *Client) *Generator {
	return &Generator{client: c, rr: c.endpoint("gemini-text")}
}

func (g *Generator) Name() string                         { return g.rr.Name() }
func (g *Generator) IsAvailable(ctx context.Context) bool { return g.rr.IsAvailable(ctx) }

// Complete returns free-form text for a conversation.
func (g *Generator) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "model" || m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return g.generate(ctx, req.Model, contents, g.baseConfig(req.SystemPrompt, req.Temperature, req.MaxTokens))
}

// CompleteStructured requests application/json output constrained by req.Schema.
func (g *Generator) CompleteStructured(ctx context.Context, req llm.StructuredRequest) (*llm.CompletionResponse, error) {
	cfg := g.baseConfig(req.SystemPrompt, req.Temperature, req.MaxTokens)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = toSchema(req.Schema)
	return g.generate(ctx, req.Model, userContent(genai.NewPartFromText(req.Prompt)), cfg)
}

func (g *Generator) baseConfig(system string, temperature *float32, maxTokens int) *genai.GenerateContentConfig {
	t := g.client.cfg.Temperature
	if temperature != nil {
		t = *temperature
	}
	if maxTokens <= 0 {
		maxTokens = g.client.cfg.MaxOutputTokens
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(system),
		Temperature:       genai.Ptr(t),
		MaxOutputTokens:   int32(maxTokens),
	}
}

func (g *Generator) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*llm.CompletionResponse, error) {
	if model == "" {
		model = g.client.cfg.TextModel
	}
	resp, err := g.rr.Execute(ctx, call{model: model, contents: contents, config: cfg, timeout: g.client.cfg.TextTimeout})
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, apperrors.ExternalServiceError("llm", llm.ErrEmptyResponse)
	}
	return &llm.CompletionResponse{Content: text, Model: model, Usage: usage(resp)}, nil
}

// toSchema converts the llm schema subset into a genai schema.
func toSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     schemaType(s.Type),
		Enum:     s.Enum,
		Required: s.Required,
		Items:    toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeArray:
		return genai.TypeArray
	case llm.TypeNumber:
		return genai.TypeNumber
	case llm.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
