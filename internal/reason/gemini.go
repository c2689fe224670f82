package reason

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// #region config

// GeminiConfig holds connection settings for the Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		Model:   "gemini-2.5-flash",
		Timeout: 30 * time.Second,
	}
}

// #endregion config

// #region client

// GeminiProvider implements Provider on the Gemini API with native
// structured output (response schema + JSON mime type).
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiConfig("").Model
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultGeminiConfig("").Timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model, timeout: timeout}, nil
}

// #endregion client

// #region complete

// CompleteJSON runs one structured-output generation call.
func (p *GeminiProvider) CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(req.Temperature)),
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		schema, err := toGenaiSchema(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("convert schema: %w", err)
		}
		config.ResponseSchema = schema
	}

	contents := []*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: not valid json", ErrMalformedOutput)
	}
	return json.RawMessage(text), nil
}

// #endregion complete

// #region schema-convert

// toGenaiSchema converts a JSON-schema object map to the genai schema
// struct. Supports the subset the agents use: object, string, number,
// integer, boolean, array, enum, required.
func toGenaiSchema(m map[string]any) (*genai.Schema, error) {
	out := &genai.Schema{}

	typ, _ := m["type"].(string)
	switch typ {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	default:
		return nil, fmt.Errorf("unsupported schema type %q", typ)
	}

	if desc, ok := m["description"].(string); ok {
		out.Description = desc
	}
	if enum, ok := m["enum"].([]string); ok {
		out.Enum = enum
	} else if enumAny, ok := m["enum"].([]any); ok {
		for _, e := range enumAny {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("enum values must be strings, got %T", e)
			}
			out.Enum = append(out.Enum, s)
		}
	}
	if req, ok := m["required"].([]string); ok {
		out.Required = req
	} else if reqAny, ok := m["required"].([]any); ok {
		for _, r := range reqAny {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("required entries must be strings, got %T", r)
			}
			out.Required = append(out.Required, s)
		}
	}
	if props, ok := m["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			sub, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q is not a schema object", name)
			}
			converted, err := toGenaiSchema(sub)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			out.Properties[name] = converted
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		converted, err := toGenaiSchema(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = converted
	}

	return out, nil
}

// #endregion schema-convert
