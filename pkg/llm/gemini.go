package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiAPIVersion   = "v1beta"
)

type GeminiProvider struct {
	client  *genai.Client
	initErr error
	model   string
}

// NewGeminiProvider builds a genai client for the Gemini API. A client that
// cannot be built surfaces its error on the first call.
func NewGeminiProvider(cfg Config) *GeminiProvider {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(cfg),
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(cfg.APIURL, "/"),
			APIVersion: geminiAPIVersion,
		},
	})
	if err != nil {
		err = fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, initErr: err, model: model}
}

func (p *GeminiProvider) GenerateJSON(ctx context.Context, req Request) (string, error) {
	if p.initErr != nil {
		return "", p.initErr
	}

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return "", fmt.Errorf("gemini: decode image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	schema, err := toSchema(req.Schema)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		})
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates in response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// toSchema converts a JSON schema map into the SDK's schema type.
func toSchema(m map[string]any) (*genai.Schema, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode schema: %w", err)
	}
	var schema genai.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("gemini: decode schema: %w", err)
	}
	return &schema, nil
}
