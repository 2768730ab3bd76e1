package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider produces one structured JSON reply for a prompt, optionally
// grounded on inline images.
type Provider interface {
	GenerateJSON(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Prompt string
	Images []Image
	// Schema is a JSON schema describing the expected reply. Providers that
	// cannot enforce it only ask for a JSON object.
	Schema map[string]any
}

type Image struct {
	MIMEType string
	Data     string // base64
}

type Config struct {
	Provider string
	Model    string
	APIKey   string
	APIURL   string
	Timeout  time.Duration
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiProvider(cfg), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
