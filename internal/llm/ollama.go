package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Ollama talks to a locally hosted model over the Ollama HTTP API.
type Ollama struct {
	baseURL       string
	model         string
	contextWindow int
	client        *http.Client
}

// NewOllama creates an Ollama provider for the given base URL and model.
func NewOllama(baseURL, model string, contextWindow int) *Ollama {
	if contextWindow <= 0 {
		contextWindow = 4096
	}
	return &Ollama{
		baseURL:       strings.TrimRight(baseURL, "/"),
		model:         model,
		contextWindow: contextWindow,
		client:        newHTTPClient(),
	}
}

func (o *Ollama) Name() string { return string(KindOllama) }

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate implements Provider.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:   o.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"num_ctx": o.contextWindow},
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return decoded.Response, nil
}
