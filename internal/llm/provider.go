// Package llm abstracts the generation backends behind a single Provider
// capability: turn a prompt into text, or fail.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/meowdoc/internal/config"
	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
)

// Provider is the single capability consumed by the generation engine.
type Provider interface {
	// Generate produces text for the given prompt. Transport, auth and
	// malformed-response failures are returned as errors; Generate never
	// panics on backend misbehavior.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend for logging.
	Name() string
}

// Kind enumerates the supported backends.
type Kind string

const (
	KindGemini Kind = "gemini"
	KindOpenAI Kind = "openai"
	KindOllama Kind = "ollama"
)

// ParseKind normalizes a raw provider name to a Kind.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return KindGemini, nil
	case "openai":
		return KindOpenAI, nil
	case "ollama":
		return KindOllama, nil
	default:
		return "", merrors.ProviderError(fmt.Sprintf("unsupported LLM provider: %q", raw))
	}
}

// defaultCallTimeout bounds a single generation call so a hung backend cannot
// hold a worker slot forever.
const defaultCallTimeout = 5 * time.Minute

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultCallTimeout}
}

// FromConfig selects and constructs a Provider once at startup.
// All misconfiguration is surfaced here, before any generation begins.
func FromConfig(cfg config.LLMConfig) (Provider, error) {
	kind, err := ParseKind(cfg.Provider)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindGemini:
		if cfg.APIKeyFile == "" {
			return nil, merrors.ProviderError("api_key_file is required for gemini")
		}
		key, err := readAPIKey(cfg.APIKeyFile)
		if err != nil {
			return nil, merrors.Wrap(err, merrors.CategoryProvider, merrors.SeverityFatal, "failed to read gemini API key")
		}
		return NewGemini(key, cfg.Model), nil
	case KindOpenAI:
		if cfg.APIKeyFile == "" {
			return nil, merrors.ProviderError("api_key_file is required for openai")
		}
		key, err := readAPIKey(cfg.APIKeyFile)
		if err != nil {
			return nil, merrors.Wrap(err, merrors.CategoryProvider, merrors.SeverityFatal, "failed to read openai API key")
		}
		return NewOpenAI(key, cfg.Model), nil
	case KindOllama:
		if cfg.BaseURL == "" {
			return nil, merrors.ProviderError("base_url is required for ollama")
		}
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.ContextWindow), nil
	}
	return nil, merrors.ProviderError(fmt.Sprintf("unhandled provider kind: %q", kind))
}

func readAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("API key file is empty: %s", path)
	}
	return key, nil
}
