// Package ollama implements the local Ollama backend adapter through its
// OpenAI-compatible endpoint.
package ollama

import (
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/providers/openaicompat"
)

// DefaultModel is used when neither request nor config names a model.
const DefaultModel = "gemma3:1b"

// Config configures the Ollama provider. No API key is required; Ollama's
// OpenAI endpoint accepts any token.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider is the Ollama adapter.
type Provider struct {
	*openaicompat.Provider
}

// New creates an Ollama provider against a local or remote daemon.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	base := openaicompat.New(openaicompat.Config{
		ProviderName: "ollama",
		APIKey:       "dummy",
		BaseURL:      cfg.BaseURL,
		DefaultModel: cfg.Model,
		Timeout:      cfg.Timeout,
	}, logger)
	// The native tags endpoint is the reliable liveness probe.
	base.SetPaths("/v1/chat/completions", "/api/tags")
	return &Provider{Provider: base}
}
