// Package openrouter implements the OpenRouter backend adapter through the
// shared OpenAI-compatible base.
package openrouter

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/providers/openaicompat"
)

// DefaultModel is used when neither request nor config names a model.
const DefaultModel = "google/gemini-2.0-flash-exp"

// Config configures the OpenRouter provider.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider is the OpenRouter adapter.
type Provider struct {
	*openaicompat.Provider
}

// New creates an OpenRouter provider. OpenRouter expects attribution
// headers alongside the Bearer token.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	base := openaicompat.New(openaicompat.Config{
		ProviderName: "openrouter",
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		DefaultModel: cfg.Model,
		Timeout:      cfg.Timeout,
	}, logger)
	base.SetBuildHeaders(func(req *http.Request, apiKey string) {
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("HTTP-Referer", "https://github.com/BaSui01/dynabaml")
		req.Header.Set("X-Title", "dynabaml")
	})
	return &Provider{Provider: base}
}
