// Package openai implements the OpenAI backend adapter.
package openai

import (
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/providers/openaicompat"
)

// DefaultModel is used when neither request nor config names a model.
const DefaultModel = "gpt-4o"

// Config configures the OpenAI provider.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider is the OpenAI adapter: the shared chat-completions base with
// OpenAI defaults.
type Provider struct {
	*openaicompat.Provider
}

// New creates an OpenAI provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Provider{
		Provider: openaicompat.New(openaicompat.Config{
			ProviderName: "openai",
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		}, logger),
	}
}
