package providers

import (
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/llm"
	"github.com/BaSui01/dynabaml/providers/anthropic"
	"github.com/BaSui01/dynabaml/providers/ollama"
	"github.com/BaSui01/dynabaml/providers/openai"
	"github.com/BaSui01/dynabaml/providers/openrouter"
	"github.com/BaSui01/dynabaml/types"
)

// BuilderFunc constructs a configured provider from validated options.
type BuilderFunc func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error)

// Registry is an immutable mapping from provider identifiers to builders.
// It is constructed once at startup and only read afterwards, so it is safe
// to share across concurrent invocations.
type Registry struct {
	builders map[types.ProviderID]BuilderFunc
}

// NewRegistry copies the given builder map into an immutable registry.
func NewRegistry(builders map[types.ProviderID]BuilderFunc) *Registry {
	m := make(map[types.ProviderID]BuilderFunc, len(builders))
	for id, fn := range builders {
		m[id] = fn
	}
	return &Registry{builders: m}
}

// Lookup returns the builder registered for id.
func (r *Registry) Lookup(id types.ProviderID) (BuilderFunc, bool) {
	fn, ok := r.builders[id]
	return fn, ok
}

// IDs returns the sorted identifiers of all registered builders.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.builders))
	for id := range r.builders {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns the registry of built-in backends.
func DefaultRegistry() *Registry {
	return NewRegistry(map[types.ProviderID]BuilderFunc{
		types.ProviderOllama: func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error) {
			return ollama.New(ollama.Config{
				BaseURL: opts.BaseURL,
				Model:   opts.Model,
				Timeout: opts.Timeout,
			}, logger), nil
		},
		types.ProviderOpenAI: func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error) {
			key, err := resolveAPIKey(opts.APIKey, "OPENAI_API_KEY", types.ProviderOpenAI)
			if err != nil {
				return nil, err
			}
			return openai.New(openai.Config{
				APIKey:  key,
				BaseURL: opts.BaseURL,
				Model:   opts.Model,
				Timeout: opts.Timeout,
			}, logger), nil
		},
		types.ProviderAnthropic: func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error) {
			key, err := resolveAPIKey(opts.APIKey, "ANTHROPIC_API_KEY", types.ProviderAnthropic)
			if err != nil {
				return nil, err
			}
			return anthropic.New(anthropic.Config{
				APIKey:  key,
				BaseURL: opts.BaseURL,
				Model:   opts.Model,
				Timeout: opts.Timeout,
			}, logger), nil
		},
		types.ProviderOpenRouter: func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error) {
			key, err := resolveAPIKey(opts.APIKey, "OPENROUTER_API_KEY", types.ProviderOpenRouter)
			if err != nil {
				return nil, err
			}
			return openrouter.New(openrouter.Config{
				APIKey:  key,
				BaseURL: opts.BaseURL,
				Model:   opts.Model,
				Timeout: opts.Timeout,
			}, logger), nil
		},
	})
}

// resolveAPIKey prefers the explicit option and falls back to the
// conventional environment variable.
func resolveAPIKey(explicit, envVar string, id types.ProviderID) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", types.NewError(types.ErrConfiguration,
		string(id)+" API key not found; set the "+envVar+" environment variable or the api_key option").
		WithFragment("api_key").
		WithProvider(string(id))
}
