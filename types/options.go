package types

import (
	"fmt"
	"time"
)

// ProviderID identifies a supported LLM backend.
type ProviderID string

const (
	ProviderOllama     ProviderID = "ollama"
	ProviderOpenAI     ProviderID = "openai"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderOpenRouter ProviderID = "openrouter"
)

// KnownProviders lists every supported backend in stable order.
func KnownProviders() []ProviderID {
	return []ProviderID{ProviderAnthropic, ProviderOllama, ProviderOpenAI, ProviderOpenRouter}
}

// Valid reports whether the identifier names a supported backend.
func (p ProviderID) Valid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		return true
	}
	return false
}

// LogLevel controls pipeline logging verbosity.
type LogLevel string

const (
	LogOff   LogLevel = "off"
	LogError LogLevel = "error"
	LogWarn  LogLevel = "warn"
	LogInfo  LogLevel = "info"
	LogDebug LogLevel = "debug"
	LogTrace LogLevel = "trace"
)

// Valid reports whether the level is one of the recognized values.
// The empty level is valid and treated as off.
func (l LogLevel) Valid() bool {
	switch l {
	case "", LogOff, LogError, LogWarn, LogInfo, LogDebug, LogTrace:
		return true
	}
	return false
}

// ProviderOptions configures one pipeline invocation: which backend to call,
// how, and how the run should log. Validated once at provider construction
// and immutable afterwards.
type ProviderOptions struct {
	Provider    ProviderID    `yaml:"provider" json:"provider"`
	Model       string        `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey      string        `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Temperature float64       `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens   int           `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RetryCount  int           `yaml:"retry_count,omitempty" json:"retry_count,omitempty"`
	LogLevel    LogLevel      `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogPath     string        `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// Validate checks option values and returns a CONFIGURATION error naming the
// offending option. It does not check credentials; those are provider
// specific and verified by the factory.
func (o *ProviderOptions) Validate() error {
	if o.Provider == "" {
		return NewError(ErrConfiguration, "provider is required").WithFragment("provider")
	}
	if !o.Provider.Valid() {
		return NewError(ErrConfiguration, fmt.Sprintf("unknown provider type: %s", o.Provider)).
			WithFragment(string(o.Provider))
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		return NewError(ErrConfiguration, fmt.Sprintf("temperature %v out of range [0, 2]", o.Temperature)).
			WithFragment(o.Temperature)
	}
	if o.MaxTokens < 0 {
		return NewError(ErrConfiguration, fmt.Sprintf("max_tokens must be non-negative, got %d", o.MaxTokens)).
			WithFragment(o.MaxTokens)
	}
	if o.Timeout < 0 {
		return NewError(ErrConfiguration, fmt.Sprintf("timeout must be non-negative, got %v", o.Timeout)).
			WithFragment(o.Timeout.String())
	}
	if o.RetryCount < 0 {
		return NewError(ErrConfiguration, fmt.Sprintf("retry_count must be non-negative, got %d", o.RetryCount)).
			WithFragment(o.RetryCount)
	}
	if !o.LogLevel.Valid() {
		return NewError(ErrConfiguration, fmt.Sprintf("unknown log level: %s", o.LogLevel)).
			WithFragment(string(o.LogLevel))
	}
	return nil
}
