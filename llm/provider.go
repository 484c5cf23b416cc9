// Package llm defines the uniform calling contract every backend adapter
// implements, plus the shared retry wrapper and error translation helpers.
package llm

import (
	"context"
	"time"
)

// Request is the uniform invocation payload handed to a provider adapter.
// OutputFormat carries the compiled schema rendered as response-format
// instructions; adapters append it to the prompt verbatim.
type Request struct {
	Prompt       string
	OutputFormat string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// Usage reports token accounting when the backend returns it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RawResult is the untyped backend response before schema validation.
type RawResult struct {
	Content  string
	Model    string
	Provider string
	Usage    Usage
}

// HealthStatus reports the outcome of a connectivity probe.
type HealthStatus struct {
	Healthy bool
	Latency time.Duration
}

// Provider is the adapter contract shared by all backends. Invoke must
// honor ctx cancellation and deadline, and translate every backend-specific
// failure into the types.Error taxonomy (LLM_PROVIDER or TIMEOUT).
type Provider interface {
	Name() string
	Invoke(ctx context.Context, req *Request) (*RawResult, error)
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}
