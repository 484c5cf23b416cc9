package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ProviderOptions
		wantErr bool
	}{
		{"minimal valid", ProviderOptions{Provider: ProviderOllama}, false},
		{
			"full valid",
			ProviderOptions{
				Provider:    ProviderOpenAI,
				Model:       "gpt-4o",
				Temperature: 0.7,
				MaxTokens:   2048,
				Timeout:     30 * time.Second,
				RetryCount:  2,
				LogLevel:    LogDebug,
			},
			false,
		},
		{"missing provider", ProviderOptions{}, true},
		{"unknown provider", ProviderOptions{Provider: "unknown-x"}, true},
		{"negative temperature", ProviderOptions{Provider: ProviderOllama, Temperature: -0.1}, true},
		{"temperature too high", ProviderOptions{Provider: ProviderOllama, Temperature: 2.5}, true},
		{"negative max tokens", ProviderOptions{Provider: ProviderOllama, MaxTokens: -1}, true},
		{"negative timeout", ProviderOptions{Provider: ProviderOllama, Timeout: -time.Second}, true},
		{"negative retry count", ProviderOptions{Provider: ProviderOllama, RetryCount: -1}, true},
		{"bad log level", ProviderOptions{Provider: ProviderOllama, LogLevel: "verbose"}, true},
		{"empty log level ok", ProviderOptions{Provider: ProviderOllama, LogLevel: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, ErrConfiguration, GetErrorCode(err))
		})
	}
}

func TestKnownProviders(t *testing.T) {
	ids := KnownProviders()
	assert.Len(t, ids, 4)
	for _, id := range ids {
		assert.True(t, id.Valid(), string(id))
	}
	assert.False(t, ProviderID("mistral").Valid())
}
