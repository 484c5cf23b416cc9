package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrLLMProvider, "backend call failed").
		WithProvider("openai").
		WithHTTPStatus(500).
		WithRetryable(true)

	assert.Equal(t, "[LLM_PROVIDER] backend call failed", err.Error())
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrLLMProvider, GetErrorCode(err))

	cause := errors.New("connection refused")
	err = err.WithCause(cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWireNames(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrSchemaGeneration, "schema_generation"},
		{ErrConfiguration, "configuration"},
		{ErrBAMLCompilation, "baml_compilation"},
		{ErrLLMProvider, "llm_provider"},
		{ErrTimeout, "timeout"},
		{ErrResponseParsing, "response_parsing"},
		{ErrUnknown, "unknown"},
		{ErrorCode("SOMETHING_ELSE"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.WireName(), string(tt.code))
	}
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	typed := NewError(ErrTimeout, "too slow")
	assert.Same(t, typed, AsError(typed))

	wrapped := fmt.Errorf("outer: %w", typed)
	assert.Same(t, typed, AsError(wrapped))

	foreign := errors.New("plain")
	e := AsError(foreign)
	assert.Equal(t, ErrUnknown, e.Code)
	assert.Equal(t, "plain", e.Message)
	assert.Equal(t, foreign, errors.Unwrap(e))
}

func TestResultFromError(t *testing.T) {
	res := ResultFromError(NewError(ErrResponseParsing, "bad payload"))
	assert.False(t, res.Success)
	assert.Equal(t, "bad payload", res.Error)
	assert.Equal(t, "response_parsing", res.ErrorType)

	ok := ResultFromData(map[string]any{"a": 1})
	assert.True(t, ok.Success)
	assert.Empty(t, ok.ErrorType)
}
