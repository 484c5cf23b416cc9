package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode classifies a failure across the library.
type ErrorCode string

const (
	ErrSchemaGeneration ErrorCode = "SCHEMA_GENERATION"
	ErrConfiguration    ErrorCode = "CONFIGURATION"
	ErrBAMLCompilation  ErrorCode = "BAML_COMPILATION"
	ErrLLMProvider      ErrorCode = "LLM_PROVIDER"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrResponseParsing  ErrorCode = "RESPONSE_PARSING"
	ErrUnknown          ErrorCode = "UNKNOWN"
)

// wireNames are the error_type strings exposed by the safe-call envelope.
var wireNames = map[ErrorCode]string{
	ErrSchemaGeneration: "schema_generation",
	ErrConfiguration:    "configuration",
	ErrBAMLCompilation:  "baml_compilation",
	ErrLLMProvider:      "llm_provider",
	ErrTimeout:          "timeout",
	ErrResponseParsing:  "response_parsing",
	ErrUnknown:          "unknown",
}

// WireName returns the envelope error_type string for the code.
func (c ErrorCode) WireName() string {
	if n, ok := wireNames[c]; ok {
		return n
	}
	return wireNames[ErrUnknown]
}

// Error is the structured failure type shared by every package. Besides the
// code and message it carries kind-specific diagnostic payloads so callers
// never need to parse messages:
//
//   - Fragment:   the offending schema fragment or option value
//   - Diagnostic: compiler output, backend error body, or raw payload
//   - TypePath:   the expected type path for parsing failures
//   - Elapsed / ConfiguredTimeout: timing detail for timeout failures
type Error struct {
	Code              ErrorCode     `json:"code"`
	Message           string        `json:"message"`
	HTTPStatus        int           `json:"http_status,omitempty"`
	Retryable         bool          `json:"retryable"`
	Provider          string        `json:"provider,omitempty"`
	Fragment          any           `json:"fragment,omitempty"`
	Diagnostic        string        `json:"diagnostic,omitempty"`
	TypePath          string        `json:"type_path,omitempty"`
	Elapsed           time.Duration `json:"elapsed,omitempty"`
	ConfiguredTimeout time.Duration `json:"configured_timeout,omitempty"`
	Cause             error         `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause attaches the underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the upstream HTTP status.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as transient.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider records which provider produced the failure.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// WithFragment attaches the offending schema fragment or option.
func (e *Error) WithFragment(fragment any) *Error {
	e.Fragment = fragment
	return e
}

// WithDiagnostic attaches raw diagnostic text (compiler output, backend
// error body, raw payload).
func (e *Error) WithDiagnostic(diag string) *Error {
	e.Diagnostic = diag
	return e
}

// WithTypePath records the expected type path of a parsing failure.
func (e *Error) WithTypePath(path string) *Error {
	e.TypePath = path
	return e
}

// WithTiming records elapsed time against the configured timeout.
func (e *Error) WithTiming(elapsed, configured time.Duration) *Error {
	e.Elapsed = elapsed
	e.ConfiguredTimeout = configured
	return e
}

// AsError extracts a *Error from err, wrapping foreign errors as ErrUnknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(ErrUnknown, err.Error()).WithCause(err)
}

// IsRetryable reports whether err is marked transient.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the code from an error, or ErrUnknown for foreign
// errors and "" for nil.
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}
