package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BaSui01/dynabaml/types"
)

// MapHTTPError translates a backend HTTP failure into the shared taxonomy.
// The backend error body is preserved as the diagnostic payload and never
// surfaced as a different error kind. Retryability follows the transient
// classes: rate limiting, overload and 5xx.
func MapHTTPError(status int, body, provider string) *types.Error {
	msg := fmt.Sprintf("%s API error %d", provider, status)
	e := types.NewError(types.ErrLLMProvider, msg).
		WithHTTPStatus(status).
		WithProvider(provider).
		WithDiagnostic(body)

	switch status {
	case http.StatusTooManyRequests:
		return e.WithRetryable(true)
	case 529: // anthropic-style overload status
		return e.WithRetryable(true)
	case http.StatusBadRequest:
		// Quota and credit exhaustion arrives as 400 on some backends;
		// either way it will not succeed on retry.
		return e.WithRetryable(false)
	case http.StatusUnauthorized, http.StatusForbidden:
		return e.WithRetryable(false)
	default:
		return e.WithRetryable(status >= 500)
	}
}

// MapTransportError translates connection-level failures. Context deadline
// and timeout-ish transport errors become TIMEOUT so callers can apply
// backoff only to transient cases; everything else is a retryable
// LLM_PROVIDER error.
func MapTransportError(err error, provider string, elapsed, configured time.Duration) *types.Error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return types.NewError(types.ErrTimeout,
			fmt.Sprintf("%s request timed out after %s", provider, elapsed.Round(time.Millisecond))).
			WithProvider(provider).
			WithTiming(elapsed, configured).
			WithRetryable(true).
			WithCause(err)
	}
	if errors.Is(err, context.Canceled) {
		return types.NewError(types.ErrLLMProvider,
			fmt.Sprintf("%s request canceled", provider)).
			WithProvider(provider).
			WithCause(err)
	}
	return types.NewError(types.ErrLLMProvider,
		fmt.Sprintf("%s connection error", provider)).
		WithProvider(provider).
		WithRetryable(true).
		WithCause(err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	// net/http wraps client timeouts into url.Error with this text.
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
