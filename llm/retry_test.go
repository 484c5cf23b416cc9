package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/dynabaml/types"
)

// scriptedProvider fails a fixed number of times before succeeding.
type scriptedProvider struct {
	failures int
	failWith error
	calls    int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Invoke(ctx context.Context, req *Request) (*RawResult, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, s.failWith
	}
	return &RawResult{Content: "ok", Provider: s.Name()}, nil
}

func (s *scriptedProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return &HealthStatus{Healthy: true}, nil
}

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:    maxRetries,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &scriptedProvider{
		failures: 2,
		failWith: types.NewError(types.ErrLLMProvider, "overloaded").WithRetryable(true),
	}
	p := NewRetryableProvider(inner, fastRetry(3), nil)

	res, err := p.Invoke(context.Background(), &Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Content)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	inner := &scriptedProvider{
		failures: 10,
		failWith: types.NewError(types.ErrLLMProvider, "invalid api key").WithRetryable(false),
	}
	p := NewRetryableProvider(inner, fastRetry(3), nil)

	_, err := p.Invoke(context.Background(), &Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls, "non-retryable errors must not be retried")
}

func TestRetryExhaustsBudget(t *testing.T) {
	inner := &scriptedProvider{
		failures: 10,
		failWith: types.NewError(types.ErrTimeout, "slow backend").WithRetryable(true),
	}
	p := NewRetryableProvider(inner, fastRetry(2), nil)

	_, err := p.Invoke(context.Background(), &Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, types.ErrTimeout, types.GetErrorCode(err))
	// initial attempt plus two retries
	assert.Equal(t, 3, inner.calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	inner := &scriptedProvider{
		failures: 10,
		failWith: types.NewError(types.ErrLLMProvider, "flaky").WithRetryable(true),
	}
	cfg := RetryConfig{
		MaxRetries:    5,
		InitialDelay:  time.Minute, // sleep must be interrupted, not served
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
	}
	p := NewRetryableProvider(inner, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := p.Invoke(ctx, &Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, inner.calls)
}

func TestCalculateDelayCapped(t *testing.T) {
	p := NewRetryableProvider(&scriptedProvider{}, RetryConfig{
		MaxRetries:    8,
		InitialDelay:  time.Second,
		MaxDelay:      4 * time.Second,
		BackoffFactor: 2.0,
	}, nil)

	assert.Equal(t, time.Second, p.calculateDelay(1))
	assert.Equal(t, 2*time.Second, p.calculateDelay(2))
	assert.Equal(t, 4*time.Second, p.calculateDelay(3))
	assert.Equal(t, 4*time.Second, p.calculateDelay(8))
}
