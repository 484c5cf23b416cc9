// Package openaicompat implements the shared chat-completions adapter used
// by every OpenAI-style backend (OpenAI, OpenRouter, Ollama's OpenAI
// endpoint). Vendor packages embed Provider and override headers, paths and
// defaults.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/llm"
	"github.com/BaSui01/dynabaml/types"
)

// Config configures the shared adapter.
type Config struct {
	ProviderName string
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// Provider is an OpenAI-compatible chat-completions adapter.
type Provider struct {
	Cfg          Config
	client       *http.Client
	logger       *zap.Logger
	buildHeaders func(req *http.Request, apiKey string)
	chatPath     string
	modelsPath   string
}

// New creates a shared adapter with Bearer authentication and the standard
// /v1 paths. Vendors customize via SetBuildHeaders and SetPaths.
func New(cfg Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	p := &Provider{
		Cfg:        cfg,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("provider", cfg.ProviderName)),
		chatPath:   "/v1/chat/completions",
		modelsPath: "/v1/models",
	}
	p.buildHeaders = func(req *http.Request, apiKey string) {
		if apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+apiKey)
		}
		req.Header.Set("Content-Type", "application/json")
	}
	return p
}

// SetBuildHeaders replaces the header builder.
func (p *Provider) SetBuildHeaders(fn func(req *http.Request, apiKey string)) {
	p.buildHeaders = fn
}

// SetPaths overrides the chat and models endpoint paths.
func (p *Provider) SetPaths(chatPath, modelsPath string) {
	if chatPath != "" {
		p.chatPath = chatPath
	}
	if modelsPath != "" {
		p.modelsPath = modelsPath
	}
}

func (p *Provider) Name() string { return p.Cfg.ProviderName }

// Compile-time interface check.
var _ llm.Provider = (*Provider)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *llm.Usage   `json:"usage,omitempty"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Invoke performs a chat completion and returns the raw assistant text.
func (p *Provider) Invoke(ctx context.Context, req *llm.Request) (*llm.RawResult, error) {
	model := req.Model
	if model == "" {
		model = p.Cfg.DefaultModel
	}

	prompt := req.Prompt
	if req.OutputFormat != "" {
		prompt = prompt + "\n\n" + req.OutputFormat
	}

	body := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	payload, _ := json.Marshal(body)
	endpoint := strings.TrimRight(p.Cfg.BaseURL, "/") + p.chatPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrLLMProvider, "building request failed").
			WithProvider(p.Name()).WithCause(err)
	}
	p.buildHeaders(httpReq, p.Cfg.APIKey)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, llm.MapTransportError(err, p.Name(), time.Since(start), p.client.Timeout)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, llm.MapHTTPError(resp.StatusCode, readErrMsg(resp.Body), p.Name())
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, types.NewError(types.ErrLLMProvider, "decoding response failed").
			WithProvider(p.Name()).WithRetryable(true).WithCause(err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, types.NewError(types.ErrLLMProvider,
			fmt.Sprintf("no response choices returned from %s", p.Name())).
			WithProvider(p.Name())
	}

	result := &llm.RawResult{
		Content:  chatResp.Choices[0].Message.Content,
		Model:    chatResp.Model,
		Provider: p.Name(),
	}
	if chatResp.Usage != nil {
		result.Usage = *chatResp.Usage
	}

	p.logger.Debug("completion finished",
		zap.String("model", result.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("total_tokens", result.Usage.TotalTokens))
	return result, nil
}

// HealthCheck probes the models endpoint.
func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	endpoint := strings.TrimRight(p.Cfg.BaseURL, "/") + p.modelsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &llm.HealthStatus{Healthy: false}, err
	}
	p.buildHeaders(httpReq, p.Cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			fmt.Errorf("%s health check failed: status=%d msg=%s", p.Name(), resp.StatusCode, readErrMsg(resp.Body))
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

func readErrMsg(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		if errResp.Error.Type != "" {
			return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return errResp.Error.Message
	}
	return string(data)
}
