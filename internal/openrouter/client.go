package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const completionsPath = "/chat/completions"

// Attribution headers shown on the OpenRouter activity dashboard.
const (
	appReferer = "https://github.com/legistyr/termbench"
	appTitle   = "termbench"
)

const (
	defaultMaxTokens = 1000
	defaultTimeout   = 30 * time.Second
	defaultTopP      = 0.9
)

// Config carries the per-run parameters of a Client.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// BaseURL overrides the API root. Empty means DefaultBaseURL.
	BaseURL string
	// Timeout bounds a single attempt, not the whole retry sequence.
	Timeout time.Duration
	Retry   Policy
}

// Client calls the OpenRouter chat completions API via direct HTTP. The
// request carries fields the upstream SDKs do not model (data collection
// opt-out, usage accounting, reasoning effort), so the wire types are owned
// here.
type Client struct {
	cfg   Config
	hc    *http.Client
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client, filling unset Config fields with defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultPolicy()
	}
	return &Client{
		cfg:   cfg,
		hc:    &http.Client{Timeout: cfg.Timeout},
		sleep: sleepContext,
	}
}

type chatRequest struct {
	Model          string           `json:"model"`
	MaxTokens      int              `json:"max_tokens"`
	Temperature    float64          `json:"temperature"`
	TopP           float64          `json:"top_p"`
	DataCollection string           `json:"data_collection"`
	Messages       []Message        `json:"messages"`
	Usage          usageOptions     `json:"usage"`
	Reasoning      reasoningOptions `json:"reasoning"`
}

type usageOptions struct {
	Include bool `json:"include"`
}

type reasoningOptions struct {
	Effort  string `json:"effort"`
	Exclude bool   `json:"exclude"`
}

type chatResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []chatChoice   `json:"choices"`
	Usage   *chatUsage     `json:"usage"`
	Error   *errorEnvelope `json:"error,omitempty"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning"`
}

type chatUsage struct {
	PromptTokens            int                      `json:"prompt_tokens"`
	CompletionTokens        int                      `json:"completion_tokens"`
	Cost                    *float64                 `json:"cost"`
	CostDetails             *costDetails             `json:"cost_details"`
	CompletionTokensDetails *completionTokensDetails `json:"completion_tokens_details"`
}

type costDetails struct {
	UpstreamInferenceCompletionsCost *float64 `json:"upstream_inference_completions_cost"`
}

type completionTokensDetails struct {
	ReasoningTokens *int `json:"reasoning_tokens"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Complete runs one chat completion, retrying transient failures per the
// configured policy. Permanent failures and context cancellation return
// immediately.
func (c *Client) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retry.MaxAttempts; attempt++ {
		comp, err := c.post(ctx, messages)
		if err == nil {
			return comp, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return nil, err
		}
		if attempt == c.cfg.Retry.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, c.cfg.Retry.Delay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.cfg.Retry.MaxAttempts, lastErr)
}

// post performs a single attempt against the completions endpoint.
func (c *Client) post(ctx context.Context, messages []Message) (*Completion, error) {
	apiReq := chatRequest{
		Model:          c.cfg.Model,
		MaxTokens:      c.cfg.MaxTokens,
		Temperature:    c.cfg.Temperature,
		TopP:           defaultTopP,
		DataCollection: "deny",
		Messages:       messages,
		Usage:          usageOptions{Include: true},
		Reasoning:      reasoningOptions{Effort: "low", Exclude: false},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("HTTP-Referer", appReferer)
	httpReq.Header.Set("X-Title", appTitle)

	httpResp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The API reports some provider failures inside a 200 body.
	if apiResp.Error != nil {
		status := apiResp.Error.Code
		if status == 0 {
			status = httpResp.StatusCode
		}
		return nil, &APIError{StatusCode: status, Message: apiResp.Error.Message}
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	choice := apiResp.Choices[0]
	comp := &Completion{
		Text:         choice.Message.Content,
		Reasoning:    choice.Message.Reasoning,
		Model:        apiResp.Model,
		FinishReason: choice.FinishReason,
	}
	if u := apiResp.Usage; u != nil {
		comp.PromptTokens = u.PromptTokens
		comp.OutputTokens = u.CompletionTokens
		comp.Cost = u.Cost
		if u.CostDetails != nil && u.CostDetails.UpstreamInferenceCompletionsCost != nil {
			comp.Cost = u.CostDetails.UpstreamInferenceCompletionsCost
		}
		if u.CompletionTokensDetails != nil {
			comp.ReasoningTokens = u.CompletionTokensDetails.ReasoningTokens
		}
	}
	return comp, nil
}

// errorMessage pulls the message out of an error body, falling back to the
// raw body when it is not the usual JSON envelope.
func errorMessage(body []byte) string {
	var envelope struct {
		Error errorEnvelope `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(bytes.TrimSpace(body))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
