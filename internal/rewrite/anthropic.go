package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/apierr"
)

// Anthropic API configuration.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"

	defaultAnthropicModel     = "claude-3-haiku-20240307"
	defaultAnthropicMaxTokens = 1024

	defaultAnthropicMaxRetries  = 3
	defaultAnthropicBaseDelay   = 1 * time.Second
	defaultAnthropicMaxDelay    = 30 * time.Second
	defaultAnthropicHTTPTimeout = 2 * time.Minute

	// Response size limit to prevent OOM from malformed responses (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Rewriter = (*AnthropicRewriter)(nil)

// AnthropicRewriter paraphrases stories using Anthropic's Messages API.
// Transient failures (rate limits, timeouts, server errors) are retried
// with exponential backoff.
type AnthropicRewriter struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	backoff    apierr.Backoff
	httpClient httpDoer
}

// AnthropicOption configures an AnthropicRewriter.
type AnthropicOption func(*AnthropicRewriter)

// WithAnthropicModel sets the model used for rewriting.
func WithAnthropicModel(model string) AnthropicOption {
	return func(r *AnthropicRewriter) {
		r.model = model
	}
}

// WithAnthropicMaxTokens sets the response token budget.
func WithAnthropicMaxTokens(n int) AnthropicOption {
	return func(r *AnthropicRewriter) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

// WithAnthropicBackoff sets the retry behavior for transient failures.
func WithAnthropicBackoff(b apierr.Backoff) AnthropicOption {
	return func(r *AnthropicRewriter) {
		r.backoff = b
	}
}

// WithAnthropicBaseURL sets a custom base URL (for testing or proxies).
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(r *AnthropicRewriter) {
		r.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithAnthropicHTTPClient sets a custom HTTP client (for testing).
func WithAnthropicHTTPClient(c httpDoer) AnthropicOption {
	return func(r *AnthropicRewriter) {
		r.httpClient = c
	}
}

// NewAnthropicRewriter creates an AnthropicRewriter. apiKey is required;
// returns ErrEmptyAPIKey when it is empty.
func NewAnthropicRewriter(apiKey string, opts ...AnthropicOption) (*AnthropicRewriter, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	r := &AnthropicRewriter{
		apiKey:    apiKey,
		baseURL:   defaultAnthropicBaseURL,
		model:     defaultAnthropicModel,
		maxTokens: defaultAnthropicMaxTokens,
		backoff: apierr.Backoff{
			MaxRetries: defaultAnthropicMaxRetries,
			BaseDelay:  defaultAnthropicBaseDelay,
			MaxDelay:   defaultAnthropicMaxDelay,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: defaultAnthropicHTTPTimeout}
	}
	return r, nil
}

// Rewrite sends the story through the Messages API and returns the
// paraphrased script.
func (r *AnthropicRewriter) Rewrite(ctx context.Context, originalText string, targetWords int) (string, error) {
	if strings.TrimSpace(originalText) == "" {
		return "", ErrEmptyStory
	}

	req := anthropicRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(originalText, targetWords)},
		},
	}

	return apierr.Do(ctx, r.backoff, func() (string, error) {
		resp, err := r.callAPI(ctx, req)
		if err != nil {
			return "", classifyAnthropicError(err)
		}
		for _, block := range resp.Content {
			if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
				return strings.TrimSpace(block.Text), nil
			}
		}
		return "", ErrEmptyResponse
	}, isRetryableAnthropicError)
}

// Anthropic Messages API request/response types.

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// anthropicErrorResponse represents the JSON error envelope from Anthropic.
type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// callAPI makes one HTTP request to the Messages endpoint.
func (r *AnthropicRewriter) callAPI(ctx context.Context, reqBody anthropicRequest) (_ *anthropicResponse, err error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := r.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", r.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAnthropicError(resp.StatusCode, respBody)
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// anthropicAPIError represents a typed Anthropic API error.
type anthropicAPIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *anthropicAPIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Anthropic API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("Anthropic API error %d", e.StatusCode)
}

// parseAnthropicError parses an error response body into a typed error.
func parseAnthropicError(statusCode int, body []byte) *anthropicAPIError {
	var errResp anthropicErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &anthropicAPIError{
			StatusCode: statusCode,
			Message:    string(body),
		}
	}

	return &anthropicAPIError{
		StatusCode: statusCode,
		Message:    errResp.Error.Message,
		Type:       errResp.Error.Type,
	}
}

// classifyAnthropicError maps API errors to apierr sentinel errors.
func classifyAnthropicError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropicAPIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, 529: // Anthropic "overloaded"
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest:
			if strings.Contains(apiErr.Message, "credit") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryableAnthropicError determines if an error is transient.
func isRetryableAnthropicError(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return false
}
