package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/apierr"
)

// OpenAI configuration.
const (
	defaultOpenAIModel     = "gpt-3.5-turbo"
	defaultOpenAIMaxTokens = 1024

	defaultOpenAIMaxRetries = 3
	defaultOpenAIBaseDelay  = 1 * time.Second
	defaultOpenAIMaxDelay   = 30 * time.Second
)

// chatCompleter abstracts the go-openai client for testing.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Rewriter      = (*OpenAIRewriter)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAIRewriter paraphrases stories using OpenAI's chat completion API
// through the go-openai client. Transient failures are retried with
// exponential backoff.
type OpenAIRewriter struct {
	client    chatCompleter
	model     string
	maxTokens int
	backoff   apierr.Backoff
}

// OpenAIOption configures an OpenAIRewriter.
type OpenAIOption func(*OpenAIRewriter)

// WithOpenAIModel sets the model used for rewriting.
func WithOpenAIModel(model string) OpenAIOption {
	return func(r *OpenAIRewriter) {
		r.model = model
	}
}

// WithOpenAIMaxTokens sets the response token budget.
func WithOpenAIMaxTokens(n int) OpenAIOption {
	return func(r *OpenAIRewriter) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

// WithOpenAIBackoff sets the retry behavior for transient failures.
func WithOpenAIBackoff(b apierr.Backoff) OpenAIOption {
	return func(r *OpenAIRewriter) {
		r.backoff = b
	}
}

// WithOpenAIClient sets a custom chat completion client (for testing).
func WithOpenAIClient(c chatCompleter) OpenAIOption {
	return func(r *OpenAIRewriter) {
		r.client = c
	}
}

// NewOpenAIRewriter creates an OpenAIRewriter backed by the given API key.
func NewOpenAIRewriter(apiKey string, opts ...OpenAIOption) *OpenAIRewriter {
	r := &OpenAIRewriter{
		model:     defaultOpenAIModel,
		maxTokens: defaultOpenAIMaxTokens,
		backoff: apierr.Backoff{
			MaxRetries: defaultOpenAIMaxRetries,
			BaseDelay:  defaultOpenAIBaseDelay,
			MaxDelay:   defaultOpenAIMaxDelay,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = openai.NewClient(apiKey)
	}
	return r
}

// Rewrite sends the story through the chat completion API and returns the
// paraphrased script.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, originalText string, targetWords int) (string, error) {
	if strings.TrimSpace(originalText) == "" {
		return "", ErrEmptyStory
	}

	req := openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(originalText, targetWords)},
		},
	}

	return apierr.Do(ctx, r.backoff, func() (string, error) {
		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		script := strings.TrimSpace(resp.Choices[0].Message.Content)
		if script == "" {
			return "", ErrEmptyResponse
		}
		return script, nil
	}, isRetryableOpenAIError)
}

// classifyOpenAIError maps go-openai errors to apierr sentinel errors.
func classifyOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout,
			http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryableOpenAIError determines if an error is transient.
func isRetryableOpenAIError(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}
	return false
}
