// Package apierr holds shared sentinel errors and retry support for the
// HTTP-based provider clients (story rewriters, API speech synthesis).
// Providers classify their typed errors into these sentinels at the adapter
// boundary; callers check with errors.Is.
package apierr

import "errors"

var (
	// ErrRateLimit indicates the API rate limit was hit (transient, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates an exhausted quota or billing problem (not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAuthFailed indicates the API rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTimeout indicates a request timed out or the server errored transiently.
	ErrTimeout = errors.New("request timeout")

	// ErrBadRequest indicates an unclassified client-side error.
	ErrBadRequest = errors.New("bad request")
)
