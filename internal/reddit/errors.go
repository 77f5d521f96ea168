package reddit

import "errors"

var (
	// ErrMissingCredentials indicates client ID or secret was not provided.
	ErrMissingCredentials = errors.New("reddit credentials are required")

	// ErrNotRewritten indicates a story's original text was requested for
	// export before it was paraphrased. Original Reddit content never leaves
	// the pipeline directly.
	ErrNotRewritten = errors.New("story has not been rewritten")

	// ErrPostNotFound indicates the requested post does not exist or is not
	// a usable text post.
	ErrPostNotFound = errors.New("post not found")

	// ErrRequestFailed indicates the Reddit API rejected a request.
	ErrRequestFailed = errors.New("reddit request failed")
)
