package rewrite

import "errors"

var (
	// ErrEmptyAPIKey indicates that the API key was not provided.
	ErrEmptyAPIKey = errors.New("API key is required")

	// ErrEmptyStory indicates there was no text to rewrite.
	ErrEmptyStory = errors.New("story text is empty")

	// ErrEmptyResponse indicates the provider returned no usable script.
	ErrEmptyResponse = errors.New("provider returned an empty script")
)
