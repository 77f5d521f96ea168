package captions

import "errors"

// ErrNegativeDuration indicates a negative audio duration was passed to the
// segmenter. This is a caller contract violation, never retried.
var ErrNegativeDuration = errors.New("audio duration must not be negative")

// ErrMalformedSRT indicates an SRT stream could not be parsed.
var ErrMalformedSRT = errors.New("malformed SRT data")
