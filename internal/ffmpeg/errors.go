package ffmpeg

import "errors"

// ErrToolNotFound indicates a required external binary (ffmpeg or ffprobe)
// is not available on the execution path.
var ErrToolNotFound = errors.New("tool not found")

// ErrToolFailed indicates an external tool exited non-zero. The wrapped
// message carries the tool's captured stderr verbatim.
var ErrToolFailed = errors.New("tool failed")

// ErrProbeParse indicates ffprobe output could not be interpreted.
var ErrProbeParse = errors.New("cannot parse probe output")
