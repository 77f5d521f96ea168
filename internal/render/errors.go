package render

import "errors"

// ErrFileNotFound indicates a required input file (background footage or
// narration audio) does not exist at render time. The wrapped message names
// the missing path.
var ErrFileNotFound = errors.New("required file not found")

// ErrNoOutput indicates the renderer reported success but the output file
// is absent. Treated as a hard error, never ignored.
var ErrNoOutput = errors.New("renderer produced no output file")
