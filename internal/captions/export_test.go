package captions

// Internal functions exposed for black-box tests.
var (
	ReverseHex       = reverseHex
	EscapeFilterPath = escapeFilterPath
)
