package format

import "errors"

var (
	// ErrTruncated indicates the window lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated window")
	// ErrZeroSize indicates a header declared a zero block size.
	ErrZeroSize = errors.New("format: zero-size header")
	// ErrBadFlags indicates a header carried flag bits this code does not know.
	ErrBadFlags = errors.New("format: unknown flag bits")
	// ErrRange indicates a rounding computation left the representable range.
	ErrRange = errors.New("format: value out of range")
)
