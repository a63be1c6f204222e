package ogg

import "errors"

var (
	// ErrCorrupt signals a CRC mismatch or structural violation that could
	// not be resynced within the scan window.
	ErrCorrupt = errors.New("ogg: corrupt stream")
	// ErrTruncated signals the source ran out of bytes mid-header or
	// mid-page.
	ErrTruncated = errors.New("ogg: truncated stream")
	// ErrNotSeekable signals a seek was requested on a non-seekable source.
	ErrNotSeekable = errors.New("ogg: source is not seekable")
	// ErrEndOfPacket signals a bit read ran past the end of the current
	// packet's payload. It is informational: callers treat the remainder
	// of the packet as zero-filled.
	ErrEndOfPacket = errors.New("ogg: end-of-packet condition")
)
