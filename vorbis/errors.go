package vorbis

import "errors"

var (
	// ErrTruncated signals a header or packet ran out of bytes where the
	// format requires more.
	ErrTruncated = errors.New("vorbis: truncated stream")
	// ErrCorrupt signals a structural violation: a bad sync pattern,
	// reserved field set, or a decode that can't resolve to any symbol.
	ErrCorrupt = errors.New("vorbis: corrupt stream")
	// ErrNotSeekable signals a seek was requested against a stream whose
	// packet provider carries no granule-positioned pages.
	ErrNotSeekable = errors.New("vorbis: source is not seekable")
	// ErrInvalidArgument signals a caller-supplied argument (seek target,
	// buffer) outside the operation's accepted domain.
	ErrInvalidArgument = errors.New("vorbis: invalid argument")
)

// NotVorbisError reports that a header packet carried a valid Vorbis
// header-type byte but a six-byte codec tag other than "vorbis"; Codec
// holds those six bytes as found. A packet whose first byte is not a
// Vorbis header type is reported as ErrCorrupt instead, and other codecs
// are not identified by name.
type NotVorbisError struct {
	Codec string
}

func (e *NotVorbisError) Error() string {
	if e.Codec == "" {
		return "vorbis: not a vorbis stream"
	}
	return "vorbis: not a vorbis stream (found " + e.Codec + ")"
}
