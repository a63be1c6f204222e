package vorbis

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of *logrus.Logger the decoder calls for non-fatal,
// informational events: packets that follow a page resync, missing framing
// bits, malformed comment fields, floor end-of-packet clamps. Residue
// end-of-packet clamps are not reported. It is never consulted for control
// flow.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// discardLogger is substituted when no logger is supplied, so call sites
// never need a nil check.
func discardLogger() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
