package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sr8e/go-ogg-vorbis/crc"
)

// Page header flag bits, per the Ogg framing spec.
const (
	FlagContinuation byte = 1 << 0
	FlagBOS          byte = 1 << 1
	FlagEOS          byte = 1 << 2
)

// capturePattern is the four-byte sync code that opens every Ogg page.
var capturePattern = [4]byte{'O', 'g', 'g', 'S'}

// maxResyncScan bounds how far the parser will scan for a fresh capture
// pattern before declaring the stream unrecoverable.
const maxResyncScan = 64 * 1024

// PageHeader is the decoded fixed header plus segment table of one Ogg page.
type PageHeader struct {
	Serial       uint32
	Sequence     uint32
	Granule      int64
	Flags        byte
	SegmentTable []byte
}

func (h PageHeader) IsContinuation() bool { return h.Flags&FlagContinuation != 0 }
func (h PageHeader) IsBOS() bool          { return h.Flags&FlagBOS != 0 }
func (h PageHeader) IsEOS() bool          { return h.Flags&FlagEOS != 0 }

// page is a fully parsed page: header plus the byte range of its payload in
// the underlying source. The payload itself is not retained — callers that
// need packet bytes re-read the source at payloadOffset.
type page struct {
	header        PageHeader
	offset        int64 // file offset of the capture pattern
	payloadOffset int64
	payloadLen    int
}

// pageScanner walks an io.ReadSeeker page by page, validating CRCs and
// resyncing past corruption. It is the sole owner of the source's read
// cursor while scanning.
type pageScanner struct {
	src       io.ReadSeeker
	pos       int64 // current read offset into src
	wasteBits int64 // bits skipped while resyncing, for diagnostics
}

func newPageScanner(src io.ReadSeeker) (*pageScanner, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &pageScanner{src: src, pos: pos}, nil
}

// next reads the page starting at the scanner's current position. If the
// bytes there do not form a valid page (bad capture pattern or CRC
// mismatch), it scans forward for the next capture pattern within
// maxResyncScan bytes and reports resync=true for the page it recovers.
// It returns io.EOF when the source is exhausted with no more pages.
func (s *pageScanner) next() (p page, resync bool, err error) {
	p, err = s.tryReadPage()
	if err == nil {
		return p, false, nil
	}
	if errors.Is(err, io.EOF) {
		return page{}, false, err
	}

	// lost sync: scan for the next capture pattern.
	scanned := int64(0)
	for scanned < maxResyncScan {
		p, err = s.tryReadPage()
		if err == nil {
			return p, true, nil
		}
		if errors.Is(err, io.EOF) {
			break
		}
		scanned++
		s.wasteBits += 8
	}
	return page{}, false, fmt.Errorf("ogg: no capture pattern found within %d bytes: %w", maxResyncScan, ErrCorrupt)
}

// tryReadPage attempts to parse exactly one page at the scanner's current
// position. On any structural failure it repositions the source one byte
// past where it started trying, so the caller can resume scanning byte by
// byte.
func (s *pageScanner) tryReadPage() (page, error) {
	start := s.pos
	hdr := make([]byte, 27)
	n, err := io.ReadFull(s.src, hdr)
	s.pos += int64(n)
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return page{}, io.EOF
		}
		return page{}, fmt.Errorf("ogg: %w: %v", ErrTruncated, err)
	}

	if hdr[0] != capturePattern[0] || hdr[1] != capturePattern[1] ||
		hdr[2] != capturePattern[2] || hdr[3] != capturePattern[3] {
		s.rewindTo(start + 1)
		return page{}, ErrCorrupt
	}
	if hdr[4] != 0 {
		s.rewindTo(start + 1)
		return page{}, fmt.Errorf("ogg: unsupported stream structure version %d: %w", hdr[4], ErrCorrupt)
	}

	flags := hdr[5]
	granule := int64(binary.LittleEndian.Uint64(hdr[6:14]))
	serial := binary.LittleEndian.Uint32(hdr[14:18])
	seq := binary.LittleEndian.Uint32(hdr[18:22])
	storedCRC := binary.LittleEndian.Uint32(hdr[22:26])
	segCount := int(hdr[26])

	segTable := make([]byte, segCount)
	n, err = io.ReadFull(s.src, segTable)
	s.pos += int64(n)
	if err != nil {
		return page{}, fmt.Errorf("ogg: %w: segment table: %v", ErrTruncated, err)
	}

	payloadLen := 0
	for _, l := range segTable {
		payloadLen += int(l)
	}
	payloadOffset := s.pos
	payload := make([]byte, payloadLen)
	n, err = io.ReadFull(s.src, payload)
	s.pos += int64(n)
	if err != nil {
		return page{}, fmt.Errorf("ogg: %w: payload: %v", ErrTruncated, err)
	}

	checkBuf := make([]byte, 0, 27+segCount+payloadLen)
	checkBuf = append(checkBuf, hdr...)
	checkBuf[22], checkBuf[23], checkBuf[24], checkBuf[25] = 0, 0, 0, 0
	checkBuf = append(checkBuf, segTable...)
	checkBuf = append(checkBuf, payload...)
	if computed := crc.CRC32(checkBuf, 0, 0); computed != storedCRC {
		s.rewindTo(start + 1)
		return page{}, fmt.Errorf("ogg: checksum mismatch at offset %d (want %x, got %x): %w", start, storedCRC, computed, ErrCorrupt)
	}

	return page{
		header: PageHeader{
			Serial:       serial,
			Sequence:     seq,
			Granule:      granule,
			Flags:        flags,
			SegmentTable: segTable,
		},
		offset:        start,
		payloadOffset: payloadOffset,
		payloadLen:    payloadLen,
	}, nil
}

// rewindTo repositions the source for the next resync attempt.
func (s *pageScanner) rewindTo(pos int64) {
	// best-effort: a failed Seek leaves s.pos tracking the stream's actual
	// position, which keeps the scanner internally consistent even though
	// the underlying cursor and s.pos would otherwise diverge.
	if _, err := s.src.Seek(pos, io.SeekStart); err == nil {
		s.pos = pos
	}
}

// readPayload re-reads a page's payload bytes from the source. Used by
// packets to lazily materialize their content.
func readPayload(src io.ReadSeeker, offset int64, length int) ([]byte, error) {
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("ogg: %w: %v", ErrTruncated, err)
	}
	return buf, nil
}
