package ogg

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sr8e/go-ogg-vorbis/crc"
)

// buildPage assembles one valid Ogg page around payload, computing the
// segment table and CRC the way a real encoder would.
func buildPage(serial, seq uint32, granule int64, flags byte, payload []byte) []byte {
	var segs []byte
	remaining := len(payload)
	for remaining >= 255 {
		segs = append(segs, 255)
		remaining -= 255
	}
	// a trailing 255 with no terminating short segment is the continuation
	// marker; only add the short segment when the payload didn't already
	// end on a 255-byte boundary (or is empty, which still needs one entry).
	if remaining > 0 || len(segs) == 0 {
		segs = append(segs, byte(remaining))
	}

	hdr := make([]byte, 27)
	copy(hdr[0:4], capturePattern[:])
	hdr[4] = 0
	hdr[5] = flags
	binary.LittleEndian.PutUint64(hdr[6:14], uint64(granule))
	binary.LittleEndian.PutUint32(hdr[14:18], serial)
	binary.LittleEndian.PutUint32(hdr[18:22], seq)
	hdr[26] = byte(len(segs))

	buf := append(append(append([]byte{}, hdr...), segs...), payload...)
	sum := crc.CRC32(buf, 0, 0)
	binary.LittleEndian.PutUint32(buf[22:26], sum)
	return buf
}

func TestPageScannerReadsValidPage(t *testing.T) {
	payload := []byte("hello vorbis")
	raw := buildPage(42, 0, -1, FlagBOS, payload)

	scanner, err := newPageScanner(bytes.NewReader(raw))
	require.NoError(t, err)

	pg, resync, err := scanner.next()
	require.NoError(t, err)
	assert.False(t, resync)
	assert.Equal(t, uint32(42), pg.header.Serial)
	assert.True(t, pg.header.IsBOS())
	assert.False(t, pg.header.IsEOS())
	assert.Equal(t, len(payload), pg.payloadLen)
}

func TestPageScannerRejectsBadChecksum(t *testing.T) {
	raw := buildPage(1, 0, -1, 0, []byte("data"))
	raw[22] ^= 0xff // corrupt the stored checksum

	scanner, err := newPageScanner(bytes.NewReader(raw))
	require.NoError(t, err)

	_, _, err = scanner.next()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestPageScannerResyncsPastGarbage(t *testing.T) {
	garbage := []byte("not a page at all, just noise before real data")
	good := buildPage(7, 0, -1, FlagBOS, []byte("payload"))
	raw := append(garbage, good...)

	scanner, err := newPageScanner(bytes.NewReader(raw))
	require.NoError(t, err)

	pg, resync, err := scanner.next()
	require.NoError(t, err)
	assert.True(t, resync)
	assert.Equal(t, uint32(7), pg.header.Serial)
}

func TestPageScannerEOF(t *testing.T) {
	scanner, err := newPageScanner(bytes.NewReader(nil))
	require.NoError(t, err)

	_, _, err = scanner.next()
	assert.ErrorIs(t, err, io.EOF)
}
