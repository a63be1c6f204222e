package vorbis

import (
	"bytes"
	"encoding/binary"

	"github.com/sr8e/go-ogg-vorbis/crc"
	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// bitWriter packs bits LSB-first-within-byte, mirroring ogg.Packet's
// GetUint convention, so tests can hand-assemble packet payloads.
type bitWriter struct {
	buf []byte
	cur int
}

func (w *bitWriter) writeUint(v uint32, n int) {
	for i := 0; i < n; i++ {
		bytePos := w.cur / 8
		bitOfs := w.cur % 8
		for bytePos >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if v&(1<<uint(i)) != 0 {
			w.buf[bytePos] |= 1 << uint(bitOfs)
		}
		w.cur++
	}
}

func (w *bitWriter) writeFlag(b bool) {
	if b {
		w.writeUint(1, 1)
	} else {
		w.writeUint(0, 1)
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }

// singlePagePacket wraps payload as the sole packet of a one-page Ogg
// stream and returns it ready for bit-level decoding by package code under
// test.
func singlePagePacket(payload []byte) *ogg.Packet {
	raw := buildTestPage(1, 0, -1, ogg.FlagBOS|ogg.FlagEOS, payload)
	demux, err := ogg.Open(bytes.NewReader(raw))
	if err != nil {
		panic(err)
	}
	stream, ok := demux.FirstStream()
	if !ok {
		panic("singlePagePacket: no logical stream")
	}
	pkt, ok := stream.Next()
	if !ok {
		panic("singlePagePacket: no packet")
	}
	return pkt
}

func buildTestPage(serial, seq uint32, granule int64, flags byte, payload []byte) []byte {
	var segs []byte
	remaining := len(payload)
	for remaining >= 255 {
		segs = append(segs, 255)
		remaining -= 255
	}
	if remaining > 0 || len(segs) == 0 {
		segs = append(segs, byte(remaining))
	}

	hdr := make([]byte, 27)
	copy(hdr[0:4], []byte("OggS"))
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
