package ogg

import (
	"io"
)

// mask[n] has the low n bits set.
var mask = [33]uint32{}

func init() {
	var v uint32
	for i := 0; i <= 32; i++ {
		mask[i] = v
		v = v<<1 | 1
	}
}

// fragment is a byte range within the underlying source that contributes to
// a packet's payload. Packets spanning page boundaries have more than one.
type fragment struct {
	offset int64
	length int
}

// Packet is a contiguous compressed unit belonging to one logical stream:
// a header packet or one block's worth of audio. Its payload is gathered
// lazily from the fragments recorded at demux time and presented as a
// bitstream read least significant bit first within each byte, bytes in
// order.
type Packet struct {
	src       io.ReadSeeker
	fragments []fragment
	data      []byte
	cur       int // bit cursor into data

	IsResync            bool
	IsContinuation      bool
	IsEndOfStream       bool
	PageGranulePosition int64 // granule of the page that completed this packet
	granulePosition     int64
	granuleKnown        bool
}

func newPacket(src io.ReadSeeker) *Packet {
	return &Packet{src: src, PageGranulePosition: -1, granulePosition: -1}
}

func (p *Packet) addFragment(offset int64, length int) {
	p.fragments = append(p.fragments, fragment{offset: offset, length: length})
}

// ensure gathers the packet's bytes from the source on first access.
func (p *Packet) ensure() error {
	if p.data != nil || len(p.fragments) == 0 {
		return nil
	}
	total := 0
	for _, f := range p.fragments {
		total += f.length
	}
	buf := make([]byte, 0, total)
	for _, f := range p.fragments {
		b, err := readPayload(p.src, f.offset, f.length)
		if err != nil {
			return err
		}
		buf = append(buf, b...)
	}
	p.data = buf
	return nil
}

// Len reports the packet's payload length in bytes.
func (p *Packet) Len() (int, error) {
	if err := p.ensure(); err != nil {
		return 0, err
	}
	return len(p.data), nil
}

// Done releases the packet's materialized payload. It may be re-read later;
// ensure() will re-fetch from the source (fragments are retained, not the
// bytes themselves).
func (p *Packet) Done() {
	p.data = nil
}

// Reset rewinds the bit cursor to the start of the packet, for a second
// decode pass (e.g. the warm-up packet consumed during a seek).
func (p *Packet) Reset() {
	p.cur = 0
}

// GranulePosition returns the decoder-assigned sample-accurate granule for
// this packet, computed lazily once the decoder knows the packet's sample
// count. ok is false until SetGranulePosition has been called.
func (p *Packet) GranulePosition() (pos int64, ok bool) {
	return p.granulePosition, p.granuleKnown
}

// SetGranulePosition records the sample-accurate granule once the decoder
// has computed it from the block's sample count.
func (p *Packet) SetGranulePosition(pos int64) {
	p.granulePosition = pos
	p.granuleKnown = true
}

// GetUint reads the next n (<=32) bits as an unsigned integer, least
// significant bit first, per the Vorbis/Ogg bit-packing convention.
func (p *Packet) GetUint(n int) (uint32, error) {
	if err := p.ensure(); err != nil {
		return 0, err
	}
	var v uint32
	for i := 0; i < n; {
		bytePos := (p.cur + i) / 8
		bitOfs := (p.cur + i) % 8

		if bytePos >= len(p.data) {
			p.cur += n
			return v, ErrEndOfPacket
		}

		b := p.data[bytePos] >> bitOfs
		chunkLen := n - i
		if avail := 8 - bitOfs; avail < chunkLen {
			chunkLen = avail
		}
		v += uint32(b&byte(mask[chunkLen])) << i
		i += chunkLen
	}
	p.cur += n
	return v, nil
}

// PeekUint reads the next n bits without advancing the cursor. Used by the
// Huffman decoder's prefix-table lookup.
func (p *Packet) PeekUint(n int) (uint32, error) {
	save := p.cur
	v, err := p.GetUint(n)
	p.cur = save
	return v, err
}

// Skip advances the bit cursor by n bits without reading.
func (p *Packet) Skip(n int) {
	p.cur += n
}

func (p *Packet) GetUint8(n int) (uint8, error) {
	v, err := p.GetUint(n)
	return uint8(v), err
}

func (p *Packet) GetUint16(n int) (uint16, error) {
	v, err := p.GetUint(n)
	return uint16(v), err
}

func (p *Packet) GetUintAsInt(n int) (int, error) {
	v, err := p.GetUint(n)
	return int(v), err
}

// GetFlag reads a single bit as a bool.
func (p *Packet) GetFlag() (bool, error) {
	v, err := p.GetUint(1)
	return v == 1, err
}

// GetBytes reads nByte whole bytes, bit-packed the same as GetUint.
func (p *Packet) GetBytes(nByte int) ([]byte, error) {
	arr := make([]byte, nByte)
	for i := 0; i < nByte; i++ {
		b, err := p.GetUint(8)
		if err != nil {
			return arr, err
		}
		arr[i] = byte(b)
	}
	return arr, nil
}

// GetUintSerial reads a sequence of fields of the given bit widths in order.
func (p *Packet) GetUintSerial(ns ...int) ([]uint32, error) {
	vals := make([]uint32, len(ns))
	for i, n := range ns {
		v, err := p.GetUint(n)
		if err != nil {
			return vals, err
		}
		vals[i] = v
	}
	return vals, nil
}
