package ogg

import (
	"fmt"
	"sort"
)

// pageGranule records the granule position of a page and the index of the
// last packet it completed, for binary-search seeking.
type pageGranule struct {
	lastPacketIndex int
	granule         int64
}

// PacketProvider is the per-logical-stream packet queue: an ordered list of
// assembled packets, an end-of-stream flag, and a seek index keyed by page
// granule position.
type PacketProvider struct {
	serial      uint32
	packets     []*Packet
	pageIndex   []pageGranule
	pos         int
	eos         bool
	maxGranule  int64
}

// Serial reports the logical stream's bitstream serial number.
func (pp *PacketProvider) Serial() uint32 { return pp.serial }

// PeekNext returns the next packet without consuming it.
func (pp *PacketProvider) PeekNext() (*Packet, bool) {
	if pp.pos >= len(pp.packets) {
		return nil, false
	}
	return pp.packets[pp.pos], true
}

// Next consumes and returns the next packet, or ok=false at end of stream.
func (pp *PacketProvider) Next() (*Packet, bool) {
	if pp.pos >= len(pp.packets) {
		return nil, false
	}
	p := pp.packets[pp.pos]
	pp.pos++
	return p, true
}

// GranuleCount reports the maximum granule position observed on any
// completed page of this stream, or -1 if no page carried one.
func (pp *PacketProvider) GranuleCount() int64 { return pp.maxGranule }

// IsEndOfStream reports whether the logical stream's EOS page has been seen.
func (pp *PacketProvider) IsEndOfStream() bool { return pp.eos }

// SeekTo binary-searches the page whose granule is nearest to (and at or
// below) target, then walks forward calling sampleCount on each packet to
// refine to the exact sample. It rewinds by preRoll packets before
// returning so the caller has the context packet(s) needed to seed
// overlap-add, and reports the granule position actually reached.
func (pp *PacketProvider) SeekTo(target int64, preRoll int, sampleCount func(pkt *Packet, isFirst bool) int) (int64, error) {
	if len(pp.pageIndex) == 0 {
		return 0, fmt.Errorf("ogg: stream %d has no granule-positioned pages: %w", pp.serial, ErrNotSeekable)
	}
	if target < 0 || target > pp.maxGranule {
		return 0, fmt.Errorf("ogg: seek target %d out of range [0,%d]", target, pp.maxGranule)
	}

	i := sort.Search(len(pp.pageIndex), func(i int) bool { return pp.pageIndex[i].granule > target })
	if i == len(pp.pageIndex) {
		i = len(pp.pageIndex) - 1
	}
	entry := pp.pageIndex[i]

	prevGranule := int64(0)
	prevPacketIndex := -1
	if i > 0 {
		prevGranule = pp.pageIndex[i-1].granule
		prevPacketIndex = pp.pageIndex[i-1].lastPacketIndex
	}

	walkStart := prevPacketIndex + 1
	running := prevGranule
	actual := prevGranule
	idx := walkStart
	for idx <= entry.lastPacketIndex && idx < len(pp.packets) {
		n := sampleCount(pp.packets[idx], idx == walkStart)
		running += int64(n)
		actual = running
		if running >= target {
			break
		}
		idx++
	}

	pos := idx - preRoll
	if pos < 0 {
		pos = 0
	}
	pp.pos = pos
	return actual, nil
}
