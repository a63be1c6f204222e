package ogg

import (
	"errors"
	"fmt"
	"io"
)

// Demuxer parses an Ogg bitstream from a seekable source into per-logical-
// stream packet providers. It owns the source's read cursor: once Open has
// scanned the stream, individual packets are read back lazily and
// providers serialize their seeks through the same source.
type Demuxer struct {
	src       io.ReadSeeker
	providers map[uint32]*PacketProvider
	order     []uint32 // first-seen order, for deterministic iteration
	wasteBits int64
}

// serialState tracks in-progress packet assembly for one logical stream
// while the demuxer walks pages in sequence.
type serialState struct {
	pending     *Packet
	expectSeq   uint32
	sawFirstSeq bool
}

// Open scans src end to end, validating page CRCs, resyncing past damage,
// and reassembling packets (including ones spanning page boundaries) into
// a PacketProvider per logical stream.
func Open(src io.ReadSeeker) (*Demuxer, error) {
	d := &Demuxer{src: src, providers: map[uint32]*PacketProvider{}}
	if err := d.scan(); err != nil {
		return nil, err
	}
	if len(d.providers) == 0 {
		return nil, fmt.Errorf("ogg: no logical streams found: %w", ErrTruncated)
	}
	return d, nil
}

// Streams returns the demuxer's packet providers, keyed by stream serial.
func (d *Demuxer) Streams() map[uint32]*PacketProvider { return d.providers }

// FirstStream returns the first logical stream encountered in the
// container, the common case for single-stream Vorbis files.
func (d *Demuxer) FirstStream() (*PacketProvider, bool) {
	if len(d.order) == 0 {
		return nil, false
	}
	return d.providers[d.order[0]], true
}

func (d *Demuxer) scan() error {
	scanner, err := newPageScanner(d.src)
	if err != nil {
		return err
	}
	states := map[uint32]*serialState{}

	for {
		pg, resync, err := scanner.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		st := states[pg.header.Serial]
		if st == nil {
			st = &serialState{}
			states[pg.header.Serial] = st
			d.providers[pg.header.Serial] = &PacketProvider{serial: pg.header.Serial, maxGranule: -1}
			d.order = append(d.order, pg.header.Serial)
		}
		provider := d.providers[pg.header.Serial]

		if st.sawFirstSeq && pg.header.Sequence != st.expectSeq {
			resync = true
		}
		st.sawFirstSeq = true
		st.expectSeq = pg.header.Sequence + 1

		d.assemblePage(provider, st, pg, resync)

		if pg.header.IsEOS() {
			provider.eos = true
			if n := len(provider.packets); n > 0 {
				provider.packets[n-1].IsEndOfStream = true
			}
		}
	}
	d.wasteBits = scanner.wasteBits
	return nil
}

// assemblePage splits one page's segment table into packet fragments and
// appends them to the stream's packet list, stitching continuations with
// the serial's pending (unfinished) packet.
func (d *Demuxer) assemblePage(provider *PacketProvider, st *serialState, pg page, resync bool) {
	sizes, continuesNext := splitSegments(pg.header.SegmentTable)
	if len(sizes) == 0 {
		return
	}

	offset := pg.payloadOffset
	for i, size := range sizes {
		first := i == 0
		last := i == len(sizes)-1

		var pkt *Packet
		switch {
		case first && pg.header.IsContinuation():
			if st.pending != nil {
				pkt = st.pending
				pkt.IsContinuation = true
			} else {
				// continuation expected but no packet was pending: resync.
				pkt = newPacket(d.src)
				pkt.IsResync = true
			}
			st.pending = nil
		default:
			pkt = newPacket(d.src)
			if resync && first {
				pkt.IsResync = true
			}
		}

		pkt.addFragment(offset, size)
		offset += int64(size)

		if last && continuesNext {
			st.pending = pkt
			continue
		}

		pkt.PageGranulePosition = pg.header.Granule
		provider.packets = append(provider.packets, pkt)
		lastComplete := len(sizes) - 1
		if continuesNext {
			lastComplete--
		}
		if pg.header.Granule >= 0 && i == lastComplete {
			provider.pageIndex = append(provider.pageIndex, pageGranule{
				lastPacketIndex: len(provider.packets) - 1,
				granule:         pg.header.Granule,
			})
			if pg.header.Granule > provider.maxGranule {
				provider.maxGranule = pg.header.Granule
			}
		}
	}
}

// splitSegments turns a page's segment table into packet byte sizes, per
// the rule that a segment of length <255 closes a packet and a trailing
// 255 means the final packet continues into the next page.
func splitSegments(segs []byte) (sizes []int, continuesNext bool) {
	size := 0
	for i, s := range segs {
		size += int(s)
		if s != 255 {
			sizes = append(sizes, size)
			size = 0
		} else if i == len(segs)-1 {
			sizes = append(sizes, size)
			continuesNext = true
		}
	}
	return sizes, continuesNext
}
