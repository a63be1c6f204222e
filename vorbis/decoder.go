// Package vorbis decodes a Vorbis I elementary bitstream carried inside
// an Ogg container, producing interleaved floating-point PCM.
package vorbis

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// Option configures a Decoder at construction.
type Option func(*Decoder)

// WithLogger directs the decoder's non-fatal diagnostics (packets that
// follow a page resync, missing framing bits, malformed comment fields,
// floor end-of-packet clamps) to l instead of discarding them. Residue
// end-of-packet clamps are not reported.
func WithLogger(l Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithClipping enables or disables hard clamping of output samples to
// [-1, 1]. Enabled by default, matching the reference decoder's output
// convention.
func WithClipping(enabled bool) Option {
	return func(d *Decoder) { d.clip = enabled }
}

// Decoder decodes one logical Vorbis stream read from a seekable Ogg
// container.
type Decoder struct {
	src      io.ReadSeeker
	demux    *ogg.Demuxer
	provider *ogg.PacketProvider
	ident    Identification
	setup    VorbisSetup
	tags     Tags
	logger   Logger
	clip     bool
	clipped  bool

	carry        [][]float64 // previous block's un-overlapped tail, per channel
	havePrev     bool
	pending      [][]float64 // combined PCM not yet drained by Read, per channel
	pendingPos   int
	samplePos    int64
	endOfStream  bool
}

// Open parses the identification, comment, and setup headers from src's
// first logical stream and returns a Decoder ready to produce PCM.
func Open(src io.ReadSeeker, opts ...Option) (*Decoder, error) {
	demux, err := ogg.Open(src)
	if err != nil {
		return nil, err
	}
	provider, ok := demux.FirstStream()
	if !ok {
		return nil, fmt.Errorf("%w: no logical streams", ErrCorrupt)
	}

	d := &Decoder{
		src:      src,
		demux:    demux,
		provider: provider,
		logger:   discardLogger(),
		clip:     true,
	}
	for _, opt := range opts {
		opt(d)
	}

	identPacket, ok := provider.Next()
	if !ok {
		return nil, fmt.Errorf("%w: missing identification header", ErrTruncated)
	}
	ident, err := readIdentification(identPacket)
	if err != nil {
		if eop(err) {
			err = fmt.Errorf("%w: identification header: %v", ErrTruncated, err)
		}
		return nil, err
	}
	d.ident = ident

	commentPacket, ok := provider.Next()
	if !ok {
		return nil, fmt.Errorf("%w: missing comment header", ErrTruncated)
	}
	tags, err := readComment(commentPacket, d.logger)
	if err != nil {
		if eop(err) {
			err = fmt.Errorf("%w: comment header: %v", ErrTruncated, err)
		}
		return nil, err
	}
	d.tags = tags

	setupPacket, ok := provider.Next()
	if !ok {
		return nil, fmt.Errorf("%w: missing setup header", ErrTruncated)
	}
	setup, err := readSetup(setupPacket, ident)
	if err != nil {
		if eop(err) {
			err = fmt.Errorf("%w: setup header: %v", ErrTruncated, err)
		}
		return nil, err
	}
	d.setup = setup

	d.carry = make([][]float64, ident.Channels)
	d.pending = make([][]float64, ident.Channels)

	return d, nil
}

// Channels reports the stream's channel count.
func (d *Decoder) Channels() int { return int(d.ident.Channels) }

// SampleRate reports the stream's sample rate in Hz.
func (d *Decoder) SampleRate() int { return int(d.ident.SampleRate) }

// Bitrates reports the identification header's upper/nominal/lower
// bitrate hints. Any of the three may be zero if the encoder didn't set it.
func (d *Decoder) Bitrates() (upper, nominal, lower int32) {
	return d.ident.BitRate[0], d.ident.BitRate[1], d.ident.BitRate[2]
}

// TotalSamples reports the stream's total sample count, derived from the
// highest granule position observed across the container's pages.
func (d *Decoder) TotalSamples() int64 { return d.provider.GranuleCount() }

// SamplePosition reports the next sample index Read will return.
func (d *Decoder) SamplePosition() int64 { return d.samplePos }

// IsEndOfStream reports whether decoding has reached the stream's final
// packet and drained every sample it produced.
func (d *Decoder) IsEndOfStream() bool {
	return d.endOfStream && d.pendingPos >= len(d.pending[0])
}

// HasClipped reports whether any sample produced so far was clamped to
// the [-1, 1] range.
func (d *Decoder) HasClipped() bool { return d.clipped }

// SetClipSamples toggles output clamping after construction.
func (d *Decoder) SetClipSamples(enabled bool) { d.clip = enabled }

// Tags returns the stream's comment header fields.
func (d *Decoder) Tags() Tags { return d.tags }

// Read decodes PCM into out, interleaved frame by frame (frame 0's
// channels, then frame 1's, ...), returning the number of float32 values
// written. It returns io.EOF once the stream is exhausted, matching
// io.Reader convention rather than a bespoke end-of-stream error.
func (d *Decoder) Read(out []float32) (int, error) {
	ch := int(d.ident.Channels)
	if ch == 0 {
		return 0, fmt.Errorf("%w: decoder not initialized", ErrInvalidArgument)
	}
	if len(out)%ch != 0 {
		return 0, fmt.Errorf("%w: buffer length %d is not a multiple of %d channels", ErrInvalidArgument, len(out), ch)
	}

	written := 0
	for written < len(out) {
		if d.pendingPos >= len(d.pending[0]) {
			if d.endOfStream {
				break
			}
			if err := d.decodeNextBlock(); err != nil {
				if errors.Is(err, io.EOF) {
					d.endOfStream = true
					continue
				}
				return written, err
			}
			continue
		}

		frames := (len(out) - written) / ch
		avail := len(d.pending[0]) - d.pendingPos
		if frames > avail {
			frames = avail
		}
		if frames == 0 {
			break
		}
		for f := 0; f < frames; f++ {
			for c := 0; c < ch; c++ {
				v := d.pending[c][d.pendingPos+f]
				out[written] = d.clampSample(v)
				written++
			}
		}
		d.pendingPos += frames
		d.samplePos += int64(frames)
	}

	if written == 0 && d.endOfStream {
		return 0, io.EOF
	}
	return written, nil
}

func (d *Decoder) clampSample(v float64) float32 {
	if d.clip {
		if v > 1 {
			v = 1
			d.clipped = true
		} else if v < -1 {
			v = -1
			d.clipped = true
		}
	}
	return float32(v)
}

// decodeNextBlock decodes one audio packet, overlap-adds it against the
// carried tail of the previous block, and stages the newly available PCM
// in d.pending.
func (d *Decoder) decodeNextBlock() error {
	pkt, ok := d.provider.Next()
	if !ok {
		return io.EOF
	}
	if pkt.IsResync {
		d.logger.Warnf("vorbis: packet follows a page resync")
	}
	block, err := decodeAudioPacket(pkt, d.ident, d.setup, d.logger)
	pkt.Done()
	if err != nil {
		return err
	}

	ch := int(d.ident.Channels)
	halfN := 1 << (block.blockExp - 1)
	combined := make([][]float64, ch)

	for c := 0; c < ch; c++ {
		samples := block.samples[c]
		out := make([]float64, halfN)
		carry := d.carry[c]
		for i := 0; i < halfN; i++ {
			if i < len(carry) {
				out[i] = carry[i] + samples[i]
			} else {
				out[i] = samples[i]
			}
		}
		combined[c] = out
		d.carry[c] = append([]float64(nil), samples[halfN:]...)
	}

	if !d.havePrev {
		// the very first decodable block only seeds the overlap history;
		// it contributes no output samples of its own.
		d.havePrev = true
		d.pending = make([][]float64, ch)
		for c := range d.pending {
			d.pending[c] = []float64{}
		}
		d.pendingPos = 0
		return nil
	}

	d.pending = combined
	d.pendingPos = 0
	return nil
}

// SeekSamples repositions the decoder to the sample index computed from
// offset and whence (io.SeekStart, io.SeekCurrent, io.SeekEnd), returning
// the sample position actually reached.
func (d *Decoder) SeekSamples(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = d.samplePos + offset
	case io.SeekEnd:
		target = d.provider.GranuleCount() + offset
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", ErrInvalidArgument, whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: negative seek target", ErrInvalidArgument)
	}

	reached, err := d.provider.SeekTo(target, 1, func(pkt *ogg.Packet, isFirst bool) int {
		block, err := decodeAudioPacket(pkt, d.ident, d.setup, d.logger)
		pkt.Reset()
		pkt.Done()
		if err != nil {
			return 0
		}
		return 1 << (block.blockExp - 1)
	})
	if err != nil {
		if errors.Is(err, ogg.ErrNotSeekable) {
			return 0, fmt.Errorf("%w: %v", ErrNotSeekable, err)
		}
		return 0, fmt.Errorf("vorbis: %w", err)
	}

	d.samplePos = reached
	d.havePrev = false
	d.carry = make([][]float64, d.ident.Channels)
	d.pending = make([][]float64, d.ident.Channels)
	for c := range d.pending {
		d.pending[c] = []float64{}
	}
	d.pendingPos = 0
	d.endOfStream = false
	return reached, nil
}

// SeekTime repositions the decoder to the sample nearest t and returns the
// time actually reached.
func (d *Decoder) SeekTime(t time.Duration, whence int) (time.Duration, error) {
	rate := int64(d.ident.SampleRate)
	if rate == 0 {
		return 0, fmt.Errorf("%w: unknown sample rate", ErrInvalidArgument)
	}
	offset := int64(t.Seconds() * float64(rate))
	reached, err := d.SeekSamples(offset, whence)
	if err != nil {
		return 0, err
	}
	return time.Duration(float64(reached) / float64(rate) * float64(time.Second)), nil
}
