package ogg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemuxerAssemblesSinglePagePackets(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildPage(1, 0, -1, FlagBOS, []byte("pkt-one")))
	buf.Write(buildPage(1, 1, 10, 0, []byte("pkt-two")))
	buf.Write(buildPage(1, 2, 20, FlagEOS, []byte("pkt-three")))

	d, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	stream, ok := d.FirstStream()
	require.True(t, ok)
	assert.Equal(t, uint32(1), stream.Serial())

	var packets [][]byte
	for {
		pkt, ok := stream.Next()
		if !ok {
			break
		}
		n, err := pkt.Len()
		require.NoError(t, err)
		b, err := pkt.GetBytes(n)
		require.NoError(t, err)
		packets = append(packets, b)
	}
	require.Len(t, packets, 3)
	assert.Equal(t, "pkt-one", string(packets[0]))
	assert.Equal(t, "pkt-two", string(packets[1]))
	assert.Equal(t, "pkt-three", string(packets[2]))
	assert.True(t, stream.IsEndOfStream())
}

func TestDemuxerStitchesContinuationAcrossPages(t *testing.T) {
	first := make([]byte, 255) // exactly one segment, forces continuation marker
	for i := range first {
		first[i] = byte(i)
	}
	second := []byte("-tail")

	var buf bytes.Buffer
	buf.Write(buildPage(2, 0, -1, FlagBOS, first))
	buf.Write(buildPage(2, 1, 5, FlagContinuation, second))

	d, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	stream, _ := d.FirstStream()
	pkt, ok := stream.Next()
	require.True(t, ok)

	n, err := pkt.Len()
	require.NoError(t, err)
	assert.Equal(t, len(first)+len(second), n)

	_, ok = stream.Next()
	assert.False(t, ok, "continuation should have been merged into one packet")
}

func TestDemuxerNoStreamsIsError(t *testing.T) {
	_, err := Open(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestPacketProviderSeekToBinarySearches(t *testing.T) {
	var buf bytes.Buffer
	granule := int64(0)
	for i := 0; i < 10; i++ {
		granule += 100
		flags := byte(0)
		if i == 0 {
			flags = FlagBOS
		}
		buf.Write(buildPage(3, uint32(i), granule, flags, []byte("block-data")))
	}

	d, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	stream, _ := d.FirstStream()

	reached, err := stream.SeekTo(550, 0, func(pkt *Packet, isFirst bool) int {
		return 100
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reached, int64(550))

	next, ok := stream.PeekNext()
	require.True(t, ok)
	assert.NotNil(t, next)
}

func TestPacketProviderSeekNotSeekableWithoutGranules(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildPage(4, 0, -1, FlagBOS|FlagEOS, []byte("only")))

	d, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	stream, _ := d.FirstStream()

	_, err = stream.SeekTo(0, 0, func(pkt *Packet, isFirst bool) int { return 0 })
	assert.ErrorIs(t, err, ErrNotSeekable)
}
