package vorbis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCodebookEntriesOrdered(t *testing.T) {
	w := &bitWriter{}
	w.writeFlag(true)      // ordered
	w.writeUint(0, 5)      // initial length - 1, so length starts at 1
	w.writeUint(2, 3)      // run of 2 entries at length 1 (ilog(5) == 3 bits)
	w.writeUint(3, 2)      // remaining run of 3 entries at length 2 (ilog(3) == 2 bits)

	entries, err := readCodebookEntries(singlePagePacket(w.bytes()), 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 2, 2}, entries)
}

func TestReadCodebookEntriesSparse(t *testing.T) {
	w := &bitWriter{}
	w.writeFlag(false) // not ordered
	w.writeFlag(true)  // sparse
	w.writeFlag(true)  // entry 0 used
	w.writeUint(1, 5)  // cwLen-1=1 -> length 2
	w.writeFlag(false) // entry 1 unused
	w.writeFlag(true)  // entry 2 used
	w.writeUint(0, 5)  // cwLen-1=0 -> length 1

	entries, err := readCodebookEntries(singlePagePacket(w.bytes()), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, -1, 1}, entries)
}

func TestCodebookHuffmanRoundTrip(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(0x564342, 24) // sync pattern
	w.writeUint(1, 16)        // dimension
	w.writeUint(2, 24)        // entry count
	w.writeFlag(false)        // not ordered
	w.writeFlag(false)        // not sparse
	w.writeUint(0, 5)         // entry 0: length 1
	w.writeUint(0, 5)         // entry 1: length 1
	w.writeUint(0, 4)         // no VQ lookup

	cb, err := readCodebook(singlePagePacket(w.bytes()))
	require.NoError(t, err)

	zero := &bitWriter{}
	zero.writeUint(0, 1)
	v, err := cb.ReadScalarValue(singlePagePacket(zero.bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	one := &bitWriter{}
	one.writeUint(1, 1)
	v, err = cb.ReadScalarValue(singlePagePacket(one.bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestVQLookupType1(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1, 4)  // lookup type 1
	w.writeUint(0, 32) // minimum = 0
	// delta = 1.0 exactly: frac=1, exp=0 -> (exp+788)<<21 | frac
	w.writeUint(1|(788<<21), 32)
	w.writeUint(3, 4) // bits-1: actual value width is 4 bits
	w.writeFlag(false)
	// lookup1Values(dimension=1, entryLen=2) == floor(2^1) == 2
	w.writeUint(0, 4)
	w.writeUint(1, 4)

	lookupType, vectors, err := readVQLookup(singlePagePacket(w.bytes()), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), lookupType)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.0, vectors[0][0], 1e-9)
	assert.InDelta(t, 1.0, vectors[1][0], 1e-9)
}

func TestVQLookupType2(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(2, 4)  // lookup type 2
	w.writeUint(0, 32) // minimum = 0
	w.writeUint(1|(788<<21), 32)
	w.writeUint(3, 4) // bits-1: actual value width is 4 bits
	w.writeFlag(false)
	// dimension * entryLen == 4 explicit values, one per (entry, dim) pair
	w.writeUint(0, 4)
	w.writeUint(1, 4)
	w.writeUint(2, 4)
	w.writeUint(3, 4)

	lookupType, vectors, err := readVQLookup(singlePagePacket(w.bytes()), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), lookupType)
	require.Len(t, vectors, 2)
	assert.InDeltaSlice(t, []float64{0, 1}, vectors[0], 1e-9)
	assert.InDeltaSlice(t, []float64{2, 3}, vectors[1], 1e-9)
}

func TestVQLookupSequentialAccumulation(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(2, 4)  // lookup type 2
	w.writeUint(0, 32) // minimum = 0
	w.writeUint(1|(788<<21), 32)
	w.writeUint(3, 4) // bits-1: actual value width is 4 bits
	w.writeFlag(true) // sequential: each dimension adds to the previous
	w.writeUint(1, 4)
	w.writeUint(1, 4)
	w.writeUint(1, 4)
	w.writeUint(1, 4)

	_, vectors, err := readVQLookup(singlePagePacket(w.bytes()), 2, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, vectors[0], 1e-9)
	assert.InDeltaSlice(t, []float64{1, 2}, vectors[1], 1e-9)
}

func TestDecodeVectorResolvesThroughLookup(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(0x564342, 24) // sync pattern
	w.writeUint(1, 16)        // dimension
	w.writeUint(2, 24)        // entry count
	w.writeFlag(false)        // not ordered
	w.writeFlag(false)        // not sparse
	w.writeUint(0, 5)         // entry 0: length 1
	w.writeUint(0, 5)         // entry 1: length 1
	w.writeUint(1, 4)         // lookup type 1
	w.writeUint(0, 32)        // minimum = 0
	w.writeUint(1|(788<<21), 32)
	w.writeUint(3, 4)
	w.writeFlag(false)
	w.writeUint(0, 4)
	w.writeUint(1, 4)

	cb, err := readCodebook(singlePagePacket(w.bytes()))
	require.NoError(t, err)

	zero := &bitWriter{}
	zero.writeUint(0, 1)
	vec, err := cb.DecodeVector(singlePagePacket(zero.bytes()))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0}, vec, 1e-9)

	one := &bitWriter{}
	one.writeUint(1, 1)
	vec, err = cb.DecodeVector(singlePagePacket(one.bytes()))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1}, vec, 1e-9)
}
