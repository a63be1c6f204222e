package vorbis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleFloor1Header constructs a one-partition, one-class floor-1
// header whose sole extra x-coordinate needs no subclass codebook, so the
// matching packet can be decoded without any codebooks in scope.
func buildSimpleFloor1Header() []byte {
	w := &bitWriter{}
	w.writeUint(1, 5) // one partition
	w.writeUint(0, 4) // partition 0 uses class 0
	w.writeUint(0, 3) // class 0 dimension-1 field: dimension == 1
	w.writeUint(0, 2) // no subclasses
	w.writeUint(0, 8) // subBooks[0] raw == 0 -> stored as -1 (no codebook)
	w.writeUint(0, 2) // multiplier field 0 -> stored as 1
	w.writeUint(4, 4) // rangeBits == 4, so xList[1] == 16
	w.writeUint(8, 4) // the class's one extra x coordinate
	return w.bytes()
}

func TestReadFloor1Header(t *testing.T) {
	fc, err := readFloor1Header(singlePagePacket(buildSimpleFloor1Header()))
	require.NoError(t, err)
	require.NotNil(t, fc.config1)
	assert.EqualValues(t, 1, fc.floorType)
	assert.Equal(t, uint8(1), fc.config1.multiplier)
	assert.Equal(t, []uint16{0, 16, 8}, fc.config1.xList)
}

func TestReadFloor1PacketRendersLinearRamp(t *testing.T) {
	fc, err := readFloor1Header(singlePagePacket(buildSimpleFloor1Header()))
	require.NoError(t, err)

	w := &bitWriter{}
	w.writeFlag(true) // floor present
	w.writeUint(50, 8) // y0
	w.writeUint(100, 8) // y1
	// the partition's sole class has no subclass codebook (cbits == 0), so
	// no classification symbol is read; dimension==1 with book==-1 appends
	// a raw y value of 0, later resolved against the (y0,y1) prediction.

	curve, err := readFloor1Packet(singlePagePacket(w.bytes()), 5, *fc.config1, nil)
	require.NoError(t, err)
	require.Len(t, curve, 32)

	assert.Equal(t, 50, curve[0])
	assert.Equal(t, 62, curve[4])
	assert.Equal(t, 75, curve[8])
	assert.Equal(t, 100, curve[16])
	assert.Equal(t, 100, curve[20]) // past the last x coordinate: held flat
}

func TestReadFloor1PacketUnusedReturnsNil(t *testing.T) {
	fc, err := readFloor1Header(singlePagePacket(buildSimpleFloor1Header()))
	require.NoError(t, err)

	w := &bitWriter{}
	w.writeFlag(false) // floor unused for this block

	curve, err := readFloor1Packet(singlePagePacket(w.bytes()), 5, *fc.config1, nil)
	require.NoError(t, err)
	assert.Nil(t, curve)
}
