package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVorbisWindowIsSymmetric(t *testing.T) {
	const bits = 4
	n := 1 << bits
	for i := 0; i < n; i++ {
		assert.InDelta(t, VorbisWindow(i, bits), VorbisWindow(n-1-i, bits), 1e-12)
	}
}

func TestVorbisWindowEdgesNearZero(t *testing.T) {
	const bits = 5
	n := 1 << bits
	assert.Less(t, VorbisWindow(0, bits), 0.05)
	assert.Less(t, VorbisWindow(n-1, bits), 0.05)
	assert.Greater(t, VorbisWindow(n/2, bits), 0.99)
}

func TestVorbisWindowVarWidthMatchesFullWindowWhenSymmetric(t *testing.T) {
	const bits = 5
	n := 1 << bits
	w := VorbisWindowVarWidth(bits, bits)
	for i := 0; i < n; i++ {
		assert.InDelta(t, VorbisWindow(i, bits), w(i, bits), 1e-12)
	}
}

func TestVorbisWindowVarWidthFlatCenterWithShortNeighbor(t *testing.T) {
	const leftExp, rightExp, blockExp = 3, 3, 5
	n := 1 << blockExp
	leftN := 1 << leftExp
	w := VorbisWindowVarWidth(leftExp, rightExp)

	// well inside the block, away from either taper, the window is flat.
	assert.Equal(t, 1.0, w(n/2, blockExp))
	// the rising taper matches a block of the narrower left size.
	assert.InDelta(t, VorbisWindow(0, leftExp), w(0, blockExp), 1e-12)
	assert.InDelta(t, VorbisWindow(leftN/2-1, leftExp), w(leftN/2-1, blockExp), 1e-12)
}

func TestDCT4IsSelfInverseUpToIDCTScaling(t *testing.T) {
	const bits = 4
	n := 1 << bits
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(float64(i)) * float64(i%3-1)
	}

	coef := DCT4(data, bits)
	back := IDCT4(coef, bits)
	for i := range data {
		assert.InDelta(t, data[i], back[i], 1e-9)
	}
}

func TestMDCTRejectsWrongLength(t *testing.T) {
	assert.Nil(t, MDCT(make([]float64, 3), 4, nil))
	assert.Nil(t, IMDCT(make([]float64, 3), 4, nil))
}

func TestMDCTOfZeroIsZero(t *testing.T) {
	const bits = 5
	n := 1 << bits
	coef := MDCT(make([]float64, n), bits, nil)
	a := assert.New(t)
	a.Len(coef, n/2)
	for _, v := range coef {
		a.InDelta(0, v, 1e-12)
	}
}

func TestIMDCTProducesFullBlockLength(t *testing.T) {
	const bits = 6
	n := 1 << bits
	coef := make([]float64, n/2)
	for i := range coef {
		coef[i] = float64(i) * 0.01
	}
	samples := IMDCT(coef, bits, nil)
	assert.Len(t, samples, n)
}
