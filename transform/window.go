package transform

import (
	"math"
)

// VorbisWindow is the canonical Vorbis window shape,
// sin(pi/2 * sin^2(pi*(n+1/2)/N)), evaluated at sample i of a block with
// 2^sampleBits samples.
func VorbisWindow(i, sampleBits int) float64 {
	N := 1 << sampleBits
	return math.Sin(math.Pi / 2 * math.Pow(math.Sin(math.Pi/float64(2*N)*float64(2*i+1)), 2))
}

func RectWindow(_, _ int) float64 {
	return math.Pow(2, -1/float64(2))
}

// VorbisWindowVarWidth builds a window for a block whose left and right
// lapping regions may be narrower than the block itself — a long block
// beside a short neighbor. leftExp/rightExp are the block-size exponents
// of the (possibly different) windows used for the rising and falling
// edges; the flat unity region in between is unaffected by either.
func VorbisWindowVarWidth(leftExp, rightExp int) func(int, int) float64 {
	leftN := 1 << leftExp
	rightN := 1 << rightExp

	return func(i, sampleBits int) float64 {
		N := 1 << sampleBits
		switch {
		case i < leftN/2:
			return VorbisWindow(i, leftExp)
		case i >= N-rightN/2:
			return VorbisWindow(i-(N-rightN), rightExp)
		default:
			return 1
		}
	}
}
