package vorbis

import (
	"fmt"
	"math"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// floor0Config is the legacy LSP (line spectral pair) floor: a low-order
// all-pole envelope evaluated on a Bark-warped frequency axis, superseded
// in practice by floor type 1 but still part of the format.
type floor0Config struct {
	order           uint8
	rate            uint16
	barkMapSize     uint16
	amplitudeBits   uint8
	amplitudeOffset uint8
	books           []uint8
}

func readFloor0Header(p *ogg.Packet) (_ floorConfig, err error) {
	fields, err := p.GetUintSerial(8, 16, 16, 6, 8, 4)
	if err != nil {
		return
	}
	bookLen := fields[5] + 1
	books := make([]uint8, bookLen)
	for i := range books {
		var v uint8
		v, err = p.GetUint8(8)
		if err != nil {
			return
		}
		books[i] = v
	}
	return floorConfig{
		floorType: 0,
		config0: &floor0Config{
			order:           uint8(fields[0]),
			rate:            uint16(fields[1]),
			barkMapSize:     uint16(fields[2]),
			amplitudeBits:   uint8(fields[3]),
			amplitudeOffset: uint8(fields[4]),
			books:           books,
		},
	}, nil
}

// barkScale approximates the Bark critical-band frequency warping used to
// lay the LSP curve's evaluation points across the spectrum.
func barkScale(f float64) float64 {
	return 13.1*math.Atan(0.00074*f) + 2.24*math.Atan(1.85e-8*f*f) + 1e-4*f
}

// readFloor0Packet decodes one block's floor-0 curve: an amplitude plus a
// set of LSP coefficients drawn from one of the floor's codebooks via its
// VQ lookup, synthesized into a linear-amplitude envelope of length
// 2^blockExp. A nil result means the encoder flagged this floor unused.
func readFloor0Packet(p *ogg.Packet, blockExp int, config floor0Config, codebooks []codebook) ([]float64, error) {
	amplitude, err := p.GetUintAsInt(int(config.amplitudeBits))
	if err != nil && !eop(err) {
		return nil, err
	}
	if amplitude == 0 {
		return nil, nil
	}

	bookBits := int(fls(len(config.books) - 1))
	bookNum, err := p.GetUintAsInt(bookBits)
	if err != nil && !eop(err) {
		return nil, err
	}
	if bookNum < 0 || bookNum >= len(config.books) {
		return nil, fmt.Errorf("%w: floor0 book index %d out of range", ErrCorrupt, bookNum)
	}
	book := codebooks[config.books[bookNum]]

	coeff := make([]float64, 0, config.order)
	for len(coeff) < int(config.order) {
		vec, err := book.DecodeVector(p)
		if err != nil {
			if eop(err) {
				break
			}
			return nil, err
		}
		coeff = append(coeff, vec...)
	}
	if len(coeff) > int(config.order) {
		coeff = coeff[:config.order]
	}
	for len(coeff) < int(config.order) {
		coeff = append(coeff, 0)
	}

	n := 1 << blockExp
	curve := make([]float64, n)
	nyquist := float64(config.rate) / 2
	barkNyquist := barkScale(nyquist)
	maxAmp := float64((uint32(1) << config.amplitudeBits) - 1)

	for i := 0; i < n; i++ {
		freq := float64(i) * nyquist / float64(n)
		mapped := barkScale(freq) / barkNyquist * float64(config.barkMapSize)
		omega := math.Pi * mapped / float64(config.barkMapSize)
		cosOmega := math.Cos(omega)

		p1, q1 := 0.5, 0.5
		j := 0
		for ; j+1 < len(coeff); j += 2 {
			q1 *= cosOmega - math.Cos(coeff[j])
			p1 *= cosOmega - math.Cos(coeff[j+1])
		}
		if j < len(coeff) {
			q1 *= cosOmega - math.Cos(coeff[j])
		}
		p1 *= p1 * (1 - cosOmega*cosOmega)
		q1 *= q1 * (1 + cosOmega*cosOmega)

		db := float64(amplitude)*float64(config.amplitudeOffset)/(maxAmp*math.Sqrt(p1+q1)) - float64(config.amplitudeOffset)
		curve[i] = math.Exp(db * 0.11512925164916967)
	}

	return curve, nil
}
