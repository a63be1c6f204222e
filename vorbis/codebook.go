package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/huffman"
	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// codebook is one setup-header codebook: a canonical Huffman decoder over
// its codeword lengths, plus an optional VQ lookup table mapping each
// entry to a dimension-sized vector of real values.
type codebook struct {
	dimension  int
	huff       *huffman.Codebook
	lookupType uint8
	vectors    [][]float64
}

func readCodebook(p *ogg.Packet) (_ codebook, err error) {
	pattern, err := p.GetUint(24)
	if err != nil {
		return
	}
	if pattern != 0x564342 {
		err = fmt.Errorf("%w: bad codebook sync pattern %06x", ErrCorrupt, pattern)
		return
	}

	dim, err := p.GetUint(16)
	if err != nil {
		return
	}
	entryLen, err := p.GetUint(24)
	if err != nil {
		return
	}

	entries, err := readCodebookEntries(p, int(entryLen))
	if err != nil {
		return
	}
	lookupType, vectors, err := readVQLookup(p, dim, entryLen)
	if err != nil {
		return
	}
	huff, err := huffman.Build(entries)
	if err != nil {
		return codebook{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return codebook{
		dimension:  int(dim),
		huff:       huff,
		lookupType: lookupType,
		vectors:    vectors,
	}, nil
}

// readCodebookEntries decodes the codeword-length list, either as an
// explicit (possibly sparse) list or as an ordered run-length sequence
// where lengths only ever increase.
func readCodebookEntries(p *ogg.Packet, entryLen int) ([]int, error) {
	entries := make([]int, entryLen)

	ordered, err := p.GetUint(1)
	if err != nil {
		return nil, err
	}

	if ordered != 0 {
		cur := 0
		lenField, err := p.GetUint(5)
		if err != nil {
			return nil, err
		}
		length := int(lenField) + 1
		for cur < entryLen {
			bits := int(fls(entryLen - cur))
			num, err := p.GetUint(bits)
			if err != nil {
				return nil, err
			}
			for i := 0; i < int(num) && cur < entryLen; i++ {
				entries[cur] = length
				cur++
			}
			length++
		}
		return entries, nil
	}

	sparse, err := p.GetUint(1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < entryLen; i++ {
		if sparse != 0 {
			flag, err := p.GetUint(1)
			if err != nil {
				return nil, err
			}
			if flag == 0 { // unused entry
				entries[i] = -1
				continue
			}
		}
		cwLen, err := p.GetUint(5)
		if err != nil {
			return nil, err
		}
		entries[i] = int(cwLen) + 1
	}
	return entries, nil
}

// readVQLookup decodes the optional vector quantization lookup table
// (lookup type 1: lattice-indexed shared values; type 2: one explicit
// value per dimension per entry).
func readVQLookup(p *ogg.Packet, dimension, entryLen uint32) (lookupType uint8, vectors [][]float64, err error) {
	lookup, err := p.GetUint(4)
	if err != nil {
		return
	}
	if lookup == 0 {
		return 0, nil, nil
	}
	if lookup > 2 {
		err = fmt.Errorf("%w: invalid VQ lookup type %d", ErrCorrupt, lookup)
		return
	}
	lookupType = uint8(lookup)

	values, err := p.GetUintSerial(32, 32, 4, 1)
	if err != nil {
		return
	}
	minimum := toFloat(values[0])
	delta := toFloat(values[1])
	bits := int(values[2]) + 1
	seqFlag := values[3] == 1

	var lookupLen int
	if lookup == 1 {
		lookupLen = lookup1Values(uint16(dimension), entryLen)
	} else {
		lookupLen = int(dimension) * int(entryLen)
	}
	muls := make([]uint32, lookupLen)
	for i := 0; i < lookupLen; i++ {
		muls[i], err = p.GetUint(bits)
		if err != nil {
			return
		}
	}

	vectors = make([][]float64, entryLen)
	if lookup == 1 {
		for i := 0; i < int(entryLen); i++ {
			var last float64
			mulOfs := i
			vectors[i] = make([]float64, dimension)
			for j := 0; j < int(dimension); j++ {
				vectors[i][j] = float64(muls[mulOfs%lookupLen])*delta + minimum + last
				if seqFlag {
					last = vectors[i][j]
				}
				mulOfs /= lookupLen
			}
		}
	} else {
		for i := 0; i < int(entryLen); i++ {
			var last float64
			vectors[i] = make([]float64, dimension)
			for j := 0; j < int(dimension); j++ {
				vectors[i][j] = float64(muls[i*int(dimension)+j])*delta + minimum + last
				if seqFlag {
					last = vectors[i][j]
				}
			}
		}
	}

	return lookupType, vectors, nil
}

// ReadScalarValue decodes one Huffman symbol, the entry index into this
// codebook. Used directly by floor and residue classification decode,
// which only need the index, not a VQ vector.
func (cb codebook) ReadScalarValue(p *ogg.Packet) (int, error) {
	v, err := cb.huff.Decode(p)
	if err != nil {
		if eop(err) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return v, nil
}

// DecodeVector decodes one Huffman symbol and resolves it through the VQ
// lookup table, returning a dimension-sized vector of real values. For a
// codebook with no VQ lookup (lookup type 0), it returns the raw entry
// index as a one-element vector.
func (cb codebook) DecodeVector(p *ogg.Packet) ([]float64, error) {
	idx, err := cb.ReadScalarValue(p)
	if err != nil {
		return nil, err
	}
	if cb.lookupType == 0 || cb.vectors == nil {
		return []float64{float64(idx)}, nil
	}
	if idx < 0 || idx >= len(cb.vectors) {
		return nil, fmt.Errorf("%w: vq index %d out of range", ErrCorrupt, idx)
	}
	return cb.vectors[idx], nil
}
