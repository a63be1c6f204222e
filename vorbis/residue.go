package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

type residueConfig struct {
	residueType   uint16
	begin         uint32
	end           uint32
	partitionSize uint32
	classLen      uint8
	classBook     uint8
	residueBooks  [][8]int
}

func readResidueConfig(p *ogg.Packet) ([]residueConfig, error) {
	tmp, err := p.GetUint(6)
	if err != nil {
		return nil, err
	}
	residueLen := tmp + 1
	configs := make([]residueConfig, residueLen)
	for i := range configs {
		residueType, err := p.GetUint16(16)
		if err != nil {
			return nil, err
		}

		if residueType < 3 {
			cfg, err := readResidueHeader(p)
			if err != nil {
				return nil, err
			}
			cfg.residueType = residueType
			configs[i] = cfg
		} else {
			return nil, fmt.Errorf("%w: invalid residue type %d", ErrCorrupt, residueType)
		}
	}
	return configs, nil
}

func readResidueHeader(p *ogg.Packet) (_ residueConfig, err error) {
	fields, err := p.GetUintSerial(24, 24, 24, 6, 8)
	if err != nil {
		return
	}
	clsLen := fields[3] + 1
	cascade := make([]uint8, clsLen)
	for i := range cascade {
		var high, low uint8
		var flag bool
		low, err = p.GetUint8(3)
		if err != nil {
			return
		}
		flag, err = p.GetFlag()
		if err != nil {
			return
		}
		if flag {
			high, err = p.GetUint8(5)
			if err != nil {
				return
			}
		}
		cascade[i] = high<<3 + low
	}

	residueBooks := make([][8]int, clsLen)
	for i, v := range cascade {
		for j := 0; j < 8; j++ {
			if (v>>j)&1 == 1 {
				residueBooks[i][j], err = p.GetUintAsInt(8)
				if err != nil {
					return
				}
			} else {
				residueBooks[i][j] = -1
			}
		}
	}

	return residueConfig{
		begin:         fields[0],
		end:           fields[1],
		partitionSize: fields[2] + 1,
		classLen:      uint8(clsLen),
		classBook:     uint8(fields[4]),
		residueBooks:  residueBooks,
	}, nil
}

// decodeResidue runs the partition/class/pass residue decode algorithm
// over n actual spectral lines per channel, returning one vector per
// channel named in noDecode. A channel flagged true is returned as an
// all-zero vector; for types 0 and 1 it consumes no bits, while for type 2
// its lines are still read as part of the interleaved vector whenever any
// channel is unflagged.
func decodeResidue(p *ogg.Packet, n int, cfg residueConfig, codebooks []codebook, noDecode []bool) ([][]float64, error) {
	if cfg.residueType == 2 {
		return decodeResidueType2(p, n, cfg, codebooks, noDecode)
	}
	return decodeResidueVectors(p, n, cfg, codebooks, noDecode)
}

// decodeResidueVectors implements residue types 0 and 1, which differ
// only in how an encoder is permitted to lay out codebook dimensions
// against partition boundaries — a distinction with no effect on how a
// decoder must walk the partition/class/pass structure, so both share
// this one decode loop.
func decodeResidueVectors(p *ogg.Packet, n int, cfg residueConfig, codebooks []codebook, noDecode []bool) ([][]float64, error) {
	ch := len(noDecode)
	vectors := make([][]float64, ch)
	for i := range vectors {
		vectors[i] = make([]float64, n)
	}

	begin := int(cfg.begin)
	end := int(cfg.end)
	if end > n {
		end = n
	}
	if begin > end {
		begin = end
	}
	partitionSize := int(cfg.partitionSize)
	if partitionSize <= 0 {
		return vectors, nil
	}
	partitions := (end - begin) / partitionSize

	classBook := codebooks[cfg.classBook]
	classWords := classBook.dimension
	if classWords < 1 {
		classWords = 1
	}
	classLen := int(cfg.classLen)
	if classLen < 1 {
		classLen = 1
	}

	classifications := make([][]int, ch)
	for i := range classifications {
		classifications[i] = make([]int, partitions)
	}

	for pass := 0; pass < 8; pass++ {
		i := 0
		for i < partitions {
			for j := 0; j < ch; j++ {
				if noDecode[j] || pass != 0 {
					continue
				}
				temp, err := classBook.ReadScalarValue(p)
				if err != nil {
					if eop(err) {
						temp = 0
					} else {
						return nil, err
					}
				}
				for k := classWords - 1; k >= 0; k-- {
					if i+k < partitions {
						classifications[j][i+k] = temp % classLen
					}
					temp /= classLen
				}
			}
			for k := 0; k < classWords && i < partitions; k++ {
				offset := begin + i*partitionSize
				for j := 0; j < ch; j++ {
					if noDecode[j] {
						continue
					}
					class := classifications[j][i]
					book := cfg.residueBooks[class][pass]
					if book < 0 {
						continue
					}
					if err := decodePartition(p, codebooks[book], vectors[j], offset, partitionSize); err != nil {
						return nil, err
					}
				}
				i++
			}
		}
	}
	return vectors, nil
}

// decodeResidueType2 interleaves every channel's spectral lines into one
// virtual channel, decodes it with the type 0/1 algorithm, then
// de-interleaves the result back to per-channel vectors, leaving flagged
// channels all-zero.
func decodeResidueType2(p *ogg.Packet, n int, cfg residueConfig, codebooks []codebook, noDecode []bool) ([][]float64, error) {
	ch := len(noDecode)
	vectors := make([][]float64, ch)
	for i := range vectors {
		vectors[i] = make([]float64, n)
	}

	allSkip := true
	for _, v := range noDecode {
		if !v {
			allSkip = false
			break
		}
	}
	if allSkip || ch == 0 {
		return vectors, nil
	}

	merged, err := decodeResidueVectors(p, n*ch, cfg, codebooks, []bool{false})
	if err != nil {
		return nil, err
	}
	flat := merged[0]
	for i := 0; i < n; i++ {
		for j := 0; j < ch; j++ {
			if noDecode[j] {
				continue
			}
			vectors[j][i] = flat[i*ch+j]
		}
	}
	return vectors, nil
}

// decodePartition reads one partition's worth of codebook vectors and
// accumulates them into vec starting at offset.
func decodePartition(p *ogg.Packet, book codebook, vec []float64, offset, size int) error {
	dim := book.dimension
	if dim < 1 {
		dim = 1
	}
	for o := 0; o < size; o += dim {
		values, err := book.DecodeVector(p)
		if err != nil {
			if eop(err) {
				return nil
			}
			return err
		}
		for k := 0; k < dim && o+k < size; k++ {
			if k < len(values) {
				vec[offset+o+k] += values[k]
			}
		}
	}
	return nil
}
