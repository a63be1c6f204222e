package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

type mappingConfig struct {
	polarMap [][]uint32
	mapMux   []uint8
	submaps  []mappingSubmap
}

type mappingSubmap struct {
	floor   uint32
	residue uint32
}

func readMappingConfigs(p *ogg.Packet, ident Identification) ([]mappingConfig, error) {
	mapLen, err := p.GetUint(6)
	if err != nil {
		return nil, err
	}
	mapLen += 1

	maps := make([]mappingConfig, mapLen, mapLen)
	for i, _ := range maps {
		mapType, err := p.GetUint(16)
		if err != nil {
			return nil, err
		}
		if mapType != 0 {
			return nil, fmt.Errorf("%w: invalid maptype", ErrCorrupt)
		}
		submapFlag, err := p.GetFlag()
		if err != nil {
			return nil, err
		}
		var submapLen uint8 = 1
		if submapFlag {
			submapLen, err = p.GetUint8(4)
			if err != nil {
				return nil, err
			}
		}
		couplingFlag, err := p.GetFlag()
		if err != nil {
			return nil, err
		}
		var polarMap [][]uint32
		if couplingFlag {
			couplingStep, err := p.GetUint(8)
			if err != nil {
				return nil, err
			}
			couplingStep += 1

			polarMap = make([][]uint32, couplingStep, couplingStep)
			b := int(fls(int(ident.Channels - 1)))
			for j, _ := range polarMap {
				polarMap[j], err = p.GetUintSerial(b, b)
				if err != nil {
					return nil, err
				}
			}
		}
		rsv, err := p.GetUint(2)
		if err != nil {
			return nil, err
		}
		if rsv != 0 {
			return nil, fmt.Errorf("%w: non-zero reserved field in mapping setup", ErrCorrupt)
		}

		// mapMux always names every channel's submap, even when there is
		// only one submap to choose from (every channel routes to it).
		mapMux := make([]uint8, ident.Channels)
		if submapLen > 1 {
			for j := range mapMux {
				mapMux[j], err = p.GetUint8(4)
				if err != nil {
					return nil, err
				}
				if mapMux[j] >= submapLen {
					return nil, fmt.Errorf("%w: invalid submap mux value", ErrCorrupt)
				}
			}
		}
		submaps := make([]mappingSubmap, submapLen, submapLen)
		for j, _ := range submaps {
			fields, err := p.GetUintSerial(8, 8, 8)
			if err != nil {
				return nil, err
			}
			submaps[j] = mappingSubmap{
				floor:   fields[1],
				residue: fields[2],
			}
		}

		maps[i] = mappingConfig{
			polarMap: polarMap,
			mapMux:   mapMux,
			submaps:  submaps,
		}
	}
	return maps, nil
}

// applyCoupling reverses channel coupling in place: each polarMap entry
// names a (magnitude, angle) channel pair whose decoded residue encodes
// the sum/difference of the two original channels rather than their raw
// values.
func applyCoupling(mapping mappingConfig, residues [][]float64) {
	for _, pair := range mapping.polarMap {
		magCh, angCh := int(pair[0]), int(pair[1])
		mag := residues[magCh]
		ang := residues[angCh]
		for i := range mag {
			m, a := mag[i], ang[i]
			var A, B float64
			switch {
			case m > 0 && a > 0:
				A, B = m, m-a
			case m > 0 && a <= 0:
				A, B = m+a, m
			case m <= 0 && a > 0:
				A, B = m, m+a
			default:
				A, B = m-a, m
			}
			mag[i] = A
			ang[i] = B
		}
	}
}
