package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// floorConfig is one setup-header floor curve description. Exactly one of
// config0/config1 is set, per floorType.
type floorConfig struct {
	floorType uint16
	config0   *floor0Config
	config1   *floor1Config
}

func readFloorConfig(p *ogg.Packet) ([]floorConfig, error) {
	tmp, err := p.GetUint(6)
	if err != nil {
		return nil, err
	}
	floorLen := tmp + 1
	configs := make([]floorConfig, floorLen)
	for i := range configs {
		floorType, err := p.GetUint16(16)
		if err != nil {
			return nil, err
		}

		switch floorType {
		case 0:
			configs[i], err = readFloor0Header(p)
		case 1:
			configs[i], err = readFloor1Header(p)
		default:
			return nil, fmt.Errorf("%w: invalid floor type %d", ErrCorrupt, floorType)
		}
		if err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// readFloorPacket dispatches to the floor-type-specific packet decoder and
// normalizes the result to a single linear-amplitude spectral envelope, so
// callers never need to know which floor type produced it. A nil curve
// means the floor (and therefore its channel's residue) was flagged
// unused for this block.
func readFloorPacket(p *ogg.Packet, blockExp int, floor floorConfig, codebooks []codebook) ([]float64, error) {
	switch floor.floorType {
	case 0:
		return readFloor0Packet(p, blockExp, *floor.config0, codebooks)
	case 1:
		dbCurve, err := readFloor1Packet(p, blockExp, *floor.config1, codebooks)
		if err != nil || dbCurve == nil {
			return nil, err
		}
		curve := make([]float64, len(dbCurve))
		for i, v := range dbCurve {
			curve[i] = inverseDecibels(v)
		}
		return curve, nil
	default:
		return nil, fmt.Errorf("%w: invalid floor type %d", ErrCorrupt, floor.floorType)
	}
}
