package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

func readCommonHeader(p *ogg.Packet, headerOrder uint8) error {
	packetType, err := p.GetUint8(8)
	if err != nil {
		return err
	}
	if packetType&1 != 1 || packetType>>1 != headerOrder {
		return fmt.Errorf("%w: invalid header type %x at slot %d", ErrCorrupt, packetType, headerOrder)
	}
	pattern, err := p.GetBytes(6)
	if err != nil {
		return err
	}
	if string(pattern) != "vorbis" {
		return &NotVorbisError{Codec: string(pattern)}
	}
	return nil
}

func readIdentification(p *ogg.Packet) (_ Identification, err error) {
	err = readCommonHeader(p, 0)
	if err != nil {
		return
	}

	fields, err := p.GetUintSerial(32, 8, 32, 32, 32, 32, 4, 4, 1)
	if err != nil {
		return
	}

	if fields[0] != 0 {
		err = fmt.Errorf("%w: incompatible vorbis version %d", ErrCorrupt, fields[0])
		return
	}
	if fields[1] == 0 {
		err = fmt.Errorf("%w: zero channel count", ErrCorrupt)
		return
	}
	var bitRate [3]int32
	for i, v := range fields[3:6] {
		bitRate[i] = int32(v)
	}
	var blockExp [2]byte
	for i, v := range fields[6:8] {
		if v < 6 || 13 < v {
			err = fmt.Errorf("%w: invalid block size exponent %d", ErrCorrupt, v)
			return
		}
		blockExp[i] = byte(v)
	}
	if blockExp[0] > blockExp[1] {
		err = fmt.Errorf("%w: short block exponent exceeds long block exponent", ErrCorrupt)
		return
	}
	if fields[8] != 1 {
		err = fmt.Errorf("%w: identification header framing bit not set", ErrCorrupt)
		return
	}

	return Identification{
		Channels:   byte(fields[1]),
		SampleRate: fields[2],
		BitRate:    bitRate,
		BlockExp:   blockExp,
	}, nil
}

func readSetup(p *ogg.Packet, ident Identification) (_ VorbisSetup, err error) {
	err = readCommonHeader(p, 2)
	if err != nil {
		return
	}
	cbLen, err := p.GetUint(8)
	if err != nil {
		return
	}
	codebooks := make([]codebook, cbLen+1)
	for i := range codebooks {
		codebooks[i], err = readCodebook(p)
		if err != nil {
			err = fmt.Errorf("codebook %d: %w", i, err)
			return
		}
	}

	// time-domain transform placeholders: reserved, must be all-zero.
	tdt, err := p.GetUint(6)
	if err != nil {
		return
	}
	for i := 0; i < int(tdt)+1; i++ {
		var v uint32
		v, err = p.GetUint(16)
		if err != nil {
			return
		}
		if v != 0 {
			err = fmt.Errorf("%w: non-zero time domain transform placeholder %d: %x", ErrCorrupt, tdt, v)
			return
		}
	}

	floorConfigs, err := readFloorConfig(p)
	if err != nil {
		return
	}

	residueConfigs, err := readResidueConfig(p)
	if err != nil {
		return
	}

	mappingConfigs, err := readMappingConfigs(p, ident)
	if err != nil {
		return
	}

	modeConfigs, err := readModeConfigs(p)
	if err != nil {
		return
	}

	framingBit, err := p.GetFlag()
	if err != nil {
		return
	}
	if !framingBit {
		err = fmt.Errorf("%w: setup header framing bit not set", ErrCorrupt)
		return
	}

	return VorbisSetup{
		codebooks:      codebooks,
		floorConfigs:   floorConfigs,
		residueConfigs: residueConfigs,
		mappingConfigs: mappingConfigs,
		modeConfigs:    modeConfigs,
	}, nil
}

func readModeConfigs(p *ogg.Packet) ([]modeConfig, error) {
	modeLen, err := p.GetUint(6)
	if err != nil {
		return nil, err
	}
	modeLen += 1

	modes := make([]modeConfig, modeLen)
	for i := range modes {
		fields, err := p.GetUintSerial(1, 16, 16, 8)
		if err != nil {
			return nil, err
		}
		if fields[1] != 0 || fields[2] != 0 {
			return nil, fmt.Errorf("%w: non-zero reserved field in mode config", ErrCorrupt)
		}
		modes[i] = modeConfig{
			blockFlag: fields[0] == 1,
			mapping:   uint8(fields[3]),
		}
	}
	return modes, nil
}
