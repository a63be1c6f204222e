package vorbis

import (
	"fmt"

	"github.com/sr8e/go-ogg-vorbis/ogg"
	"github.com/sr8e/go-ogg-vorbis/transform"
)

// decodedBlock is one audio packet's synthesized time-domain samples,
// still in the windowed, non-overlapped form IMDCT produces: the caller
// is responsible for lapping it 50% against the previous block.
type decodedBlock struct {
	samples   [][]float64
	blockExp  int
	longBlock bool
}

func decodeAudioPacket(p *ogg.Packet, ident Identification, vs VorbisSetup, logger Logger) (*decodedBlock, error) {
	packetType, err := p.GetFlag()
	if err != nil {
		return nil, err
	}
	if packetType {
		return nil, fmt.Errorf("%w: invalid audio packet type flag", ErrCorrupt)
	}
	if len(vs.modeConfigs) == 0 {
		return nil, fmt.Errorf("%w: no modes configured", ErrCorrupt)
	}
	modeBits := int(fls(len(vs.modeConfigs) - 1))
	modeNum, err := p.GetUintAsInt(modeBits)
	if err != nil {
		return nil, err
	}
	if modeNum < 0 || modeNum >= len(vs.modeConfigs) {
		return nil, fmt.Errorf("%w: mode index %d out of range", ErrCorrupt, modeNum)
	}
	mode := vs.modeConfigs[modeNum]

	var blockExp int
	var windowFunc func(int, int) float64

	if mode.blockFlag { // long window
		blockExp = int(ident.BlockExp[1])
		windowFlags, err := p.GetUint(2)
		if err != nil {
			return nil, err
		}
		leftExp := int(ident.BlockExp[windowFlags&1])
		rightExp := int(ident.BlockExp[(windowFlags>>1)&1])
		windowFunc = transform.VorbisWindowVarWidth(leftExp, rightExp)
	} else {
		blockExp = int(ident.BlockExp[0])
		windowFunc = transform.VorbisWindowVarWidth(blockExp, blockExp)
	}

	if int(mode.mapping) >= len(vs.mappingConfigs) {
		return nil, fmt.Errorf("%w: mapping index %d out of range", ErrCorrupt, mode.mapping)
	}
	mapping := vs.mappingConfigs[mode.mapping]
	chNum := int(ident.Channels)
	n := 1 << blockExp
	halfN := n / 2

	floors := make([][]float64, chNum)
	noResidueFlags := make([]bool, chNum)
	for i := 0; i < chNum; i++ {
		submapIdx := mapping.mapMux[i]
		submap := mapping.submaps[submapIdx]
		floor := vs.floorConfigs[submap.floor]

		curve, err := readFloorPacket(p, blockExp-1, floor, vs.codebooks)
		if err != nil {
			if eop(err) {
				logger.Debugf("vorbis: floor decode hit end of packet on channel %d", i)
			} else {
				return nil, err
			}
		}
		if curve == nil {
			noResidueFlags[i] = true
			curve = make([]float64, halfN)
		}
		floors[i] = curve
	}
	for _, v := range mapping.polarMap {
		a, b := int(v[0]), int(v[1])
		if noResidueFlags[a] != noResidueFlags[b] {
			noResidueFlags[a] = false
			noResidueFlags[b] = false
		}
	}

	residues := make([][]float64, chNum)
	for i := range residues {
		residues[i] = make([]float64, halfN)
	}
	for i, submap := range mapping.submaps {
		noDecodeFlags := make([]bool, 0, chNum)
		chIndexes := make([]int, 0, chNum)
		for ch, submapIndex := range mapping.mapMux {
			if int(submapIndex) == i {
				noDecodeFlags = append(noDecodeFlags, noResidueFlags[ch])
				chIndexes = append(chIndexes, ch)
			}
		}
		if len(chIndexes) == 0 {
			continue
		}
		residue := vs.residueConfigs[submap.residue]
		vecs, err := decodeResidue(p, halfN, residue, vs.codebooks, noDecodeFlags)
		if err != nil {
			return nil, err
		}
		for k, ch := range chIndexes {
			residues[ch] = vecs[k]
		}
	}

	applyCoupling(mapping, residues)

	samples := make([][]float64, chNum)
	for ch := 0; ch < chNum; ch++ {
		spectrum := make([]float64, halfN)
		if !noResidueFlags[ch] {
			curve := floors[ch]
			res := residues[ch]
			for i := 0; i < halfN; i++ {
				spectrum[i] = res[i] * curve[i]
			}
		}
		samples[ch] = transform.IMDCT(spectrum, blockExp, windowFunc)
	}

	return &decodedBlock{samples: samples, blockExp: blockExp, longBlock: mode.blockFlag}, nil
}
