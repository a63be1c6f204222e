package vorbis

// Identification is the decoded contents of a Vorbis identification
// header: the fixed parameters that hold for every packet in the stream.
type Identification struct {
	Channels   byte
	SampleRate uint32
	BitRate    [3]int32
	BlockExp   [2]uint8
}

// VorbisSetup is the decoded contents of a Vorbis setup header: the
// codebooks and floor/residue/mapping/mode configurations every audio
// packet in the stream is decoded against.
type VorbisSetup struct {
	codebooks      []codebook
	floorConfigs   []floorConfig
	residueConfigs []residueConfig
	mappingConfigs []mappingConfig
	modeConfigs    []modeConfig
}

type modeConfig struct {
	blockFlag bool
	mapping   uint8
}
