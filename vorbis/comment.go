package vorbis

import (
	"strings"

	"github.com/sr8e/go-ogg-vorbis/ogg"
)

// Tags holds the vendor string and key/value comment fields carried by a
// Vorbis comment header.
type Tags struct {
	Vendor string
	Fields map[string][]string
}

// Get returns the first value stored under key (case-insensitive, per the
// Vorbis comment convention), and whether any value was present.
func (t Tags) Get(key string) (string, bool) {
	vs, ok := t.Fields[strings.ToUpper(key)]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func readComment(p *ogg.Packet, logger Logger) (Tags, error) {
	if err := readCommonHeader(p, 1); err != nil {
		return Tags{}, err
	}

	vendorLen, err := p.GetUint(32)
	if err != nil {
		return Tags{}, err
	}
	vendor, err := p.GetBytes(int(vendorLen))
	if err != nil {
		return Tags{}, err
	}

	commentCount, err := p.GetUint(32)
	if err != nil {
		return Tags{}, err
	}

	fields := make(map[string][]string, commentCount)
	for i := uint32(0); i < commentCount; i++ {
		fieldLen, err := p.GetUint(32)
		if err != nil {
			return Tags{}, err
		}
		raw, err := p.GetBytes(int(fieldLen))
		if err != nil {
			return Tags{}, err
		}
		key, value, ok := strings.Cut(string(raw), "=")
		if !ok {
			logger.Warnf("vorbis: comment field %d has no '=' separator, skipping", i)
			continue
		}
		key = strings.ToUpper(key)
		fields[key] = append(fields[key], value)
	}

	if framing, err := p.GetFlag(); err != nil || !framing {
		logger.Warnf("vorbis: comment header missing framing bit")
	}

	return Tags{Vendor: string(vendor), Fields: fields}, nil
}
