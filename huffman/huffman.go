// Package huffman builds canonical Huffman codebooks from a Vorbis
// codeword-length list and decodes symbols from them via a two-tier
// prefix table: a flat table indexed by the first table_bits of the
// bitstream, falling back to a sorted overflow list for codewords longer
// than the table covers.
package huffman

import (
	"errors"
	"fmt"
)

// ErrOverpopulated is returned when a length list assigns more codewords
// of some length than the code space allows.
var ErrOverpopulated = errors.New("huffman: codebook is overpopulated")

// ErrNoMatch is returned by Decode when no codeword in the book matches
// the upcoming bits — a corrupt stream.
var ErrNoMatch = errors.New("huffman: no codeword matches bitstream")

// maxTableBits bounds the flat prefix table's size, per the Vorbis
// reference decoder's table_bits = min(max_code_length, 10).
const maxTableBits = 10

// BitReader is the subset of ogg.Packet's bit-reading surface the decoder
// needs. Declared locally so this package does not import ogg.
type BitReader interface {
	PeekUint(n int) (uint32, error)
	Skip(n int)
}

type tableEntry struct {
	terminal bool
	value    int
	length   int
}

type overflowEntry struct {
	code   uint32
	length int
	value  int
}

// Codebook is a built Huffman decoder for one Vorbis codebook's codeword
// lengths.
type Codebook struct {
	tableBits int
	table     []tableEntry
	overflow  []overflowEntry

	singleton      bool
	singletonValue int
	singletonLen   int
}

// node is an internal construction node; leaves carry an entry index.
type node struct {
	index  int
	parent *node
	left   *node
	right  *node
}

func (n *node) isAvailable() bool { return n.index == -1 && n.right == nil }

func (n *node) appendChild(child *node) {
	if !n.isAvailable() {
		return
	}
	child.parent = n
	if n.left != nil {
		n.right = child
		return
	}
	n.left = child
}

// Build constructs a Codebook from entry lengths (index-aligned with the
// codebook's entries; a length of -1 marks an unused/sparse entry). The
// assignment order follows the Vorbis canonical codeword algorithm: walk
// entries in list order, each claiming the lowest available codeword of
// its declared length.
func Build(lengths []int) (*Codebook, error) {
	maxLen := 0
	usedCount := 0
	var onlyUsedIndex, onlyUsedLen int
	for i, l := range lengths {
		if l < 0 {
			continue
		}
		usedCount++
		onlyUsedIndex, onlyUsedLen = i, l
		if l > maxLen {
			maxLen = l
		}
	}
	if usedCount == 0 {
		return &Codebook{tableBits: 0}, nil
	}

	root := &node{index: -1}
	minNode := make([]*node, maxLen+1)
	minNode[0] = root
	for i := 1; i <= maxLen; i++ {
		minNode[i] = &node{index: -1}
		minNode[i-1].appendChild(minNode[i])
	}
	minNode[0] = nil

	for i, cl := range lengths {
		if cl < 0 {
			continue
		}
		leaf := minNode[cl]
		if leaf == nil {
			return nil, fmt.Errorf("%w: entry %d wants length %d", ErrOverpopulated, i, cl)
		}
		leaf.index = i
		leaf.left = nil

		for j := cl; j > 0; j-- {
			newNode := &node{index: -1}
			if pNode := minNode[j].parent; pNode.isAvailable() {
				pNode.appendChild(newNode)
				minNode[j] = newNode
			} else if uNode := minNode[j-1]; uNode != nil && uNode.isAvailable() {
				uNode.appendChild(newNode)
				minNode[j] = newNode
				break
			} else {
				minNode[j] = nil
				break
			}
		}

		if cl < maxLen && minNode[cl+1] != nil && minNode[cl+1].parent == leaf &&
			minNode[cl] != nil && minNode[cl].isAvailable() {
			minNode[cl].appendChild(minNode[cl+1])
		}
	}

	cb := &Codebook{}
	if usedCount == 1 {
		cb.singleton = true
		cb.singletonValue = onlyUsedIndex
		cb.singletonLen = onlyUsedLen
	}

	cb.tableBits = maxLen
	if cb.tableBits > maxTableBits {
		cb.tableBits = maxTableBits
	}
	cb.table = make([]tableEntry, 1<<cb.tableBits)

	walk(root, 0, 0, func(value, code, length int) {
		if length <= cb.tableBits {
			fillTable(cb.table, cb.tableBits, code, length, value)
		} else {
			cb.overflow = append(cb.overflow, overflowEntry{code: uint32(code), length: length, value: value})
		}
	})
	sortOverflowByLength(cb.overflow)

	return cb, nil
}

// walk visits every leaf, calling fn with its entry index, codeword (bit i
// of code is the i-th bit read descending from the root), and codeword
// length.
func walk(n *node, code, depth int, fn func(value, code, length int)) {
	if n == nil {
		return
	}
	if n.index != -1 {
		fn(n.index, code, depth)
		return
	}
	walk(n.left, code, depth+1, fn)
	walk(n.right, code|(1<<depth), depth+1, fn)
}

// fillTable marks every table slot whose low `length` bits equal code as a
// terminal match — the remaining tableBits-length bits are don't-cares.
func fillTable(table []tableEntry, tableBits, code, length, value int) {
	step := 1 << length
	for i := code; i < len(table); i += step {
		if i&(step-1) == code {
			table[i] = tableEntry{terminal: true, value: value, length: length}
		}
	}
}

func sortOverflowByLength(entries []overflowEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].length > entries[j].length; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

// Decode reads one symbol from r using this codebook, returning the
// matched entry index.
func (cb *Codebook) Decode(r BitReader) (int, error) {
	if cb.singleton {
		r.Skip(cb.singletonLen)
		return cb.singletonValue, nil
	}
	if cb.tableBits == 0 {
		return 0, ErrNoMatch
	}

	peek, err := r.PeekUint(cb.tableBits)
	if err != nil && peek == 0 {
		return 0, err
	}
	entry := cb.table[peek]
	if entry.terminal {
		r.Skip(entry.length)
		return entry.value, nil
	}
	for _, ov := range cb.overflow {
		bits, perr := r.PeekUint(ov.length)
		if perr == nil && bits == ov.code {
			r.Skip(ov.length)
			return ov.value, nil
		}
	}
	return 0, ErrNoMatch
}
