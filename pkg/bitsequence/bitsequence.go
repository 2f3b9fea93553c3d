package bitsequence

import (
	"fmt"
)

// BitSequence represents a sequence of bits stored in a []byte.
// The bits are packed in LSB-first order within each byte (i.e. bit 0 is stored in the least significant bit).
//
// The interpreter uses one per method to mark the code units at which an
// instruction starts, so branch targets and exported pcs can be checked
// against instruction boundaries without re-decoding.
type BitSequence struct {
	buf    []byte // underlying byte slice
	bitLen int    // number of bits stored in the sequence
}

// New returns a zeroed sequence of bitLen bits.
func New(bitLen int) *BitSequence {
	return &BitSequence{
		buf:    make([]byte, (bitLen+7)/8),
		bitLen: bitLen,
	}
}

// BitAt returns the bit at position i (0-indexed).
// It panics if i is out of range.
func (bs *BitSequence) BitAt(i int) bool {
	byteIndex := i >> 3
	bitPos := i & 7
	return (bs.buf[byteIndex] & (1 << uint(bitPos))) != 0
}

// Set sets the bit at position i. It panics if i is out of range.
func (bs *BitSequence) Set(i int) {
	if i < 0 || i >= bs.bitLen {
		panic(fmt.Sprintf("bit %d out of range [0,%d)", i, bs.bitLen))
	}
	bs.buf[i>>3] |= 1 << uint(i&7)
}

// Test is BitAt without the panic: positions outside the sequence read as false.
func (bs *BitSequence) Test(i int) bool {
	if i < 0 || i >= bs.bitLen {
		return false
	}
	return bs.BitAt(i)
}

// Len returns the total number of bits in the sequence.
func (bs *BitSequence) Len() int {
	return bs.bitLen
}
