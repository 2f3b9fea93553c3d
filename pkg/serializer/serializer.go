package serializer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// EncodeGeneralNatural encodes a uint64 length value using the compact encoding format.
// It follows three cases:
//  1. x == 0: output a single 0x00 octet.
//  2. x fits in a computed header + remainder format.
//  3. Otherwise, output 0xFF followed by x as 8 little-endian octets.
func EncodeGeneralNatural(x uint64) []byte {
	var result []byte
	if x == 0 {
		return []byte{0x00}
	}

	// l = floor(log2(x)/7)
	l := uint((bits.Len64(x) - 1) / 7)

	if l < 8 {
		// Header: 2^8 - 2^(8-l) + ⌊x/(2^(8l))⌋
		header := (1 << 8) - (1 << (8 - l)) + (x >> (8 * l))
		result = append(result, byte(header))

		if l > 0 {
			remainder := x & ((uint64(1) << (8 * l)) - 1)
			result = append(result, EncodeLittleEndian(int(l), remainder)...)
		}
	} else {
		result = append(result, 0xFF)
		result = append(result,
			byte(x), byte(x>>8), byte(x>>16), byte(x>>24),
			byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
	}
	return result
}

func EncodeLittleEndian(octets int, x uint64) []byte {
	switch octets {
	case 1:
		return []byte{byte(x)}
	case 2:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(x))
		return buf[:]
	case 4:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(x))
		return buf[:]
	case 8:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], x)
		return buf[:]
	default:
		result := make([]byte, octets)
		for i := 0; i < octets; i++ {
			result[i] = byte(x)
			x >>= 8
		}
		return result
	}
}

func countLeadingOnes(b byte) int {
	return bits.LeadingZeros8(^b)
}

func DecodeGeneralNatural(p []byte) (x uint64, n int, ok bool) {
	if len(p) == 0 {
		return 0, 0, false
	}

	header := p[0]
	if header == 0x00 {
		return 0, 1, true
	}
	if header == 0xFF {
		if len(p) < 9 {
			return 0, 0, false
		}
		x = binary.LittleEndian.Uint64(p[1:9])
		return x, 1 + 8, true
	}
	// l = number of extra little-endian bytes following the header.
	l := countLeadingOnes(header)
	base := byte(int(1<<8) - (1 << (8 - l)))
	high := uint64(header - base)
	if len(p) < 1+l {
		return 0, 0, false
	}
	remainder := DecodeLittleEndian(p[1 : 1+l])
	x = (high << (8 * l)) | remainder
	return x, 1 + l, true
}

func DecodeLittleEndian(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		var x uint64
		for i, v := range b {
			x |= uint64(v) << (8 * i)
		}
		return x
	}
}

// Writer accumulates a container in the compact encoding.
type Writer struct {
	buf bytes.Buffer
}

func (w *Writer) Natural(x uint64) {
	w.buf.Write(EncodeGeneralNatural(x))
}

func (w *Writer) Fixed(octets int, x uint64) {
	w.buf.Write(EncodeLittleEndian(octets, x))
}

func (w *Writer) Raw(b []byte) {
	w.buf.Write(b)
}

// Blob writes a length-prefixed byte string.
func (w *Writer) Blob(b []byte) {
	w.Natural(uint64(len(b)))
	w.buf.Write(b)
}

func (w *Writer) String(s string) {
	w.Blob([]byte(s))
}

// Units writes a length-prefixed sequence of 16-bit little-endian units.
func (w *Writer) Units(units []uint16) {
	w.Natural(uint64(len(units)))
	for _, u := range units {
		w.Fixed(2, uint64(u))
	}
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes a container written by Writer. The first failure is sticky.
type Reader struct {
	p   []byte
	off int
	err error
}

func NewReader(p []byte) *Reader {
	return &Reader{p: p}
}

func (r *Reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("offset %d: %s", r.off, fmt.Sprintf(format, args...))
	}
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Remaining() int {
	return len(r.p) - r.off
}

func (r *Reader) Natural() uint64 {
	if r.err != nil {
		return 0
	}
	x, n, ok := DecodeGeneralNatural(r.p[r.off:])
	if !ok {
		r.fail("truncated natural")
		return 0
	}
	r.off += n
	return x
}

// Count reads an entry count. Each entry takes at least minEntrySize bytes,
// which bounds allocations when decoding garbage.
func (r *Reader) Count(minEntrySize int) int {
	n := r.Natural()
	if minEntrySize > 0 && n > uint64(r.Remaining()/minEntrySize) {
		r.fail("count %d exceeds remaining %d bytes", n, r.Remaining())
		return 0
	}
	return int(n)
}

func (r *Reader) Fixed(octets int) uint64 {
	b := r.Raw(octets)
	if b == nil {
		return 0
	}
	return DecodeLittleEndian(b)
}

func (r *Reader) Raw(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.p) {
		r.fail("need %d bytes, have %d", n, len(r.p)-r.off)
		return nil
	}
	b := r.p[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Blob() []byte {
	n := r.Natural()
	if n > uint64(r.Remaining()) {
		r.fail("blob length %d exceeds remaining %d", n, r.Remaining())
		return nil
	}
	b := r.Raw(int(n))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (r *Reader) String() string {
	return string(r.Blob())
}

func (r *Reader) Units() []uint16 {
	n := r.Natural()
	if n*2 > uint64(r.Remaining()) {
		r.fail("unit count %d exceeds remaining %d bytes", n, r.Remaining())
		return nil
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = uint16(r.Fixed(2))
	}
	return units
}
