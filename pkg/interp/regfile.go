package interp

import (
	"math"

	"mterp/pkg/framestack"
	"mterp/pkg/types"
)

// VReg is one tagged virtual register slot.
type VReg = framestack.Slot

// RegisterFile is a method invocation's virtual registers. Every store
// either tags the slot as a reference (SetRef, Copy of a tagged slot) or
// clears the tag, so the set of tagged slots is exactly the set of live
// references a collector has to see.
type RegisterFile struct {
	slots []VReg
}

func NewRegisterFile(slots []VReg) RegisterFile {
	return RegisterFile{slots: slots}
}

func (r RegisterFile) Len() int {
	return len(r.slots)
}

func (r RegisterFile) Get(i uint32) uint32 {
	return r.slots[i].Bits
}

func (r RegisterFile) GetInt(i uint32) int32 {
	return int32(r.slots[i].Bits)
}

// Set is a non-reference store.
func (r RegisterFile) Set(i uint32, v uint32) {
	r.slots[i] = VReg{Bits: v}
}

func (r RegisterFile) SetInt(i uint32, v int32) {
	r.slots[i] = VReg{Bits: uint32(v)}
}

// GetWide reads the pair (i, i+1), low word first.
func (r RegisterFile) GetWide(i uint32) uint64 {
	return uint64(r.slots[i].Bits) | uint64(r.slots[i+1].Bits)<<32
}

func (r RegisterFile) GetLong(i uint32) int64 {
	return int64(r.GetWide(i))
}

// SetWide stores a 64-bit value into (i, i+1) and clears both tags.
func (r RegisterFile) SetWide(i uint32, v uint64) {
	r.slots[i] = VReg{Bits: uint32(v)}
	r.slots[i+1] = VReg{Bits: uint32(v >> 32)}
}

func (r RegisterFile) SetLong(i uint32, v int64) {
	r.SetWide(i, uint64(v))
}

func (r RegisterFile) GetFloat(i uint32) float32 {
	return math.Float32frombits(r.slots[i].Bits)
}

func (r RegisterFile) SetFloat(i uint32, v float32) {
	r.slots[i] = VReg{Bits: math.Float32bits(v)}
}

func (r RegisterFile) GetDouble(i uint32) float64 {
	return math.Float64frombits(r.GetWide(i))
}

func (r RegisterFile) SetDouble(i uint32, v float64) {
	r.SetWide(i, math.Float64bits(v))
}

// GetRef reads slot i as a reference. An untagged slot reads as null: the
// only untagged value verified code uses as a reference is the constant 0.
func (r RegisterFile) GetRef(i uint32) types.HeapRef {
	s := r.slots[i]
	if !s.Ref {
		return types.NullRef
	}
	return types.HeapRef(s.Bits)
}

// SetRef is a reference store. Null is stored untagged.
func (r RegisterFile) SetRef(i uint32, ref types.HeapRef) {
	r.slots[i] = VReg{Bits: uint32(ref), Ref: !ref.IsNull()}
}

// Shadow returns the reference-shadow view of slot i: the stored reference
// if the slot is tagged, zero otherwise.
func (r RegisterFile) Shadow(i uint32) types.HeapRef {
	return r.GetRef(i)
}

// Copy moves slot src to dst including its tag (move-object).
func (r RegisterFile) Copy(dst, src uint32) {
	r.slots[dst] = r.slots[src]
}

// CopyWide moves the pair at src to dst. Overlapping pairs are handled.
func (r RegisterFile) CopyWide(dst, src uint32) {
	r.SetWide(dst, r.GetWide(src))
}

// Store writes a value of the given kind.
func (r RegisterFile) Store(i uint32, kind types.PrimitiveKind, v types.JValue) {
	switch kind {
	case types.KindWide:
		r.SetWide(i, v.Bits)
	case types.KindObject:
		r.SetRef(i, v.Ref())
	default:
		r.Set(i, kind.Narrow(uint32(v.Bits)))
	}
}

// Load reads a value of the given kind.
func (r RegisterFile) Load(i uint32, kind types.PrimitiveKind) types.JValue {
	switch kind {
	case types.KindWide:
		return types.JValue{Bits: r.GetWide(i)}
	case types.KindObject:
		return types.RefValue(r.GetRef(i))
	default:
		return types.JValue{Bits: uint64(r.Get(i))}
	}
}

// Slot returns a copy of slot i, tag included.
func (r RegisterFile) Slot(i uint32) VReg {
	return r.slots[i]
}

// VisitRefs calls fn for every tagged slot.
func (r RegisterFile) VisitRefs(fn func(types.HeapRef)) {
	for _, s := range r.slots {
		if s.Ref {
			fn(types.HeapRef(s.Bits))
		}
	}
}
