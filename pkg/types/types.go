package types

import (
	"fmt"
	"math"

	"mterp/pkg/constants"
)

// CodeUnit is one 16-bit unit of the instruction stream.
type CodeUnit uint16

// Opcode returns the low byte of the first code unit of an instruction.
func (c CodeUnit) Opcode() uint8 {
	return uint8(c)
}

// DexPC is an offset into a method's code, measured in code units.
type DexPC uint32

// NoDexPC marks a frame whose pc has never been exported.
const NoDexPC DexPC = math.MaxUint32

// HeapRef is a compressed 32-bit object reference. Zero is null.
type HeapRef uint32

const NullRef HeapRef = 0

func (r HeapRef) IsNull() bool {
	return r == NullRef
}

type StringIndex uint32

type TypeIndex uint32

type FieldIndex uint32

type MethodIndex uint32

type VRegIndex uint16

func NewVRegIndex(value int, registersSize int) (VRegIndex, error) {
	if value < 0 || value >= registersSize || value > constants.MaxVRegs {
		return 0, fmt.Errorf("invalid vreg index %d: frame has %d registers", value, registersSize)
	}
	return VRegIndex(value), nil
}

// JValue holds any value a method can return: a 32-bit or 64-bit primitive,
// or a reference (IsRef set, low 32 bits hold the HeapRef).
type JValue struct {
	Bits  uint64
	IsRef bool
}

func IntValue(v int32) JValue {
	return JValue{Bits: uint64(uint32(v))}
}

func LongValue(v int64) JValue {
	return JValue{Bits: uint64(v)}
}

func FloatValue(v float32) JValue {
	return JValue{Bits: uint64(math.Float32bits(v))}
}

func DoubleValue(v float64) JValue {
	return JValue{Bits: math.Float64bits(v)}
}

func RefValue(r HeapRef) JValue {
	return JValue{Bits: uint64(r), IsRef: true}
}

func (v JValue) Int() int32 {
	return int32(uint32(v.Bits))
}

func (v JValue) Long() int64 {
	return int64(v.Bits)
}

func (v JValue) Float() float32 {
	return math.Float32frombits(uint32(v.Bits))
}

func (v JValue) Double() float64 {
	return math.Float64frombits(v.Bits)
}

// Ref returns the reference held by v, or NullRef if v is a primitive.
func (v JValue) Ref() HeapRef {
	if !v.IsRef {
		return NullRef
	}
	return HeapRef(uint32(v.Bits))
}

func (v JValue) String() string {
	if v.IsRef {
		return fmt.Sprintf("ref@%d", uint32(v.Bits))
	}
	return fmt.Sprintf("0x%x", v.Bits)
}

// PrimitiveKind selects the width and signedness of array elements and fields.
type PrimitiveKind uint8

const (
	KindInt PrimitiveKind = iota
	KindWide
	KindObject
	KindBoolean
	KindByte
	KindChar
	KindShort
)

var primitiveKindNames = [...]string{"int", "wide", "object", "boolean", "byte", "char", "short"}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveKindNames) {
		return primitiveKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Narrow truncates and re-extends a 32-bit value the way a store of kind k followed by a load would.
func (k PrimitiveKind) Narrow(v uint32) uint32 {
	switch k {
	case KindBoolean:
		return v & 1
	case KindByte:
		return uint32(int32(int8(v)))
	case KindChar:
		return uint32(uint16(v))
	case KindShort:
		return uint32(int32(int16(v)))
	default:
		return v
	}
}
