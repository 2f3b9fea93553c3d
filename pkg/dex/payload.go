package dex

import (
	"fmt"
	"sort"

	"mterp/pkg/constants"
	"mterp/pkg/types"
)

// PayloadKind distinguishes the pseudo-instructions embedded in a code blob.
type PayloadKind uint16

const (
	NotPayload   PayloadKind = 0
	PackedSwitch PayloadKind = PayloadKind(constants.PackedSwitchSignature)
	SparseSwitch PayloadKind = PayloadKind(constants.SparseSwitchSignature)
	ArrayData    PayloadKind = PayloadKind(constants.ArrayDataSignature)
)

// PayloadAt reports which payload starts at pc and how many code units it
// occupies, or NotPayload.
func PayloadAt(code []types.CodeUnit, pc int) (PayloadKind, int) {
	if pc < 0 || pc+1 >= len(code) {
		return NotPayload, 0
	}
	size := int(code[pc+1])
	switch PayloadKind(code[pc]) {
	case PackedSwitch:
		return PackedSwitch, 4 + size*2
	case SparseSwitch:
		return SparseSwitch, 2 + size*4
	case ArrayData:
		if pc+3 >= len(code) {
			return NotPayload, 0
		}
		width := int(code[pc+1])
		count := int(u32(code[pc+2], code[pc+3]))
		return ArrayData, 4 + (count*width+1)/2
	}
	return NotPayload, 0
}

// PackedSwitchTarget looks up key in the packed-switch payload at pc and
// returns the branch offset relative to the switch instruction.
func PackedSwitchTarget(code []types.CodeUnit, pc int, key int32) (int32, bool) {
	size := int32(code[pc+1])
	first := int32(u32(code[pc+2], code[pc+3]))
	// int64 so key-first cannot wrap.
	idx := int64(key) - int64(first)
	if idx < 0 || idx >= int64(size) {
		return 0, false
	}
	at := pc + 4 + int(idx)*2
	return int32(u32(code[at], code[at+1])), true
}

// SparseSwitchTarget binary-searches the sorted keys of the sparse-switch
// payload at pc.
func SparseSwitchTarget(code []types.CodeUnit, pc int, key int32) (int32, bool) {
	size := int(code[pc+1])
	keys := pc + 2
	lo, hi := 0, size-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		k := int32(u32(code[keys+mid*2], code[keys+mid*2+1]))
		switch {
		case k < key:
			lo = mid + 1
		case k > key:
			hi = mid - 1
		default:
			at := keys + size*2 + mid*2
			return int32(u32(code[at], code[at+1])), true
		}
	}
	return 0, false
}

// SwitchTable is a decoded switch payload, used by the disassembler and
// verifier. Targets are relative to the switch instruction.
type SwitchTable struct {
	Kind    PayloadKind
	Keys    []int32
	Targets []int32
}

func DecodeSwitch(code []types.CodeUnit, pc int) (SwitchTable, error) {
	kind, width := PayloadAt(code, pc)
	if (kind != PackedSwitch && kind != SparseSwitch) || pc+width > len(code) {
		return SwitchTable{}, fmt.Errorf("no switch payload at pc %d", pc)
	}
	size := int(code[pc+1])
	t := SwitchTable{Kind: kind, Keys: make([]int32, size), Targets: make([]int32, size)}
	if kind == PackedSwitch {
		first := int32(u32(code[pc+2], code[pc+3]))
		for i := 0; i < size; i++ {
			t.Keys[i] = first + int32(i)
			t.Targets[i] = int32(u32(code[pc+4+i*2], code[pc+5+i*2]))
		}
		return t, nil
	}
	for i := 0; i < size; i++ {
		t.Keys[i] = int32(u32(code[pc+2+i*2], code[pc+3+i*2]))
		at := pc + 2 + size*2 + i*2
		t.Targets[i] = int32(u32(code[at], code[at+1]))
	}
	if !sort.SliceIsSorted(t.Keys, func(i, j int) bool { return t.Keys[i] < t.Keys[j] }) {
		return SwitchTable{}, fmt.Errorf("sparse-switch keys at pc %d are not sorted", pc)
	}
	return t, nil
}

// EncodeSwitch lays out a switch payload. A packed switch requires
// consecutive keys; a sparse switch sorts them.
func EncodeSwitch(t SwitchTable) ([]types.CodeUnit, error) {
	if len(t.Keys) != len(t.Targets) || len(t.Keys) > 0xffff {
		return nil, fmt.Errorf("switch with %d keys and %d targets", len(t.Keys), len(t.Targets))
	}
	out := []types.CodeUnit{types.CodeUnit(t.Kind), types.CodeUnit(len(t.Keys))}
	put := func(v int32) {
		out = append(out, types.CodeUnit(uint32(v)), types.CodeUnit(uint32(v)>>16))
	}
	switch t.Kind {
	case PackedSwitch:
		var first int32
		if len(t.Keys) > 0 {
			first = t.Keys[0]
		}
		for i, k := range t.Keys {
			if k != first+int32(i) {
				return nil, fmt.Errorf("packed-switch keys must be consecutive")
			}
		}
		put(first)
		for _, target := range t.Targets {
			put(target)
		}
	case SparseSwitch:
		idx := make([]int, len(t.Keys))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(i, j int) bool { return t.Keys[idx[i]] < t.Keys[idx[j]] })
		for i := 1; i < len(idx); i++ {
			if t.Keys[idx[i]] == t.Keys[idx[i-1]] {
				return nil, fmt.Errorf("duplicate sparse-switch key %d", t.Keys[idx[i]])
			}
		}
		for _, i := range idx {
			put(t.Keys[i])
		}
		for _, i := range idx {
			put(t.Targets[i])
		}
	default:
		return nil, fmt.Errorf("not a switch payload kind: %#x", uint16(t.Kind))
	}
	return out, nil
}

// ArrayPayload is the element data of a fill-array-data payload.
type ArrayPayload struct {
	ElementWidth int
	Count        int
	Data         []byte // little-endian elements, Count*ElementWidth bytes
}

// Element returns element i zero-extended to 64 bits.
func (a ArrayPayload) Element(i int) uint64 {
	var v uint64
	for b := 0; b < a.ElementWidth; b++ {
		v |= uint64(a.Data[i*a.ElementWidth+b]) << (8 * b)
	}
	return v
}

func DecodeArrayData(code []types.CodeUnit, pc int) (ArrayPayload, error) {
	kind, width := PayloadAt(code, pc)
	if kind != ArrayData || pc+width > len(code) {
		return ArrayPayload{}, fmt.Errorf("no array-data payload at pc %d", pc)
	}
	a := ArrayPayload{
		ElementWidth: int(code[pc+1]),
		Count:        int(u32(code[pc+2], code[pc+3])),
	}
	switch a.ElementWidth {
	case 1, 2, 4, 8:
	default:
		return ArrayPayload{}, fmt.Errorf("array-data element width %d", a.ElementWidth)
	}
	a.Data = make([]byte, a.Count*a.ElementWidth)
	for i := range a.Data {
		unit := code[pc+4+i/2]
		if i%2 == 0 {
			a.Data[i] = byte(unit)
		} else {
			a.Data[i] = byte(unit >> 8)
		}
	}
	return a, nil
}

func EncodeArrayData(a ArrayPayload) []types.CodeUnit {
	out := []types.CodeUnit{
		types.CodeUnit(ArrayData),
		types.CodeUnit(a.ElementWidth),
		types.CodeUnit(uint32(a.Count)),
		types.CodeUnit(uint32(a.Count) >> 16),
	}
	for i := 0; i < len(a.Data); i += 2 {
		unit := types.CodeUnit(a.Data[i])
		if i+1 < len(a.Data) {
			unit |= types.CodeUnit(a.Data[i+1]) << 8
		}
		out = append(out, unit)
	}
	return out
}
