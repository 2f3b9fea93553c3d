package dex

import "mterp/pkg/types"

// Opcode is the low byte of an instruction's first code unit.
type Opcode uint8

// OpInfo is the static description of one opcode value.
type OpInfo struct {
	Name   string
	Format Format
	Index  IndexKind
	Flags  Flags
}

// Info returns the table entry for op. Every value 0..255 has one; values
// with no instruction carry FlagUnused.
func (op Opcode) Info() *OpInfo {
	return &opcodeTable[op]
}

func (op Opcode) String() string {
	return opcodeTable[op].Name
}

func (op Opcode) Width() int {
	return opcodeTable[op].Format.Width()
}

func (op Opcode) IsUnused() bool {
	return opcodeTable[op].Flags.Has(FlagUnused)
}

func (op Opcode) CanThrow() bool {
	return opcodeTable[op].Flags.Has(FlagThrow)
}

// OpcodeOf returns the opcode encoded in the first unit of an instruction.
func OpcodeOf(inst types.CodeUnit) Opcode {
	return Opcode(inst.Opcode())
}

var opcodesByName map[string]Opcode

func init() {
	opcodesByName = make(map[string]Opcode, len(opcodeTable))
	for i := range opcodeTable {
		if !opcodeTable[i].Flags.Has(FlagUnused) {
			opcodesByName[opcodeTable[i].Name] = Opcode(i)
		}
	}
}

// Lookup finds an opcode by its mnemonic.
func Lookup(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// Field extraction from the first code unit. The opcode is always the low
// byte; the high byte holds either AA or the nibbles B|A.

// InstA returns the 4-bit A field (bits 8..11).
func InstA(inst types.CodeUnit) uint32 {
	return uint32(inst>>8) & 0xf
}

// InstB returns the 4-bit B field (bits 12..15).
func InstB(inst types.CodeUnit) uint32 {
	return uint32(inst >> 12)
}

// InstAA returns the 8-bit AA field.
func InstAA(inst types.CodeUnit) uint32 {
	return uint32(inst >> 8)
}

// Lit4 is the sign-extended 4-bit literal of format 11n.
func Lit4(inst types.CodeUnit) int32 {
	return int32(int16(inst)) >> 12
}

// Off8 is the sign-extended branch offset of format 10t.
func Off8(inst types.CodeUnit) int32 {
	return int32(int8(inst >> 8))
}
