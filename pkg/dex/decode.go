package dex

import (
	"fmt"

	"mterp/pkg/types"
)

// Instruction is a fully decoded instruction. Register operands use A, B, C
// in the order the format lists them; /range and list formats use Args.
type Instruction struct {
	Op      Opcode
	PC      types.DexPC
	A, B, C uint32
	Literal int64
	Offset  int32
	Index   uint32
	Proto   uint32
	Args    []uint32
}

func (in *Instruction) Info() *OpInfo {
	return in.Op.Info()
}

// Target returns the absolute pc a branch or payload offset refers to.
func (in *Instruction) Target() types.DexPC {
	return types.DexPC(int64(in.PC) + int64(in.Offset))
}

// Width returns the number of code units the instruction occupies.
func (in *Instruction) Width() int {
	return in.Op.Width()
}

func u32(lo, hi types.CodeUnit) uint32 {
	return uint32(lo) | uint32(hi)<<16
}

// Decode decodes the instruction starting at pc.
func Decode(code []types.CodeUnit, pc int) (Instruction, error) {
	if pc < 0 || pc >= len(code) {
		return Instruction{}, fmt.Errorf("pc %d outside code of %d units", pc, len(code))
	}
	inst := code[pc]
	op := OpcodeOf(inst)
	info := op.Info()
	width := info.Format.Width()
	if pc+width > len(code) {
		return Instruction{}, fmt.Errorf("%s at pc %d needs %d units, %d remain", info.Name, pc, width, len(code)-pc)
	}
	u := code[pc : pc+width]
	in := Instruction{Op: op, PC: types.DexPC(pc)}

	switch info.Format {
	case Format10x:
	case Format12x:
		in.A, in.B = InstA(inst), InstB(inst)
	case Format11n:
		in.A = InstA(inst)
		in.Literal = int64(Lit4(inst))
	case Format11x:
		in.A = InstAA(inst)
	case Format10t:
		in.Offset = Off8(inst)
	case Format20t:
		in.Offset = int32(int16(u[1]))
	case Format22x:
		in.A, in.B = InstAA(inst), uint32(u[1])
	case Format21t:
		in.A = InstAA(inst)
		in.Offset = int32(int16(u[1]))
	case Format21s:
		in.A = InstAA(inst)
		in.Literal = int64(int16(u[1]))
	case Format21h:
		in.A = InstAA(inst)
		if op == OpConstWideHigh16 {
			in.Literal = int64(uint64(u[1]) << 48)
		} else {
			in.Literal = int64(int32(uint32(u[1]) << 16))
		}
	case Format21c:
		in.A = InstAA(inst)
		in.Index = uint32(u[1])
	case Format23x:
		in.A = InstAA(inst)
		in.B, in.C = uint32(u[1]&0xff), uint32(u[1]>>8)
	case Format22b:
		in.A = InstAA(inst)
		in.B = uint32(u[1] & 0xff)
		in.Literal = int64(int8(u[1] >> 8))
	case Format22t:
		in.A, in.B = InstA(inst), InstB(inst)
		in.Offset = int32(int16(u[1]))
	case Format22s:
		in.A, in.B = InstA(inst), InstB(inst)
		in.Literal = int64(int16(u[1]))
	case Format22c:
		in.A, in.B = InstA(inst), InstB(inst)
		in.Index = uint32(u[1])
	case Format32x:
		in.A, in.B = uint32(u[1]), uint32(u[2])
	case Format30t:
		in.Offset = int32(u32(u[1], u[2]))
	case Format31t:
		in.A = InstAA(inst)
		in.Offset = int32(u32(u[1], u[2]))
	case Format31i:
		in.A = InstAA(inst)
		in.Literal = int64(int32(u32(u[1], u[2])))
	case Format31c:
		in.A = InstAA(inst)
		in.Index = u32(u[1], u[2])
	case Format35c, Format45cc:
		in.Index = uint32(u[1])
		in.Args = decodeArgList(inst, u[2])
		if info.Format == Format45cc {
			in.Proto = uint32(u[3])
		}
	case Format3rc, Format4rcc:
		in.Index = uint32(u[1])
		in.Args = make([]uint32, InstAA(inst))
		for i := range in.Args {
			in.Args[i] = uint32(u[2]) + uint32(i)
		}
		if info.Format == Format4rcc {
			in.Proto = uint32(u[3])
		}
	case Format51l:
		in.A = InstAA(inst)
		in.Literal = int64(uint64(u32(u[1], u[2])) | uint64(u32(u[3], u[4]))<<32)
	default:
		return Instruction{}, fmt.Errorf("unhandled format %s", info.Format)
	}
	return in, nil
}

// decodeArgList unpacks the argument registers of a 35c/45cc instruction:
// count in B, the fifth register in A, the first four in the nibbles of the
// third unit.
func decodeArgList(inst, regs types.CodeUnit) []uint32 {
	count := InstB(inst)
	if count > 5 {
		count = 5
	}
	all := [5]uint32{
		uint32(regs) & 0xf,
		uint32(regs>>4) & 0xf,
		uint32(regs>>8) & 0xf,
		uint32(regs >> 12),
		InstA(inst),
	}
	args := make([]uint32, count)
	copy(args, all[:count])
	return args
}

// Encode is the inverse of Decode. Operands that do not fit the format are
// reported as errors rather than truncated.
func Encode(in *Instruction) ([]types.CodeUnit, error) {
	info := in.Op.Info()
	if info.Flags.Has(FlagUnused) {
		return nil, fmt.Errorf("opcode 0x%02x is unused", uint8(in.Op))
	}
	op := types.CodeUnit(in.Op)
	check := func(name string, v uint32, bits uint) error {
		if v >= 1<<bits {
			return fmt.Errorf("%s: %s %d does not fit in %d bits", info.Name, name, v, bits)
		}
		return nil
	}
	checkSigned := func(name string, v int64, bits uint) error {
		lim := int64(1) << (bits - 1)
		if v < -lim || v >= lim {
			return fmt.Errorf("%s: %s %d does not fit in %d signed bits", info.Name, name, v, bits)
		}
		return nil
	}
	nibbles := func() (types.CodeUnit, error) {
		if err := check("vA", in.A, 4); err != nil {
			return 0, err
		}
		if err := check("vB", in.B, 4); err != nil {
			return 0, err
		}
		return op | types.CodeUnit(in.A)<<8 | types.CodeUnit(in.B)<<12, nil
	}
	aa := func() (types.CodeUnit, error) {
		if err := check("vAA", in.A, 8); err != nil {
			return 0, err
		}
		return op | types.CodeUnit(in.A)<<8, nil
	}

	switch info.Format {
	case Format10x:
		return []types.CodeUnit{op}, nil
	case Format12x:
		u0, err := nibbles()
		return []types.CodeUnit{u0}, err
	case Format11n:
		if err := check("vA", in.A, 4); err != nil {
			return nil, err
		}
		if err := checkSigned("literal", in.Literal, 4); err != nil {
			return nil, err
		}
		return []types.CodeUnit{op | types.CodeUnit(in.A)<<8 | types.CodeUnit(in.Literal&0xf)<<12}, nil
	case Format11x:
		u0, err := aa()
		return []types.CodeUnit{u0}, err
	case Format10t:
		if err := checkSigned("offset", int64(in.Offset), 8); err != nil {
			return nil, err
		}
		return []types.CodeUnit{op | types.CodeUnit(uint8(int8(in.Offset)))<<8}, nil
	case Format20t:
		if err := checkSigned("offset", int64(in.Offset), 16); err != nil {
			return nil, err
		}
		return []types.CodeUnit{op, types.CodeUnit(int16(in.Offset))}, nil
	case Format22x:
		u0, err := aa()
		if err == nil {
			err = check("vBBBB", in.B, 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(in.B)}, err
	case Format21t:
		u0, err := aa()
		if err == nil {
			err = checkSigned("offset", int64(in.Offset), 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(int16(in.Offset))}, err
	case Format21s:
		u0, err := aa()
		if err == nil {
			err = checkSigned("literal", in.Literal, 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(int16(in.Literal))}, err
	case Format21h:
		u0, err := aa()
		if err != nil {
			return nil, err
		}
		if in.Op == OpConstWideHigh16 {
			if uint64(in.Literal)&(1<<48-1) != 0 {
				return nil, fmt.Errorf("%s: literal %#x has nonzero low 48 bits", info.Name, in.Literal)
			}
			return []types.CodeUnit{u0, types.CodeUnit(uint64(in.Literal) >> 48)}, nil
		}
		if err := checkSigned("literal", in.Literal, 32); err != nil {
			return nil, err
		}
		if uint32(in.Literal)&0xffff != 0 {
			return nil, fmt.Errorf("%s: literal %#x has nonzero low 16 bits", info.Name, in.Literal)
		}
		return []types.CodeUnit{u0, types.CodeUnit(uint32(in.Literal) >> 16)}, nil
	case Format21c:
		u0, err := aa()
		if err == nil {
			err = check("index", in.Index, 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(in.Index)}, err
	case Format23x:
		u0, err := aa()
		if err == nil {
			err = check("vBB", in.B, 8)
		}
		if err == nil {
			err = check("vCC", in.C, 8)
		}
		return []types.CodeUnit{u0, types.CodeUnit(in.B) | types.CodeUnit(in.C)<<8}, err
	case Format22b:
		u0, err := aa()
		if err == nil {
			err = check("vBB", in.B, 8)
		}
		if err == nil {
			err = checkSigned("literal", in.Literal, 8)
		}
		return []types.CodeUnit{u0, types.CodeUnit(in.B) | types.CodeUnit(uint8(int8(in.Literal)))<<8}, err
	case Format22t:
		u0, err := nibbles()
		if err == nil {
			err = checkSigned("offset", int64(in.Offset), 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(int16(in.Offset))}, err
	case Format22s:
		u0, err := nibbles()
		if err == nil {
			err = checkSigned("literal", in.Literal, 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(int16(in.Literal))}, err
	case Format22c:
		u0, err := nibbles()
		if err == nil {
			err = check("index", in.Index, 16)
		}
		return []types.CodeUnit{u0, types.CodeUnit(in.Index)}, err
	case Format32x:
		if err := check("vAAAA", in.A, 16); err != nil {
			return nil, err
		}
		if err := check("vBBBB", in.B, 16); err != nil {
			return nil, err
		}
		return []types.CodeUnit{op, types.CodeUnit(in.A), types.CodeUnit(in.B)}, nil
	case Format30t:
		return []types.CodeUnit{op, types.CodeUnit(uint32(in.Offset)), types.CodeUnit(uint32(in.Offset) >> 16)}, nil
	case Format31t:
		u0, err := aa()
		return []types.CodeUnit{u0, types.CodeUnit(uint32(in.Offset)), types.CodeUnit(uint32(in.Offset) >> 16)}, err
	case Format31i:
		u0, err := aa()
		if err == nil {
			err = checkSigned("literal", in.Literal, 32)
		}
		return []types.CodeUnit{u0, types.CodeUnit(uint32(in.Literal)), types.CodeUnit(uint32(in.Literal) >> 16)}, err
	case Format31c:
		u0, err := aa()
		return []types.CodeUnit{u0, types.CodeUnit(in.Index), types.CodeUnit(in.Index >> 16)}, err
	case Format35c, Format45cc:
		if len(in.Args) > 5 {
			return nil, fmt.Errorf("%s: %d arguments, at most 5 allowed", info.Name, len(in.Args))
		}
		var all [5]uint32
		for i, r := range in.Args {
			if err := check("argument register", r, 4); err != nil {
				return nil, err
			}
			all[i] = r
		}
		if err := check("index", in.Index, 16); err != nil {
			return nil, err
		}
		u0 := op | types.CodeUnit(all[4])<<8 | types.CodeUnit(len(in.Args))<<12
		regs := types.CodeUnit(all[0] | all[1]<<4 | all[2]<<8 | all[3]<<12)
		units := []types.CodeUnit{u0, types.CodeUnit(in.Index), regs}
		if info.Format == Format45cc {
			units = append(units, types.CodeUnit(in.Proto))
		}
		return units, nil
	case Format3rc, Format4rcc:
		if len(in.Args) > 255 {
			return nil, fmt.Errorf("%s: %d arguments, at most 255 allowed", info.Name, len(in.Args))
		}
		var first uint32
		if len(in.Args) > 0 {
			first = in.Args[0]
			for i, r := range in.Args {
				if r != first+uint32(i) {
					return nil, fmt.Errorf("%s: argument registers are not contiguous", info.Name)
				}
			}
		}
		if err := check("first register", first, 16); err != nil {
			return nil, err
		}
		units := []types.CodeUnit{op | types.CodeUnit(len(in.Args))<<8, types.CodeUnit(in.Index), types.CodeUnit(first)}
		if info.Format == Format4rcc {
			units = append(units, types.CodeUnit(in.Proto))
		}
		return units, nil
	case Format51l:
		u0, err := aa()
		v := uint64(in.Literal)
		return []types.CodeUnit{u0, types.CodeUnit(v), types.CodeUnit(v >> 16), types.CodeUnit(v >> 32), types.CodeUnit(v >> 48)}, err
	}
	return nil, fmt.Errorf("unhandled format %s", info.Format)
}
