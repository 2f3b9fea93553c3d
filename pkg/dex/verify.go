package dex

import (
	"mterp/pkg/bitsequence"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

// Verify checks the structural well-formedness the interpreter relies on and
// records the instruction-boundary map. It does not type-check registers.
func (m *Method) Verify() error {
	if !m.HasCode() {
		return nil
	}
	if len(m.Code) == 0 {
		return errors.Wrapf(errors.ErrBadProgram, "%s: empty code", m)
	}
	if m.Ins > m.Registers {
		return errors.Wrapf(errors.ErrBadProgram, "%s: %d ins exceed %d registers", m, m.Ins, m.Registers)
	}

	boundaries := bitsequence.New(len(m.Code))
	payloads := make(map[int]PayloadKind)
	var insts []Instruction

	pc := 0
	for pc < len(m.Code) {
		if kind, width := PayloadAt(m.Code, pc); kind != NotPayload {
			if pc%2 != 0 {
				return errors.Wrapf(errors.ErrBadProgram, "%s: payload at odd pc %d", m, pc)
			}
			if pc+width > len(m.Code) {
				return errors.Wrapf(errors.ErrBadProgram, "%s: payload at pc %d runs past the end", m, pc)
			}
			payloads[pc] = kind
			pc += width
			continue
		}
		in, err := Decode(m.Code, pc)
		if err != nil {
			return errors.Wrapf(errors.ErrBadProgram, "%s: %v", m, err)
		}
		if in.Op.IsUnused() {
			return errors.Wrapf(errors.ErrBadProgram, "%s: unused opcode 0x%02x at pc %d", m, uint8(in.Op), pc)
		}
		if err := m.checkRegisters(&in); err != nil {
			return err
		}
		boundaries.Set(pc)
		insts = append(insts, in)
		pc += in.Width()
	}

	if len(insts) == 0 {
		return errors.Wrapf(errors.ErrBadProgram, "%s: no instructions", m)
	}
	// Trailing nops are payload alignment and never execute.
	end := len(insts) - 1
	for end > 0 && insts[end].Op == OpNop {
		end--
	}
	last := insts[end]
	if last.Info().Flags.Has(FlagContinue) {
		return errors.Wrapf(errors.ErrBadProgram, "%s: control falls off the end after %s", m, last.Op)
	}

	for i := range insts {
		in := &insts[i]
		flags := in.Info().Flags
		switch {
		case flags.Has(FlagPayload):
			want := ArrayData
			if in.Op == OpPackedSwitch {
				want = PackedSwitch
			} else if in.Op == OpSparseSwitch {
				want = SparseSwitch
			}
			target := int(in.Target())
			if payloads[target] != want {
				return errors.Wrapf(errors.ErrBadProgram, "%s: %s at pc %d references no %#x payload", m, in.Op, in.PC, uint16(want))
			}
			if flags.Has(FlagSwitch) {
				table, err := DecodeSwitch(m.Code, target)
				if err != nil {
					return errors.Wrapf(errors.ErrBadProgram, "%s: %v", m, err)
				}
				for _, off := range table.Targets {
					if !boundaries.Test(int(in.PC) + int(off)) {
						return errors.Wrapf(errors.ErrBadProgram, "%s: switch at pc %d targets %d", m, in.PC, int(in.PC)+int(off))
					}
				}
			}
		case flags.Has(FlagBranch):
			if !boundaries.Test(int(in.Target())) {
				return errors.Wrapf(errors.ErrBadProgram, "%s: %s at pc %d targets %d", m, in.Op, in.PC, int64(in.Target()))
			}
		}
	}

	for i, try := range m.Tries {
		for _, other := range m.Tries[:i] {
			if try.Start < other.Start+types.DexPC(other.Count) && other.Start < try.Start+types.DexPC(try.Count) {
				return errors.Wrapf(errors.ErrBadProgram, "%s: try blocks at %d and %d overlap", m, other.Start, try.Start)
			}
		}
		if int(try.Start)+int(try.Count) > len(m.Code) || !boundaries.Test(int(try.Start)) {
			return errors.Wrapf(errors.ErrBadProgram, "%s: try block [%d,+%d) out of range", m, try.Start, try.Count)
		}
		for _, h := range try.Handlers {
			if !boundaries.Test(int(h.Handler)) {
				return errors.Wrapf(errors.ErrBadProgram, "%s: catch handler at %d is not an instruction", m, h.Handler)
			}
		}
		if try.CatchAll != types.NoDexPC && !boundaries.Test(int(try.CatchAll)) {
			return errors.Wrapf(errors.ErrBadProgram, "%s: catch-all handler at %d is not an instruction", m, try.CatchAll)
		}
	}

	m.boundaries = boundaries
	return nil
}

func (m *Method) checkRegisters(in *Instruction) error {
	info := in.Info()
	var regs []uint32
	switch info.Format {
	case Format12x, Format22x, Format32x, Format22t, Format22s, Format22c:
		regs = []uint32{in.A, in.B}
	case Format11n, Format11x, Format21t, Format21s, Format21h, Format21c, Format31t, Format31i, Format31c, Format51l:
		regs = []uint32{in.A}
	case Format23x:
		regs = []uint32{in.A, in.B, in.C}
	case Format22b:
		regs = []uint32{in.A, in.B}
	case Format35c, Format3rc, Format45cc, Format4rcc:
		regs = in.Args
	}
	for _, r := range regs {
		if r >= uint32(m.Registers) {
			return errors.Wrapf(errors.ErrBadProgram, "%s: %s at pc %d uses v%d, frame has %d registers", m, in.Op, in.PC, r, m.Registers)
		}
	}
	a, b, c := pairOperands(in.Op)
	for _, pair := range []struct {
		wide bool
		reg  uint32
	}{{a, in.A}, {b, in.B}, {c, in.C}} {
		if pair.wide && pair.reg+1 >= uint32(m.Registers) {
			return errors.Wrapf(errors.ErrBadProgram, "%s: %s at pc %d uses the pair v%d/v%d, frame has %d registers", m, in.Op, in.PC, pair.reg, pair.reg+1, m.Registers)
		}
	}
	return nil
}

// pairOperands reports which of the A, B and C register operands of op name
// a register pair.
func pairOperands(op Opcode) (a, b, c bool) {
	switch {
	case op >= OpMoveWide && op <= OpMoveWide16,
		op >= OpNegLong && op <= OpNotLong, op == OpNegDouble,
		op == OpLongToDouble, op == OpDoubleToLong,
		op >= OpAddLong2Addr && op <= OpXorLong2Addr,
		op >= OpAddDouble2Addr && op <= OpRemDouble2Addr,
		op >= OpShlLong && op <= OpUshrLong:
		return true, true, false
	case op == OpCmplDouble, op == OpCmpgDouble, op == OpCmpLong:
		return false, true, true
	case op >= OpAddLong && op <= OpXorLong, op >= OpAddDouble && op <= OpRemDouble:
		return true, true, true
	case op == OpLongToInt, op == OpLongToFloat, op == OpDoubleToInt, op == OpDoubleToFloat:
		return false, true, false
	}
	// Every other wide opcode pairs only its A operand.
	return op.Info().Flags.Has(FlagWide), false, false
}

// Verify verifies every method and links the program.
func (p *Program) Verify() error {
	p.Link()
	for _, m := range p.Methods {
		if err := m.Verify(); err != nil {
			return err
		}
	}
	return nil
}
