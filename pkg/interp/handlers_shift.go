package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

// Wide shifts work on the two 32-bit halves of the pair. Bit 5 of the
// masked amount selects the path; the large path shifts by amount&31
// explicitly rather than relying on how the host masks shift counts.

// ShlLong shifts v left by amount&63.
func ShlLong(v uint64, amount uint32) uint64 {
	s := amount & 0x3f
	lo, hi := uint32(v), uint32(v>>32)
	if s&0x20 == 0 {
		lo, hi = lo<<s, hi<<s|lo>>(32-s)
	} else {
		lo, hi = 0, lo<<(s&31)
	}
	return uint64(lo) | uint64(hi)<<32
}

// ShrLong arithmetic-shifts v right by amount&63.
func ShrLong(v uint64, amount uint32) uint64 {
	s := amount & 0x3f
	lo, hi := uint32(v), uint32(v>>32)
	if s&0x20 == 0 {
		lo, hi = lo>>s|hi<<(32-s), uint32(int32(hi)>>s)
	} else {
		lo, hi = uint32(int32(hi)>>(s&31)), uint32(int32(hi)>>31)
	}
	return uint64(lo) | uint64(hi)<<32
}

// UshrLong logical-shifts v right by amount&63.
func UshrLong(v uint64, amount uint32) uint64 {
	s := amount & 0x3f
	lo, hi := uint32(v), uint32(v>>32)
	if s&0x20 == 0 {
		lo, hi = lo>>s|hi<<(32-s), hi>>s
	} else {
		lo, hi = hi>>(s&31), 0
	}
	return uint64(lo) | uint64(hi)<<32
}

func registerShiftHandlers(t *HandlerTable) {
	t[dex.OpShlLong] = shiftLong(ShlLong)
	t[dex.OpShrLong] = shiftLong(ShrLong)
	t[dex.OpUshrLong] = shiftLong(UshrLong)
	t[dex.OpShlLong2Addr] = shiftLong2Addr(ShlLong)
	t[dex.OpShrLong2Addr] = shiftLong2Addr(ShrLong)
	t[dex.OpUshrLong2Addr] = shiftLong2Addr(UshrLong)
}

// shiftLong builds <op>-long vAA, vBB, vCC: the pair at vBB shifted by the
// int in vCC, stored as a pair at vAA. Shifts cannot fault.
func shiftLong(shift func(uint64, uint32) uint64) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		b, c := uint32(u&0xff), uint32(u>>8)
		m.regs.SetWide(dex.InstAA(inst), shift(m.regs.GetWide(b), m.regs.Get(c)))
		return m.next(2)
	}
}

// shiftLong2Addr builds <op>-long/2addr vA, vB.
func shiftLong2Addr(shift func(uint64, uint32) uint64) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		a := dex.InstA(inst)
		m.regs.SetWide(a, shift(m.regs.GetWide(a), m.regs.Get(dex.InstB(inst))))
		return m.next(1)
	}
}
