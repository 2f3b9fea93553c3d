package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

func registerControlHandlers(t *HandlerTable) {
	t[dex.OpNop] = handleNop
	t[dex.OpMove] = handleMove
	t[dex.OpMoveFrom16] = handleMoveFrom16
	t[dex.OpMove16] = handleMove16
	t[dex.OpMoveWide] = handleMoveWide
	t[dex.OpMoveWideFrom16] = handleMoveWideFrom16
	t[dex.OpMoveWide16] = handleMoveWide16
	t[dex.OpMoveObject] = handleMoveObject
	t[dex.OpMoveObjectFrom16] = handleMoveObjectFrom16
	t[dex.OpMoveObject16] = handleMoveObject16
	t[dex.OpMoveResult] = handleMoveResult
	t[dex.OpMoveResultWide] = handleMoveResultWide
	t[dex.OpMoveResultObject] = handleMoveResultObject
	t[dex.OpMoveException] = handleMoveException
	t[dex.OpReturnVoid] = handleReturnVoid
	t[dex.OpReturn] = handleReturn
	t[dex.OpReturnWide] = handleReturnWide
	t[dex.OpReturnObject] = handleReturnObject
	t[dex.OpConst4] = handleConst4
	t[dex.OpConst16] = handleConst16
	t[dex.OpConst] = handleConst
	t[dex.OpConstHigh16] = handleConstHigh16
	t[dex.OpConstWide16] = handleConstWide16
	t[dex.OpConstWide32] = handleConstWide32
	t[dex.OpConstWide] = handleConstWide
	t[dex.OpConstWideHigh16] = handleConstWideHigh16
	t[dex.OpThrow] = handleThrow
	t[dex.OpGoto] = handleGoto
	t[dex.OpGoto16] = handleGoto16
	t[dex.OpGoto32] = handleGoto32
	t[dex.OpPackedSwitch] = handlePackedSwitch
	t[dex.OpSparseSwitch] = handleSparseSwitch
	t[dex.OpCmplFloat] = handleCmplFloat
	t[dex.OpCmpgFloat] = handleCmpgFloat
	t[dex.OpCmplDouble] = handleCmplDouble
	t[dex.OpCmpgDouble] = handleCmpgDouble
	t[dex.OpCmpLong] = handleCmpLong

	t[dex.OpIfEq] = ifCmp(func(a, b int32) bool { return a == b })
	t[dex.OpIfNe] = ifCmp(func(a, b int32) bool { return a != b })
	t[dex.OpIfLt] = ifCmp(func(a, b int32) bool { return a < b })
	t[dex.OpIfGe] = ifCmp(func(a, b int32) bool { return a >= b })
	t[dex.OpIfGt] = ifCmp(func(a, b int32) bool { return a > b })
	t[dex.OpIfLe] = ifCmp(func(a, b int32) bool { return a <= b })
	t[dex.OpIfEqz] = ifCmpZero(func(a int32) bool { return a == 0 })
	t[dex.OpIfNez] = ifCmpZero(func(a int32) bool { return a != 0 })
	t[dex.OpIfLtz] = ifCmpZero(func(a int32) bool { return a < 0 })
	t[dex.OpIfGez] = ifCmpZero(func(a int32) bool { return a >= 0 })
	t[dex.OpIfGtz] = ifCmpZero(func(a int32) bool { return a > 0 })
	t[dex.OpIfLez] = ifCmpZero(func(a int32) bool { return a <= 0 })

	for _, op := range []dex.Opcode{
		dex.OpInvokePolymorphic, dex.OpInvokePolymorphicRange,
		dex.OpInvokeCustom, dex.OpInvokeCustomRange,
		dex.OpConstMethodHandle, dex.OpConstMethodType,
	} {
		t[op] = handleUnimplemented
	}
}

func handleNop(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	return m.next(1)
}

// move vA, vB
func handleMove(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstA(inst), m.regs.Get(dex.InstB(inst)))
	return m.next(1)
}

func handleMoveFrom16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstAA(inst), m.regs.Get(uint32(m.unit(1))))
	return m.next(2)
}

func handleMove16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(uint32(m.unit(1)), m.regs.Get(uint32(m.unit(2))))
	return m.next(3)
}

func handleMoveWide(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.CopyWide(dex.InstA(inst), dex.InstB(inst))
	return m.next(1)
}

func handleMoveWideFrom16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.CopyWide(dex.InstAA(inst), uint32(m.unit(1)))
	return m.next(2)
}

func handleMoveWide16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.CopyWide(uint32(m.unit(1)), uint32(m.unit(2)))
	return m.next(3)
}

func handleMoveObject(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Copy(dex.InstA(inst), dex.InstB(inst))
	return m.next(1)
}

func handleMoveObjectFrom16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Copy(dex.InstAA(inst), uint32(m.unit(1)))
	return m.next(2)
}

func handleMoveObject16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Copy(uint32(m.unit(1)), uint32(m.unit(2)))
	return m.next(3)
}

func handleMoveResult(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstAA(inst), uint32(m.sf.Result.Bits))
	return m.next(1)
}

func handleMoveResultWide(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetWide(dex.InstAA(inst), m.sf.Result.Bits)
	return m.next(1)
}

func handleMoveResultObject(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetRef(dex.InstAA(inst), m.sf.Result.Ref())
	m.sf.Result = types.JValue{}
	return m.next(1)
}

func handleMoveException(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetRef(dex.InstAA(inst), m.thread.exception)
	m.thread.ClearException()
	return m.next(1)
}

func handleReturnVoid(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.retval = types.JValue{}
	return ExitReturn, 0
}

func handleReturn(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.retval = types.JValue{Bits: uint64(m.regs.Get(dex.InstAA(inst)))}
	return ExitReturn, 0
}

func handleReturnWide(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.retval = types.JValue{Bits: m.regs.GetWide(dex.InstAA(inst))}
	return ExitReturn, 0
}

func handleReturnObject(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.retval = types.RefValue(m.regs.GetRef(dex.InstAA(inst)))
	return ExitReturn, 0
}

func handleConst4(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetInt(dex.InstA(inst), dex.Lit4(inst))
	return m.next(1)
}

func handleConst16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetInt(dex.InstAA(inst), int32(int16(m.unit(1))))
	return m.next(2)
}

func handleConst(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstAA(inst), uint32(m.unit(1))|uint32(m.unit(2))<<16)
	return m.next(3)
}

func handleConstHigh16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstAA(inst), uint32(m.unit(1))<<16)
	return m.next(2)
}

func handleConstWide16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetLong(dex.InstAA(inst), int64(int16(m.unit(1))))
	return m.next(2)
}

func handleConstWide32(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetLong(dex.InstAA(inst), int64(int32(uint32(m.unit(1))|uint32(m.unit(2))<<16)))
	return m.next(3)
}

func handleConstWide(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	v := uint64(m.unit(1)) | uint64(m.unit(2))<<16 | uint64(m.unit(3))<<32 | uint64(m.unit(4))<<48
	m.regs.SetWide(dex.InstAA(inst), v)
	return m.next(5)
}

func handleConstWideHigh16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetWide(dex.InstAA(inst), uint64(m.unit(1))<<48)
	return m.next(2)
}

func handleThrow(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	exc := m.regs.GetRef(dex.InstAA(inst))
	if exc.IsNull() {
		return m.throw("Ljava/lang/NullPointerException;", "throw with null exception")
	}
	m.thread.SetException(exc)
	return ExitException, 0
}

func handleGoto(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	return m.branch(dex.Off8(inst))
}

func handleGoto16(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	return m.branch(int32(int16(m.unit(1))))
}

func handleGoto32(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	return m.branch(int32(uint32(m.unit(1)) | uint32(m.unit(2))<<16))
}

func handlePackedSwitch(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	payload := m.pc + int(int32(uint32(m.unit(1))|uint32(m.unit(2))<<16))
	if off, ok := dex.PackedSwitchTarget(m.code, payload, m.regs.GetInt(dex.InstAA(inst))); ok {
		return m.branch(off)
	}
	return m.next(3)
}

func handleSparseSwitch(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	payload := m.pc + int(int32(uint32(m.unit(1))|uint32(m.unit(2))<<16))
	if off, ok := dex.SparseSwitchTarget(m.code, payload, m.regs.GetInt(dex.InstAA(inst))); ok {
		return m.branch(off)
	}
	return m.next(3)
}

// ifCmp builds if-<cond> vA, vB, +CCCC.
func ifCmp(cond func(a, b int32) bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		if cond(m.regs.GetInt(dex.InstA(inst)), m.regs.GetInt(dex.InstB(inst))) {
			return m.branch(int32(int16(m.unit(1))))
		}
		return m.next(2)
	}
}

// ifCmpZero builds if-<cond>z vAA, +BBBB.
func ifCmpZero(cond func(a int32) bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		if cond(m.regs.GetInt(dex.InstAA(inst))) {
			return m.branch(int32(int16(m.unit(1))))
		}
		return m.next(2)
	}
}

// Comparisons: 23x with vBB in the low byte and vCC in the high byte of the
// second unit. The l/g variants differ only in the result for NaN.

func cmpOperands(m *Mterp) (uint32, uint32) {
	u := m.unit(1)
	return uint32(u & 0xff), uint32(u >> 8)
}

func compareFloat(a, b float64, nan int32) int32 {
	switch {
	case a > b:
		return 1
	case a == b:
		return 0
	case a < b:
		return -1
	}
	return nan
}

func handleCmplFloat(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	b, c := cmpOperands(m)
	m.regs.SetInt(dex.InstAA(inst), compareFloat(float64(m.regs.GetFloat(b)), float64(m.regs.GetFloat(c)), -1))
	return m.next(2)
}

func handleCmpgFloat(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	b, c := cmpOperands(m)
	m.regs.SetInt(dex.InstAA(inst), compareFloat(float64(m.regs.GetFloat(b)), float64(m.regs.GetFloat(c)), 1))
	return m.next(2)
}

func handleCmplDouble(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	b, c := cmpOperands(m)
	m.regs.SetInt(dex.InstAA(inst), compareFloat(m.regs.GetDouble(b), m.regs.GetDouble(c), -1))
	return m.next(2)
}

func handleCmpgDouble(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	b, c := cmpOperands(m)
	m.regs.SetInt(dex.InstAA(inst), compareFloat(m.regs.GetDouble(b), m.regs.GetDouble(c), 1))
	return m.next(2)
}

func handleCmpLong(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	b, c := cmpOperands(m)
	x, y := m.regs.GetLong(b), m.regs.GetLong(c)
	var r int32
	if x > y {
		r = 1
	} else if x < y {
		r = -1
	}
	m.regs.SetInt(dex.InstAA(inst), r)
	return m.next(2)
}
