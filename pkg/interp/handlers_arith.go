package interp

import (
	"math"

	"mterp/pkg/dex"
	"mterp/pkg/types"
)

const (
	arithmeticException = "Ljava/lang/ArithmeticException;"
	divideByZero        = "divide by zero"
)

type (
	intOp    func(x, y int32) int32
	longOp   func(x, y int64) int64
	floatOp  func(x, y float32) float32
	doubleOp func(x, y float64) float64
)

func registerArithHandlers(t *HandlerTable) {
	ints := []struct {
		op                          intOp
		binop, twoAddr, lit16, lit8 dex.Opcode
		divides                     bool
	}{
		{func(x, y int32) int32 { return x + y }, dex.OpAddInt, dex.OpAddInt2Addr, dex.OpAddIntLit16, dex.OpAddIntLit8, false},
		{func(x, y int32) int32 { return x - y }, dex.OpSubInt, dex.OpSubInt2Addr, 0, 0, false},
		{func(x, y int32) int32 { return x * y }, dex.OpMulInt, dex.OpMulInt2Addr, dex.OpMulIntLit16, dex.OpMulIntLit8, false},
		{func(x, y int32) int32 { return x / y }, dex.OpDivInt, dex.OpDivInt2Addr, dex.OpDivIntLit16, dex.OpDivIntLit8, true},
		{func(x, y int32) int32 { return x % y }, dex.OpRemInt, dex.OpRemInt2Addr, dex.OpRemIntLit16, dex.OpRemIntLit8, true},
		{func(x, y int32) int32 { return x & y }, dex.OpAndInt, dex.OpAndInt2Addr, dex.OpAndIntLit16, dex.OpAndIntLit8, false},
		{func(x, y int32) int32 { return x | y }, dex.OpOrInt, dex.OpOrInt2Addr, dex.OpOrIntLit16, dex.OpOrIntLit8, false},
		{func(x, y int32) int32 { return x ^ y }, dex.OpXorInt, dex.OpXorInt2Addr, dex.OpXorIntLit16, dex.OpXorIntLit8, false},
		{func(x, y int32) int32 { return x << (y & 0x1f) }, dex.OpShlInt, dex.OpShlInt2Addr, 0, dex.OpShlIntLit8, false},
		{func(x, y int32) int32 { return x >> (y & 0x1f) }, dex.OpShrInt, dex.OpShrInt2Addr, 0, dex.OpShrIntLit8, false},
		{func(x, y int32) int32 { return int32(uint32(x) >> (y & 0x1f)) }, dex.OpUshrInt, dex.OpUshrInt2Addr, 0, dex.OpUshrIntLit8, false},
	}
	for _, e := range ints {
		t[e.binop] = binopInt(e.op, e.divides)
		t[e.twoAddr] = binopInt2Addr(e.op, e.divides)
		if e.lit16 != 0 {
			t[e.lit16] = binopIntLit16(e.op, e.divides)
		}
		if e.lit8 != 0 {
			t[e.lit8] = binopIntLit8(e.op, e.divides)
		}
	}
	rsub := func(x, y int32) int32 { return y - x }
	t[dex.OpRsubInt] = binopIntLit16(rsub, false)
	t[dex.OpRsubIntLit8] = binopIntLit8(rsub, false)

	longs := []struct {
		op             longOp
		binop, twoAddr dex.Opcode
		divides        bool
	}{
		{func(x, y int64) int64 { return x + y }, dex.OpAddLong, dex.OpAddLong2Addr, false},
		{func(x, y int64) int64 { return x - y }, dex.OpSubLong, dex.OpSubLong2Addr, false},
		{func(x, y int64) int64 { return x * y }, dex.OpMulLong, dex.OpMulLong2Addr, false},
		{func(x, y int64) int64 { return x / y }, dex.OpDivLong, dex.OpDivLong2Addr, true},
		{func(x, y int64) int64 { return x % y }, dex.OpRemLong, dex.OpRemLong2Addr, true},
		{func(x, y int64) int64 { return x & y }, dex.OpAndLong, dex.OpAndLong2Addr, false},
		{func(x, y int64) int64 { return x | y }, dex.OpOrLong, dex.OpOrLong2Addr, false},
		{func(x, y int64) int64 { return x ^ y }, dex.OpXorLong, dex.OpXorLong2Addr, false},
	}
	for _, e := range longs {
		t[e.binop] = binopLong(e.op, e.divides)
		t[e.twoAddr] = binopLong2Addr(e.op, e.divides)
	}

	floats := []struct {
		op             floatOp
		binop, twoAddr dex.Opcode
	}{
		{func(x, y float32) float32 { return x + y }, dex.OpAddFloat, dex.OpAddFloat2Addr},
		{func(x, y float32) float32 { return x - y }, dex.OpSubFloat, dex.OpSubFloat2Addr},
		{func(x, y float32) float32 { return x * y }, dex.OpMulFloat, dex.OpMulFloat2Addr},
		{func(x, y float32) float32 { return x / y }, dex.OpDivFloat, dex.OpDivFloat2Addr},
		{func(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) }, dex.OpRemFloat, dex.OpRemFloat2Addr},
	}
	for _, e := range floats {
		t[e.binop] = binopFloat(e.op)
		t[e.twoAddr] = binopFloat2Addr(e.op)
	}

	doubles := []struct {
		op             doubleOp
		binop, twoAddr dex.Opcode
	}{
		{func(x, y float64) float64 { return x + y }, dex.OpAddDouble, dex.OpAddDouble2Addr},
		{func(x, y float64) float64 { return x - y }, dex.OpSubDouble, dex.OpSubDouble2Addr},
		{func(x, y float64) float64 { return x * y }, dex.OpMulDouble, dex.OpMulDouble2Addr},
		{func(x, y float64) float64 { return x / y }, dex.OpDivDouble, dex.OpDivDouble2Addr},
		{math.Mod, dex.OpRemDouble, dex.OpRemDouble2Addr},
	}
	for _, e := range doubles {
		t[e.binop] = binopDouble(e.op)
		t[e.twoAddr] = binopDouble2Addr(e.op)
	}

	t[dex.OpNegInt] = handleNegInt
	t[dex.OpNotInt] = handleNotInt
	t[dex.OpNegLong] = handleNegLong
	t[dex.OpNotLong] = handleNotLong
	t[dex.OpNegFloat] = handleNegFloat
	t[dex.OpNegDouble] = handleNegDouble
}

// Int division by zero throws; Go's own results for MinInt32 / -1 (MinInt32,
// remainder 0) already match the bytecode's.

// binopInt builds <op>-int vAA, vBB, vCC.
func binopInt(op intOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		x, y := m.regs.GetInt(uint32(u&0xff)), m.regs.GetInt(uint32(u>>8))
		if divides && y == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetInt(dex.InstAA(inst), op(x, y))
		return m.next(2)
	}
}

// binopInt2Addr builds <op>-int/2addr vA, vB.
func binopInt2Addr(op intOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		a := dex.InstA(inst)
		x, y := m.regs.GetInt(a), m.regs.GetInt(dex.InstB(inst))
		if divides && y == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetInt(a, op(x, y))
		return m.next(1)
	}
}

// binopIntLit16 builds <op>-int/lit16 vA, vB, #+CCCC.
func binopIntLit16(op intOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		lit := int32(int16(m.unit(1)))
		if divides && lit == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetInt(dex.InstA(inst), op(m.regs.GetInt(dex.InstB(inst)), lit))
		return m.next(2)
	}
}

// binopIntLit8 builds <op>-int/lit8 vAA, vBB, #+CC.
func binopIntLit8(op intOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		lit := int32(int8(u >> 8))
		if divides && lit == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetInt(dex.InstAA(inst), op(m.regs.GetInt(uint32(u&0xff)), lit))
		return m.next(2)
	}
}

func binopLong(op longOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		x, y := m.regs.GetLong(uint32(u&0xff)), m.regs.GetLong(uint32(u>>8))
		if divides && y == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetLong(dex.InstAA(inst), op(x, y))
		return m.next(2)
	}
}

func binopLong2Addr(op longOp, divides bool) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		a := dex.InstA(inst)
		x, y := m.regs.GetLong(a), m.regs.GetLong(dex.InstB(inst))
		if divides && y == 0 {
			m.exportPC()
			return m.throw(arithmeticException, divideByZero)
		}
		m.regs.SetLong(a, op(x, y))
		return m.next(1)
	}
}

func binopFloat(op floatOp) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		m.regs.SetFloat(dex.InstAA(inst), op(m.regs.GetFloat(uint32(u&0xff)), m.regs.GetFloat(uint32(u>>8))))
		return m.next(2)
	}
}

func binopFloat2Addr(op floatOp) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		a := dex.InstA(inst)
		m.regs.SetFloat(a, op(m.regs.GetFloat(a), m.regs.GetFloat(dex.InstB(inst))))
		return m.next(1)
	}
}

func binopDouble(op doubleOp) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		u := m.unit(1)
		m.regs.SetDouble(dex.InstAA(inst), op(m.regs.GetDouble(uint32(u&0xff)), m.regs.GetDouble(uint32(u>>8))))
		return m.next(2)
	}
}

func binopDouble2Addr(op doubleOp) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		a := dex.InstA(inst)
		m.regs.SetDouble(a, op(m.regs.GetDouble(a), m.regs.GetDouble(dex.InstB(inst))))
		return m.next(1)
	}
}

func handleNegInt(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetInt(dex.InstA(inst), -m.regs.GetInt(dex.InstB(inst)))
	return m.next(1)
}

func handleNotInt(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetInt(dex.InstA(inst), ^m.regs.GetInt(dex.InstB(inst)))
	return m.next(1)
}

func handleNegLong(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetLong(dex.InstA(inst), -m.regs.GetLong(dex.InstB(inst)))
	return m.next(1)
}

func handleNotLong(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetLong(dex.InstA(inst), ^m.regs.GetLong(dex.InstB(inst)))
	return m.next(1)
}

// Negation flips the sign bit so NaN payloads and -0.0 come out right.
func handleNegFloat(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.Set(dex.InstA(inst), m.regs.Get(dex.InstB(inst))^0x80000000)
	return m.next(1)
}

func handleNegDouble(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.regs.SetWide(dex.InstA(inst), m.regs.GetWide(dex.InstB(inst))^(1<<63))
	return m.next(1)
}
