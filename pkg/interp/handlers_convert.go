package interp

import (
	"math"

	"mterp/pkg/dex"
	"mterp/pkg/types"
)

func registerConversionHandlers(t *HandlerTable) {
	t[dex.OpIntToLong] = convert(func(r RegisterFile, a, b uint32) { r.SetLong(a, int64(r.GetInt(b))) })
	t[dex.OpIntToFloat] = convert(func(r RegisterFile, a, b uint32) { r.SetFloat(a, float32(r.GetInt(b))) })
	t[dex.OpIntToDouble] = convert(func(r RegisterFile, a, b uint32) { r.SetDouble(a, float64(r.GetInt(b))) })
	t[dex.OpLongToInt] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, int32(r.GetLong(b))) })
	t[dex.OpLongToFloat] = convert(func(r RegisterFile, a, b uint32) { r.SetFloat(a, float32(r.GetLong(b))) })
	t[dex.OpLongToDouble] = convert(func(r RegisterFile, a, b uint32) { r.SetDouble(a, float64(r.GetLong(b))) })
	t[dex.OpFloatToInt] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, FloatToInt(r.Get(b))) })
	t[dex.OpFloatToLong] = convert(func(r RegisterFile, a, b uint32) { r.SetLong(a, FloatToLong(r.Get(b))) })
	t[dex.OpFloatToDouble] = convert(func(r RegisterFile, a, b uint32) { r.SetDouble(a, float64(r.GetFloat(b))) })
	t[dex.OpDoubleToInt] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, DoubleToInt(r.GetWide(b))) })
	t[dex.OpDoubleToLong] = handleDoubleToLong
	t[dex.OpDoubleToFloat] = convert(func(r RegisterFile, a, b uint32) { r.SetFloat(a, float32(r.GetDouble(b))) })
	t[dex.OpIntToByte] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, int32(int8(r.GetInt(b)))) })
	t[dex.OpIntToChar] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, int32(uint16(r.GetInt(b)))) })
	t[dex.OpIntToShort] = convert(func(r RegisterFile, a, b uint32) { r.SetInt(a, int32(int16(r.GetInt(b)))) })
}

// convert builds a 12x conversion vA, vB. The source is read in full before
// the destination is written, so overlapping pairs are fine.
func convert(fn func(r RegisterFile, a, b uint32)) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		fn(m.regs, dex.InstA(inst), dex.InstB(inst))
		return m.next(1)
	}
}

// double-to-long vA, vB goes through the saturating slow path whenever the
// exponent says the value might not fit.
func handleDoubleToLong(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	bits := m.regs.GetWide(dex.InstB(inst))
	var v int64
	if (bits>>52)&0x7ff < 0x43e {
		v = int64(math.Float64frombits(bits))
	} else {
		v = DoubleToLong(bits)
	}
	m.regs.SetLong(dex.InstA(inst), v)
	return m.next(1)
}
