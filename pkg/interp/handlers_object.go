package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

// Every handler here calls out to the Runtime. The pattern is fixed: export
// the pc, call, map a failure onto the exit protocol, write back, then
// resume through a fresh dispatch because the call-out may have swapped the
// handler table or run a checkpoint.

func registerObjectHandlers(t *HandlerTable) {
	t[dex.OpConstString] = handleConstString
	t[dex.OpConstStringJumbo] = handleConstStringJumbo
	t[dex.OpConstClass] = handleConstClass
	t[dex.OpMonitorEnter] = handleMonitorEnter
	t[dex.OpMonitorExit] = handleMonitorExit
	t[dex.OpCheckCast] = handleCheckCast
	t[dex.OpInstanceOf] = handleInstanceOf
	t[dex.OpArrayLength] = handleArrayLength
	t[dex.OpNewInstance] = handleNewInstance
	t[dex.OpNewArray] = handleNewArray
	t[dex.OpFillArrayData] = handleFillArrayData

	for k := types.KindInt; k <= types.KindShort; k++ {
		t[dex.OpAget+dex.Opcode(k)] = arrayGet(k)
		t[dex.OpAput+dex.Opcode(k)] = arrayPut(k)
		t[dex.OpIget+dex.Opcode(k)] = instanceGet(k)
		t[dex.OpIput+dex.Opcode(k)] = instancePut(k)
		t[dex.OpSget+dex.Opcode(k)] = staticGet(k)
		t[dex.OpSput+dex.Opcode(k)] = staticPut(k)
	}
}

func handleConstString(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	ref, err := m.thread.runtime.ResolveString(m.thread, types.StringIndex(m.unit(1)))
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetRef(dex.InstAA(inst), ref)
	return m.resume(2)
}

func handleConstStringJumbo(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	idx := uint32(m.unit(1)) | uint32(m.unit(2))<<16
	ref, err := m.thread.runtime.ResolveString(m.thread, types.StringIndex(idx))
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetRef(dex.InstAA(inst), ref)
	return m.resume(3)
}

func handleConstClass(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	ref, err := m.thread.runtime.ResolveClass(m.thread, types.TypeIndex(m.unit(1)))
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetRef(dex.InstAA(inst), ref)
	return m.resume(2)
}

func handleMonitorEnter(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	if err := m.thread.runtime.MonitorEnter(m.thread, m.regs.GetRef(dex.InstAA(inst))); err != nil {
		return m.callOutFailed(err)
	}
	return m.resume(1)
}

func handleMonitorExit(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	if err := m.thread.runtime.MonitorExit(m.thread, m.regs.GetRef(dex.InstAA(inst))); err != nil {
		return m.callOutFailed(err)
	}
	return m.resume(1)
}

func handleCheckCast(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	obj := m.regs.GetRef(dex.InstAA(inst))
	if err := m.thread.runtime.CheckCast(m.thread, obj, types.TypeIndex(m.unit(1))); err != nil {
		return m.callOutFailed(err)
	}
	return m.resume(2)
}

func handleInstanceOf(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	obj := m.regs.GetRef(dex.InstB(inst))
	ok, err := m.thread.runtime.InstanceOf(m.thread, obj, types.TypeIndex(m.unit(1)))
	if err != nil {
		return m.callOutFailed(err)
	}
	var v int32
	if ok {
		v = 1
	}
	m.regs.SetInt(dex.InstA(inst), v)
	return m.resume(2)
}

func handleArrayLength(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	n, err := m.thread.runtime.ArrayLength(m.thread, m.regs.GetRef(dex.InstB(inst)))
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetInt(dex.InstA(inst), n)
	return m.resume(1)
}

func handleNewInstance(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	ref, err := m.thread.runtime.NewInstance(m.thread, types.TypeIndex(m.unit(1)))
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetRef(dex.InstAA(inst), ref)
	return m.resume(2)
}

func handleNewArray(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	length := m.regs.GetInt(dex.InstB(inst))
	ref, err := m.thread.runtime.NewArray(m.thread, types.TypeIndex(m.unit(1)), length)
	if err != nil {
		return m.callOutFailed(err)
	}
	m.regs.SetRef(dex.InstA(inst), ref)
	return m.resume(2)
}

func handleFillArrayData(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	payload := m.pc + int(int32(uint32(m.unit(1))|uint32(m.unit(2))<<16))
	data, err := dex.DecodeArrayData(m.code, payload)
	if err != nil {
		return m.trap(err)
	}
	if err := m.thread.runtime.FillArrayData(m.thread, m.regs.GetRef(dex.InstAA(inst)), data); err != nil {
		return m.callOutFailed(err)
	}
	return m.resume(3)
}

// arrayGet builds aget-<kind> vAA, vBB, vCC.
func arrayGet(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		u := m.unit(1)
		arr, index := m.regs.GetRef(uint32(u&0xff)), m.regs.GetInt(uint32(u>>8))
		v, err := m.thread.runtime.ArrayGet(m.thread, kind, arr, index)
		if err != nil {
			return m.callOutFailed(err)
		}
		m.regs.Store(dex.InstAA(inst), kind, v)
		return m.resume(2)
	}
}

// arrayPut builds aput-<kind> vAA, vBB, vCC.
func arrayPut(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		u := m.unit(1)
		arr, index := m.regs.GetRef(uint32(u&0xff)), m.regs.GetInt(uint32(u>>8))
		value := m.regs.Load(dex.InstAA(inst), kind)
		if err := m.thread.runtime.ArrayPut(m.thread, kind, arr, index, value); err != nil {
			return m.callOutFailed(err)
		}
		return m.resume(2)
	}
}

// instanceGet builds iget-<kind> vA, vB, field@CCCC.
func instanceGet(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		obj := m.regs.GetRef(dex.InstB(inst))
		v, err := m.thread.runtime.InstanceGet(m.thread, kind, types.FieldIndex(m.unit(1)), obj)
		if err != nil {
			return m.callOutFailed(err)
		}
		m.regs.Store(dex.InstA(inst), kind, v)
		return m.resume(2)
	}
}

func instancePut(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		obj := m.regs.GetRef(dex.InstB(inst))
		value := m.regs.Load(dex.InstA(inst), kind)
		if err := m.thread.runtime.InstancePut(m.thread, kind, types.FieldIndex(m.unit(1)), obj, value); err != nil {
			return m.callOutFailed(err)
		}
		return m.resume(2)
	}
}

// staticGet builds sget-<kind> vAA, field@BBBB.
func staticGet(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		v, err := m.thread.runtime.StaticGet(m.thread, kind, types.FieldIndex(m.unit(1)))
		if err != nil {
			return m.callOutFailed(err)
		}
		m.regs.Store(dex.InstAA(inst), kind, v)
		return m.resume(2)
	}
}

func staticPut(kind types.PrimitiveKind) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		value := m.regs.Load(dex.InstAA(inst), kind)
		if err := m.thread.runtime.StaticPut(m.thread, kind, types.FieldIndex(m.unit(1)), value); err != nil {
			return m.callOutFailed(err)
		}
		return m.resume(2)
	}
}
