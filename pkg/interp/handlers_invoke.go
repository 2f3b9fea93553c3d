package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

func registerInvokeHandlers(t *HandlerTable) {
	kinds := []InvokeKind{InvokeVirtual, InvokeSuper, InvokeDirect, InvokeStatic, InvokeInterface}
	for i, kind := range kinds {
		t[dex.OpInvokeVirtual+dex.Opcode(i)] = invoke(kind, argList)
		t[dex.OpInvokeVirtualRange+dex.Opcode(i)] = invoke(kind, argRange)
	}
	t[dex.OpFilledNewArray] = filledNewArray(argList)
	t[dex.OpFilledNewArrayRange] = filledNewArray(argRange)
}

// argList collects the 35c argument registers {vC, vD, vE, vF, vG}, the
// first A of them.
func argList(m *Mterp, inst types.CodeUnit) []VReg {
	count := int(inst >> 12)
	regs := m.unit(2)
	args := make([]VReg, count)
	for i := 0; i < count && i < 4; i++ {
		args[i] = m.regs.Slot(uint32(regs>>(4*i)) & 0xf)
	}
	if count == 5 {
		args[4] = m.regs.Slot(dex.InstA(inst))
	}
	return args
}

// argRange collects the 3rc argument registers vCCCC .. vCCCC+AA-1.
func argRange(m *Mterp, inst types.CodeUnit) []VReg {
	count := dex.InstAA(inst)
	first := uint32(m.unit(2))
	args := make([]VReg, count)
	for i := range args {
		args[i] = m.regs.Slot(first + uint32(i))
	}
	return args
}

// invoke builds invoke-<kind> and invoke-<kind>/range. The callee's result
// lands in the frame's result slot for a following move-result. The hotness
// countdown is handed to the thread across the call so the callee's loops
// keep counting against it.
func invoke(kind InvokeKind, collect func(*Mterp, types.CodeUnit) []VReg) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		args := collect(m, inst)
		m.thread.hotness = m.hotness
		v, err := m.thread.runtime.Invoke(m.thread, kind, types.MethodIndex(m.unit(1)), args)
		m.hotness = m.thread.hotness
		if err != nil {
			return m.callOutFailed(err)
		}
		m.sf.Result = v
		return m.resume(3)
	}
}

func filledNewArray(collect func(*Mterp, types.CodeUnit) []VReg) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		ref, err := m.thread.runtime.FilledNewArray(m.thread, types.TypeIndex(m.unit(1)), collect(m, inst))
		if err != nil {
			return m.callOutFailed(err)
		}
		m.sf.Result = types.RefValue(ref)
		return m.resume(3)
	}
}
