package interp

import (
	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

// Handler executes one instruction. It either returns ExitGo together with
// the next instruction it has already fetched, or another exit reason and
// an unused unit.
type Handler func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit)

// HandlerTable maps every opcode value to its handler.
type HandlerTable [constants.NumOpcodes]Handler

// Lookup returns the handler for op.
func (t *HandlerTable) Lookup(op dex.Opcode) Handler {
	return t[op]
}

var (
	baseTable         HandlerTable
	instrumentedTable HandlerTable
)

func init() {
	for i := range baseTable {
		baseTable[i] = handleUnused
	}
	registerControlHandlers(&baseTable)
	registerArithHandlers(&baseTable)
	registerShiftHandlers(&baseTable)
	registerConversionHandlers(&baseTable)
	registerObjectHandlers(&baseTable)
	registerInvokeHandlers(&baseTable)

	for i := range instrumentedTable {
		instrumentedTable[i] = instrumented(baseTable[i])
	}
}

// instrumented wraps h so the installed listener sees the pc first.
func instrumented(h Handler) Handler {
	return func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
		m.exportPC()
		if l := m.thread.instrumentation(); l != nil {
			l.DexPCMoved(m.thread, m.sf.Method, m.sf.DexPC)
		}
		return h(m, inst)
	}
}

// BaseHandlers returns a copy of the uninstrumented table.
func BaseHandlers() HandlerTable {
	return baseTable
}

func handleUnused(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	m.err = errors.Wrapf(errors.ErrUnusedOpcode, "%s: opcode 0x%02x at dex pc %d", m.sf.Method, inst.Opcode(), m.pc)
	return ExitTrap, 0
}

// handleUnimplemented covers method-handle and call-site instructions,
// which need runtime support this interpreter does not have.
func handleUnimplemented(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
	m.exportPC()
	m.err = errors.Wrapf(errors.ErrUnimplemented, "%s: %s at dex pc %d", m.sf.Method, dex.OpcodeOf(inst), m.pc)
	return ExitTrap, 0
}
