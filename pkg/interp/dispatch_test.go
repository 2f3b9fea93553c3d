package interp

import (
	"reflect"
	"testing"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

func handlerPC(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

func TestEveryOpcodeHasAHandler(t *testing.T) {
	unused := handlerPC(handleUnused)
	for v := 0; v < constants.NumOpcodes; v++ {
		op := dex.Opcode(v)
		if baseTable[v] == nil {
			t.Fatalf("base handler for %#02x is nil", v)
		}
		if instrumentedTable[v] == nil {
			t.Fatalf("instrumented handler for %#02x is nil", v)
		}
		if got := handlerPC(baseTable[v]) == unused; got != op.IsUnused() {
			t.Errorf("%s: trap handler installed = %t, want %t", op, got, op.IsUnused())
		}
	}
}

// trapMethod builds an unverified method whose first instruction is the
// raw opcode op.
func trapMethod(op dex.Opcode) *dex.Method {
	return &dex.Method{
		Name:      "trap",
		Signature: "()V",
		Registers: 4,
		Code:      []types.CodeUnit{types.CodeUnit(op), 0, 0, 0, 0, 0x000e},
	}
}

func TestDispatchSweepReachesRegisteredHandler(t *testing.T) {
	th, err := NewThread(1, newFakeRuntime(&dex.Program{}), ThreadConfig{StackSlots: constants.MinStackSlots})
	if err != nil {
		t.Fatalf("NewThread: %v", err)
	}
	defer th.Close()

	var table HandlerTable
	var seen int
	for v := range table {
		table[v] = func(m *Mterp, inst types.CodeUnit) (ExitReason, types.CodeUnit) {
			seen = v
			if int(inst.Opcode()) != v {
				t.Errorf("handler %#02x got instruction %#04x", v, uint16(inst))
			}
			return ExitReturn, 0
		}
	}
	th.handlers.Store(&table)

	for v := 0; v < constants.NumOpcodes; v++ {
		seen = -1
		if _, err := th.Run(trapMethod(dex.Opcode(v)), nil); err != nil {
			t.Fatalf("opcode %#02x: %v", v, err)
		}
		if seen != v {
			t.Errorf("opcode %#02x dispatched to handler %#02x", v, seen)
		}
	}
}

func TestUnusedAndUnimplementedOpcodesTrap(t *testing.T) {
	th, err := NewThread(1, newFakeRuntime(&dex.Program{}), ThreadConfig{StackSlots: constants.MinStackSlots})
	if err != nil {
		t.Fatalf("NewThread: %v", err)
	}
	defer th.Close()

	for v := 0; v < constants.NumOpcodes; v++ {
		op := dex.Opcode(v)
		var want error
		switch {
		case op.IsUnused():
			want = errors.ErrUnusedOpcode
		case op >= dex.OpInvokePolymorphic:
			want = errors.ErrUnimplemented
		default:
			continue
		}
		_, err := th.Run(trapMethod(op), nil)
		if !errors.Is(err, want) {
			t.Errorf("%s: got %v, want %v", op, err, want)
		}
	}
}
