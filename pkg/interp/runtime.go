package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

// InvokeKind is the dispatch flavour of an invoke instruction.
type InvokeKind uint8

const (
	InvokeVirtual InvokeKind = iota
	InvokeSuper
	InvokeDirect
	InvokeStatic
	InvokeInterface
)

var invokeKindNames = [...]string{"virtual", "super", "direct", "static", "interface"}

func (k InvokeKind) String() string {
	if int(k) < len(invokeKindNames) {
		return invokeKindNames[k]
	}
	return "unknown"
}

// Runtime is everything the interpreter calls out to: the object model,
// method resolution and the exception machinery. Every call happens with the
// caller's pc exported and its registers consistent, so an implementation
// may run checkpoints or collect garbage.
//
// An implementation reports a VM-level exception by setting it pending on
// the thread (Thread.SetException or ThrowNew) and returning an error that
// wraps errors.ErrExceptionPending. Any other error aborts execution.
type Runtime interface {
	Invoke(t *Thread, kind InvokeKind, method types.MethodIndex, args []VReg) (types.JValue, error)

	ResolveString(t *Thread, idx types.StringIndex) (types.HeapRef, error)
	ResolveClass(t *Thread, idx types.TypeIndex) (types.HeapRef, error)

	NewInstance(t *Thread, idx types.TypeIndex) (types.HeapRef, error)
	NewArray(t *Thread, idx types.TypeIndex, length int32) (types.HeapRef, error)
	FilledNewArray(t *Thread, idx types.TypeIndex, args []VReg) (types.HeapRef, error)
	FillArrayData(t *Thread, array types.HeapRef, data dex.ArrayPayload) error

	ArrayLength(t *Thread, array types.HeapRef) (int32, error)
	ArrayGet(t *Thread, kind types.PrimitiveKind, array types.HeapRef, index int32) (types.JValue, error)
	ArrayPut(t *Thread, kind types.PrimitiveKind, array types.HeapRef, index int32, value types.JValue) error

	InstanceGet(t *Thread, kind types.PrimitiveKind, field types.FieldIndex, obj types.HeapRef) (types.JValue, error)
	InstancePut(t *Thread, kind types.PrimitiveKind, field types.FieldIndex, obj types.HeapRef, value types.JValue) error
	StaticGet(t *Thread, kind types.PrimitiveKind, field types.FieldIndex) (types.JValue, error)
	StaticPut(t *Thread, kind types.PrimitiveKind, field types.FieldIndex, value types.JValue) error

	CheckCast(t *Thread, obj types.HeapRef, idx types.TypeIndex) error
	InstanceOf(t *Thread, obj types.HeapRef, idx types.TypeIndex) (bool, error)

	MonitorEnter(t *Thread, obj types.HeapRef) error
	MonitorExit(t *Thread, obj types.HeapRef) error

	// ThrowNew allocates an exception of the given class and sets it pending.
	ThrowNew(t *Thread, class string, message string) error

	// FindCatchHandler returns the handler pc in method that catches exc
	// thrown at pc.
	FindCatchHandler(t *Thread, method *dex.Method, pc types.DexPC, exc types.HeapRef) (types.DexPC, bool)
}
