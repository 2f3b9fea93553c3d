package vmrt

import (
	"fmt"
	"strings"

	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/heap"
	"mterp/pkg/interp"
	"mterp/pkg/types"
)

var _ interp.Runtime = (*VM)(nil)

func argRef(args []interp.VReg, i int) types.HeapRef {
	if !args[i].Ref {
		return types.NullRef
	}
	return types.HeapRef(args[i].Bits)
}

func argLong(args []interp.VReg, i int) int64 {
	return int64(uint64(args[i].Bits) | uint64(args[i+1].Bits)<<32)
}

func (vm *VM) throwf(t *interp.Thread, class, format string, args ...any) error {
	return vm.ThrowNew(t, class, fmt.Sprintf(format, args...))
}

// ThrowNew allocates an exception with an optional message and makes it
// pending on t.
func (vm *VM) ThrowNew(t *interp.Thread, class, message string) error {
	vm.maybeCollect(t)
	exc := heap.NewInstance(class)
	if message != "" {
		exc.Fields[messageField] = types.RefValue(vm.NewString(message))
	}
	t.SetException(vm.heap.Alloc(exc))
	log.Debugf("thread %d: throw %s: %s", t.ID, class, message)
	return errors.Wrapf(errors.ErrExceptionPending, "%s: %s", class, message)
}

func (vm *VM) Invoke(t *interp.Thread, kind interp.InvokeKind, idx types.MethodIndex, args []interp.VReg) (types.JValue, error) {
	if int(idx) >= len(vm.prog.Methods) {
		return types.JValue{}, errors.Errorf("method index %d out of range", idx)
	}
	ref := vm.prog.Methods[idx]
	start := ref.ClassName()
	if kind != interp.InvokeStatic {
		recv := argRef(args, 0)
		if recv.IsNull() {
			return types.JValue{}, vm.throwf(t, excNullPointer, "invoke-%s %s on null", kind, ref)
		}
		switch kind {
		case interp.InvokeVirtual, interp.InvokeInterface:
			start = vm.ClassOf(recv)
		case interp.InvokeSuper:
			start = vm.superclass(t.TopFrame().Method.ClassName())
		}
	}
	tg, ok := vm.resolveVirtual(start, ref.Name, ref.Signature)
	if !ok {
		if _, defined := vm.prog.Class(ref.Class); defined && !ref.HasCode() {
			return types.JValue{}, vm.throwf(t, excUnsatisfiedLink, "%s", ref)
		}
		return types.JValue{}, vm.throwf(t, excNoSuchMethod, "%s", ref)
	}
	if tg.intrinsic != nil {
		return tg.intrinsic(vm, t, args)
	}
	if tg.method.Static != (kind == interp.InvokeStatic) {
		return types.JValue{}, vm.throwf(t, excIncompatibleType, "invoke-%s of %s", kind, tg.method)
	}
	return t.Invoke(tg.method, args)
}

func (vm *VM) ResolveString(t *interp.Thread, idx types.StringIndex) (types.HeapRef, error) {
	s := vm.prog.Strings[idx]
	vm.mu.Lock()
	ref, ok := vm.strings[s]
	vm.mu.Unlock()
	if ok {
		return ref, nil
	}
	vm.maybeCollect(t)
	ref = vm.NewString(s)
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if prev, ok := vm.strings[s]; ok {
		return prev, nil
	}
	vm.strings[s] = ref
	return ref, nil
}

func (vm *VM) ResolveClass(t *interp.Thread, idx types.TypeIndex) (types.HeapRef, error) {
	desc := vm.prog.TypeName(idx)
	vm.mu.Lock()
	ref, ok := vm.classes[desc]
	vm.mu.Unlock()
	if ok {
		return ref, nil
	}
	vm.maybeCollect(t)
	ref = vm.heap.Alloc(&heap.Object{Class: classClass, Text: desc})
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if prev, ok := vm.classes[desc]; ok {
		return prev, nil
	}
	vm.classes[desc] = ref
	return ref, nil
}

func (vm *VM) NewInstance(t *interp.Thread, idx types.TypeIndex) (types.HeapRef, error) {
	desc := vm.prog.TypeName(idx)
	if strings.HasPrefix(desc, "[") {
		return types.NullRef, vm.throwf(t, excInstantiation, "%s", desc)
	}
	vm.maybeCollect(t)
	return vm.heap.Alloc(heap.NewInstance(desc)), nil
}

func (vm *VM) NewArray(t *interp.Thread, idx types.TypeIndex, length int32) (types.HeapRef, error) {
	desc := vm.prog.TypeName(idx)
	if !strings.HasPrefix(desc, "[") {
		return types.NullRef, errors.Errorf("new-array of non-array type %s", desc)
	}
	if length < 0 {
		return types.NullRef, vm.throwf(t, excNegativeSize, "%d", length)
	}
	vm.maybeCollect(t)
	return vm.heap.Alloc(heap.NewArray(desc, dex.KindOf(desc[1:]), int(length))), nil
}

func (vm *VM) FilledNewArray(t *interp.Thread, idx types.TypeIndex, args []interp.VReg) (types.HeapRef, error) {
	desc := vm.prog.TypeName(idx)
	if !strings.HasPrefix(desc, "[") {
		return types.NullRef, errors.Errorf("filled-new-array of non-array type %s", desc)
	}
	kind := dex.KindOf(desc[1:])
	if kind == types.KindWide {
		return types.NullRef, errors.Errorf("filled-new-array of wide type %s", desc)
	}
	arr := heap.NewArray(desc, kind, len(args))
	for i := range args {
		if kind == types.KindObject {
			arr.SetElement(i, types.RefValue(argRef(args, i)))
		} else {
			arr.SetElement(i, types.JValue{Bits: uint64(args[i].Bits)})
		}
	}
	vm.maybeCollect(t)
	return vm.heap.Alloc(arr), nil
}

func (vm *VM) array(t *interp.Thread, ref types.HeapRef) (*heap.Object, error) {
	o := vm.heap.Get(ref)
	if o == nil {
		return nil, vm.throwf(t, excNullPointer, "array access on null")
	}
	if !o.IsArray {
		return nil, errors.Errorf("%s is not an array", o.Class)
	}
	return o, nil
}

func (vm *VM) FillArrayData(t *interp.Thread, ref types.HeapRef, data dex.ArrayPayload) error {
	o, err := vm.array(t, ref)
	if err != nil {
		return err
	}
	if data.Count > len(o.Elems) {
		return vm.throwf(t, excArrayIndex, "length=%d; fill=%d", len(o.Elems), data.Count)
	}
	for i := 0; i < data.Count; i++ {
		o.SetElement(i, types.JValue{Bits: data.Element(i)})
	}
	return nil
}

func (vm *VM) ArrayLength(t *interp.Thread, ref types.HeapRef) (int32, error) {
	o, err := vm.array(t, ref)
	if err != nil {
		return 0, err
	}
	return int32(len(o.Elems)), nil
}

func (vm *VM) element(t *interp.Thread, ref types.HeapRef, index int32) (*heap.Object, error) {
	o, err := vm.array(t, ref)
	if err != nil {
		return nil, err
	}
	if index < 0 || int(index) >= len(o.Elems) {
		return nil, vm.throwf(t, excArrayIndex, "length=%d; index=%d", len(o.Elems), index)
	}
	return o, nil
}

func (vm *VM) ArrayGet(t *interp.Thread, kind types.PrimitiveKind, ref types.HeapRef, index int32) (types.JValue, error) {
	o, err := vm.element(t, ref, index)
	if err != nil {
		return types.JValue{}, err
	}
	return o.Element(int(index)), nil
}

func (vm *VM) ArrayPut(t *interp.Thread, kind types.PrimitiveKind, ref types.HeapRef, index int32, value types.JValue) error {
	o, err := vm.element(t, ref, index)
	if err != nil {
		return err
	}
	if kind == types.KindObject {
		if v := value.Ref(); !v.IsNull() && !vm.assignable(vm.ClassOf(v), o.Class[1:]) {
			return vm.throwf(t, excArrayStore, "%s into %s", vm.ClassOf(v), o.Class)
		}
	}
	o.SetElement(int(index), value)
	return nil
}

func (vm *VM) field(t *interp.Thread, idx types.FieldIndex) (*dex.Field, error) {
	if int(idx) >= len(vm.prog.Fields) {
		return nil, vm.throwf(t, excNoSuchField, "field@%d", idx)
	}
	return &vm.prog.Fields[idx], nil
}

func narrowed(kind types.PrimitiveKind, v types.JValue) types.JValue {
	switch kind {
	case types.KindWide, types.KindObject:
		return v
	}
	return types.JValue{Bits: uint64(kind.Narrow(uint32(v.Bits)))}
}

func (vm *VM) InstanceGet(t *interp.Thread, kind types.PrimitiveKind, idx types.FieldIndex, ref types.HeapRef) (types.JValue, error) {
	f, err := vm.field(t, idx)
	if err != nil {
		return types.JValue{}, err
	}
	o := vm.heap.Get(ref)
	if o == nil {
		return types.JValue{}, vm.throwf(t, excNullPointer, "read of %s on null", f.Name)
	}
	return o.Fields[f.Name], nil
}

func (vm *VM) InstancePut(t *interp.Thread, kind types.PrimitiveKind, idx types.FieldIndex, ref types.HeapRef, value types.JValue) error {
	f, err := vm.field(t, idx)
	if err != nil {
		return err
	}
	o := vm.heap.Get(ref)
	if o == nil {
		return vm.throwf(t, excNullPointer, "write of %s on null", f.Name)
	}
	if o.Fields == nil {
		return errors.Errorf("%s has no fields", o.Class)
	}
	o.Fields[f.Name] = narrowed(kind, value)
	return nil
}

func (vm *VM) staticKey(f *dex.Field) string {
	return vm.prog.TypeName(f.Class) + "->" + f.Name
}

func (vm *VM) StaticGet(t *interp.Thread, kind types.PrimitiveKind, idx types.FieldIndex) (types.JValue, error) {
	f, err := vm.field(t, idx)
	if err != nil {
		return types.JValue{}, err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.statics[vm.staticKey(f)], nil
}

func (vm *VM) StaticPut(t *interp.Thread, kind types.PrimitiveKind, idx types.FieldIndex, value types.JValue) error {
	f, err := vm.field(t, idx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.statics[vm.staticKey(f)] = narrowed(kind, value)
	return nil
}

func (vm *VM) CheckCast(t *interp.Thread, ref types.HeapRef, idx types.TypeIndex) error {
	if ref.IsNull() {
		return nil
	}
	from, to := vm.ClassOf(ref), vm.prog.TypeName(idx)
	if !vm.assignable(from, to) {
		return vm.throwf(t, excClassCast, "%s cannot be cast to %s", from, to)
	}
	return nil
}

func (vm *VM) InstanceOf(t *interp.Thread, ref types.HeapRef, idx types.TypeIndex) (bool, error) {
	if ref.IsNull() {
		return false, nil
	}
	return vm.assignable(vm.ClassOf(ref), vm.prog.TypeName(idx)), nil
}

// MonitorEnter acquires ref's monitor, re-entrantly. A thread that has to
// wait leaves the runnable state while it does, so collections proceed.
func (vm *VM) MonitorEnter(t *interp.Thread, ref types.HeapRef) error {
	if ref.IsNull() {
		return vm.throwf(t, excNullPointer, "monitor-enter on null")
	}
	vm.monMu.Lock()
	m := vm.monitors[ref]
	if m == nil {
		m = &monitor{}
		vm.monitors[ref] = m
	}
	if m.owner == nil || m.owner == t {
		m.owner = t
		m.count++
		vm.monMu.Unlock()
		return nil
	}
	vm.monMu.Unlock()

	t.EnterNative()
	vm.monMu.Lock()
	for m.owner != nil {
		vm.monCond.Wait()
	}
	m.owner = t
	m.count = 1
	vm.monMu.Unlock()
	t.ExitNative()
	return nil
}

func (vm *VM) MonitorExit(t *interp.Thread, ref types.HeapRef) error {
	if ref.IsNull() {
		return vm.throwf(t, excNullPointer, "monitor-exit on null")
	}
	vm.monMu.Lock()
	m := vm.monitors[ref]
	if m == nil || m.owner != t {
		vm.monMu.Unlock()
		return vm.throwf(t, excIllegalMonitor, "thread %d does not own the monitor", t.ID)
	}
	m.count--
	if m.count == 0 {
		m.owner = nil
		vm.monCond.Broadcast()
	}
	vm.monMu.Unlock()
	return nil
}

// FindCatchHandler searches the try block covering pc for the first handler
// whose type the exception is assignable to, then the catch-all.
func (vm *VM) FindCatchHandler(t *interp.Thread, m *dex.Method, pc types.DexPC, exc types.HeapRef) (types.DexPC, bool) {
	class := vm.ClassOf(exc)
	for i := range m.Tries {
		try := &m.Tries[i]
		if !try.Covers(pc) {
			continue
		}
		for _, h := range try.Handlers {
			if vm.assignable(class, m.Program.TypeName(h.Type)) {
				return h.Handler, true
			}
		}
		if try.CatchAll != types.NoDexPC {
			return try.CatchAll, true
		}
		return 0, false
	}
	return 0, false
}
