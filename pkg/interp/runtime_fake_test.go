package interp

import (
	"fmt"
	"testing"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

type fakeObject struct {
	class  string
	elems  []types.JValue
	fields map[types.FieldIndex]types.JValue
	text   string
}

// callOut is what the fake runtime saw at one call: the exported pc and
// the instruction found there.
type callOut struct {
	name string
	pc   types.DexPC
	op   dex.Opcode
}

// fakeRuntime is a minimal object model for driving the interpreter:
// objects live in a map, statics in another, and methods without code
// are recorded and return zero.
type fakeRuntime struct {
	prog    *dex.Program
	objects map[types.HeapRef]*fakeObject
	next    types.HeapRef
	statics map[types.FieldIndex]types.JValue
	calls   []callOut
	printed []string
	throwPC types.DexPC
}

func newFakeRuntime(prog *dex.Program) *fakeRuntime {
	return &fakeRuntime{
		prog:    prog,
		objects: make(map[types.HeapRef]*fakeObject),
		next:    1,
		statics: make(map[types.FieldIndex]types.JValue),
	}
}

func (r *fakeRuntime) record(t *Thread, name string) {
	f := t.TopFrame()
	c := callOut{name: name, pc: f.DexPC}
	if int(f.DexPC) < len(f.Code) {
		c.op = dex.OpcodeOf(f.Code[f.DexPC])
	}
	r.calls = append(r.calls, c)
}

func (r *fakeRuntime) alloc(o *fakeObject) types.HeapRef {
	ref := r.next
	r.next++
	r.objects[ref] = o
	return ref
}

func (r *fakeRuntime) deref(t *Thread, ref types.HeapRef) (*fakeObject, error) {
	if ref.IsNull() {
		return nil, r.ThrowNew(t, "Ljava/lang/NullPointerException;", "null")
	}
	return r.objects[ref], nil
}

func (r *fakeRuntime) array(t *Thread, ref types.HeapRef, index int32) (*fakeObject, error) {
	o, err := r.deref(t, ref)
	if err != nil {
		return nil, err
	}
	if index < 0 || int(index) >= len(o.elems) {
		return nil, r.ThrowNew(t, "Ljava/lang/ArrayIndexOutOfBoundsException;", fmt.Sprint(index))
	}
	return o, nil
}

func (r *fakeRuntime) Invoke(t *Thread, kind InvokeKind, idx types.MethodIndex, args []VReg) (types.JValue, error) {
	r.record(t, "invoke")
	m := r.prog.Methods[idx]
	if m.HasCode() {
		return t.Invoke(m, args)
	}
	if m.Name == "println" {
		r.printed = append(r.printed, fmt.Sprint(int32(args[len(args)-1].Bits)))
	}
	return types.JValue{}, nil
}

func (r *fakeRuntime) ResolveString(t *Thread, idx types.StringIndex) (types.HeapRef, error) {
	r.record(t, "const-string")
	return r.alloc(&fakeObject{class: "Ljava/lang/String;", text: r.prog.Strings[idx]}), nil
}

func (r *fakeRuntime) ResolveClass(t *Thread, idx types.TypeIndex) (types.HeapRef, error) {
	r.record(t, "const-class")
	return r.alloc(&fakeObject{class: "Ljava/lang/Class;", text: r.prog.TypeName(idx)}), nil
}

func (r *fakeRuntime) NewInstance(t *Thread, idx types.TypeIndex) (types.HeapRef, error) {
	r.record(t, "new-instance")
	return r.alloc(&fakeObject{class: r.prog.TypeName(idx), fields: make(map[types.FieldIndex]types.JValue)}), nil
}

func (r *fakeRuntime) NewArray(t *Thread, idx types.TypeIndex, length int32) (types.HeapRef, error) {
	r.record(t, "new-array")
	if length < 0 {
		return types.NullRef, r.ThrowNew(t, "Ljava/lang/NegativeArraySizeException;", fmt.Sprint(length))
	}
	return r.alloc(&fakeObject{class: r.prog.TypeName(idx), elems: make([]types.JValue, length)}), nil
}

func (r *fakeRuntime) FilledNewArray(t *Thread, idx types.TypeIndex, args []VReg) (types.HeapRef, error) {
	r.record(t, "filled-new-array")
	o := &fakeObject{class: r.prog.TypeName(idx), elems: make([]types.JValue, len(args))}
	for i, a := range args {
		o.elems[i] = types.JValue{Bits: uint64(a.Bits)}
	}
	return r.alloc(o), nil
}

func (r *fakeRuntime) FillArrayData(t *Thread, ref types.HeapRef, data dex.ArrayPayload) error {
	r.record(t, "fill-array-data")
	o, err := r.deref(t, ref)
	if err != nil {
		return err
	}
	if int(data.Count) > len(o.elems) {
		return r.ThrowNew(t, "Ljava/lang/ArrayIndexOutOfBoundsException;", "fill")
	}
	for i := 0; i < int(data.Count); i++ {
		o.elems[i] = types.JValue{Bits: data.Element(i)}
	}
	return nil
}

func (r *fakeRuntime) ArrayLength(t *Thread, ref types.HeapRef) (int32, error) {
	r.record(t, "array-length")
	o, err := r.deref(t, ref)
	if err != nil {
		return 0, err
	}
	return int32(len(o.elems)), nil
}

func (r *fakeRuntime) ArrayGet(t *Thread, kind types.PrimitiveKind, ref types.HeapRef, index int32) (types.JValue, error) {
	r.record(t, "aget")
	o, err := r.array(t, ref, index)
	if err != nil {
		return types.JValue{}, err
	}
	return o.elems[index], nil
}

func (r *fakeRuntime) ArrayPut(t *Thread, kind types.PrimitiveKind, ref types.HeapRef, index int32, v types.JValue) error {
	r.record(t, "aput")
	o, err := r.array(t, ref, index)
	if err != nil {
		return err
	}
	o.elems[index] = v
	return nil
}

func (r *fakeRuntime) InstanceGet(t *Thread, kind types.PrimitiveKind, f types.FieldIndex, ref types.HeapRef) (types.JValue, error) {
	r.record(t, "iget")
	o, err := r.deref(t, ref)
	if err != nil {
		return types.JValue{}, err
	}
	return o.fields[f], nil
}

func (r *fakeRuntime) InstancePut(t *Thread, kind types.PrimitiveKind, f types.FieldIndex, ref types.HeapRef, v types.JValue) error {
	r.record(t, "iput")
	o, err := r.deref(t, ref)
	if err != nil {
		return err
	}
	o.fields[f] = v
	return nil
}

func (r *fakeRuntime) StaticGet(t *Thread, kind types.PrimitiveKind, f types.FieldIndex) (types.JValue, error) {
	r.record(t, "sget")
	return r.statics[f], nil
}

func (r *fakeRuntime) StaticPut(t *Thread, kind types.PrimitiveKind, f types.FieldIndex, v types.JValue) error {
	r.record(t, "sput")
	r.statics[f] = v
	return nil
}

func (r *fakeRuntime) CheckCast(t *Thread, ref types.HeapRef, idx types.TypeIndex) error {
	r.record(t, "check-cast")
	if ref.IsNull() || r.objects[ref].class == r.prog.TypeName(idx) {
		return nil
	}
	return r.ThrowNew(t, "Ljava/lang/ClassCastException;", r.objects[ref].class)
}

func (r *fakeRuntime) InstanceOf(t *Thread, ref types.HeapRef, idx types.TypeIndex) (bool, error) {
	r.record(t, "instance-of")
	return !ref.IsNull() && r.objects[ref].class == r.prog.TypeName(idx), nil
}

func (r *fakeRuntime) MonitorEnter(t *Thread, ref types.HeapRef) error {
	r.record(t, "monitor-enter")
	_, err := r.deref(t, ref)
	return err
}

func (r *fakeRuntime) MonitorExit(t *Thread, ref types.HeapRef) error {
	r.record(t, "monitor-exit")
	_, err := r.deref(t, ref)
	return err
}

func (r *fakeRuntime) ThrowNew(t *Thread, class, message string) error {
	r.throwPC = t.TopFrame().DexPC
	t.SetException(r.alloc(&fakeObject{class: class, text: message}))
	return errors.Wrapf(errors.ErrExceptionPending, "%s: %s", class, message)
}

func (r *fakeRuntime) FindCatchHandler(t *Thread, m *dex.Method, pc types.DexPC, exc types.HeapRef) (types.DexPC, bool) {
	class := r.objects[exc].class
	for i := range m.Tries {
		try := &m.Tries[i]
		if !try.Covers(pc) {
			continue
		}
		for _, h := range try.Handlers {
			if m.Program.TypeName(h.Type) == class {
				return h.Handler, true
			}
		}
		if try.CatchAll != types.NoDexPC {
			return try.CatchAll, true
		}
	}
	return 0, false
}

// newTestThread assembles src and returns a thread running against a fake
// runtime for it.
func newTestThread(t *testing.T, src string) (*Thread, *fakeRuntime) {
	t.Helper()
	prog, err := dex.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	rt := newFakeRuntime(prog)
	th, err := NewThread(1, rt, ThreadConfig{StackSlots: constants.MinStackSlots})
	if err != nil {
		t.Fatalf("NewThread: %v", err)
	}
	t.Cleanup(func() { th.Close() })
	return th, rt
}

func mustMethod(t *testing.T, rt *fakeRuntime, name string) *dex.Method {
	t.Helper()
	for _, m := range rt.prog.Methods {
		if m.Name == name && m.HasCode() {
			return m
		}
	}
	t.Fatalf("no method %q", name)
	return nil
}

func ints(vs ...int32) []VReg {
	out := make([]VReg, len(vs))
	for i, v := range vs {
		out[i] = VReg{Bits: uint32(v)}
	}
	return out
}

func wide(v int64) []VReg {
	return []VReg{{Bits: uint32(v)}, {Bits: uint32(uint64(v) >> 32)}}
}
