package vmrt

import (
	"strconv"

	"mterp/pkg/heap"
	"mterp/pkg/interp"
	"mterp/pkg/types"
)

// intrinsic implements a library method in Go. args are the argument
// registers as the invoke collected them, receiver first.
type intrinsic func(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error)

var intrinsics = map[string]intrinsic{
	"Ljava/lang/Object;-><init>()V":                                    nop,
	"Ljava/lang/Object;->hashCode()I":                                  identityHash,
	"Ljava/lang/Object;->equals(Ljava/lang/Object;)Z":                  objectEquals,
	"Ljava/lang/Throwable;-><init>()V":                                 nop,
	"Ljava/lang/Throwable;-><init>(Ljava/lang/String;)V":               throwableInit,
	"Ljava/lang/Throwable;->getMessage()Ljava/lang/String;":            throwableMessage,
	"Ljava/lang/String;->length()I":                                    stringLength,
	"Ljava/lang/String;->equals(Ljava/lang/Object;)Z":                  stringEquals,
	"Ljava/lang/String;->concat(Ljava/lang/String;)Ljava/lang/String;": stringConcat,
	"Ljava/lang/String;->valueOf(I)Ljava/lang/String;":                 valueOfInt,
	"Ljava/lang/String;->valueOf(J)Ljava/lang/String;":                 valueOfLong,
	"Ljava/lang/System;->println(I)V":                                  printInt,
	"Ljava/lang/System;->println(J)V":                                  printLong,
	"Ljava/lang/System;->println(D)V":                                  printDouble,
	"Ljava/lang/System;->println(Ljava/lang/String;)V":                 printString,
	"Ljava/lang/System;->gc()V":                                        systemGC,
	"Ljava/lang/System;->identityHashCode(Ljava/lang/Object;)I":        identityHash,
	"Ljava/lang/Thread;->yield()V":                                     nop,
}

func nop(*VM, *interp.Thread, []interp.VReg) (types.JValue, error) {
	return types.JValue{}, nil
}

func identityHash(_ *VM, _ *interp.Thread, args []interp.VReg) (types.JValue, error) {
	return types.IntValue(int32(argRef(args, 0))), nil
}

func boolValue(b bool) types.JValue {
	if b {
		return types.IntValue(1)
	}
	return types.IntValue(0)
}

func objectEquals(_ *VM, _ *interp.Thread, args []interp.VReg) (types.JValue, error) {
	return boolValue(argRef(args, 0) == argRef(args, 1)), nil
}

func throwableInit(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	o := vm.heap.Get(argRef(args, 0))
	if o.Fields == nil {
		return types.JValue{}, vm.throwf(t, excIncompatibleType, "%s is not a Throwable", o.Class)
	}
	o.Fields[messageField] = types.RefValue(argRef(args, 1))
	return types.JValue{}, nil
}

func throwableMessage(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	o := vm.heap.Get(argRef(args, 0))
	return types.RefValue(o.Fields[messageField].Ref()), nil
}

// str returns the text of string argument i, throwing on null.
func (vm *VM) str(t *interp.Thread, args []interp.VReg, i int) (string, error) {
	ref := argRef(args, i)
	if ref.IsNull() {
		return "", vm.throwf(t, excNullPointer, "string argument %d is null", i)
	}
	s, ok := vm.StringValue(ref)
	if !ok {
		return "", vm.throwf(t, excClassCast, "%s cannot be cast to %s", vm.ClassOf(ref), stringClass)
	}
	return s, nil
}

func stringLength(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	s, err := vm.str(t, args, 0)
	if err != nil {
		return types.JValue{}, err
	}
	return types.IntValue(int32(len([]rune(s)))), nil
}

func stringEquals(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	s, err := vm.str(t, args, 0)
	if err != nil {
		return types.JValue{}, err
	}
	other, ok := vm.StringValue(argRef(args, 1))
	return boolValue(ok && other == s), nil
}

// newString allocates from an intrinsic, which is an allocation site like
// any other call-out.
func (vm *VM) newString(t *interp.Thread, s string) types.JValue {
	vm.maybeCollect(t)
	return types.RefValue(vm.heap.Alloc(&heap.Object{Class: stringClass, Text: s}))
}

func stringConcat(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	a, err := vm.str(t, args, 0)
	if err != nil {
		return types.JValue{}, err
	}
	b, err := vm.str(t, args, 1)
	if err != nil {
		return types.JValue{}, err
	}
	return vm.newString(t, a+b), nil
}

func valueOfInt(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	return vm.newString(t, strconv.Itoa(int(int32(args[0].Bits)))), nil
}

func valueOfLong(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	return vm.newString(t, strconv.FormatInt(argLong(args, 0), 10)), nil
}

func printInt(vm *VM, _ *interp.Thread, args []interp.VReg) (types.JValue, error) {
	vm.print(strconv.Itoa(int(int32(args[0].Bits))))
	return types.JValue{}, nil
}

func printLong(vm *VM, _ *interp.Thread, args []interp.VReg) (types.JValue, error) {
	vm.print(strconv.FormatInt(argLong(args, 0), 10))
	return types.JValue{}, nil
}

func printDouble(vm *VM, _ *interp.Thread, args []interp.VReg) (types.JValue, error) {
	vm.print(strconv.FormatFloat(types.LongValue(argLong(args, 0)).Double(), 'g', -1, 64))
	return types.JValue{}, nil
}

func printString(vm *VM, t *interp.Thread, args []interp.VReg) (types.JValue, error) {
	ref := argRef(args, 0)
	if ref.IsNull() {
		vm.print("null")
		return types.JValue{}, nil
	}
	s, err := vm.str(t, args, 0)
	if err != nil {
		return types.JValue{}, err
	}
	vm.print(s)
	return types.JValue{}, nil
}

func systemGC(vm *VM, t *interp.Thread, _ []interp.VReg) (types.JValue, error) {
	vm.Collect(t)
	return types.JValue{}, nil
}
