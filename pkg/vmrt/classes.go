package vmrt

import (
	"strings"

	"mterp/pkg/dex"
	"mterp/pkg/types"
)

const (
	objectClass    = "Ljava/lang/Object;"
	stringClass    = "Ljava/lang/String;"
	classClass     = "Ljava/lang/Class;"
	throwableClass = "Ljava/lang/Throwable;"

	messageField = "message"
)

const (
	excArithmetic       = "Ljava/lang/ArithmeticException;"
	excNullPointer      = "Ljava/lang/NullPointerException;"
	excArrayIndex       = "Ljava/lang/ArrayIndexOutOfBoundsException;"
	excArrayStore       = "Ljava/lang/ArrayStoreException;"
	excNegativeSize     = "Ljava/lang/NegativeArraySizeException;"
	excClassCast        = "Ljava/lang/ClassCastException;"
	excIllegalMonitor   = "Ljava/lang/IllegalMonitorStateException;"
	excUnsatisfiedLink  = "Ljava/lang/UnsatisfiedLinkError;"
	excNoSuchMethod     = "Ljava/lang/NoSuchMethodError;"
	excNoSuchField      = "Ljava/lang/NoSuchFieldError;"
	excInstantiation    = "Ljava/lang/InstantiationError;"
	excIncompatibleType = "Ljava/lang/IncompatibleClassChangeError;"
)

// builtinSupers is the part of the class hierarchy every program may rely
// on without defining it.
var builtinSupers = map[string]string{
	stringClass:                             objectClass,
	classClass:                              objectClass,
	throwableClass:                          objectClass,
	"Ljava/lang/Exception;":                 throwableClass,
	"Ljava/lang/Error;":                     throwableClass,
	"Ljava/lang/RuntimeException;":          "Ljava/lang/Exception;",
	"Ljava/lang/LinkageError;":              "Ljava/lang/Error;",
	"Ljava/lang/IndexOutOfBoundsException;": "Ljava/lang/RuntimeException;",
	excArithmetic:                           "Ljava/lang/RuntimeException;",
	excNullPointer:                          "Ljava/lang/RuntimeException;",
	excArrayIndex:                           "Ljava/lang/IndexOutOfBoundsException;",
	excArrayStore:                           "Ljava/lang/RuntimeException;",
	excNegativeSize:                         "Ljava/lang/RuntimeException;",
	excClassCast:                            "Ljava/lang/RuntimeException;",
	excIllegalMonitor:                       "Ljava/lang/RuntimeException;",
	excUnsatisfiedLink:                      "Ljava/lang/LinkageError;",
	excIncompatibleType:                     "Ljava/lang/LinkageError;",
	excNoSuchMethod:                         excIncompatibleType,
	excNoSuchField:                          excIncompatibleType,
	excInstantiation:                        excIncompatibleType,
}

// superclass returns the superclass descriptor of class, or "" for
// Object. Classes neither defined nor built in extend Object.
func (vm *VM) superclass(class string) string {
	if class == objectClass {
		return ""
	}
	if idx, ok := vm.prog.FindType(class); ok {
		if _, defined := vm.prog.Class(idx); defined {
			if s := vm.prog.Superclass(idx); s != "" {
				return s
			}
			return objectClass
		}
	}
	if s, ok := builtinSupers[class]; ok {
		return s
	}
	return objectClass
}

// assignable reports whether a value of class from may be stored where
// class to is expected.
func (vm *VM) assignable(from, to string) bool {
	if from == to || to == objectClass {
		return true
	}
	if strings.HasPrefix(from, "[") {
		if !strings.HasPrefix(to, "[") {
			return false
		}
		fe, te := from[1:], to[1:]
		if dex.KindOf(fe) != types.KindObject || dex.KindOf(te) != types.KindObject {
			return fe == te
		}
		return vm.assignable(fe, te)
	}
	for c := vm.superclass(from); c != ""; c = vm.superclass(c) {
		if c == to {
			return true
		}
	}
	return false
}

// target is what an invoke resolved to: a method with bytecode or an
// intrinsic.
type target struct {
	method    *dex.Method
	intrinsic intrinsic
	name      string
}

// lookup finds class->name+sig declared directly on class. Declarations
// without code fall through to the intrinsic table.
func (vm *VM) lookup(class, name, sig string) (target, bool) {
	key := class + "->" + name + sig
	if m := vm.prog.FindMethod(class, name, sig); m != nil && m.HasCode() {
		return target{method: m, name: key}, true
	}
	if fn, ok := intrinsics[key]; ok {
		return target{intrinsic: fn, name: key}, true
	}
	return target{}, false
}

// resolveVirtual finds the implementation of name+sig for an object of
// class, searching up from class.
func (vm *VM) resolveVirtual(class, name, sig string) (target, bool) {
	for c := class; c != ""; c = vm.superclass(c) {
		if tg, ok := vm.lookup(c, name, sig); ok {
			return tg, true
		}
	}
	return target{}, false
}
