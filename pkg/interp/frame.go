package interp

import (
	"mterp/pkg/dex"
	"mterp/pkg/types"
)

// ShadowFrame is the interpreter's record of one method invocation.
type ShadowFrame struct {
	Method *dex.Method
	Code   []types.CodeUnit

	// DexPC is the exported program counter: the pc of the instruction that
	// was executing at the last call-out or fault. It is only guaranteed
	// current while control is outside the handler that owns the frame.
	DexPC types.DexPC

	// Link is the caller's frame. It is a back-reference, not ownership.
	Link *ShadowFrame

	// Result holds the value returned by the last invoke until move-result
	// consumes it.
	Result types.JValue

	Regs RegisterFile
}

// Depth returns the number of frames from f to the bottom of the chain.
func (f *ShadowFrame) Depth() int {
	n := 0
	for ; f != nil; f = f.Link {
		n++
	}
	return n
}

// VisitRoots reports every reference the frame keeps alive.
func (f *ShadowFrame) VisitRoots(fn func(types.HeapRef)) {
	f.Regs.VisitRefs(fn)
	if r := f.Result.Ref(); !r.IsNull() {
		fn(r)
	}
}
