package interp

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/framestack"
	"mterp/pkg/types"
)

var log = commonlog.GetLogger("mterp.interp")

// ThreadState says whether a thread may be executing bytecode.
type ThreadState int32

const (
	// StateNative: not executing bytecode. Frames and registers are stable
	// and a checkpoint may run on the requester's goroutine.
	StateNative ThreadState = iota
	// StateRunnable: executing bytecode. Checkpoints are queued and run by
	// the thread at its next poll.
	StateRunnable
)

func (s ThreadState) String() string {
	if s == StateRunnable {
		return "runnable"
	}
	return "native"
}

const (
	flagCheckpoint uint32 = 1 << iota
	flagTableChanged
)

// HotMethodListener is told when a method's branch countdown reaches zero.
type HotMethodListener interface {
	MethodHot(t *Thread, method *dex.Method, branches int32)
}

// InstrumentationListener observes every dispatched instruction while it
// is installed.
type InstrumentationListener interface {
	DexPCMoved(t *Thread, method *dex.Method, pc types.DexPC)
}

// ThreadConfig tunes a thread. Zero values select defaults.
type ThreadConfig struct {
	HotnessThreshold int32
	StackSlots       int
	Hot              HotMethodListener
	Trace            TraceSink
}

type checkpoint struct {
	fn   func(*Thread)
	done chan struct{}
}

type listenerBox struct {
	listener InstrumentationListener
}

// Thread is the interpreter's per-VM-thread context: handler table,
// hotness countdown, pending exception, frame chain and frame arena.
// Everything except RunCheckpoint, SetInstrumentation and State is owned by
// the goroutine executing the thread.
type Thread struct {
	ID      uint32
	runtime Runtime
	stack   *framestack.Stack

	handlers   atomic.Pointer[HandlerTable]
	listener   atomic.Pointer[listenerBox]
	flags      atomic.Uint32
	state      atomic.Int32
	checkMu    sync.Mutex
	checkQueue []checkpoint

	top       *ShadowFrame
	exception types.HeapRef

	hotnessThreshold int32
	hotness          int32
	hot              HotMethodListener
	trace            TraceSink
}

// NewThread creates a thread in StateNative.
func NewThread(id uint32, rt Runtime, cfg ThreadConfig) (*Thread, error) {
	stack, err := framestack.New(cfg.StackSlots)
	if err != nil {
		return nil, err
	}
	t := &Thread{
		ID:               id,
		runtime:          rt,
		stack:            stack,
		hotnessThreshold: cfg.HotnessThreshold,
		hot:              cfg.Hot,
		trace:            cfg.Trace,
	}
	if t.hotnessThreshold <= 0 {
		t.hotnessThreshold = constants.DefaultHotnessThreshold
	}
	t.hotness = t.hotnessThreshold
	t.handlers.Store(&baseTable)
	return t, nil
}

// Close releases the frame arena.
func (t *Thread) Close() error {
	return t.stack.Free()
}

func (t *Thread) Runtime() Runtime {
	return t.runtime
}

// TopFrame returns the innermost frame, or nil when no method is executing.
func (t *Thread) TopFrame() *ShadowFrame {
	return t.top
}

func (t *Thread) State() ThreadState {
	return ThreadState(t.state.Load())
}

// Exception returns the pending exception, or NullRef.
func (t *Thread) Exception() types.HeapRef {
	return t.exception
}

func (t *Thread) SetException(exc types.HeapRef) {
	t.exception = exc
}

func (t *Thread) ClearException() {
	t.exception = types.NullRef
}

// handlerTable is the dispatch engine's view of the current table.
func (t *Thread) handlerTable() *HandlerTable {
	return t.handlers.Load()
}

// SetInstrumentation installs l (nil removes it). Running interpreters pick
// up the change at their next fresh dispatch.
func (t *Thread) SetInstrumentation(l InstrumentationListener) {
	if l == nil {
		t.listener.Store(nil)
		t.handlers.Store(&baseTable)
	} else {
		t.listener.Store(&listenerBox{listener: l})
		t.handlers.Store(&instrumentedTable)
	}
	t.flags.Or(flagTableChanged)
}

func (t *Thread) instrumentation() InstrumentationListener {
	if b := t.listener.Load(); b != nil {
		return b.listener
	}
	return nil
}

// RunCheckpoint runs fn against t at a point where t's frames and
// registers are consistent. If t is not executing bytecode fn runs now on
// the caller's goroutine; otherwise t runs it at its next poll and
// RunCheckpoint waits. A runnable thread must not request a checkpoint on
// itself.
func (t *Thread) RunCheckpoint(fn func(*Thread)) {
	t.checkMu.Lock()
	if t.State() != StateRunnable {
		fn(t)
		t.checkMu.Unlock()
		return
	}
	done := make(chan struct{})
	t.checkQueue = append(t.checkQueue, checkpoint{fn: fn, done: done})
	t.flags.Or(flagCheckpoint)
	t.checkMu.Unlock()
	<-done
}

// poll runs queued checkpoints. Called by the interpreter at backward
// branches, returns and after call-outs.
func (t *Thread) poll() {
	if t.flags.Load()&flagCheckpoint == 0 {
		return
	}
	t.checkMu.Lock()
	queue := t.checkQueue
	t.checkQueue = nil
	t.flags.And(^flagCheckpoint)
	t.checkMu.Unlock()
	for _, cp := range queue {
		cp.fn(t)
		close(cp.done)
	}
}

// EnterNative marks t as not executing bytecode, running anything queued
// first. Call-outs that may block call it before blocking.
func (t *Thread) EnterNative() {
	t.checkMu.Lock()
	t.state.Store(int32(StateNative))
	queue := t.checkQueue
	t.checkQueue = nil
	t.flags.And(^flagCheckpoint)
	t.checkMu.Unlock()
	for _, cp := range queue {
		cp.fn(t)
		close(cp.done)
	}
}

// ExitNative marks t as executing bytecode again.
func (t *Thread) ExitNative() {
	t.checkMu.Lock()
	t.state.Store(int32(StateRunnable))
	t.checkMu.Unlock()
}

// VisitRoots reports every reference t keeps alive: tagged registers and
// result slots of every frame, and the pending exception.
func (t *Thread) VisitRoots(fn func(types.HeapRef)) {
	for f := t.top; f != nil; f = f.Link {
		f.VisitRoots(fn)
	}
	if !t.exception.IsNull() {
		fn(t.exception)
	}
}

// Run executes method from native code: the thread becomes runnable for the
// duration of the call.
func (t *Thread) Run(method *dex.Method, args []VReg) (types.JValue, error) {
	t.ExitNative()
	defer t.EnterNative()
	return t.Invoke(method, args)
}

// Invoke pushes a frame for method, copies args into its in-registers and
// interprets it. The thread must be runnable.
func (t *Thread) Invoke(method *dex.Method, args []VReg) (types.JValue, error) {
	if !method.HasCode() {
		return types.JValue{}, fmt.Errorf("%s has no code", method)
	}
	if len(args) != int(method.Ins) {
		return types.JValue{}, fmt.Errorf("%s takes %d argument registers, got %d", method, method.Ins, len(args))
	}
	n := int(method.Registers)
	slots, err := t.stack.Push(n)
	if err != nil {
		return types.JValue{}, errors.Wrapf(err, "invoking %s at depth %d", method, t.top.Depth())
	}
	defer t.stack.Pop(n)

	copy(slots[n-len(args):], args)
	sf := &ShadowFrame{
		Method: method,
		Code:   method.Code,
		Link:   t.top,
		Regs:   NewRegisterFile(slots),
	}
	t.top = sf
	defer func() { t.top = sf.Link }()

	return t.execute(sf)
}

func (t *Thread) methodHot(method *dex.Method) {
	if t.hot != nil {
		t.hot.MethodHot(t, method, t.hotnessThreshold)
	}
}
