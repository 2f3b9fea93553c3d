package vmrt

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tliron/commonlog"

	"mterp/pkg/dex"
	"mterp/pkg/heap"
	"mterp/pkg/interp"
	"mterp/pkg/types"
)

var log = commonlog.GetLogger("mterp.vmrt")

// Config tunes a VM. Zero values select defaults.
type Config struct {
	// HeapThreshold is the number of allocations between collections.
	HeapThreshold int
	Thread        interp.ThreadConfig
	Stdout        io.Writer
}

const defaultHeapThreshold = 1 << 16

// VM runs one program: it owns the heap, statics, interned strings and the
// threads executing the program, and is the interp.Runtime for all of them.
type VM struct {
	prog *dex.Program
	heap *heap.Heap
	cfg  Config
	out  io.Writer

	mu       sync.Mutex
	statics  map[string]types.JValue
	strings  map[string]types.HeapRef
	classes  map[string]types.HeapRef
	threads  map[uint32]*interp.Thread
	threadID uint32

	outMu sync.Mutex

	monMu    sync.Mutex
	monCond  *sync.Cond
	monitors map[types.HeapRef]*monitor

	gcMu sync.Mutex
}

type monitor struct {
	owner *interp.Thread
	count int
}

func New(prog *dex.Program, cfg Config) *VM {
	if cfg.HeapThreshold == 0 {
		cfg.HeapThreshold = defaultHeapThreshold
	}
	vm := &VM{
		prog:     prog,
		heap:     heap.New(cfg.HeapThreshold),
		cfg:      cfg,
		out:      cfg.Stdout,
		statics:  make(map[string]types.JValue),
		strings:  make(map[string]types.HeapRef),
		classes:  make(map[string]types.HeapRef),
		threads:  make(map[uint32]*interp.Thread),
		monitors: make(map[types.HeapRef]*monitor),
	}
	if vm.out == nil {
		vm.out = os.Stdout
	}
	vm.monCond = sync.NewCond(&vm.monMu)
	return vm
}

func (vm *VM) Program() *dex.Program {
	return vm.prog
}

func (vm *VM) Heap() *heap.Heap {
	return vm.heap
}

// NewThread creates and registers an interpreter thread.
func (vm *VM) NewThread() (*interp.Thread, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.threadID++
	t, err := interp.NewThread(vm.threadID, vm, vm.cfg.Thread)
	if err != nil {
		return nil, err
	}
	vm.threads[t.ID] = t
	return t, nil
}

// ReleaseThread unregisters t and frees its frame arena.
func (vm *VM) ReleaseThread(t *interp.Thread) error {
	vm.mu.Lock()
	delete(vm.threads, t.ID)
	vm.mu.Unlock()
	return t.Close()
}

// Call runs class->name on t. sig may be empty when the name is unique.
func (vm *VM) Call(t *interp.Thread, class, name, sig string, args ...types.JValue) (types.JValue, error) {
	m := vm.prog.FindMethod(class, name, sig)
	if m == nil {
		return types.JValue{}, fmt.Errorf("no method %s->%s%s", class, name, sig)
	}
	params, err := dex.ParamDescriptors(m.Signature)
	if err != nil {
		return types.JValue{}, err
	}
	if !m.Static {
		params = append([]string{class}, params...)
	}
	if len(params) != len(args) {
		return types.JValue{}, fmt.Errorf("%s takes %d arguments, got %d", m, len(params), len(args))
	}
	var regs []interp.VReg
	for i, p := range params {
		switch dex.KindOf(p) {
		case types.KindWide:
			regs = append(regs, interp.VReg{Bits: uint32(args[i].Bits)}, interp.VReg{Bits: uint32(args[i].Bits >> 32)})
		case types.KindObject:
			ref := args[i].Ref()
			regs = append(regs, interp.VReg{Bits: uint32(ref), Ref: !ref.IsNull()})
		default:
			regs = append(regs, interp.VReg{Bits: uint32(args[i].Bits)})
		}
	}
	return t.Run(m, regs)
}

// NewString allocates a string object.
func (vm *VM) NewString(s string) types.HeapRef {
	return vm.heap.Alloc(&heap.Object{Class: stringClass, Text: s})
}

// StringValue returns the text of a string object.
func (vm *VM) StringValue(ref types.HeapRef) (string, bool) {
	o := vm.heap.Get(ref)
	if o == nil || o.Class != stringClass {
		return "", false
	}
	return o.Text, true
}

// ClassOf returns the descriptor of ref's class, or "" for null.
func (vm *VM) ClassOf(ref types.HeapRef) string {
	if o := vm.heap.Get(ref); o != nil {
		return o.Class
	}
	return ""
}

// ExceptionMessage returns the class and message of a thrown object.
func (vm *VM) ExceptionMessage(ref types.HeapRef) (string, string) {
	o := vm.heap.Get(ref)
	if o == nil {
		return "", ""
	}
	msg, _ := vm.StringValue(o.Fields[messageField].Ref())
	return o.Class, msg
}

func (vm *VM) print(s string) {
	vm.outMu.Lock()
	defer vm.outMu.Unlock()
	fmt.Fprintln(vm.out, s)
}

// Collect runs a stop-the-world collection on behalf of requester, which
// may be nil. Every other registered thread is parked at a checkpoint with
// its roots reported until the sweep is done.
func (vm *VM) Collect(requester *interp.Thread) heap.Stats {
	if requester != nil {
		requester.EnterNative()
		defer requester.ExitNative()
	}
	vm.gcMu.Lock()
	defer vm.gcMu.Unlock()

	vm.mu.Lock()
	threads := make([]*interp.Thread, 0, len(vm.threads))
	for _, t := range vm.threads {
		threads = append(threads, t)
	}
	vm.mu.Unlock()

	roots := make([][]types.HeapRef, len(threads))
	resume := make(chan struct{})
	var parked sync.WaitGroup
	for i, t := range threads {
		if t == requester {
			t.VisitRoots(func(r types.HeapRef) { roots[i] = append(roots[i], r) })
			continue
		}
		parked.Add(1)
		go t.RunCheckpoint(func(t *interp.Thread) {
			t.VisitRoots(func(r types.HeapRef) { roots[i] = append(roots[i], r) })
			parked.Done()
			<-resume
		})
	}
	parked.Wait()
	defer close(resume)

	stats := vm.heap.Collect(func(visit func(types.HeapRef)) {
		for _, rs := range roots {
			for _, r := range rs {
				visit(r)
			}
		}
		vm.mu.Lock()
		defer vm.mu.Unlock()
		for _, v := range vm.statics {
			if r := v.Ref(); !r.IsNull() {
				visit(r)
			}
		}
		for _, r := range vm.strings {
			visit(r)
		}
		for _, r := range vm.classes {
			visit(r)
		}
	})

	vm.monMu.Lock()
	for ref := range vm.monitors {
		if vm.heap.Get(ref) == nil {
			delete(vm.monitors, ref)
		}
	}
	vm.monMu.Unlock()

	log.Infof("gc: %d threads, %d live, %d freed", len(threads), stats.Live, stats.Freed)
	return stats
}

// maybeCollect runs at the start of allocating call-outs, before anything
// new is allocated.
func (vm *VM) maybeCollect(t *interp.Thread) {
	if vm.heap.NeedsCollection() {
		vm.Collect(t)
	}
}
