package heap

import (
	"sync"

	"github.com/tliron/commonlog"

	"mterp/pkg/types"
)

var log = commonlog.GetLogger("mterp.heap")

// Object is one heap cell. Instances keep fields by name, arrays keep raw
// element bits, strings and class objects keep their text.
type Object struct {
	Class string

	Fields map[string]types.JValue

	IsArray  bool
	ElemKind types.PrimitiveKind
	Elems    []uint64

	Text string

	marked bool
}

// NewInstance returns an empty instance of class.
func NewInstance(class string) *Object {
	return &Object{Class: class, Fields: make(map[string]types.JValue)}
}

// NewArray returns a zeroed array of the given descriptor ("[I", "[LFoo;").
func NewArray(descriptor string, kind types.PrimitiveKind, length int) *Object {
	return &Object{Class: descriptor, IsArray: true, ElemKind: kind, Elems: make([]uint64, length)}
}

// Element reads element i as a value of the array's kind.
func (o *Object) Element(i int) types.JValue {
	if o.ElemKind == types.KindObject {
		return types.RefValue(types.HeapRef(o.Elems[i]))
	}
	return types.JValue{Bits: o.Elems[i]}
}

// SetElement stores v narrowed to the array's kind.
func (o *Object) SetElement(i int, v types.JValue) {
	switch o.ElemKind {
	case types.KindWide:
		o.Elems[i] = v.Bits
	case types.KindObject:
		o.Elems[i] = uint64(v.Ref())
	default:
		o.Elems[i] = uint64(o.ElemKind.Narrow(uint32(v.Bits)))
	}
}

// references calls fn for every reference o holds.
func (o *Object) references(fn func(types.HeapRef)) {
	for _, v := range o.Fields {
		if r := v.Ref(); !r.IsNull() {
			fn(r)
		}
	}
	if o.IsArray && o.ElemKind == types.KindObject {
		for _, e := range o.Elems {
			if e != 0 {
				fn(types.HeapRef(e))
			}
		}
	}
}

// Stats summarises one collection.
type Stats struct {
	Live  int
	Freed int
}

// Heap maps references to objects. References are slot numbers plus one,
// so zero stays null; freed slots are reused.
type Heap struct {
	mu        sync.Mutex
	objects   []*Object
	free      []types.HeapRef
	live      int
	allocs    int
	threshold int
}

// New creates a heap that asks for a collection every threshold
// allocations. Zero disables the trigger.
func New(threshold int) *Heap {
	return &Heap{threshold: threshold}
}

// Alloc stores o and returns its reference.
func (h *Heap) Alloc(o *Object) types.HeapRef {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live++
	h.allocs++
	if n := len(h.free); n > 0 {
		ref := h.free[n-1]
		h.free = h.free[:n-1]
		h.objects[ref-1] = o
		return ref
	}
	h.objects = append(h.objects, o)
	return types.HeapRef(len(h.objects))
}

// Get returns the object for ref, or nil for null and dangling references.
func (h *Heap) Get(ref types.HeapRef) *Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.get(ref)
}

func (h *Heap) get(ref types.HeapRef) *Object {
	if ref.IsNull() || int(ref) > len(h.objects) {
		return nil
	}
	return h.objects[ref-1]
}

// Live returns the number of allocated objects.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live
}

// NeedsCollection reports whether enough has been allocated since the last
// collection.
func (h *Heap) NeedsCollection() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.threshold > 0 && h.allocs >= h.threshold
}

// Collect frees every object not reachable from roots. The caller must
// have stopped every mutator: roots is called once and must report every
// reference any of them holds.
func (h *Heap) Collect(roots func(visit func(types.HeapRef))) Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var work []types.HeapRef
	visit := func(ref types.HeapRef) {
		if o := h.get(ref); o != nil && !o.marked {
			o.marked = true
			work = append(work, ref)
		}
	}
	roots(visit)
	for len(work) > 0 {
		ref := work[len(work)-1]
		work = work[:len(work)-1]
		h.objects[ref-1].references(visit)
	}

	var stats Stats
	for i, o := range h.objects {
		switch {
		case o == nil:
		case o.marked:
			o.marked = false
			stats.Live++
		default:
			h.objects[i] = nil
			h.free = append(h.free, types.HeapRef(i+1))
			stats.Freed++
		}
	}
	h.live = stats.Live
	h.allocs = 0
	log.Debugf("collected: %d live, %d freed", stats.Live, stats.Freed)
	return stats
}
