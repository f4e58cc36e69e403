package framegraph

import (
	"fmt"
	"sync/atomic"
)

// index is the slot component of a handle; it identifies a position in one
// of the FrameGraph's owned slices (passes, virtual resources, resource
// nodes, device passes).
type index = uint32

// generation guards against a handle captured from one FrameGraph instance
// (or a prior frame, before Reset) being used against another. It is
// stamped per pool from a process-wide counter, not recycled per-slot —
// this graph's pools are cleared wholesale on Reset rather than having
// individual slots freed and reused mid-frame.
type generation = uint32

// marker is a compile-time tag distinguishing handle pools (pass nodes,
// virtual resources, resource nodes, device passes) from one another so
// that, for instance, a VirtualResource handle cannot be passed where a
// PassNode handle is expected.
type marker interface {
	marker()
}

type passMarker struct{}

func (passMarker) marker() {}

type resourceMarker struct{}

func (resourceMarker) marker() {}

type nodeMarker struct{}

func (nodeMarker) marker() {}

type devicePassMarker struct{}

func (devicePassMarker) marker() {}

// Handle is an opaque, type-tagged identifier for a graph entity (a pass
// node, a virtual resource, or a resource node). The zero Handle is never
// valid; see IsValid.
type Handle[T marker] struct {
	idx index
	gen generation
}

// InvalidHandle is the sentinel returned where no entity exists.
func InvalidHandle[T marker]() Handle[T] {
	return Handle[T]{}
}

func newHandle[T marker](idx index, gen generation) Handle[T] {
	// gen 0 is reserved so the zero value of Handle[T] is always invalid.
	if gen == 0 {
		gen = 1
	}
	return Handle[T]{idx: idx, gen: gen}
}

// IsValid reports whether h is not the zero value. It does not detect a
// handle stamped with a stale or foreign generation; pool.owns does that.
func (h Handle[T]) IsValid() bool {
	return h.gen != 0
}

// Index returns the slot index, for use by callers that index into a
// parallel slice (e.g. a ResourceTable).
func (h Handle[T]) Index() int {
	return int(h.idx)
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle(%d,%d)", h.idx, h.gen)
}

// PassHandle identifies a PassNode.
type PassHandle = Handle[passMarker]

// ResourceHandle identifies a VirtualResource.
type ResourceHandle = Handle[resourceMarker]

// NodeHandle identifies a ResourceNode (a specific version of a
// VirtualResource referenced by the graph).
type NodeHandle = Handle[nodeMarker]

// DevicePassHandle identifies a DevicePass produced by compile.
type DevicePassHandle = Handle[devicePassMarker]

// TypedHandle is a phantom-tagged NodeHandle: two TypedHandles with
// different resource-kind type parameters but the same underlying
// NodeHandle are not interchangeable at the PassNodeBuilder API boundary,
// even though both ultimately address the same resource-node pool.
//
// T is the GPU resource kind the pass author is working with (Texture,
// Buffer, or a caller-defined kind) — it exists purely for compile-time
// safety and carries no runtime state.
type TypedHandle[T any] struct {
	Node NodeHandle
}

// Untyped discards the phantom type tag, returning the underlying
// resource-node handle.
func (h TypedHandle[T]) Untyped() NodeHandle {
	return h.Node
}

// IsValid reports whether the underlying node handle is valid.
func (h TypedHandle[T]) IsValid() bool {
	return h.Node.IsValid()
}

// pool allocates dense (index, generation) handles for one marker type.
// Generation is bumped per-pool on reset rather than per freed slot: the
// FrameGraph throws the whole pool away each frame, it never frees one
// pass or resource while keeping its neighbors live.
type pool[T marker] struct {
	next index
	gen  generation
}

// generations hands out pool generations. It is shared by every pool in
// the process, so pools of different FrameGraphs never stamp the same
// generation and a handle from one graph is never owned by another.
var generations atomic.Uint32

func newPool[T marker]() *pool[T] {
	return &pool[T]{gen: generations.Add(1)}
}

// alloc returns a fresh handle in this pool's current generation.
func (p *pool[T]) alloc() Handle[T] {
	h := newHandle[T](p.next, p.gen)
	p.next++
	return h
}

// len reports how many handles have been allocated in the current
// generation.
func (p *pool[T]) len() int {
	return int(p.next)
}

// reset invalidates every handle previously allocated from this pool and
// starts a fresh generation, without needing to touch individual slots.
func (p *pool[T]) reset() {
	p.next = 0
	p.gen = generations.Add(1)
}

// owns reports whether h was allocated from this pool's current
// generation, i.e. whether it is safe to index with.
func (p *pool[T]) owns(h Handle[T]) bool {
	return h.gen == p.gen && int(h.idx) < int(p.next)
}
