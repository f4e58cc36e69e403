package framegraph

import (
	"sync"

	"github.com/gogpu/framegraph/device"
)

// PooledResource bundles a concrete GPU resource with the descriptor
// that produced it.
type PooledResource struct {
	Desc     AnyResourceDescriptor
	Resource device.AnyResource
}

type allocKey struct {
	name string
	desc AnyResourceDescriptor
}

type poolEntry struct {
	resource device.AnyResource
	count    int
}

// ResourceAllocator is a pool of concrete GPU resources keyed by
// (name, descriptor), refcounted and lazily created via an injected
// ResourceCreator.
//
// A refcount bookkeeping scheme keyed directly by value rather
// than by a dense index: callers here key by name+descriptor, not by
// handle, so there is no dense index to maintain.
//
// Access is serialized with a single mutex. Single-writer semantics
// suffice since allocation is driven from compile/execute, which runs
// single-threaded per frame graph; an allocator may be shared across
// multiple FrameGraph instances.
type ResourceAllocator struct {
	mu      sync.Mutex
	creator device.ResourceCreator
	pool    map[allocKey]*poolEntry
}

// NewResourceAllocator creates an allocator backed by the given creator.
func NewResourceAllocator(creator device.ResourceCreator) *ResourceAllocator {
	return &ResourceAllocator{
		creator: creator,
		pool:    make(map[allocKey]*poolEntry),
	}
}

// Alloc returns a reference to the pooled resource for (name, desc),
// creating it via the ResourceCreator on first request. Each call that
// finds an existing entry still increments its refcount — callers must
// pair every Alloc with exactly one Free.
func (a *ResourceAllocator) Alloc(name string, desc AnyResourceDescriptor) (PooledResource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := allocKey{name: name, desc: desc}
	if entry, ok := a.pool[key]; ok {
		entry.count++
		return PooledResource{Desc: desc, Resource: entry.resource}, nil
	}

	res, err := a.creator.Create(desc)
	if err != nil {
		Logger().Error("resource creator failed", "name", name, "error", err)
		return PooledResource{}, &CreatorError{Name: name, Desc: desc, Err: err}
	}
	a.pool[key] = &poolEntry{resource: res, count: 1}
	return PooledResource{Desc: desc, Resource: res}, nil
}

// Free releases one reference to (name, pr.Desc), removing the pool
// entry once its count reaches zero.
func (a *ResourceAllocator) Free(name string, pr PooledResource) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := allocKey{name: name, desc: pr.Desc}
	entry, ok := a.pool[key]
	if !ok {
		return
	}
	entry.count--
	if entry.count <= 0 {
		delete(a.pool, key)
	}
}

// Size reports the number of distinct (name, descriptor) keys currently
// pooled.
func (a *ResourceAllocator) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pool)
}
