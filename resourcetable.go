package framegraph

import "github.com/gogpu/framegraph/device"

// ResourceTable maps a DevicePass's requested VirtualResource handles to
// concrete GPU resources for the duration of that device pass's
// execution.
//
// A dense lookup scoped to one device pass's lifetime, crossed with an
// acquire/release discipline: it sits between a VirtualResource and the
// two places a concrete resource can come from, the transient cache
// (preferred) or the allocator (fallback).
type ResourceTable struct {
	alloc *ResourceAllocator
	cache *TransientResourceCache

	entries map[ResourceHandle]device.AnyResource
}

func newResourceTable(alloc *ResourceAllocator, cache *TransientResourceCache) *ResourceTable {
	return &ResourceTable{
		alloc:   alloc,
		cache:   cache,
		entries: make(map[ResourceHandle]device.AnyResource),
	}
}

// Acquire makes vr's concrete resource available in the table. Imported
// resources are copied in directly. Otherwise, a matching entry in the
// transient cache is reused if present; failing that, the allocator
// creates one.
func (t *ResourceTable) Acquire(vr *VirtualResource) error {
	if vr.Imported {
		res, _ := vr.Resource()
		t.entries[vr.Handle] = res
		return nil
	}

	if res, ok := t.cache.Get(vr.Descriptor()); ok {
		vr.realizeFrom(res)
		t.entries[vr.Handle] = res
		return nil
	}
	Logger().Debug("transient cache miss", "resource", vr.Name)

	if err := vr.Request(t.alloc); err != nil {
		return err
	}
	res, _ := vr.Resource()
	t.entries[vr.Handle] = res
	return nil
}

// Release removes vr's entry from the table. A non-imported resource's
// concrete backing is pushed onto the transient cache for a later
// frame's Acquire to find, and vr.Release clears the allocator's
// bookkeeping for it (a no-op if this resource was served from the
// cache rather than freshly allocated). An imported resource is simply
// dropped from the table — it was never owned by either pool.
func (t *ResourceTable) Release(vr *VirtualResource) {
	res, tracked := t.entries[vr.Handle]
	if !tracked {
		return
	}
	delete(t.entries, vr.Handle)

	if vr.Imported {
		return
	}

	t.cache.Insert(vr.Descriptor(), res)
	vr.Release(t.alloc)
}

// Lookup returns the concrete resource for h, if currently acquired.
// Render closures use this (via RenderContext) to resolve the handles
// a pass declared with Create/Read/Write into the objects the device
// layer understands.
func (t *ResourceTable) Lookup(h ResourceHandle) (device.AnyResource, bool) {
	res, ok := t.entries[h]
	return res, ok
}
