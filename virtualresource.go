package framegraph

import "github.com/gogpu/framegraph/device"

type resourceState uint8

const (
	statePending resourceState = iota
	stateRealized
)

// VirtualResource is a graph-level resource entry: either a pending
// descriptor waiting to be realized, or a realized allocator/transient
// reference, plus the bookkeeping lifetime analysis needs.
//
// Grounded on core/resource.go's placeholder-resource-with-backing-id
// shape and core/snatch.go's guarded Pending/Realized swap idea,
// simplified to a plain state enum since this core has no multi-
// threaded resource guard to defend against — compile and execute run
// single-threaded per frame graph.
type VirtualResource struct {
	Handle ResourceHandle
	Name   string

	// Version increments once per write; ResourceNodes capture a
	// specific version. Invariant: version >= 0.
	Version int

	// Imported is true when a caller supplied a pre-existing GPU
	// object; an imported resource never transitions to Pending.
	Imported bool

	RefCount    int
	WriterCount int

	FirstPass PassHandle
	LastPass  PassHandle

	// NeverLoaded/NeverStored are set during store-policy: metadata for
	// a caller's ResourceCreator to consult (e.g. to pick a memoryless
	// GPU allocation), not acted on by this core itself.
	NeverLoaded bool
	NeverStored bool

	state resourceState
	desc  AnyResourceDescriptor
	res   PooledResource
}

// newPendingResource creates a transient virtual resource awaiting
// realization.
func newPendingResource(h ResourceHandle, name string, desc AnyResourceDescriptor) *VirtualResource {
	return &VirtualResource{Handle: h, Name: name, state: statePending, desc: desc}
}

// newImportedResource creates a virtual resource wrapping a caller-owned
// GPU object. It starts, and stays, Realized.
func newImportedResource(h ResourceHandle, name string, desc AnyResourceDescriptor, res device.AnyResource) *VirtualResource {
	return &VirtualResource{
		Handle:   h,
		Name:     name,
		Imported: true,
		state:    stateRealized,
		desc:     desc,
		res:      PooledResource{Desc: desc, Resource: res},
	}
}

// Descriptor returns the descriptor this resource was (or will be)
// realized from.
func (r *VirtualResource) Descriptor() AnyResourceDescriptor {
	return r.desc
}

// IsRealized reports whether this resource currently holds a concrete
// GPU reference.
func (r *VirtualResource) IsRealized() bool {
	return r.state == stateRealized
}

// Resource returns the concrete resource, if realized.
func (r *VirtualResource) Resource() (device.AnyResource, bool) {
	if r.state != stateRealized {
		return device.AnyResource{}, false
	}
	return r.res.Resource, true
}

// realizeFrom marks a Pending resource Realized using a resource handed
// in directly (from the transient cache), bypassing the allocator
// entirely. This is what lets a second frame reusing an identical
// transient resource skip the allocator call altogether.
func (r *VirtualResource) realizeFrom(res device.AnyResource) {
	r.res = PooledResource{Desc: r.desc, Resource: res}
	r.state = stateRealized
}

// Request realizes a Pending resource via the allocator. Idempotent for
// already-Realized entries (including imported ones).
func (r *VirtualResource) Request(alloc *ResourceAllocator) error {
	if r.state == stateRealized {
		return nil
	}
	pr, err := alloc.Alloc(r.Name, r.desc)
	if err != nil {
		return err
	}
	r.res = pr
	r.state = stateRealized
	return nil
}

// Release returns a Realized, non-imported resource to the allocator and
// transitions back to Pending, preserving the descriptor. No-op for
// imported resources or resources already Pending.
func (r *VirtualResource) Release(alloc *ResourceAllocator) {
	if r.Imported || r.state != stateRealized {
		return
	}
	alloc.Free(r.Name, r.res)
	r.res = PooledResource{}
	r.state = statePending
}

// UpdateLifetime widens [FirstPass, LastPass] to include pass. Called
// once per read/write reference during lifetime analysis.
func (r *VirtualResource) UpdateLifetime(pass PassHandle) {
	if !r.FirstPass.IsValid() {
		r.FirstPass = pass
	}
	r.LastPass = pass
}

// NewVersion increments and returns the resource's version, called once
// per write.
func (r *VirtualResource) NewVersion() int {
	r.Version++
	return r.Version
}
