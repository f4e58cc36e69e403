package framegraph

import (
	"sync"

	"github.com/gogpu/framegraph/device"
)

// TransientResourceCache is a frame-to-frame cache of released transient
// resources, keyed by descriptor. It persists across frames — only an
// explicit Clear tears it down — and is exclusively owned by the
// FrameGraph that uses it.
//
// Unlike ResourceAllocator, the cache key omits the resource's debug
// name: two differently-named transient textures with the same
// descriptor are interchangeable from the cache's point of view, which
// is what lets consecutive frames reuse a pool entry even when a pass
// author renames a resource between frames.
type TransientResourceCache struct {
	mu    sync.Mutex
	stack map[AnyResourceDescriptor][]device.AnyResource

	hits   int
	misses int
}

// NewTransientResourceCache creates an empty cache.
func NewTransientResourceCache() *TransientResourceCache {
	return &TransientResourceCache{stack: make(map[AnyResourceDescriptor][]device.AnyResource)}
}

// Get pops the most recently released resource matching desc, if any.
// Each call tallies toward HitCount or MissCount.
func (c *TransientResourceCache) Get(desc AnyResourceDescriptor) (device.AnyResource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.stack[desc]
	if len(entries) == 0 {
		c.misses++
		return device.AnyResource{}, false
	}
	last := entries[len(entries)-1]
	c.stack[desc] = entries[:len(entries)-1]
	c.hits++
	return last, true
}

// HitCount reports how many Get calls found a reusable entry, across the
// cache's entire lifetime (not reset by Reset or a new frame).
func (c *TransientResourceCache) HitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// MissCount reports how many Get calls found nothing to reuse.
func (c *TransientResourceCache) MissCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

// Insert pushes a released resource onto desc's stack for later reuse.
func (c *TransientResourceCache) Insert(desc AnyResourceDescriptor, res device.AnyResource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack[desc] = append(c.stack[desc], res)
}

// Len reports the total number of resources currently held across all
// descriptors.
func (c *TransientResourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, entries := range c.stack {
		n += len(entries)
	}
	return n
}

// Clear empties the cache. Not called by the frame graph itself — it is
// an explicit teardown a caller invokes between unrelated frame graphs,
// e.g. on a resolution change.
func (c *TransientResourceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack = make(map[AnyResourceDescriptor][]device.AnyResource)
}
