package framegraph

import (
	"github.com/gogpu/framegraph/device/memdevice"
	"github.com/gogpu/gputypes"
)

func colorDesc() AnyResourceDescriptor {
	return TextureResource(TextureDescriptor{
		Width:              1,
		Height:             1,
		DepthOrArrayLayers: 1,
		MipLevelCount:      1,
		SampleCount:        1,
		Dimension:          gputypes.TextureDimension2D,
		Format:             gputypes.TextureFormatRGBA8Unorm,
		Usage:              gputypes.TextureUsageRenderAttachment,
	})
}

type testRig struct {
	graph   *FrameGraph
	device  *memdevice.Device
	creator *memdevice.Creator
	alloc   *ResourceAllocator
	cache   *TransientResourceCache
}

func newTestRig() *testRig {
	dev := memdevice.New()
	creator := memdevice.NewCreator()
	alloc := NewResourceAllocator(creator)
	cache := NewTransientResourceCache()
	return &testRig{
		graph:   New(dev, alloc, cache, nil),
		device:  dev,
		creator: creator,
		alloc:   alloc,
		cache:   cache,
	}
}

// reuse rebuilds a FrameGraph sharing this rig's allocator/cache/device,
// simulating the next frame (the allocator and transient cache persist
// across New() calls the way they persist across Reset()).
func (r *testRig) reuse() {
	r.graph = New(r.device, r.alloc, r.cache, nil)
}
