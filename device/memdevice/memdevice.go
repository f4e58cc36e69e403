// Package memdevice is a reference implementation of the device
// contracts (device.Device, device.ResourceCreator, device.CommandBuffer)
// that fabricates placeholder resources without touching any real GPU
// API. It exists for tests.
package memdevice

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/framegraph/device"
)

// Texture is the placeholder backing a device.AnyResource of kind
// device.ResourceKindTexture.
type Texture struct {
	ID   uint64
	Desc device.TextureDescriptor
}

// Buffer is the placeholder backing a device.AnyResource of kind
// device.ResourceKindBuffer.
type Buffer struct {
	ID   uint64
	Desc device.BufferDescriptor
}

// Creator implements device.ResourceCreator by handing out Texture/Buffer
// values stamped with a monotonically increasing ID, never touching real
// GPU memory.
type Creator struct {
	next atomic.Uint64
}

// NewCreator returns a Creator with its ID counter at zero.
func NewCreator() *Creator {
	return &Creator{}
}

// Create fabricates a placeholder resource for desc.
func (c *Creator) Create(desc device.AnyResourceDescriptor) (device.AnyResource, error) {
	id := c.next.Add(1)
	switch desc.Kind {
	case device.ResourceKindTexture:
		return device.AnyResource{Kind: uint8(desc.Kind), Resource: Texture{ID: id, Desc: desc.Texture}}, nil
	case device.ResourceKindBuffer:
		return device.AnyResource{Kind: uint8(desc.Kind), Resource: Buffer{ID: id, Desc: desc.Buffer}}, nil
	default:
		return device.AnyResource{}, fmt.Errorf("memdevice: unsupported resource kind %v", desc.Kind)
	}
}

// RenderPass is a placeholder render-pass object; Destroy is a no-op.
type RenderPass struct {
	Info device.RenderPassInfo
}

// Destroy implements device.RenderPass.
func (RenderPass) Destroy() {}

// recordedPass captures one BeginRenderPass/EndRenderPass bracket, kept
// for tests to assert against.
type recordedPass struct {
	pass  device.RenderPass
	clear []device.ClearValue
}

// CommandBuffer records BeginRenderPass/EndRenderPass calls in order,
// without doing anything with them — it exists purely so tests can
// assert on how many render passes a frame graph opened.
type CommandBuffer struct {
	mu      sync.Mutex
	passes  []recordedPass
	current *recordedPass
	open    bool
}

// BeginRenderPass implements device.CommandBuffer.
func (c *CommandBuffer) BeginRenderPass(pass device.RenderPass, clear []device.ClearValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.current = &recordedPass{pass: pass, clear: clear}
}

// EndRenderPass implements device.CommandBuffer.
func (c *CommandBuffer) EndRenderPass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.passes = append(c.passes, *c.current)
		c.current = nil
	}
	c.open = false
}

// Passes returns the number of render passes recorded so far, for test
// assertions.
func (c *CommandBuffer) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.passes)
}

// Device is an in-memory device.Device that creates CommandBuffer
// values and placeholder RenderPass objects, and records every
// submitted command buffer for test inspection.
type Device struct {
	mu        sync.Mutex
	submitted []*CommandBuffer
}

// New creates a Device with no submitted command buffers yet.
func New() *Device {
	return &Device{}
}

// CreateCommandBuffer implements device.Device.
func (d *Device) CreateCommandBuffer() (device.CommandBuffer, error) {
	return &CommandBuffer{}, nil
}

// CreateRenderPass implements device.Device.
func (d *Device) CreateRenderPass(info device.RenderPassInfo) (device.RenderPass, error) {
	return RenderPass{Info: info}, nil
}

// Submit implements device.Device, recording each buffer for later
// inspection via Submitted.
func (d *Device) Submit(buffers []device.CommandBuffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range buffers {
		if cb, ok := b.(*CommandBuffer); ok {
			d.submitted = append(d.submitted, cb)
		}
	}
	return nil
}

// Submitted returns the command buffers submitted so far, for test
// assertions.
func (d *Device) Submitted() []*CommandBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*CommandBuffer, len(d.submitted))
	copy(out, d.submitted)
	return out
}
