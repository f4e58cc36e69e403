// Package device declares the contracts the frame graph core requires from
// its host application: a device capable of creating command buffers and
// render-pass objects, a creator that materializes concrete GPU resources
// from descriptors, and the command buffer those resources are recorded
// into.
//
// None of these are implemented here beyond the small in-memory reference
// backend in the memdevice subpackage, used for tests. A real application supplies its own implementations backed by
// Vulkan, DX12, Metal, or similar — wiring those up is out of scope here.
//
// The interface shapes are thin, validation-free contracts: portability
// over safety, delegating validation to the frame graph above it, crossed
// with the attachment/subpass vocabulary of a render-pass-object API
// (explicit attachment list plus per-subpass index sets, rather than a
// one-subpass-per-pass model).
package device

import "github.com/gogpu/gputypes"

// LoadOp specifies what a render pass does with an attachment's existing
// contents when the pass begins.
type LoadOp = gputypes.LoadOp

// StoreOp specifies what a render pass does with an attachment's contents
// when the pass ends.
type StoreOp = gputypes.StoreOp

// Attachment describes one render-target slot of a RenderPassInfo: its
// pixel format, sample count, and the load/store policy the frame graph
// computed for it. For a color attachment index 0 holds its load/store
// op; for a depth/stencil attachment index 0 holds depth's and index 1
// stencil's.
type Attachment struct {
	Format  gputypes.TextureFormat
	Samples uint32
	Load    [2]LoadOp
	Store   [2]StoreOp
}

// Subpass selects, by index into RenderPassInfo.Attachments, which
// attachments a single merged logical pass reads as input, writes as
// color, and uses as depth/stencil. DS is -1 when the subpass has no
// depth/stencil attachment.
type Subpass struct {
	Color   []int
	Inputs  []int
	Resolve []int
	DS      int
}

// RenderPassInfo describes a physical render pass: its full attachment
// list (shared by every subpass) plus one Subpass per merged logical
// pass, in execution order.
type RenderPassInfo struct {
	Label       string
	Attachments []Attachment
	Subpasses   []Subpass
}

// ClearValue carries the clear color/depth/stencil for attachments whose
// LoadOp is Clear.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

// RenderPass is an opaque, backend-owned render-pass object created from
// a RenderPassInfo. The frame graph never inspects it; it only threads it
// back into CommandBuffer.BeginRenderPass.
type RenderPass interface {
	// Destroy releases the render-pass object.
	Destroy()
}

// CommandBuffer records GPU commands. The frame graph brackets each
// DevicePass between BeginRenderPass/EndRenderPass and hands the buffer
// to each merged LogicPass's render closure in between.
type CommandBuffer interface {
	BeginRenderPass(pass RenderPass, clear []ClearValue)
	EndRenderPass()
}

// Device is the host application's GPU entry point.
type Device interface {
	CreateCommandBuffer() (CommandBuffer, error)
	CreateRenderPass(info RenderPassInfo) (RenderPass, error)
	Submit(buffers []CommandBuffer) error
}

// AnyResource is the type-erased handle to a concrete GPU resource
// produced by a ResourceCreator. The frame graph never looks inside it;
// it stores and forwards it to the render closures via a ResourceTable.
type AnyResource struct {
	Kind     uint8
	Resource any
}

// ResourceCreator materializes a concrete GPU resource for a descriptor,
// variant-dispatched over the descriptor's Kind.
type ResourceCreator interface {
	Create(desc AnyResourceDescriptor) (AnyResource, error)
}
