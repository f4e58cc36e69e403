package framegraph

import "github.com/gogpu/framegraph/device"

// RenderContext is the execution-time state handed to every LogicPass's
// render closure: the device, the command buffer currently recording,
// and the resource table of the enclosing DevicePass.
type RenderContext struct {
	g      *FrameGraph
	device device.Device
	cmd    device.CommandBuffer
	table  *ResourceTable

	viewport *Viewport
	scissor  *Scissor
}

// Device returns the host device, for render closures that need to
// issue work the frame graph itself has no contract for (e.g. binding a
// pipeline).
func (ctx *RenderContext) Device() device.Device {
	return ctx.device
}

// CommandBuffer returns the command buffer currently recording, already
// positioned inside the enclosing DevicePass's render-pass bracket.
func (ctx *RenderContext) CommandBuffer() device.CommandBuffer {
	return ctx.cmd
}

// Viewport returns the custom viewport set for this LogicPass, or nil
// if the pass uses the render pass's default.
func (ctx *RenderContext) Viewport() *Viewport {
	return ctx.viewport
}

// Scissor returns the custom scissor set for this LogicPass, or nil if
// the pass uses the render pass's default.
func (ctx *RenderContext) Scissor() *Scissor {
	return ctx.scissor
}

// Resource resolves a node handle to its concrete, type-erased backing
// resource. Returns false if h is not acquired in the enclosing device
// pass's resource table (e.g. it belongs to an unrelated graph, or this
// pass never declared a read/write of it).
func (ctx *RenderContext) Resource(h TypedHandle[AnyResourceDescriptor]) (device.AnyResource, bool) {
	node, ok := ctx.g.nodeFor(h.Node)
	if !ok {
		return device.AnyResource{}, false
	}
	return ctx.table.Lookup(node.Resource)
}

// GetResource resolves h and asserts its backing resource to T, for
// render closures that know the concrete resource type they bound.
func GetResource[T any](ctx *RenderContext, h TypedHandle[AnyResourceDescriptor]) (T, bool) {
	res, ok := ctx.Resource(h)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := res.Resource.(T)
	return v, ok
}
