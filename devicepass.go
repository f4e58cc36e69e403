package framegraph

import "github.com/gogpu/framegraph/device"

// depthStencilSlotStart is the first slot index reserved for depth/
// stencil attachments; color attachments occupy slots below it.
const depthStencilSlotStart = 8

// Viewport and Scissor override a LogicPass's render-area defaults. Left
// nil, the device layer's default (the full attachment extent) applies.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type Scissor struct {
	X, Y          int32
	Width, Height int32
}

// LogicPass is one merged PassNode's execution-time footprint inside a
// DevicePass: its render closure, optional viewport/scissor override,
// and the virtual resources it releases once its render closure
// returns.
type LogicPass struct {
	Pass PassHandle
	Name string

	Viewport *Viewport
	Scissor  *Scissor

	render  func(*RenderContext) error
	Release []ResourceHandle
}

// attachmentSlot remembers which ResourceNode a DevicePass's Nth
// attachment currently tracks, so a later pass in the same merge chain
// can overlay onto it instead of allocating a fresh slot.
type attachmentSlot struct {
	usage    AttachmentUsage
	slot     int
	resource ResourceHandle
	index    int // index into DevicePass.Attachments/AttachmentNodes
}

// DevicePass is one physical render pass: a sequence of merged
// LogicPasses sharing a single begin/end render-pass bracket, an
// attachment list, and per-LogicPass subpass descriptions.
type DevicePass struct {
	Handle DevicePassHandle
	Label  string

	LogicPasses []LogicPass

	Attachments     []device.Attachment
	AttachmentNodes []NodeHandle
	Subpasses       []device.Subpass

	// usedSlots is a bitmask of occupied color attachment slots, used
	// by bindAttachment to find the next free slot when a pass
	// contributes a color target not already present in the DevicePass.
	usedSlots uint64
	bound     []attachmentSlot

	requestArray []ResourceHandle
	releaseArray []ResourceHandle

	Table *ResourceTable

	clearValues []ClearValue
	renderPass  device.RenderPass
}

func newDevicePass(h DevicePassHandle) *DevicePass {
	return &DevicePass{Handle: h}
}

// info assembles the RenderPassInfo the device layer needs to create
// the underlying render-pass object.
func (d *DevicePass) info() device.RenderPassInfo {
	return device.RenderPassInfo{
		Label:       d.Label,
		Attachments: d.Attachments,
		Subpasses:   d.Subpasses,
	}
}

// allocColorSlot returns the lowest unused slot below
// depthStencilSlotStart and marks it used.
//
// TODO(slot-reuse): only the color range is tracked by usedSlots;
// depth/stencil attachments never occupy a bit in it, and no bit is
// cleared once set, so no slot is reclaimed within a DevicePass.
func (d *DevicePass) allocColorSlot() int {
	for slot := 0; slot < depthStencilSlotStart; slot++ {
		if d.usedSlots&(1<<uint(slot)) == 0 {
			d.usedSlots |= 1 << uint(slot)
			return slot
		}
	}
	// Exhausted the color slot budget; callers are expected to respect
	// depthStencilSlotStart when declaring attachments.
	return depthStencilSlotStart - 1
}

// findBound returns the existing attachmentSlot bound to (resource,
// usage), if a prior pass in this DevicePass's merge chain already
// occupies one.
func (d *DevicePass) findBound(resource ResourceHandle, usage AttachmentUsage) (attachmentSlot, bool) {
	for _, b := range d.bound {
		if b.resource == resource && b.usage == usage {
			return b, true
		}
	}
	return attachmentSlot{}, false
}
