package framegraph

import "sort"

// AttachmentUsage classifies how a pass uses a render target slot. The
// enum order matters: attachments are sorted by (usage, slot) when a pass
// is built and again during lifetime analysis, and color must precede
// depth-stencil for the
// attachment arrays the device layer expects.
type AttachmentUsage uint8

const (
	AttachmentUsageColor AttachmentUsage = iota
	AttachmentUsageResolve
	AttachmentUsageInput
	AttachmentUsageDepthStencil
)

// RenderTargetAttachment binds one TypedHandle to a slot in a pass's
// render target set, plus the load/store bookkeeping store-policy fills
// in later.
type RenderTargetAttachment struct {
	Texture NodeHandle
	Usage   AttachmentUsage
	Slot    int

	WriteMask bool
	Level     uint32
	Layer     uint32

	// Index distinguishes multiple attachments sharing (Usage, Slot)
	// before sorting, e.g. MRT color targets — stable-sorted alongside
	// Usage/Slot so declaration order survives ties.
	Index int

	LoadOp  LoadOp
	StoreOp StoreOp
	Clear   ClearValue

	// EndAccesses marks the final read/write of this attachment inside
	// the owning pass. Neither PassNodeBuilder nor the store-policy step
	// sets or reads it.
	EndAccesses bool
}

// PassNode is one render pass's graph record: its name, declared
// resource references, render target attachments, and the bookkeeping
// fields compile fills in. Built once, via PassNodeBuilder, and
// thereafter only read by the compile pipeline.
type PassNode struct {
	Handle PassHandle
	Name   string

	// Reads and Writes hold ResourceNode handles (specific versions),
	// not VirtualResource handles — cull and lifetime analysis need to
	// know exactly which version a pass touched.
	Reads  []NodeHandle
	Writes []NodeHandle

	Attachments []RenderTargetAttachment

	// ResourceRequestArray and ResourceReleaseArray hold the virtual
	// resources this pass must acquire/release, filled in by lifetime
	// analysis.
	ResourceRequestArray []ResourceHandle
	ResourceReleaseArray []ResourceHandle

	// SideEffect marks a pass as never cullable regardless of reader
	// count.
	SideEffect bool

	// RefCount drives cull: a pass with RefCount == 0 and no side effect
	// is dead. merge also zeroes RefCount on a pass it folds into a
	// chain, so RefCount alone can no longer answer "is this pass
	// gone" once merge has run — Culled is the frozen answer from cull.
	RefCount int

	// Culled is stamped once, by cull, and never touched again. Merge
	// zeroes RefCount on every non-head pass it absorbs into a chain
	// (so a live interior pass and a dead one are indistinguishable by
	// RefCount alone); IsCulled reports this field instead.
	Culled bool

	// InsertPoint is the caller-supplied ordering key, used as the
	// stable sort key before cull.
	InsertPoint int

	// Merge chain fields. NextPassNode links toward the tail of the
	// chain; HeadPassNode points back to the pass that drives execution
	// for the whole chain (itself, if unmerged). DistanceToHead is this
	// pass's position within the chain, 0 at the head.
	NextPassNode   PassHandle
	HeadPassNode   PassHandle
	DistanceToHead int

	// DevicePass is the handle of the DevicePass this pass was merged
	// into, assigned during store-policy.
	DevicePass DevicePassHandle

	// Subpass/SubpassEnd mark whether this pass continues or closes a
	// run of subpasses sharing one DevicePass.
	Subpass    bool
	SubpassEnd bool

	// HasClearedAttachment and ClearActionIgnorable gate whether
	// store-policy is allowed to fuse this pass's device-pass boundary
	// with its predecessor.
	HasClearedAttachment  bool
	ClearActionIgnorable  bool

	// SubpassIndex is a slot for this pass's position within its
	// DevicePass's subpass list. No compile step sets it, so it stays 0;
	// the subpass order is the order of DevicePass.Subpasses.
	SubpassIndex int

	Viewport *Viewport
	Scissor  *Scissor

	render func(*RenderContext) error
}

func newPassNode(h PassHandle, name string, insertPoint int) *PassNode {
	return &PassNode{Handle: h, Name: name, InsertPoint: insertPoint, HeadPassNode: h}
}

// IsCulled reports whether this pass was removed by the cull step: no
// side effect and nothing depended on it at the time cull ran.
func (p *PassNode) IsCulled() bool {
	return p.Culled
}

// sortAttachments stable-sorts attachments by (Usage, Slot, Index),
// matching the device-facing order the merge and execute steps expect.
func (p *PassNode) sortAttachments() {
	sort.SliceStable(p.Attachments, func(i, j int) bool {
		a, b := p.Attachments[i], p.Attachments[j]
		if a.Usage != b.Usage {
			return a.Usage < b.Usage
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Index < b.Index
	})
}
