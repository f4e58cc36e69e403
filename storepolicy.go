package framegraph

import "github.com/gogpu/gputypes"

// storePolicy assigns every surviving pass its DevicePass grouping,
// then computes each attachment's final store_op, downgrading to
// Discard wherever the contents are provably dead by the end of the
// device pass.
func (g *FrameGraph) storePolicy() {
	g.assignDevicePasses()
	g.resolveStoreOps()
}

// assignDevicePasses walks surviving passes in order, starting a new
// DevicePass whenever the current pass cannot continue the previous
// one's subpass run.
func (g *FrameGraph) assignDevicePasses() {
	var prev *PassNode
	var current DevicePassHandle

	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}

		advance := prev == nil ||
			!p.Subpass ||
			p.Subpass != prev.Subpass ||
			(p.HasClearedAttachment && !p.ClearActionIgnorable)

		if advance {
			current = g.devicePassPool.alloc()
		}
		p.DevicePass = current
		prev = p
	}
}

// resolveStoreOps fills in StoreOp for every surviving attachment and
// propagates discard opportunities backward across a subpass boundary
// when one pass loads exactly the version its predecessor in the same
// device pass wrote.
func (g *FrameGraph) resolveStoreOps() {
	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}
		for i := range p.Attachments {
			a := &p.Attachments[i]
			node, ok := g.nodeFor(a.Texture)
			if !ok {
				continue
			}
			vr := g.resourceFor(node.Resource)

			if vr.Imported || node.ReaderCount == 0 {
				a.StoreOp = gputypes.StoreOpStore
			} else {
				a.StoreOp = gputypes.StoreOpDiscard
			}

			if a.LoadOp == gputypes.LoadOpLoad && node.Version > 0 {
				g.propagateDiscard(p, a, node)
			}

			if a.StoreOp == gputypes.StoreOpDiscard {
				vr.NeverStored = true
			} else {
				vr.NeverStored = false
			}
			if a.LoadOp != gputypes.LoadOpLoad {
				vr.NeverLoaded = true
			} else {
				vr.NeverLoaded = false
			}
		}
	}
}

// propagateDiscard checks whether the exact version a's attachment
// loads was written by a pass sharing this device pass, and if so
// downgrades that writer's matching attachment to Discard: the writer's
// output never needs to round-trip through memory, since this pass
// reads it within the same physical render pass, and this pass's own
// attachment becomes the one that must Store the final contents.
func (g *FrameGraph) propagateDiscard(p *PassNode, a *RenderTargetAttachment, node *ResourceNode) {
	if !node.HasWriter() {
		return
	}
	writer := g.passFor(node.Writer)
	if writer.DevicePass != p.DevicePass {
		return
	}

	for j := range writer.Attachments {
		wa := &writer.Attachments[j]
		wn, ok := g.nodeFor(wa.Texture)
		if ok && wn.Resource == node.Resource {
			wa.StoreOp = gputypes.StoreOpDiscard
		}
	}
	a.StoreOp = gputypes.StoreOpStore
}
