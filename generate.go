package framegraph

import "github.com/gogpu/framegraph/device"

// generateDevicePasses walks surviving passes in order, grouping
// consecutive passes sharing a DevicePass handle, folding each one's
// attachments into the device pass's attachment list and subpass
// descriptions.
func (g *FrameGraph) generateDevicePasses() error {
	var dp *DevicePass
	started := false
	var currentHandle DevicePassHandle

	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}

		if !started || p.DevicePass != currentHandle {
			dp = newDevicePass(p.DevicePass)
			dp.Label = p.Name
			dp.Table = newResourceTable(g.alloc, g.cache)
			g.devicePasses = append(g.devicePasses, dp)
			currentHandle = p.DevicePass
			started = true
			Logger().Debug("device pass boundary", "label", dp.Label, "handle", dp.Handle)
		}

		subpass, err := g.foldAttachments(dp, p)
		if err != nil {
			return err
		}
		dp.Subpasses = append(dp.Subpasses, subpass)

		dp.LogicPasses = append(dp.LogicPasses, LogicPass{
			Pass:     p.Handle,
			Name:     p.Name,
			Viewport: p.Viewport,
			Scissor:  p.Scissor,
			render:   p.render,
			Release:  p.ResourceReleaseArray,
		})
		dp.requestArray = append(dp.requestArray, p.ResourceRequestArray...)
	}

	return nil
}

// foldAttachments appends p's attachments to dp (reusing an existing
// bound slot when a prior pass in this same device pass already
// occupies one) and returns the Subpass index set for p.
func (g *FrameGraph) foldAttachments(dp *DevicePass, p *PassNode) (device.Subpass, error) {
	subpass := device.Subpass{DS: -1}

	for _, a := range p.Attachments {
		node, ok := g.nodeFor(a.Texture)
		if !ok {
			return subpass, ErrForeignHandle
		}
		resource := node.Resource

		var slotIndex int
		if bound, ok := dp.findBound(resource, a.Usage); ok {
			slotIndex = bound.index
			g.overlayAttachment(dp, slotIndex, a)
		} else {
			slotIndex = g.bindAttachment(dp, resource, a)
		}

		switch a.Usage {
		case AttachmentUsageColor:
			subpass.Color = append(subpass.Color, slotIndex)
		case AttachmentUsageResolve:
			subpass.Resolve = append(subpass.Resolve, slotIndex)
		case AttachmentUsageInput:
			subpass.Inputs = append(subpass.Inputs, slotIndex)
		case AttachmentUsageDepthStencil:
			subpass.DS = slotIndex
		}
	}

	return subpass, nil
}

// bindAttachment allocates a new DevicePass attachment slot for a color
// target or the single depth/stencil slot, and records it bound.
func (g *FrameGraph) bindAttachment(dp *DevicePass, resource ResourceHandle, a RenderTargetAttachment) int {
	vr := g.resourceFor(resource)
	desc := vr.Descriptor().Texture

	devAttach := device.Attachment{
		Format:  desc.Format,
		Samples: desc.SampleCount,
		Load:    [2]LoadOp{a.LoadOp, a.LoadOp},
		Store:   [2]StoreOp{a.StoreOp, a.StoreOp},
	}

	dp.Attachments = append(dp.Attachments, devAttach)
	dp.AttachmentNodes = append(dp.AttachmentNodes, a.Texture)
	dp.clearValues = append(dp.clearValues, a.Clear)
	index := len(dp.Attachments) - 1

	if a.Usage != AttachmentUsageDepthStencil {
		dp.allocColorSlot()
	}
	dp.bound = append(dp.bound, attachmentSlot{usage: a.Usage, slot: a.Slot, resource: resource, index: index})
	return index
}

// overlayAttachment updates an existing DevicePass attachment slot with
// a later subpass's load/store ops, e.g. a discard computed by
// resolveStoreOps for an earlier writer in the same chain.
func (g *FrameGraph) overlayAttachment(dp *DevicePass, index int, a RenderTargetAttachment) {
	dp.Attachments[index].Load[0] = a.LoadOp
	dp.Attachments[index].Store[0] = a.StoreOp
	if a.Usage == AttachmentUsageDepthStencil {
		dp.Attachments[index].Load[1] = a.LoadOp
		dp.Attachments[index].Store[1] = a.StoreOp
	}
}
