package framegraph

// merge folds consecutive compatible passes into one multi-subpass
// DevicePass.
//
// NextPassNode walks forward from head to tail; HeadPassNode identifies
// the pass that drives execution for the whole chain, and
// DistanceToHead is a member's position within it. Both are maintained
// on every member as the chain grows. See DESIGN.md.
func (g *FrameGraph) merge() {
	var last *PassNode

	for _, current := range g.order {
		if current.IsCulled() {
			continue
		}
		if last == nil {
			last = current
			continue
		}

		if g.canMerge(last, current) {
			Logger().Debug("merge taken", "into", last.Name, "pass", current.Name)
			g.linkMerge(last, current)
		} else {
			Logger().Debug("merge declined", "after", last.Name, "pass", current.Name)
		}
		last = current
	}
}

// canMerge reports whether current may be folded into last's DevicePass
// as an additional subpass. A pass that clears
// one of its attachments can never continue a prior subpass chain — the
// clear has to be the first thing that touches the attachment within a
// device pass — but it can perfectly well start one, so it is current's
// HasClearedAttachment that gates merging, not last's.
func (g *FrameGraph) canMerge(last, current *PassNode) bool {
	if current.HasClearedAttachment {
		return false
	}
	if len(last.Attachments) != len(current.Attachments) {
		return false
	}
	for i := range last.Attachments {
		a, b := last.Attachments[i], current.Attachments[i]
		if a.Usage != b.Usage || a.Slot != b.Slot || a.WriteMask != b.WriteMask ||
			a.Level != b.Level || a.Layer != b.Layer || a.Index != b.Index {
			return false
		}
		an, aok := g.nodeFor(a.Texture)
		bn, bok := g.nodeFor(b.Texture)
		if !aok || !bok || an.Resource != bn.Resource {
			return false
		}
	}
	return true
}

// linkMerge folds current into the chain last belongs to.
func (g *FrameGraph) linkMerge(last, current *PassNode) {
	head := g.passFor(last.HeadPassNode)

	tail := head
	for tail.NextPassNode.IsValid() {
		tail = g.passFor(tail.NextPassNode)
	}

	tail.NextPassNode = current.Handle
	tail.SubpassEnd = false
	// The head itself now participates in a multi-subpass run too, even
	// on the first merge of its chain — assignDevicePasses groups passes
	// by comparing consecutive Subpass flags, so the head must carry the
	// same flag as the members merged into it.
	head.Subpass = true

	current.HeadPassNode = head.Handle
	current.DistanceToHead = tail.DistanceToHead + 1
	current.RefCount = 0
	current.Subpass = true
	current.SubpassEnd = true

	for i := range current.Attachments {
		curNode, _ := g.nodeFor(current.Attachments[i].Texture)
		lastNode, _ := g.nodeFor(last.Attachments[i].Texture)
		if curNode == lastNode {
			// current only read the same version last produced (no new
			// write), so there is nothing to fold: curNode and lastNode
			// are literally the same ResourceNode.
			continue
		}
		lastNode.ReaderCount += curNode.ReaderCount

		vr := g.resourceFor(curNode.Resource)
		vr.WriterCount--
	}
}
