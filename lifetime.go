package framegraph

// computeLifetime widens the lifetime window of every VirtualResource
// a surviving pass reads or writes, counts writers, sorts attachments,
// and populates the request/release arrays that drive acquire/release
// during execute.
func (g *FrameGraph) computeLifetime() {
	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}

		for _, rh := range p.Reads {
			node, _ := g.nodeFor(rh)
			g.resourceFor(node.Resource).UpdateLifetime(p.Handle)
		}
		for _, wh := range p.Writes {
			node, _ := g.nodeFor(wh)
			vr := g.resourceFor(node.Resource)
			vr.UpdateLifetime(p.Handle)
			vr.WriterCount++
		}

		p.sortAttachments()
	}

	for _, vr := range g.resources {
		if !vr.FirstPass.IsValid() || !vr.LastPass.IsValid() {
			continue
		}
		if vr.RefCount <= 0 && !g.hasLiveAttachment(vr.Handle) {
			continue
		}

		first := g.passFor(vr.FirstPass)
		last := g.passFor(vr.LastPass)
		first.ResourceRequestArray = append(first.ResourceRequestArray, vr.Handle)
		last.ResourceReleaseArray = append(last.ResourceReleaseArray, vr.Handle)
	}
}

// hasLiveAttachment reports whether any surviving pass binds resource as
// a render target attachment — such a resource must still be requested
// even if nothing ever reads it as a shader input (e.g. a color target
// nothing samples from afterward).
func (g *FrameGraph) hasLiveAttachment(resource ResourceHandle) bool {
	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}
		for _, a := range p.Attachments {
			node, ok := g.nodeFor(a.Texture)
			if ok && node.Resource == resource {
				return true
			}
		}
	}
	return false
}
