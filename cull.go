package framegraph

// cull performs dead-code elimination over g.order. A pass survives if
// it has a side effect or if, transitively, something with a side
// effect depends on a resource it writes.
//
// A refcount-driven reclaim, adapted from "free when count hits zero"
// to "keep walking backward through writers while their ref_count hits
// zero" — run over the pass/resource-node bipartite graph instead of a
// single resource's reference count.
func (g *FrameGraph) cull() {
	for _, p := range g.order {
		p.RefCount = len(p.Writes)
		if p.SideEffect {
			p.RefCount++
		}
	}

	var stack []*ResourceNode
	for _, n := range g.nodes {
		if n.ReaderCount == 0 && n.HasWriter() {
			stack = append(stack, n)
		}
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		writer := g.passFor(n.Writer)
		writer.RefCount--
		if writer.RefCount != 0 {
			continue
		}

		for _, readHandle := range writer.Reads {
			readNode, _ := g.nodeFor(readHandle)
			readNode.ReaderCount--
			if readNode.ReaderCount == 0 && readNode.HasWriter() {
				stack = append(stack, readNode)
			}
		}
	}

	for _, p := range g.order {
		p.Culled = !p.SideEffect && p.RefCount == 0
		if p.Culled {
			Logger().Debug("pass culled", "pass", p.Name)
		}
	}

	for _, n := range g.nodes {
		if !g.isCulledNode(n) {
			g.resourceFor(n.Resource).RefCount++
		}
	}
}

// isCulledNode reports whether n belongs to a pass that did not survive
// cull (a write produced by a dead pass is itself dead, per the "every
// culled pass writes only to ResourceNodes whose reader_count is 0"
// soundness property: a culled pass never leaves behind a resource
// version something still reads).
func (g *FrameGraph) isCulledNode(n *ResourceNode) bool {
	if !n.HasWriter() {
		// The version-0 node created by Create has no writer; it
		// survives if anything still reads it.
		return n.ReaderCount == 0
	}
	return g.passFor(n.Writer).IsCulled()
}
