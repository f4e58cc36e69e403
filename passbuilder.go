package framegraph

import "github.com/gogpu/gputypes"

// PassNodeBuilder is the only way pass-setup callbacks touch the graph.
// A builder is created by FrameGraph.AddPass, handed to the caller's
// setup closure, and finalized by a single internal call to build once
// the closure returns — a scoped recorder object that becomes invalid
// once its owning call finishes.
type PassNodeBuilder struct {
	graph *FrameGraph
	pass  *PassNode

	// owned tracks which resources this pass has established a
	// relationship to via Create or Read — a prerequisite for Write,
	// which otherwise returns ErrNotOwner.
	owned map[ResourceHandle]struct{}

	built bool
}

func newPassNodeBuilder(graph *FrameGraph, pass *PassNode) *PassNodeBuilder {
	return &PassNodeBuilder{graph: graph, pass: pass, owned: make(map[ResourceHandle]struct{})}
}

// Create declares a brand-new transient resource, owned by the graph
// for the remainder of the frame.
func (b *PassNodeBuilder) Create(name string, desc AnyResourceDescriptor) (TypedHandle[AnyResourceDescriptor], error) {
	if b.built {
		return TypedHandle[AnyResourceDescriptor]{}, ErrAlreadyBuilt
	}
	h := b.graph.createResource(name, desc)
	node, _ := b.graph.nodeFor(h.Node)
	b.owned[node.Resource] = struct{}{}
	return h, nil
}

// Import wraps a caller-owned resource as a graph node, for resources
// that outlive a single frame (e.g. a swap-chain back buffer) — the
// counterpart to Create for resources the pass doesn't own the
// lifetime of.
func (b *PassNodeBuilder) Import(name string, desc AnyResourceDescriptor, res AnyResource) (TypedHandle[AnyResourceDescriptor], error) {
	if b.built {
		return TypedHandle[AnyResourceDescriptor]{}, ErrAlreadyBuilt
	}
	h := b.graph.importResource(name, desc, res)
	node, _ := b.graph.nodeFor(h.Node)
	b.owned[node.Resource] = struct{}{}
	return h, nil
}

// Read declares that this pass consumes the version of a resource
// identified by h. Returns ErrForeignHandle if h was not issued by this
// graph's current frame, and ErrSelfRead if h was written earlier in
// this same pass (the pass must use the handle it held before writing,
// establishing a real dependency edge rather than a self-loop).
func (b *PassNodeBuilder) Read(h TypedHandle[AnyResourceDescriptor]) (TypedHandle[AnyResourceDescriptor], error) {
	if b.built {
		return h, ErrAlreadyBuilt
	}
	node, ok := b.graph.nodeFor(h.Node)
	if !ok {
		return h, ErrForeignHandle
	}
	if node.Writer == b.pass.Handle {
		return h, ErrSelfRead
	}

	node.AddReader(b.pass.Handle)

	for _, existing := range b.pass.Reads {
		if existing == h.Node {
			b.owned[node.Resource] = struct{}{}
			return h, nil
		}
	}
	b.pass.Reads = append(b.pass.Reads, h.Node)
	b.owned[node.Resource] = struct{}{}
	return h, nil
}

// Write declares that this pass produces a new version of a resource
// the pass has already established a relationship to via Create or Read.
// Returns ErrNotOwner otherwise, and the new TypedHandle for the
// resulting version on success.
//
// VirtualResource.RefCount, WriterCount, and the [FirstPass, LastPass]
// lifetime window are deliberately left untouched here — those are
// compile-time derived quantities (cull and computeLifetime), not
// declaration-time ones, since cull can remove a pass this call
// otherwise looked like a legitimate writer of.
func (b *PassNodeBuilder) Write(h TypedHandle[AnyResourceDescriptor]) (TypedHandle[AnyResourceDescriptor], error) {
	if b.built {
		return h, ErrAlreadyBuilt
	}
	node, ok := b.graph.nodeFor(h.Node)
	if !ok {
		return h, ErrForeignHandle
	}
	if _, owned := b.owned[node.Resource]; !owned {
		return h, ErrNotOwner
	}

	vr := b.graph.resourceFor(node.Resource)
	version := vr.NewVersion()

	newNode := b.graph.newNode(node.Resource, version)
	newNode.SetWriter(b.pass.Handle)

	b.pass.Writes = append(b.pass.Writes, newNode.Handle)
	return TypedHandle[AnyResourceDescriptor]{Node: newNode.Handle}, nil
}

// Attach binds a resource handle to a render target slot, recording
// load/store ops that the store-policy step may later tighten. The
// handle must already be owned by this pass via Create, Read, or Write.
func (b *PassNodeBuilder) Attach(h TypedHandle[AnyResourceDescriptor], usage AttachmentUsage, slot int, load LoadOp, store StoreOp) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	node, ok := b.graph.nodeFor(h.Node)
	if !ok {
		return ErrForeignHandle
	}
	if _, owned := b.owned[node.Resource]; !owned {
		return ErrNotOwner
	}

	b.pass.Attachments = append(b.pass.Attachments, RenderTargetAttachment{
		Texture: h.Node,
		Usage:   usage,
		Slot:    slot,
		Index:   len(b.pass.Attachments),
		LoadOp:  load,
		StoreOp: store,
	})
	if load == gputypes.LoadOpClear {
		b.pass.HasClearedAttachment = true
	}
	return nil
}

// SetClearValue sets the clear color/depth/stencil for an attachment
// previously bound via Attach with LoadOp Clear. Returns
// ErrResourceNotFound, changing nothing, if h was not attached by this
// pass.
func (b *PassNodeBuilder) SetClearValue(h TypedHandle[AnyResourceDescriptor], clear ClearValue) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	for i := range b.pass.Attachments {
		if b.pass.Attachments[i].Texture == h.Node {
			b.pass.Attachments[i].Clear = clear
			return nil
		}
	}
	return ErrResourceNotFound
}

// SetViewportScissor overrides the render area for this pass's
// LogicPass. Either argument may be nil to leave that part at the
// device's default.
func (b *PassNodeBuilder) SetViewportScissor(vp *Viewport, sc *Scissor) error {
	if b.built {
		return ErrAlreadyBuilt
	}
	b.pass.Viewport = vp
	b.pass.Scissor = sc
	return nil
}

// SetSideEffect marks this pass as having an effect observable outside
// the graph (e.g. it writes to an imported back buffer), exempting it
// from cull regardless of reader count.
func (b *PassNodeBuilder) SetSideEffect() {
	b.pass.SideEffect = true
}

// setRender attaches the closure Execute invokes for this pass. Called
// by AddCallbackPass, not exposed to setup closures directly.
func (b *PassNodeBuilder) setRender(fn func(*RenderContext) error) {
	b.pass.render = fn
}

// build finalizes the pass node. A second call returns ErrAlreadyBuilt —
// FrameGraph.AddCallbackPass calls this exactly once per builder.
func (b *PassNodeBuilder) build() (*PassNode, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	b.built = true
	b.pass.sortAttachments()
	return b.pass, nil
}
