package framegraph

import (
	"testing"

	"github.com/gogpu/gputypes"
)

// TestPropertyVersioning checks that a VirtualResource's version equals
// the number of passes that wrote it.
func TestPropertyVersioning(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var h TypedHandle[AnyResourceDescriptor]
	var vrHandle ResourceHandle
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		created, err := b.Create("T", colorDesc())
		if err != nil {
			return err
		}
		node, _ := g.nodeFor(created.Node)
		vrHandle = node.Resource
		w1, err := b.Write(created)
		if err != nil {
			return err
		}
		w2, err := b.Write(w1)
		if err != nil {
			return err
		}
		w3, err := b.Write(w2)
		if err != nil {
			return err
		}
		h = w3
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass: %v", err)
	}
	_ = h

	vr := g.resourceFor(vrHandle)
	if vr.Version != 3 {
		t.Fatalf("Version = %d, want 3 (three Write calls)", vr.Version)
	}
}

// TestPropertyTopologicalConsistency checks that a surviving pass's
// reads only ever reference a ResourceNode whose writer (if any) sorts
// no later than the reading pass.
func TestPropertyTopologicalConsistency(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var t0 TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		t0 = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass A: %v", err)
	}
	_, err = g.AddPass(5, "B", func(b *PassNodeBuilder) error {
		if _, err := b.Read(t0); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}

	if _, err := g.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	indexOf := make(map[PassHandle]int, len(g.order))
	for i, p := range g.order {
		indexOf[p.Handle] = i
	}

	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}
		for _, rh := range p.Reads {
			node, ok := g.nodeFor(rh)
			if !ok || !node.HasWriter() {
				continue
			}
			writerIdx, ok := indexOf[node.Writer]
			if !ok {
				t.Fatalf("reader %q references a writer not present in sorted order", p.Name)
			}
			if writerIdx > indexOf[p.Handle] {
				t.Fatalf("pass %q reads a ResourceNode written later in sorted order (writer idx %d > reader idx %d)",
					p.Name, writerIdx, indexOf[p.Handle])
			}
		}
	}
}

// TestPropertyCullSoundness checks that every surviving pass has a side
// effect or transitively contributes to one, and every culled pass
// writes only to ResourceNodes with a zero reader count.
func TestPropertyCullSoundness(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var t0 TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "Dead", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		t0 = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass Dead: %v", err)
	}
	_, err = g.AddPass(1, "Alive", func(b *PassNodeBuilder) error {
		h, err := b.Create("T1", colorDesc())
		if err != nil {
			return err
		}
		if _, err := b.Write(h); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass Alive: %v", err)
	}
	_ = t0

	if _, err := g.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for _, p := range g.passes {
		if !p.IsCulled() {
			if !p.SideEffect && p.RefCount == 0 {
				t.Fatalf("pass %q survived with no side effect and zero ref_count", p.Name)
			}
			continue
		}
		for _, wh := range p.Writes {
			node, _ := g.nodeFor(wh)
			if node.ReaderCount != 0 {
				t.Fatalf("culled pass %q wrote a ResourceNode with reader_count %d, want 0", p.Name, node.ReaderCount)
			}
		}
	}
}

// TestPropertyLifetimeSandwich checks that a live resource's FirstPass
// is no later, and LastPass no earlier, than any surviving pass that
// touches it.
func TestPropertyLifetimeSandwich(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var t0 TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		t0 = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass A: %v", err)
	}
	_, err = g.AddPass(1, "B", func(b *PassNodeBuilder) error {
		_, err := b.Read(t0)
		return err
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}
	_, err = g.AddPass(2, "C", func(b *PassNodeBuilder) error {
		if _, err := b.Read(t0); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass C: %v", err)
	}

	if _, err := g.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	indexOf := make(map[PassHandle]int, len(g.order))
	for i, p := range g.order {
		indexOf[p.Handle] = i
	}

	node, _ := g.nodeFor(t0.Node)
	vr := g.resourceFor(node.Resource)
	if !vr.FirstPass.IsValid() || !vr.LastPass.IsValid() {
		t.Fatalf("expected T0 to have a resolved lifetime window")
	}

	for _, p := range g.order {
		if p.IsCulled() {
			continue
		}
		touches := false
		for _, rh := range p.Reads {
			if n, ok := g.nodeFor(rh); ok && n.Resource == node.Resource {
				touches = true
			}
		}
		for _, wh := range p.Writes {
			if n, ok := g.nodeFor(wh); ok && n.Resource == node.Resource {
				touches = true
			}
		}
		if !touches {
			continue
		}
		if indexOf[vr.FirstPass] > indexOf[p.Handle] {
			t.Fatalf("first_pass sorts after a pass %q that touches the resource", p.Name)
		}
		if indexOf[vr.LastPass] < indexOf[p.Handle] {
			t.Fatalf("last_pass sorts before a pass %q that touches the resource", p.Name)
		}
	}
}

// TestPropertyRequestReleaseBalance checks that every resource
// requested by some pass is released by exactly one pass, no earlier in
// sorted order than the requesting pass.
func TestPropertyRequestReleaseBalance(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var t0, t1 TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		t0 = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass A: %v", err)
	}
	_, err = g.AddPass(1, "B", func(b *PassNodeBuilder) error {
		if _, err := b.Read(t0); err != nil {
			return err
		}
		h, err := b.Create("T1", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		t1 = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}
	_, err = g.AddPass(2, "C", func(b *PassNodeBuilder) error {
		if _, err := b.Read(t1); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass C: %v", err)
	}

	if _, err := g.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	indexOf := make(map[PassHandle]int, len(g.order))
	for i, p := range g.order {
		indexOf[p.Handle] = i
	}

	requestedAt := make(map[ResourceHandle]PassHandle)
	for _, p := range g.order {
		for _, rh := range p.ResourceRequestArray {
			requestedAt[rh] = p.Handle
		}
	}

	releasedAt := make(map[ResourceHandle][]PassHandle)
	for _, p := range g.order {
		for _, rh := range p.ResourceReleaseArray {
			releasedAt[rh] = append(releasedAt[rh], p.Handle)
		}
	}

	if len(requestedAt) == 0 {
		t.Fatalf("expected at least one resource to be requested")
	}

	for rh, reqPass := range requestedAt {
		releasers := releasedAt[rh]
		if len(releasers) != 1 {
			t.Fatalf("resource requested at %q has %d releasers, want exactly 1", g.passFor(reqPass).Name, len(releasers))
		}
		if indexOf[releasers[0]] < indexOf[reqPass] {
			t.Fatalf("resource released before its own request pass")
		}
	}
}

// TestPropertyMergeInvariants checks that a chain of merged passes
// shares one DevicePass handle, only the head carries a positive
// RefCount, and attachment identity is preserved along the chain — and
// that every chain member, head or not, still participates in device-
// pass generation.
func TestPropertyMergeInvariants(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	var tex TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpLoad, gputypes.StoreOpStore); err != nil {
			return err
		}
		tex = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass A: %v", err)
	}
	_, err = g.AddPass(1, "B", func(b *PassNodeBuilder) error {
		r, err := b.Read(tex)
		if err != nil {
			return err
		}
		w, err := b.Write(r)
		if err != nil {
			return err
		}
		if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpLoad, gputypes.StoreOpStore); err != nil {
			return err
		}
		tex = w
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}
	_, err = g.AddPass(2, "C", func(b *PassNodeBuilder) error {
		r, err := b.Read(tex)
		if err != nil {
			return err
		}
		w, err := b.Write(r)
		if err != nil {
			return err
		}
		if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpLoad, gputypes.StoreOpStore); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass C: %v", err)
	}

	stats, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if stats.DevicePassCount != 1 {
		t.Fatalf("DevicePassCount = %d, want 1 (A, B, C must merge into one chain)", stats.DevicePassCount)
	}

	a := g.passFor(g.order[0].Handle)
	b := g.passFor(g.order[1].Handle)
	c := g.passFor(g.order[2].Handle)

	if a.DevicePass != b.DevicePass || b.DevicePass != c.DevicePass {
		t.Fatalf("chain members do not share one DevicePass handle")
	}
	if b.RefCount != 0 || c.RefCount != 0 {
		t.Fatalf("non-head chain members must carry a zero ref_count, got B=%d C=%d", b.RefCount, c.RefCount)
	}
	if a.Attachments[0].Usage != b.Attachments[0].Usage || b.Attachments[0].Usage != c.Attachments[0].Usage {
		t.Fatalf("attachment usage not preserved along the chain")
	}
}

// TestPropertyAllocatorConservation checks that within a frame, every
// allocator acquisition is matched by exactly one release, so the pool
// returns to its pre-frame size.
func TestPropertyAllocatorConservation(t *testing.T) {
	rig := newTestRig()
	g := rig.graph

	before := rig.alloc.Size()

	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpClear, gputypes.StoreOpStore); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass A: %v", err)
	}
	_, err = g.AddPass(1, "B", func(b *PassNodeBuilder) error {
		h, err := b.Create("T1", colorDesc())
		if err != nil {
			return err
		}
		w, err := b.Write(h)
		if err != nil {
			return err
		}
		if err := b.Attach(w, AttachmentUsageColor, 1, gputypes.LoadOpClear, gputypes.StoreOpStore); err != nil {
			return err
		}
		b.SetSideEffect()
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}

	if _, err := g.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := g.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := rig.alloc.Size(); got != before {
		t.Fatalf("allocator pool size = %d, want unchanged at %d after the frame completes", got, before)
	}
}

// TestPropertyTransientCacheIdempotence checks that repeating an
// identical graph across frames must not grow the allocator pool, since
// the second frame is serviced by the transient cache. See
// TestS6TransientReuseAcrossFrames for the single-resource case; this
// covers a graph touching two distinct descriptors.
func TestPropertyTransientCacheIdempotence(t *testing.T) {
	rig := newTestRig()

	otherDesc := func() AnyResourceDescriptor {
		return TextureResource(TextureDescriptor{
			Width: 2, Height: 2, DepthOrArrayLayers: 1,
			MipLevelCount: 1, SampleCount: 1,
			Dimension: gputypes.TextureDimension2D,
			Format:    gputypes.TextureFormatRGBA8Unorm,
			Usage:     gputypes.TextureUsageRenderAttachment,
		})
	}

	build := func() {
		g := rig.graph
		_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
			h, err := b.Create("T0", colorDesc())
			if err != nil {
				return err
			}
			w, err := b.Write(h)
			if err != nil {
				return err
			}
			if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpClear, gputypes.StoreOpStore); err != nil {
				return err
			}
			b.SetSideEffect()
			return nil
		})
		if err != nil {
			t.Fatalf("AddPass A: %v", err)
		}
		_, err = g.AddPass(1, "B", func(b *PassNodeBuilder) error {
			h, err := b.Create("T1", otherDesc())
			if err != nil {
				return err
			}
			w, err := b.Write(h)
			if err != nil {
				return err
			}
			if err := b.Attach(w, AttachmentUsageColor, 0, gputypes.LoadOpClear, gputypes.StoreOpStore); err != nil {
				return err
			}
			b.SetSideEffect()
			return nil
		})
		if err != nil {
			t.Fatalf("AddPass B: %v", err)
		}
		if _, err := g.Compile(); err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if err := g.Execute(); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	build()
	poolAfterFrame1 := rig.alloc.Size()

	rig.reuse()
	build()
	if got := rig.alloc.Size(); got != poolAfterFrame1 {
		t.Fatalf("allocator pool size after frame 2 = %d, want unchanged at %d", got, poolAfterFrame1)
	}
	if got := rig.cache.Len(); got != 2 {
		t.Fatalf("transient cache size = %d, want 2 (one per distinct descriptor)", got)
	}
}
