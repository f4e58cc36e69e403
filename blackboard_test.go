package framegraph

import "testing"

func TestBlackBoardPutGet(t *testing.T) {
	rig := newTestRig()
	g := rig.graph
	bb := NewBlackBoard()

	var h TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		created, err := b.Create("GBuffer", colorDesc())
		if err != nil {
			return err
		}
		h = created
		bb.Put("gbuffer", created)
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass: %v", err)
	}

	got, ok := bb.Get("gbuffer")
	if !ok {
		t.Fatalf("Get(%q) = not found, want found", "gbuffer")
	}
	if got.Node != h.Node {
		t.Fatalf("Get(%q) = %v, want %v", "gbuffer", got.Node, h.Node)
	}
}

func TestBlackBoardMissingKey(t *testing.T) {
	bb := NewBlackBoard()
	if _, ok := bb.Get("nope"); ok {
		t.Fatalf("Get on empty board reported found")
	}
}

func TestBlackBoardOverwrite(t *testing.T) {
	rig := newTestRig()
	g := rig.graph
	bb := NewBlackBoard()

	var first, second TypedHandle[AnyResourceDescriptor]
	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		first = h
		bb.Put("tex", h)
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
		second = h
		bb.Put("tex", h)
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass B: %v", err)
	}

	got, ok := bb.Get("tex")
	if !ok {
		t.Fatalf("Get(%q) = not found, want found", "tex")
	}
	if got.Node == first.Node {
		t.Fatalf("Get(%q) returned the overwritten first handle", "tex")
	}
	if got.Node != second.Node {
		t.Fatalf("Get(%q) = %v, want %v", "tex", got.Node, second.Node)
	}
}

func TestBlackBoardClear(t *testing.T) {
	rig := newTestRig()
	g := rig.graph
	bb := NewBlackBoard()

	_, err := g.AddPass(0, "A", func(b *PassNodeBuilder) error {
		h, err := b.Create("T0", colorDesc())
		if err != nil {
			return err
		}
		bb.Put("tex", h)
		return nil
	})
	if err != nil {
		t.Fatalf("AddPass: %v", err)
	}

	bb.Clear()
	if _, ok := bb.Get("tex"); ok {
		t.Fatalf("Get after Clear reported found")
	}
}
