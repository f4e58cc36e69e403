package framegraph

import (
	"fmt"
	"sort"

	"github.com/gogpu/framegraph/device"
)

// FrameGraph owns every PassNode, VirtualResource, and ResourceNode
// declared in one frame, and orchestrates the compile pipeline that
// turns those declarations into DevicePasses, then execute, which
// drives a Device through them.
//
// Plain slices indexed by Handle rather than a dense per-type registry:
// a frame graph has one flat instance per frame rather than a
// long-lived shared registry, so a generation-checked dense map would
// be overkill here — the handle pools (handle.go) already supply the
// generation check.
type FrameGraph struct {
	opts GraphOptions

	device device.Device
	alloc  *ResourceAllocator
	cache  *TransientResourceCache

	passPool       *pool[passMarker]
	resourcePool   *pool[resourceMarker]
	nodePool       *pool[nodeMarker]
	devicePassPool *pool[devicePassMarker]

	passes       []*PassNode
	resources    []*VirtualResource
	nodes        []*ResourceNode
	devicePasses []*DevicePass

	// order is the pass list produced by sortPasses (InsertPoint
	// ascending, declaration order among equal insert points), the
	// working list every later compile stage walks.
	order []*PassNode

	compiled bool
}

// New creates an empty FrameGraph bound to dev, alloc, and cache. alloc
// and cache may be shared across multiple FrameGraph instances reused
// frame to frame; nil opts picks DefaultGraphOptions.
func New(dev device.Device, alloc *ResourceAllocator, cache *TransientResourceCache, opts *GraphOptions) *FrameGraph {
	o := DefaultGraphOptions()
	if opts != nil {
		o = *opts
	}
	return &FrameGraph{
		opts:           o,
		device:         dev,
		alloc:          alloc,
		cache:          cache,
		passPool:       newPool[passMarker](),
		resourcePool:   newPool[resourceMarker](),
		nodePool:       newPool[nodeMarker](),
		devicePassPool: newPool[devicePassMarker](),
		passes:         make([]*PassNode, 0, o.passCapacity()),
		resources:      make([]*VirtualResource, 0, o.resourceCapacity()),
		nodes:          make([]*ResourceNode, 0, o.resourceCapacity()),
	}
}

// AddPass declares a pass with no execute-time render closure — useful
// for passes whose only purpose is resource bookkeeping (barrier-only
// passes), or where the caller wants to defer wiring the closure.
func (g *FrameGraph) AddPass(insertPoint int, name string, setup func(*PassNodeBuilder) error) (PassHandle, error) {
	return g.AddCallbackPass(insertPoint, name, setup, nil)
}

// AddCallbackPass declares a pass, running setup immediately against a
// fresh PassNodeBuilder and recording execute as the closure Execute
// invokes for this pass once compiled.
func (g *FrameGraph) AddCallbackPass(insertPoint int, name string, setup func(*PassNodeBuilder) error, execute func(*RenderContext) error) (PassHandle, error) {
	if g.compiled {
		return PassHandle{}, newValidationError(name, "AddPass", "cannot add a pass after Compile; call Reset first", nil)
	}

	h := g.passPool.alloc()
	pass := newPassNode(h, name, insertPoint)
	g.passes = append(g.passes, pass)

	builder := newPassNodeBuilder(g, pass)
	if setup != nil {
		if err := setup(builder); err != nil {
			return h, newValidationError(name, "AddPass.setup", err.Error(), err)
		}
	}
	builder.setRender(execute)
	if _, err := builder.build(); err != nil {
		return h, newValidationError(name, "AddPass.build", err.Error(), err)
	}
	return h, nil
}

func (g *FrameGraph) createResource(name string, desc AnyResourceDescriptor) TypedHandle[AnyResourceDescriptor] {
	rh := g.resourcePool.alloc()
	vr := newPendingResource(rh, name, desc)
	g.resources = append(g.resources, vr)

	nh := g.nodePool.alloc()
	node := newResourceNode(nh, rh, vr.Version)
	g.nodes = append(g.nodes, node)

	return TypedHandle[AnyResourceDescriptor]{Node: nh}
}

func (g *FrameGraph) importResource(name string, desc AnyResourceDescriptor, res device.AnyResource) TypedHandle[AnyResourceDescriptor] {
	rh := g.resourcePool.alloc()
	vr := newImportedResource(rh, name, desc, res)
	g.resources = append(g.resources, vr)

	nh := g.nodePool.alloc()
	node := newResourceNode(nh, rh, vr.Version)
	g.nodes = append(g.nodes, node)

	return TypedHandle[AnyResourceDescriptor]{Node: nh}
}

func (g *FrameGraph) newNode(resource ResourceHandle, version int) *ResourceNode {
	nh := g.nodePool.alloc()
	node := newResourceNode(nh, resource, version)
	g.nodes = append(g.nodes, node)
	return node
}

func (g *FrameGraph) nodeFor(h NodeHandle) (*ResourceNode, bool) {
	if !g.nodePool.owns(h) {
		return nil, false
	}
	return g.nodes[h.Index()], true
}

func (g *FrameGraph) resourceFor(h ResourceHandle) *VirtualResource {
	return g.resources[h.Index()]
}

func (g *FrameGraph) passFor(h PassHandle) *PassNode {
	if !h.IsValid() {
		return nil
	}
	return g.passes[h.Index()]
}

func (g *FrameGraph) devicePassFor(h DevicePassHandle) *DevicePass {
	return g.devicePasses[h.Index()]
}

// Compile runs sort, cull, lifetime analysis, merge (if enabled),
// store-policy, and device-pass generation, in that strict order.
// Compiling an empty pass list is a silent no-op. Compile may be
// called at most once per frame; call Reset to start the next one.
func (g *FrameGraph) Compile() (Stats, error) {
	if g.compiled {
		return Stats{}, newValidationError("", "Compile", "already compiled this frame; call Reset first", nil)
	}
	g.compiled = true

	if len(g.passes) == 0 {
		return Stats{}, nil
	}

	g.sortPasses()
	g.cull()
	g.computeLifetime()
	if g.opts.MergeEnabled {
		g.merge()
	}
	g.storePolicy()
	if err := g.generateDevicePasses(); err != nil {
		return Stats{}, err
	}
	return g.stats(), nil
}

// Execute walks the compiled DevicePasses in order, acquiring each
// one's requested resources, bracketing a device render pass around its
// merged LogicPasses, and releasing each LogicPass's transient resources
// once its render closure returns. Execute with no DevicePasses is a
// no-op.
func (g *FrameGraph) Execute() error {
	if !g.compiled {
		return newValidationError("", "Execute", "Compile must run before Execute", nil)
	}
	if len(g.devicePasses) == 0 {
		return nil
	}

	ctx := &RenderContext{g: g, device: g.device}
	var buffers []device.CommandBuffer

	for _, dp := range g.devicePasses {
		for _, rh := range dp.requestArray {
			if err := dp.Table.Acquire(g.resourceFor(rh)); err != nil {
				return err
			}
		}

		cmd, err := g.device.CreateCommandBuffer()
		if err != nil {
			return fmt.Errorf("framegraph: create command buffer for device pass %q: %w", dp.Label, err)
		}
		rp, err := g.device.CreateRenderPass(dp.info())
		if err != nil {
			return fmt.Errorf("framegraph: create render pass %q: %w", dp.Label, err)
		}

		ctx.table = dp.Table
		cmd.BeginRenderPass(rp, dp.clearValues)
		for _, lp := range dp.LogicPasses {
			ctx.viewport = lp.Viewport
			ctx.scissor = lp.Scissor
			ctx.cmd = cmd
			if lp.render != nil {
				if err := lp.render(ctx); err != nil {
					cmd.EndRenderPass()
					rp.Destroy()
					return fmt.Errorf("framegraph: pass %q: %w", lp.Name, err)
				}
			}
			for _, rh := range lp.Release {
				dp.Table.Release(g.resourceFor(rh))
			}
		}
		cmd.EndRenderPass()
		rp.Destroy()

		buffers = append(buffers, cmd)
	}

	return g.device.Submit(buffers)
}

// Reset clears the graph for the next frame: every PassNode,
// VirtualResource, ResourceNode, and DevicePass handle issued this
// frame becomes invalid. The allocator and transient cache are
// untouched — they are the caller's collaborators, shared across
// frames.
func (g *FrameGraph) Reset() {
	g.passPool.reset()
	g.resourcePool.reset()
	g.nodePool.reset()
	g.devicePassPool.reset()

	g.passes = g.passes[:0]
	g.resources = g.resources[:0]
	g.nodes = g.nodes[:0]
	g.devicePasses = g.devicePasses[:0]
	g.order = nil
	g.compiled = false
}

// Stats summarizes a compiled frame: how many declared passes survived
// cull, how many DevicePasses they folded into, and how the transient
// cache has performed across the cache's lifetime.
type Stats struct {
	PassCount       int
	CulledCount     int
	DevicePassCount int
	TransientHits   int
	TransientMisses int
}

// stats snapshots counters for the frame Compile just finished.
// TransientHits/TransientMisses reflect the cache's running lifetime
// total, not just this frame — Execute (which is what actually calls
// Acquire) hasn't run yet when Compile returns, so a per-frame count
// would always read zero.
func (g *FrameGraph) stats() Stats {
	culled := 0
	for _, p := range g.passes {
		if p.IsCulled() {
			culled++
		}
	}
	return Stats{
		PassCount:       len(g.passes),
		CulledCount:     culled,
		DevicePassCount: len(g.devicePasses),
		TransientHits:   g.cache.HitCount(),
		TransientMisses: g.cache.MissCount(),
	}
}

func (g *FrameGraph) sortPasses() {
	g.order = make([]*PassNode, len(g.passes))
	copy(g.order, g.passes)
	sort.SliceStable(g.order, func(i, j int) bool {
		return g.order[i].InsertPoint < g.order[j].InsertPoint
	})
}
