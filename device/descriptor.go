package device

import "github.com/gogpu/gputypes"

// ResourceKind distinguishes the GPU resource kinds a descriptor can
// describe. Adding a kind means adding a constant here, a descriptor
// struct, a case in AnyResourceDescriptor, and a ResourceCreator arm:
// variant dispatch, not an interface hierarchy.
type ResourceKind uint8

const (
	// ResourceKindTexture identifies a TextureDescriptor payload.
	ResourceKindTexture ResourceKind = iota
	// ResourceKindBuffer identifies a BufferDescriptor payload.
	ResourceKindBuffer
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindTexture:
		return "Texture"
	case ResourceKindBuffer:
		return "Buffer"
	default:
		return "Unknown"
	}
}

// TextureDescriptor describes a transient or imported texture resource.
// Every field is a plain value (no slices) so the whole struct is
// comparable and usable as a map key — descriptor equality needs to be
// total and canonical for the transient cache and allocator to key on it.
type TextureDescriptor struct {
	Width, Height, DepthOrArrayLayers uint32
	MipLevelCount                    uint32
	SampleCount                      uint32
	Dimension                        gputypes.TextureDimension
	Format                           gputypes.TextureFormat
	Usage                            gputypes.TextureUsage
}

// BufferDescriptor describes a transient or imported buffer resource.
type BufferDescriptor struct {
	Size  uint64
	Usage gputypes.BufferUsage
}

// AnyResourceDescriptor is a tagged union over the supported descriptor
// kinds. Only one of Texture/Buffer is meaningful, selected by Kind.
// It is a plain value type (comparable), so it can be embedded directly
// in an allocator pool key alongside the resource's debug name.
type AnyResourceDescriptor struct {
	Kind    ResourceKind
	Texture TextureDescriptor
	Buffer  BufferDescriptor
}

// TextureResource wraps a TextureDescriptor as an AnyResourceDescriptor.
func TextureResource(desc TextureDescriptor) AnyResourceDescriptor {
	return AnyResourceDescriptor{Kind: ResourceKindTexture, Texture: desc}
}

// BufferResource wraps a BufferDescriptor as an AnyResourceDescriptor.
func BufferResource(desc BufferDescriptor) AnyResourceDescriptor {
	return AnyResourceDescriptor{Kind: ResourceKindBuffer, Buffer: desc}
}
