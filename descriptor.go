package framegraph

import "github.com/gogpu/framegraph/device"

// Resource descriptor types are owned by the device package so that it
// can define ResourceCreator without importing this package back (this
// package imports device for the Device/CommandBuffer/RenderPass
// contracts). Re-exported here so pass-setup code only ever needs to
// import this one package.
type (
	ResourceKind          = device.ResourceKind
	TextureDescriptor     = device.TextureDescriptor
	BufferDescriptor      = device.BufferDescriptor
	AnyResourceDescriptor = device.AnyResourceDescriptor
	AnyResource           = device.AnyResource
	LoadOp                = device.LoadOp
	StoreOp               = device.StoreOp
	ClearValue            = device.ClearValue
)

const (
	ResourceKindTexture = device.ResourceKindTexture
	ResourceKindBuffer  = device.ResourceKindBuffer
)

// TextureResource wraps a TextureDescriptor as an AnyResourceDescriptor.
func TextureResource(desc TextureDescriptor) AnyResourceDescriptor {
	return device.TextureResource(desc)
}

// BufferResource wraps a BufferDescriptor as an AnyResourceDescriptor.
func BufferResource(desc BufferDescriptor) AnyResourceDescriptor {
	return device.BufferResource(desc)
}
