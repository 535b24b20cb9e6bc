package scene

import "github.com/Faultbox/vaporwear/pkg/math"

// Bounds is a local-space axis-aligned box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Material is a named surface description that meshes can share.
type Material struct {
	Name      string
	BaseColor math.Vec3

	// ReflectionTexture is an opaque texture URL.
	ReflectionTexture string
}

// Mesh is a renderable node.
type Mesh struct {
	*Node

	Material *Material
	Bounds   Bounds

	// Visible hides the mesh from rendering without disabling its subtree.
	Visible bool
}

// NewMesh creates a visible mesh with its own node.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Node:    NewNode(name),
		Visible: true,
	}
}
