package camera

import (
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// FreeCamera sits at the origin of a rig node and looks along the rig's +Z.
type FreeCamera struct {
	Lens

	name string
	rig  *scene.Node
}

// NewFreeCamera creates a camera carried by rig.
func NewFreeCamera(name string, rig *scene.Node) *FreeCamera {
	return &FreeCamera{
		Lens: DefaultLens(),
		name: name,
		rig:  rig,
	}
}

// Name returns the camera name.
func (c *FreeCamera) Name() string { return c.name }

// Rig returns the node the camera is parented to.
func (c *FreeCamera) Rig() *scene.Node { return c.rig }

// Position returns the camera position in world space.
func (c *FreeCamera) Position() math.Vec3 {
	return c.rig.AbsolutePosition()
}

// WorldMatrix returns the camera-to-world transform in view convention:
// column 2 points backwards, away from what the camera sees.
func (c *FreeCamera) WorldMatrix() math.Mat4 {
	return c.ViewMatrix().Inverse()
}

// ViewMatrix returns the world-to-camera transform.
func (c *FreeCamera) ViewMatrix() math.Mat4 {
	world := c.rig.WorldMatrix()
	pos := world.Translation()
	forward := world.Column(2).Normalize()
	up := world.Column(1).Normalize()
	return math.LookAt(pos, pos.Add(forward), up)
}
