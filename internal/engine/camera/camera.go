// Package camera provides the showroom's free tracking camera and the
// user-orbitable arc-rotate camera.
package camera

import (
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Default lens settings.
const (
	DefaultFov  = 0.6
	DefaultNear = 0.01
	DefaultFar  = 100
)

// Lens holds the projection settings shared by every camera.
type Lens struct {
	Fov  float32 // Vertical field of view, radians
	Near float32
	Far  float32

	// View is the normalized viewport on the render target.
	View math.Viewport
}

// DefaultLens returns the showroom lens.
func DefaultLens() Lens {
	return Lens{
		Fov:  DefaultFov,
		Near: DefaultNear,
		Far:  DefaultFar,
		View: math.FullViewport,
	}
}

// ProjectionMatrix returns the perspective projection for aspect.
func (l *Lens) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(l.Fov, aspect, l.Near, l.Far)
}

// Viewport returns the normalized viewport.
func (l *Lens) Viewport() math.Viewport {
	return l.View
}
