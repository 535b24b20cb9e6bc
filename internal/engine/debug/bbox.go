// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// BoxVertexCount is the number of vertices of a box wireframe (12 edges × 2).
const BoxVertexCount = 24

// boxEdges indexes the corners of a box, two per edge. Corner i has bit 0
// set for max x, bit 1 for max y and bit 2 for max z.
var boxEdges = [BoxVertexCount]int{
	// Bottom face
	0, 1, 1, 5, 5, 4, 4, 0,
	// Top face
	2, 3, 3, 7, 7, 6, 6, 2,
	// Vertical edges
	0, 2, 1, 3, 5, 7, 4, 6,
}

// BoxCorners returns the eight corners of b transformed by world.
func BoxCorners(b scene.Bounds, world math.Mat4) [8]math.Vec3 {
	var corners [8]math.Vec3
	for i := range corners {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		corners[i] = world.TransformVec3(p)
	}
	return corners
}

// WireframeBox appends line vertices for b under world to dst, format
// [x, y, z] per vertex.
func WireframeBox(dst []float32, b scene.Bounds, world math.Mat4) []float32 {
	corners := BoxCorners(b, world)
	for _, i := range boxEdges {
		c := corners[i]
		dst = append(dst, c.X, c.Y, c.Z)
	}
	return dst
}

// WireframeCross appends three axis-aligned lines of half-length size
// centred on p.
func WireframeCross(dst []float32, p math.Vec3, size float32) []float32 {
	return append(dst,
		p.X-size, p.Y, p.Z, p.X+size, p.Y, p.Z,
		p.X, p.Y-size, p.Z, p.X, p.Y+size, p.Z,
		p.X, p.Y, p.Z-size, p.X, p.Y, p.Z+size,
	)
}
