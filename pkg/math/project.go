package math

// Viewport is a camera viewport in normalized render-target units.
type Viewport struct {
	X, Y, Width, Height float32
}

// FullViewport covers the whole render target.
var FullViewport = Viewport{X: 0, Y: 0, Width: 1, Height: 1}

// Project maps a world-space point to pixel coordinates.
//
// The point goes through viewProj to normalized device coordinates, then
// through the viewport, and is finally scaled by the render size. Pixel Y
// grows downward. Z is the depth in [0, 1].
func Project(p Vec3, viewProj Mat4, vp Viewport, width, height float32) Vec3 {
	clip := viewProj.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	w := clip[3]
	if w == 0 {
		w = 1
	}
	ndcX := clip[0] / w
	ndcY := clip[1] / w
	ndcZ := clip[2] / w

	return Vec3{
		X: (vp.X + (ndcX*0.5+0.5)*vp.Width) * width,
		Y: (vp.Y + (0.5-ndcY*0.5)*vp.Height) * height,
		Z: ndcZ*0.5 + 0.5,
	}
}
