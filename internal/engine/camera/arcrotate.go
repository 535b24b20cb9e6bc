package camera

import (
	gomath "math"

	"github.com/Faultbox/vaporwear/pkg/math"
)

// Orbit constraints.
const (
	DefaultLowerBetaLimit = 0.2
	DefaultUpperBetaLimit = math.Pi - 0.2

	// minRadius keeps the view direction defined when the radius collapses.
	minRadius = 0.0001
)

// ArcRotateCamera orbits a pivot point.
//
// Position = Target + Radius * (cos(Alpha) sin(Beta), cos(Beta), sin(Alpha) sin(Beta)).
// Limits are applied on user input and by CheckLimits, never while a value
// is being written directly, so sweeps may pass through any value.
type ArcRotateCamera struct {
	Lens

	Alpha  float32 // Longitude, radians
	Beta   float32 // Colatitude, radians
	Radius float32
	Target math.Vec3

	LowerBetaLimit float32
	UpperBetaLimit float32

	// Radius limits. Zero means unlimited.
	LowerRadiusLimit float32
	UpperRadiusLimit float32

	DragSensitivity float32
	ZoomSensitivity float32

	name         string
	attached     bool
	wheelEnabled bool
}

// NewArcRotateCamera creates a detached camera around target.
func NewArcRotateCamera(name string, alpha, beta, radius float32, target math.Vec3) *ArcRotateCamera {
	return &ArcRotateCamera{
		Lens:            DefaultLens(),
		Alpha:           alpha,
		Beta:            beta,
		Radius:          radius,
		Target:          target,
		LowerBetaLimit:  DefaultLowerBetaLimit,
		UpperBetaLimit:  DefaultUpperBetaLimit,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		name:            name,
		wheelEnabled:    true,
	}
}

// Name returns the camera name.
func (c *ArcRotateCamera) Name() string { return c.name }

// direction returns the unit vector from the pivot to the camera.
func (c *ArcRotateCamera) direction() math.Vec3 {
	sa, ca := gomath.Sincos(float64(c.Alpha))
	sb, cb := gomath.Sincos(float64(c.Beta))
	return math.Vec3{
		X: float32(ca * sb),
		Y: float32(cb),
		Z: float32(sa * sb),
	}
}

// Position returns the camera position in world space.
func (c *ArcRotateCamera) Position() math.Vec3 {
	return c.Target.Add(c.direction().Scale(c.Radius))
}

// ViewMatrix returns the world-to-camera transform.
func (c *ArcRotateCamera) ViewMatrix() math.Mat4 {
	r := c.Radius
	if r < minRadius {
		r = minRadius
	}
	eye := c.Target.Add(c.direction().Scale(r))
	return math.LookAt(eye, c.Target, math.AxisY)
}

// WorldMatrix returns the camera-to-world transform. Column 3 is the
// position, column 1 is up and column 2 points away from the pivot.
func (c *ArcRotateCamera) WorldMatrix() math.Mat4 {
	return c.ViewMatrix().Inverse()
}

// SetPosition places the camera at a world position, rebuilding alpha,
// beta and radius around the current target. Alpha keeps its number of
// accumulated turns.
func (c *ArcRotateCamera) SetPosition(p math.Vec3) {
	d := p.Sub(c.Target)
	c.Radius = d.Length()
	if c.Radius == 0 {
		c.Radius = minRadius
	}

	previous := float64(c.Alpha)
	var alpha float64
	horiz := gomath.Sqrt(float64(d.X*d.X + d.Z*d.Z))
	if horiz == 0 {
		alpha = gomath.Pi / 2
	} else {
		alpha = gomath.Acos(clamp64(float64(d.X)/horiz, -1, 1))
	}
	if d.Z < 0 {
		alpha = 2*gomath.Pi - alpha
	}
	turns := gomath.Round((previous - alpha) / (2 * gomath.Pi))
	c.Alpha = float32(alpha + turns*2*gomath.Pi)
	c.Beta = float32(gomath.Acos(clamp64(float64(d.Y/c.Radius), -1, 1)))

	c.CheckLimits()
}

// CheckLimits clamps beta and radius into their limits.
func (c *ArcRotateCamera) CheckLimits() {
	c.Beta = math.Clamp(c.Beta, c.LowerBetaLimit, c.UpperBetaLimit)
	c.Radius = c.clampRadius(c.Radius)
}

// clampRadius limits r to the configured radius range.
func (c *ArcRotateCamera) clampRadius(r float32) float32 {
	if c.LowerRadiusLimit > 0 && r < c.LowerRadiusLimit {
		r = c.LowerRadiusLimit
	}
	if c.UpperRadiusLimit > 0 && r > c.UpperRadiusLimit {
		r = c.UpperRadiusLimit
	}
	return r
}

// AttachControl enables user input.
func (c *ArcRotateCamera) AttachControl() { c.attached = true }

// DetachControl disables user input.
func (c *ArcRotateCamera) DetachControl() { c.attached = false }

// Attached reports whether user input is enabled.
func (c *ArcRotateCamera) Attached() bool { return c.attached }

// DisableWheel turns off wheel zoom without detaching the pointer.
func (c *ArcRotateCamera) DisableWheel() { c.wheelEnabled = false }

// WheelEnabled reports whether wheel zoom is on.
func (c *ArcRotateCamera) WheelEnabled() bool { return c.wheelEnabled }

// HandleDrag orbits by a pointer drag delta in pixels.
func (c *ArcRotateCamera) HandleDrag(deltaX, deltaY float32) bool {
	if !c.attached {
		return false
	}
	c.Alpha -= deltaX * c.DragSensitivity
	c.Beta -= deltaY * c.DragSensitivity
	c.CheckLimits()
	return true
}

// HandleWheel zooms by a wheel delta. Positive deltas move closer.
// It reports whether the input was applied.
func (c *ArcRotateCamera) HandleWheel(delta float32) bool {
	if !c.attached || !c.wheelEnabled {
		return false
	}
	c.Radius -= delta * c.Radius * c.ZoomSensitivity
	c.CheckLimits()
	return true
}

func clamp64(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
