package showroom

import (
	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/vaporwear/internal/engine/camera"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// zoomSettle is how close the radius and its velocity must be to rest for
// a zoom to count as finished.
const zoomSettle = 1e-3

// zoomSpring eases the orbit radius towards a requested zoom level.
type zoomSpring struct {
	orbit    *camera.ArcRotateCamera
	spring   harmonica.Spring
	target   float32
	velocity float64
	active   bool
}

func newZoomSpring(orbit *camera.ArcRotateCamera, frequency, damping float64) *zoomSpring {
	return &zoomSpring{
		orbit:  orbit,
		spring: harmonica.NewSpring(harmonica.FPS(60), frequency, damping),
	}
}

// tune replaces the spring coefficients.
func (z *zoomSpring) tune(frequency, damping float64) {
	z.spring = harmonica.NewSpring(harmonica.FPS(60), frequency, damping)
}

// seek starts easing towards radius.
func (z *zoomSpring) seek(radius float32) {
	z.target = radius
	z.active = true
}

// cancel drops the pending zoom, leaving the radius where it is.
func (z *zoomSpring) cancel() {
	z.active = false
	z.velocity = 0
}

// Step runs while the orbit camera accepts user input.
func (z *zoomSpring) Step() bool {
	if !z.active || !z.orbit.Attached() {
		return false
	}

	pos, vel := z.spring.Update(float64(z.orbit.Radius), z.velocity, float64(z.target))
	z.orbit.Radius = float32(pos)
	z.velocity = vel
	z.orbit.CheckLimits()

	if math.Abs(z.orbit.Radius-z.target) < zoomSettle && math.Abs(float32(z.velocity)) < zoomSettle {
		z.orbit.Radius = z.target
		z.cancel()
	}
	return false
}

// zoomRadius maps a zoom percentage onto [upper, lower]: 0 is fully out at
// the upper limit, 100 fully in at the lower limit.
func zoomRadius(percent, lower, upper float32) float32 {
	t := math.Clamp(percent, 0, 100) / 100
	return upper + (lower-upper)*t
}
