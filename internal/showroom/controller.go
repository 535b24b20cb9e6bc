package showroom

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/camera"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Camera names.
const (
	RigName         = "configCameraRoot"
	ShowCameraName  = "showCamera"
	OrbitCameraName = "configCamera"
)

// Collapsed orbit pose: the orbit camera sits on its pivot looking along +Z.
const (
	restAlpha  = -math.Pi / 2
	restBeta   = math.Pi / 2
	restRadius = 0
)

// ArcRotateTarget describes the user-orbitable configure view.
type ArcRotateTarget struct {
	// StartingPosition is used when the rig sits on the pivot.
	StartingPosition math.Vec3
	Target           math.Vec3

	LowerRadiusLimit float32
	UpperRadiusLimit float32
}

// Controller owns the tracking show camera and the orbit configure camera
// and switches between them.
type Controller struct {
	scene *scene.Scene
	cfg   config.CameraConfig

	rig     *scene.Node
	tracker *Tracker
	show    *camera.FreeCamera
	orbit   *camera.ArcRotateCamera
	zoom    *zoomSpring

	sweep  *Sweep
	arc    ArcRotateTarget
	active bool

	log *zap.Logger
}

// NewController adds the rig and both cameras to s and starts tracking.
// The show camera is active.
func NewController(s *scene.Scene, cfg config.CameraConfig) *Controller {
	rig := scene.NewNode(RigName)
	s.AddNode(rig)

	show := camera.NewFreeCamera(ShowCameraName, rig)
	orbit := camera.NewArcRotateCamera(OrbitCameraName, restAlpha, restBeta, restRadius, math.Vec3{})

	c := &Controller{
		scene:   s,
		rig:     rig,
		tracker: NewTracker(rig, cfg.BlendFrames),
		show:    show,
		orbit:   orbit,
		zoom:    newZoomSpring(orbit, cfg.ZoomFrequency, cfg.ZoomDamping),
		arc: ArcRotateTarget{
			LowerRadiusLimit: cfg.LowerRadiusLimit,
			UpperRadiusLimit: cfg.UpperRadiusLimit,
		},
		log: logger.Named("camera"),
	}
	c.ApplyConfig(cfg)

	s.AddCamera(show)
	s.AddCamera(orbit)
	s.SetActiveCamera(show)

	s.Run(c.tracker)
	s.Run(c.zoom)
	return c
}

// ApplyConfig updates camera tuning. Running sweeps and blends keep the
// lengths they started with.
func (c *Controller) ApplyConfig(cfg config.CameraConfig) {
	c.cfg = cfg
	c.tracker.SetFrames(cfg.BlendFrames)
	c.zoom.tune(cfg.ZoomFrequency, cfg.ZoomDamping)

	for _, lens := range []*camera.Lens{&c.show.Lens, &c.orbit.Lens} {
		lens.Fov = cfg.Fov
		lens.Near = cfg.Near
		lens.Far = cfg.Far
	}
	c.orbit.LowerBetaLimit = cfg.LowerBetaLimit
	c.orbit.UpperBetaLimit = cfg.UpperBetaLimit
	c.orbit.DragSensitivity = cfg.DragSensitivity
	c.orbit.ZoomSensitivity = cfg.ZoomSensitivity
}

// Rig returns the tracking rig node.
func (c *Controller) Rig() *scene.Node { return c.rig }

// Tracker returns the rig's tracker.
func (c *Controller) Tracker() *Tracker { return c.tracker }

// ShowCamera returns the tracking camera.
func (c *Controller) ShowCamera() *camera.FreeCamera { return c.show }

// OrbitCamera returns the configure camera.
func (c *Controller) OrbitCamera() *camera.ArcRotateCamera { return c.orbit }

// OrbitActive reports whether the orbit camera is the rendering camera.
func (c *Controller) OrbitActive() bool { return c.active }

// SetTrackingTarget retargets the tracker. It does not change which camera
// renders.
func (c *Controller) SetTrackingTarget(target MatchmoveTarget) {
	c.tracker.SetTarget(target)
}

// SnapToTarget follows target immediately, without a blend.
func (c *Controller) SnapToTarget(target MatchmoveTarget) {
	c.tracker.SnapTo(target)
}

// Activate hands the view to the orbit camera. The orbit camera starts at
// the rig's position around arc.Target and sweeps to the configure pose;
// once there, radius limits are set and user input is attached.
//
// The returned future resolves when the sweep completes, or with
// scene.ErrSuperseded if a later Activate or Deactivate interrupts it.
func (c *Controller) Activate(arc ArcRotateTarget) *scene.Future {
	c.arc = arc
	c.tracker.Hold()

	c.orbit.LowerRadiusLimit = 0
	c.orbit.UpperRadiusLimit = 0
	c.orbit.Target = arc.Target
	start := c.rig.AbsolutePosition()
	if start.Distance(arc.Target) < 1e-4 {
		start = arc.StartingPosition
	}
	c.orbit.SetPosition(start)

	c.scene.SetActiveCamera(c.orbit)
	c.active = true
	c.normalizeAngles()

	c.log.Debug("orbit camera activating",
		zap.Float32("alpha", c.orbit.Alpha),
		zap.Float32("beta", c.orbit.Beta),
		zap.Float32("radius", c.orbit.Radius))

	done := c.startSweep(c.cfg.ConfigureAlpha, c.cfg.ConfigureBeta, c.cfg.ConfigureRadius)
	done.Then(func(err error) {
		if err != nil {
			return
		}
		c.orbit.LowerRadiusLimit = arc.LowerRadiusLimit
		c.orbit.UpperRadiusLimit = arc.UpperRadiusLimit
		c.orbit.AttachControl()
		c.log.Debug("orbit camera attached")
	})
	return done
}

// Deactivate hands the view back to the show camera. The rig takes the
// orbit camera's current pose so tracking resumes from where the user left
// it; input is detached at once and the orbit camera then collapses onto
// its pivot out of sight.
func (c *Controller) Deactivate() *scene.Future {
	c.normalizeAngles()
	c.orbit.LowerRadiusLimit = 0
	c.orbit.DetachControl()
	c.zoom.cancel()

	world := c.orbit.WorldMatrix()
	forward := world.Column(2).Negate().Normalize()
	up := world.Column(1).Normalize()
	c.rig.Position = world.Translation()
	c.rig.Rotation = math.QuatLookRotation(forward, up)

	c.tracker.Hold()
	c.tracker.SetFocus(c.orbit.Target)

	c.scene.SetActiveCamera(c.show)
	c.active = false

	c.log.Debug("orbit camera deactivating")
	return c.startSweep(restAlpha, restBeta, restRadius)
}

// SetZoomPercent eases the orbit radius to a zoom level between the upper
// radius limit (0) and the lower one (100).
func (c *Controller) SetZoomPercent(percent float32) {
	c.zoom.seek(zoomRadius(percent, c.arc.LowerRadiusLimit, c.arc.UpperRadiusLimit))
}

// DisableMouseWheel turns off wheel zoom on the orbit camera.
func (c *Controller) DisableMouseWheel() {
	c.orbit.DisableWheel()
}

// HandleDrag forwards a pointer drag to the orbit camera.
func (c *Controller) HandleDrag(dx, dy float32) {
	c.orbit.HandleDrag(dx, dy)
}

// HandleWheel forwards a wheel delta to the orbit camera. Manual zoom
// cancels a pending zoom level.
func (c *Controller) HandleWheel(delta float32) {
	if c.orbit.HandleWheel(delta) {
		c.zoom.cancel()
	}
}

func (c *Controller) normalizeAngles() {
	c.orbit.Alpha = math.NormalizeAngle(c.orbit.Alpha)
	c.orbit.Beta = math.NormalizeAngle(c.orbit.Beta)
}

// startSweep moves the orbit camera to (alpha, beta, radius), superseding
// any sweep in flight.
func (c *Controller) startSweep(alpha, beta, radius float32) *scene.Future {
	if c.sweep != nil {
		c.sweep.Cancel()
	}

	orbit := c.orbit
	sw := NewSweep(
		[]float32{orbit.Alpha, orbit.Beta, orbit.Radius},
		[]float32{alpha, beta, radius},
		c.cfg.SweepFrames,
		func(v []float32) {
			orbit.Alpha = v[0]
			orbit.Beta = v[1]
			orbit.Radius = v[2]
		},
	)
	c.sweep = sw
	sw.Done().Then(func(error) {
		if c.sweep == sw {
			c.sweep = nil
		}
	})
	c.scene.Run(sw)
	return sw.Done()
}
