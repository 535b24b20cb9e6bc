package showroom

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Accessory and material names.
const (
	MaterialDiamondFire = "diamond_fire"

	// studsOffsetY lifts the studs onto the watch body.
	studsOffsetY = 1
)

// Showroom ties the watch state machine to the camera controller under a
// single named state.
type Showroom struct {
	scene      *scene.Scene
	watch      *Watch
	controller *Controller

	targets   map[State]MatchmoveTarget
	configure ArcRotateTarget
	state     State

	studs *scene.Node

	optionsLoaded bool
	onLoaded      []func()

	log *zap.Logger
}

// New builds a showroom over a scene that already holds the watch model.
// It starts in Overall with the camera on the overall anchor.
func New(s *scene.Scene, cfg *config.Config) (*Showroom, error) {
	watch, err := NewWatch(s, cfg.Watch)
	if err != nil {
		return nil, err
	}

	overall := watch.CameraParentOverall
	pivot := math.Vec3{}
	if p := overall.Parent(); p != nil {
		pivot = p.AbsolutePosition()
	}

	sr := &Showroom{
		scene:      s,
		watch:      watch,
		controller: NewController(s, cfg.Camera),
		targets: map[State]MatchmoveTarget{
			Overall:  NewMatchmoveTarget(watch.CameraParentOverall),
			Clasp:    NewMatchmoveTarget(watch.CameraParentClasp),
			Face:     NewMatchmoveTarget(watch.CameraParentFace),
			Levitate: NewMatchmoveTarget(watch.CameraParentLevitate),
		},
		configure: ArcRotateTarget{
			StartingPosition: overall.AbsolutePosition(),
			Target:           pivot,
			LowerRadiusLimit: cfg.Camera.LowerRadiusLimit,
			UpperRadiusLimit: cfg.Camera.UpperRadiusLimit,
		},
		state: Overall,
		log:   logger.Named("showroom"),
	}
	sr.controller.SnapToTarget(sr.targets[Overall])
	watch.StartHotspots()

	sr.log.Info("showroom ready",
		zap.Int("hotspots", len(watch.Hotspots())),
		zap.Int("animations", len(s.AnimationGroups())))
	return sr, nil
}

// Scene returns the showroom scene.
func (sr *Showroom) Scene() *scene.Scene { return sr.scene }

// Watch returns the watch state machine.
func (sr *Showroom) Watch() *Watch { return sr.watch }

// Controller returns the camera controller.
func (sr *Showroom) Controller() *Controller { return sr.controller }

// State returns the current state.
func (sr *Showroom) State() State { return sr.state }

// SetState moves the showroom to state. The watch, the cameras and the
// hotspots all switch within this call; their animations play out over
// the following frames. Setting the current state again does nothing.
func (sr *Showroom) SetState(state State) {
	if state == sr.state {
		return
	}

	sr.watch.SetState(state)

	if sr.state == Configure {
		sr.controller.Deactivate()
	}
	if state == Configure {
		sr.controller.Activate(sr.configure)
	} else {
		sr.controller.SetTrackingTarget(sr.targets[state])
	}

	sr.log.Info("state changed", zap.Stringer("from", sr.state), zap.Stringer("to", state))
	sr.state = state
}

// MatchmoveTarget returns the tracking target of a tracked state.
func (sr *Showroom) MatchmoveTarget(state State) (MatchmoveTarget, bool) {
	t, ok := sr.targets[state]
	return t, ok
}

// ConfigureTarget returns the orbit setup used by Configure.
func (sr *Showroom) ConfigureTarget() ArcRotateTarget {
	return sr.configure
}

// SetMeshMaterialByName binds a material to a mesh. It reports false, and
// changes nothing, when either name is unknown.
func (sr *Showroom) SetMeshMaterialByName(meshName, materialName string) bool {
	mesh, err := sr.scene.Mesh(meshName)
	if err != nil {
		sr.log.Debug("material swap skipped", zap.Error(err))
		return false
	}
	material, err := sr.scene.Material(materialName)
	if err != nil {
		sr.log.Debug("material swap skipped", zap.Error(err))
		return false
	}
	mesh.Material = material
	return true
}

// AttachStuds takes ownership of the studs accessory: hidden, parented to
// the watch body and lifted into place.
func (sr *Showroom) AttachStuds(studs *scene.Node) {
	studs.SetEnabled(false)
	sr.watch.AttachToBodyBone(studs)
	studs.Position.Y = studsOffsetY
	sr.studs = studs
}

// SetDiamondFire points the diamond fire material at a reflection texture.
func (sr *Showroom) SetDiamondFire(textureURL string) error {
	m, err := sr.scene.Material(MaterialDiamondFire)
	if err != nil {
		return fmt.Errorf("diamond fire: %w", err)
	}
	m.ReflectionTexture = textureURL
	return nil
}

// ShowStuds shows or hides the studs. It does nothing before the studs
// have loaded.
func (sr *Showroom) ShowStuds(visible bool) {
	if sr.studs == nil {
		return
	}
	sr.studs.SetEnabled(visible)
}

// StudsVisible reports whether the studs are loaded and shown.
func (sr *Showroom) StudsVisible() bool {
	return sr.studs != nil && sr.studs.IsEnabled()
}

// MarkConfigurationOptionsLoaded records that every swappable option is
// available and fires the pending one-shot callbacks.
func (sr *Showroom) MarkConfigurationOptionsLoaded() {
	if sr.optionsLoaded {
		return
	}
	sr.optionsLoaded = true
	sr.log.Info("configuration options loaded")

	callbacks := sr.onLoaded
	sr.onLoaded = nil
	for _, fn := range callbacks {
		fn()
	}
}

// ConfigurationOptionsLoaded reports whether every swappable option is
// available.
func (sr *Showroom) ConfigurationOptionsLoaded() bool {
	return sr.optionsLoaded
}

// OnConfigurationOptionsLoaded calls fn once the options are loaded,
// immediately if they already are.
func (sr *Showroom) OnConfigurationOptionsLoaded(fn func()) {
	if sr.optionsLoaded {
		fn()
		return
	}
	sr.onLoaded = append(sr.onLoaded, fn)
}

// OnHotspotUpdate registers a hotspot listener.
func (sr *Showroom) OnHotspotUpdate(fn func([]HotspotUpdate)) {
	sr.watch.OnHotspotUpdate(fn)
}

// SetZoomPercent eases the orbit camera to a zoom level in [0, 100].
func (sr *Showroom) SetZoomPercent(percent float32) {
	sr.controller.SetZoomPercent(percent)
}

// DisableMouseWheel turns off wheel zoom.
func (sr *Showroom) DisableMouseWheel() {
	sr.controller.DisableMouseWheel()
}

// HandleDrag forwards pointer drags to the orbit camera.
func (sr *Showroom) HandleDrag(dx, dy float32) {
	sr.controller.HandleDrag(dx, dy)
}

// HandleWheel forwards wheel input to the orbit camera.
func (sr *Showroom) HandleWheel(delta float32) {
	sr.controller.HandleWheel(delta)
}

// ApplyCameraConfig retunes the cameras, e.g. after a config reload.
func (sr *Showroom) ApplyCameraConfig(cfg config.CameraConfig) {
	sr.controller.ApplyConfig(cfg)
	sr.configure.LowerRadiusLimit = cfg.LowerRadiusLimit
	sr.configure.UpperRadiusLimit = cfg.UpperRadiusLimit
}

// Render advances and draws one frame.
func (sr *Showroom) Render() {
	sr.scene.Render()
}
