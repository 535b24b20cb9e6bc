package showroom

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Names the watch model must provide.
const (
	AnimSpinUp        = "watch_spin-up"
	AnimSpinDown      = "watch_spin-down"
	AnimOrbitOverall  = "orbit_overall"
	AnimOrbitClasp    = "orbit_clasp"
	AnimOrbitFace     = "orbit_face"
	AnimOrbitLevitate = "orbit_levitate"

	NodeCameraOverall  = "camera_overall"
	NodeCameraClasp    = "camera_clasp"
	NodeCameraFace     = "camera_face"
	NodeCameraLevitate = "camera_levitate"

	// bodyJoint is the index of the watch body in the first skeleton.
	bodyJoint = 2
)

// Watch is the watch model's state machine: articulated pose, looping orbit
// animations and hotspot tracking, driven by the current State.
type Watch struct {
	scene *scene.Scene

	spinUp, spinDown *scene.AnimationGroup
	orbitOverall     *scene.AnimationGroup
	orbitClasp       *scene.AnimationGroup
	orbitFace        *scene.AnimationGroup
	orbitLevitate    *scene.AnimationGroup

	CameraParentOverall  *scene.Node
	CameraParentClasp    *scene.Node
	CameraParentFace     *scene.Node
	CameraParentLevitate *scene.Node

	bodyBone *scene.Node
	hotspots []*Hotspot

	state State

	// retired holds hotspots hidden by a state change that have not been
	// reported since.
	retired []*Hotspot

	pose       Pose
	desired    Pose
	poseAnim   *scene.AnimationGroup
	poseTarget Pose

	listeners []func([]HotspotUpdate)
	clock     *ScreenClock

	log *zap.Logger
}

// NewWatch binds to an imported watch model. Every required name must be
// present; a missing one is returned as an error wrapping
// scene.ErrNotFound.
func NewWatch(s *scene.Scene, cfg config.WatchConfig) (*Watch, error) {
	w := &Watch{
		scene:   s,
		state:   Overall,
		pose:    PoseUp,
		desired: PoseUp,
		log:     logger.Named("watch"),
	}

	groups := []struct {
		dst  **scene.AnimationGroup
		name string
	}{
		{&w.spinUp, AnimSpinUp},
		{&w.spinDown, AnimSpinDown},
		{&w.orbitOverall, AnimOrbitOverall},
		{&w.orbitClasp, AnimOrbitClasp},
		{&w.orbitFace, AnimOrbitFace},
		{&w.orbitLevitate, AnimOrbitLevitate},
	}
	for _, g := range groups {
		group, err := s.AnimationGroup(g.name)
		if err != nil {
			return nil, fmt.Errorf("binding watch: %w", err)
		}
		*g.dst = group
	}

	parents := []struct {
		dst  **scene.Node
		name string
	}{
		{&w.CameraParentOverall, NodeCameraOverall},
		{&w.CameraParentClasp, NodeCameraClasp},
		{&w.CameraParentFace, NodeCameraFace},
		{&w.CameraParentLevitate, NodeCameraLevitate},
	}
	for _, p := range parents {
		node, err := s.Node(p.name)
		if err != nil {
			return nil, fmt.Errorf("binding watch: %w", err)
		}
		*p.dst = node
		if cfg.FixCameraAnchors {
			// Exported anchors look down their local -Y; turn +Z forward.
			node.RotateLocal(math.AxisX, -math.Pi/2)
			node.RotateLocal(math.AxisY, math.Pi)
		}
	}

	skeleton, err := s.Skeleton(0)
	if err != nil {
		return nil, fmt.Errorf("binding watch: %w", err)
	}
	if w.bodyBone = skeleton.Joint(bodyJoint); w.bodyBone == nil {
		return nil, fmt.Errorf("binding watch: joint %d of skeleton %q: %w", bodyJoint, skeleton.Name, scene.ErrNotFound)
	}

	for _, hc := range cfg.Hotspots {
		h, err := newHotspot(s, hc)
		if err != nil {
			return nil, fmt.Errorf("binding watch: %w", err)
		}
		w.hotspots = append(w.hotspots, h)
	}

	if cfg.PoseSpeedRatio > 0 {
		w.spinUp.SpeedRatio = cfg.PoseSpeedRatio
		w.spinDown.SpeedRatio = cfg.PoseSpeedRatio
	}
	w.spinUp.Stop()
	w.spinDown.Stop()
	w.applyOrbitAnimations(Overall)

	if _, err := s.Mesh(MeshScreen); err == nil {
		w.clock = NewScreenClock(nil)
		s.Run(w.clock)
	}

	return w, nil
}

// State returns the current state.
func (w *Watch) State() State { return w.state }

// Pose returns the current pose.
func (w *Watch) Pose() Pose { return w.pose }

// Hotspots returns every hotspot.
func (w *Watch) Hotspots() []*Hotspot { return w.hotspots }

// Screen returns the time shown on the watch face. It reports false when
// the model has no screen.
func (w *Watch) Screen() (ScreenTime, bool) {
	if w.clock == nil {
		return ScreenTime{}, false
	}
	return w.clock.Text(), true
}

// BodyBone returns the joint accessories attach to.
func (w *Watch) BodyBone() *scene.Node { return w.bodyBone }

// OnHotspotUpdate registers a listener called at most once per frame: every
// frame while a state with hotspots is current, and once more after one is
// left.
func (w *Watch) OnHotspotUpdate(fn func([]HotspotUpdate)) {
	w.listeners = append(w.listeners, fn)
}

// AttachToBodyBone parents n to the watch body so it follows the pose.
func (w *Watch) AttachToBodyBone(n *scene.Node) {
	n.SetParent(w.bodyBone)
}

// SetState applies the pose, orbit animations and hotspot tracking of
// state. Setting the current state again does nothing.
func (w *Watch) SetState(state State) {
	if state == w.state {
		return
	}

	w.requestPose(poseFor(state))
	w.applyOrbitAnimations(state)

	w.log.Debug("watch state changed",
		zap.Stringer("from", w.state),
		zap.Stringer("to", state))
	w.retireHotspots(w.state)
	w.state = state
}

// requestPose moves towards pose. A reversal mid-flight starts the other
// animation from the mirrored point so the motion stays continuous.
func (w *Watch) requestPose(pose Pose) {
	w.desired = pose

	switch w.pose {
	case pose:
		return
	case PoseAnimating:
		if w.poseTarget == pose {
			return
		}
		progress := w.poseAnim.Progress()
		w.poseAnim.Stop()
		w.startPose(pose, 1-progress)
	default:
		w.startPose(pose, 0)
	}
}

// startPose plays the animation towards pose starting at fraction from of
// its range.
func (w *Watch) startPose(pose Pose, from float32) {
	g, other := w.spinUp, w.spinDown
	if pose == PoseDown {
		g, other = w.spinDown, w.spinUp
	}
	other.Stop()

	start := g.FirstFrame() + from*(g.LastFrame()-g.FirstFrame())
	g.Start(false, 1, start, g.LastFrame())

	w.pose = PoseAnimating
	w.poseAnim = g
	w.poseTarget = pose
	g.OnEnd(func() { w.settlePose(pose) })

	w.log.Debug("pose animation started",
		zap.Stringer("towards", pose),
		zap.Float32("frame", start))
}

// settlePose runs when a pose animation ends, then honours any request
// that arrived in the meantime.
func (w *Watch) settlePose(pose Pose) {
	w.pose = pose
	w.poseAnim = nil
	if w.desired != pose {
		w.startPose(w.desired, 0)
	}
}

func (w *Watch) applyOrbitAnimations(state State) {
	switch state {
	case Overall, Clasp, Face:
		w.orbitOverall.Play(true)
		w.orbitClasp.Play(true)
		w.orbitFace.Play(true)
		w.orbitLevitate.Stop()
	case Levitate:
		w.orbitOverall.Stop()
		w.orbitClasp.Stop()
		w.orbitFace.Stop()
		w.orbitLevitate.Play(true)
	case Configure:
		w.orbitOverall.Stop()
		w.orbitClasp.Stop()
		w.orbitFace.Stop()
		w.orbitLevitate.Stop()
	}
}

// StartHotspots schedules the hotspot projector. Tasks step in the order
// they were started, so start it after the camera tasks to project through
// the camera of the current frame.
func (w *Watch) StartHotspots() {
	w.scene.Run(&HotspotProjector{watch: w})
}

// retireHotspots hides the hotspots owned by state and queues them for
// the next report.
func (w *Watch) retireHotspots(state State) {
	for _, h := range w.hotspots {
		if h.Owner != state {
			continue
		}
		h.Visible = false
		if !slices.Contains(w.retired, h) {
			w.retired = append(w.retired, h)
		}
	}
}

func (w *Watch) notify(hotspots []*Hotspot) {
	if len(w.listeners) == 0 {
		return
	}
	updates := make([]HotspotUpdate, len(hotspots))
	for i, h := range hotspots {
		updates[i] = h.Update()
	}
	for _, fn := range w.listeners {
		fn(updates)
	}
}
