package showroom

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// MatchmoveTarget is a node the tracking rig aligns to, plus the distance
// along the node's forward axis of the point the rig looks at.
//
// The node is owned by the scene; it must outlive the tracker's use of it.
type MatchmoveTarget struct {
	Node       *scene.Node
	FocusDepth float32
}

// NewMatchmoveTarget uses the node's distance from its parent as the focus
// depth, so the rig looks at the parent's origin.
func NewMatchmoveTarget(n *scene.Node) MatchmoveTarget {
	return MatchmoveTarget{Node: n, FocusDepth: n.Position.Length()}
}

// Focus returns the world-space look-at point.
func (t MatchmoveTarget) Focus() math.Vec3 {
	return t.Node.AbsolutePosition().Add(t.Node.Forward().Scale(t.FocusDepth))
}

// Tracker keeps a root rig node glued to a target, blending over a fixed
// number of frames whenever the target changes.
//
// The tracker is a never-ending scene task.
type Tracker struct {
	rig    *scene.Node
	frames int

	target   *MatchmoveTarget
	reset    bool
	blending bool
	frame    int

	formerPosition math.Vec3
	formerFocus    math.Vec3
	formerUp       math.Vec3
	focus          math.Vec3

	log *zap.Logger
}

// NewTracker creates a tracker for rig, which must have no parent.
func NewTracker(rig *scene.Node, frames int) *Tracker {
	return &Tracker{
		rig:    rig,
		frames: frames,
		focus:  rig.AbsolutePosition().Add(rig.Forward()),
		log:    logger.Named("tracker"),
	}
}

// SetTarget retargets the rig. The blend starts from where the rig is now,
// including the focus point of an interrupted blend. Retargeting to the
// current node is a no-op; the return value reports whether anything
// changed.
func (t *Tracker) SetTarget(target MatchmoveTarget) bool {
	if t.target != nil && t.target.Node == target.Node {
		return false
	}

	t.formerPosition = t.rig.Position
	t.formerFocus = t.focus
	t.formerUp = t.rig.Up()

	t.target = &target
	t.reset = true

	t.log.Debug("tracking target set", zap.String("target", target.Node.Name))
	return true
}

// SnapTo follows target rigidly from now on, without a blend.
func (t *Tracker) SnapTo(target MatchmoveTarget) {
	t.target = &target
	t.reset = false
	t.blending = false
	t.follow()
}

// Hold stops following. The rig keeps its pose until the next SetTarget.
func (t *Tracker) Hold() {
	t.target = nil
	t.reset = false
	t.blending = false
}

// SetFocus overrides the focus point the next blend starts from.
func (t *Tracker) SetFocus(p math.Vec3) {
	t.focus = p
}

// Focus returns the point the rig currently looks at.
func (t *Tracker) Focus() math.Vec3 {
	return t.focus
}

// Target returns the current target, if any.
func (t *Tracker) Target() (MatchmoveTarget, bool) {
	if t.target == nil {
		return MatchmoveTarget{}, false
	}
	return *t.target, true
}

// Blending reports whether a re-acquisition blend is in progress.
func (t *Tracker) Blending() bool {
	return t.blending || t.reset
}

// SetFrames changes the blend length for blends started afterwards.
func (t *Tracker) SetFrames(frames int) {
	t.frames = frames
}

// Step advances the tracker by one frame.
func (t *Tracker) Step() bool {
	if t.reset {
		t.reset = false
		t.blending = true
		t.frame = 0
	}
	if t.target == nil {
		return false
	}

	if !t.blending {
		t.follow()
		return false
	}

	t.blend()
	t.frame++
	if t.frame > t.frames {
		t.blending = false
	}
	return false
}

func (t *Tracker) follow() {
	t.rig.Position = t.target.Node.AbsolutePosition()
	t.rig.Rotation = t.target.Node.AbsoluteRotation()
	t.focus = t.target.Focus()
}

func (t *Tracker) blend() {
	f := float32(1)
	if t.frames > 0 {
		f = float32(t.frame) / float32(t.frames)
	}

	position := math.LerpVec3(t.formerPosition, t.target.Node.AbsolutePosition(), f)
	focus := math.LerpVec3(t.formerFocus, t.target.Focus(), f)
	up := math.SlerpVec3(t.formerUp, t.target.Node.Up(), f).Normalize()

	forward := focus.Sub(position)
	if forward.Length() < 1e-6 {
		forward = t.rig.Forward()
	}
	forward = forward.Normalize()

	side := forward.Cross(up)
	if side.Length() < 1e-6 {
		side = forward.AnyPerpendicular()
	}
	side = side.Normalize()
	up = side.Cross(forward)

	t.rig.Position = position
	t.rig.Rotation = math.QuatLookRotation(forward, up)
	t.focus = focus
}
