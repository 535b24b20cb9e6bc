package showroom

import (
	"fmt"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// HotspotUpdate is one hotspot's state as reported to the host.
type HotspotUpdate struct {
	ID      int     `json:"hotspotId"`
	Visible bool    `json:"visible"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
}

// visibilityTest decides from the camera position whether a hotspot shows.
type visibilityTest interface {
	visible(camera math.Vec3) bool
}

// containmentTest shows the hotspot while the camera is inside a unit-cube
// proxy volume.
type containmentTest struct {
	volume *scene.Node
}

func (t containmentTest) visible(camera math.Vec3) bool {
	local := t.volume.WorldMatrix().Inverse().TransformVec3(camera)
	return math.Abs(local.X) < 1 && math.Abs(local.Y) < 1 && math.Abs(local.Z) < 1
}

// directionalTest shows the hotspot while the camera lies far enough
// towards the anchor's right axis. A proxy node's x position overrides the
// fixed threshold, so the threshold can be authored in the model.
type directionalTest struct {
	anchor    *scene.Node
	threshold float32
	proxy     *scene.Node
}

func (t directionalTest) visible(camera math.Vec3) bool {
	threshold := t.threshold
	if t.proxy != nil {
		threshold = t.proxy.Position.X
	}
	toCamera := camera.Sub(t.anchor.AbsolutePosition()).Normalize()
	return toCamera.Dot(t.anchor.Right()) > threshold
}

// Hotspot is a labelled anchor whose screen position and visibility are
// tracked while its owning state is current.
type Hotspot struct {
	ID       int
	Anchor   *scene.Node
	Owner    State
	Visible  bool
	Position math.Vec2

	test visibilityTest
}

// Update returns the hotspot's current state.
func (h *Hotspot) Update() HotspotUpdate {
	return HotspotUpdate{ID: h.ID, Visible: h.Visible, X: h.Position.X, Y: h.Position.Y}
}

// newHotspot resolves a configured hotspot against the scene.
func newHotspot(s *scene.Scene, hc config.HotspotConfig) (*Hotspot, error) {
	owner, ok := ParseState(hc.State)
	if !ok {
		return nil, fmt.Errorf("hotspot %d: unknown state %q", hc.ID, hc.State)
	}
	anchor, err := s.Node(hc.Anchor)
	if err != nil {
		return nil, fmt.Errorf("hotspot %d: %w", hc.ID, err)
	}

	h := &Hotspot{ID: hc.ID, Anchor: anchor, Owner: owner}
	switch hc.Mode {
	case config.HotspotContainment:
		volume, err := s.Mesh(hc.ViewBox)
		if err != nil {
			return nil, fmt.Errorf("hotspot %d: %w", hc.ID, err)
		}
		volume.Visible = false
		h.test = containmentTest{volume: volume.Node}
	case config.HotspotDirectional:
		t := directionalTest{anchor: anchor, threshold: hc.Threshold}
		if hc.ProxyNode != "" {
			if t.proxy, err = s.Node(hc.ProxyNode); err != nil {
				return nil, fmt.Errorf("hotspot %d: %w", hc.ID, err)
			}
		}
		h.test = t
	default:
		return nil, fmt.Errorf("hotspot %d: unknown mode %q", hc.ID, hc.Mode)
	}
	return h, nil
}

// HotspotProjector updates the hotspots of the current state once per
// frame and reports them, together with any hotspots hidden by a state
// change since the last frame, in a single notification.
type HotspotProjector struct {
	watch *Watch
}

// Step projects every hotspot of the current state through the active
// camera. It runs for the lifetime of the watch.
func (p *HotspotProjector) Step() bool {
	w := p.watch
	var batch []*Hotspot

	var current []*Hotspot
	for _, h := range w.hotspots {
		if h.Owner == w.state {
			current = append(current, h)
		}
	}

	s := w.scene
	if cam := s.ActiveCamera(); cam != nil {
		camPos := cam.WorldMatrix().Translation()
		for _, h := range current {
			h.Visible = h.test.visible(camPos)
			h.Position = s.Project(h.Anchor.AbsolutePosition())
		}
		batch = append(batch, current...)
	}

	// Hotspots whose state was left and re-entered are reported live.
	for _, h := range w.retired {
		if h.Owner != w.state {
			batch = append(batch, h)
		}
	}
	w.retired = w.retired[:0]

	if len(batch) > 0 {
		w.notify(batch)
	}
	return false
}
