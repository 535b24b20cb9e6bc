package showroom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

const (
	testWidth  = 800
	testHeight = 600

	poseFrames  = 100
	orbitFrames = 120
	anchorDist  = 5

	// settleFrames covers a default 60 frame blend or sweep, which touches
	// frames 0 through 60.
	settleFrames = 61
)

// testConfig is the default config with anchors already authored +Z
// forward and poses playing at natural speed.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Watch.FixCameraAnchors = false
	cfg.Watch.PoseSpeedRatio = 1
	return cfg
}

func keyedGroup(name string, node *scene.Node, last float32) *scene.AnimationGroup {
	return scene.NewAnimationGroup(name, &scene.Track{
		Node: node,
		Rotations: []scene.QuatKey{
			{Frame: 0, Value: math.QuatIdentity()},
			{Frame: last, Value: math.QuatFromAxisAngle(math.AxisX, 1)},
		},
	})
}

func addNode(s *scene.Scene, name string, parent *scene.Node, pos math.Vec3, rot math.Quat) *scene.Node {
	n := scene.NewNode(name)
	n.Position = pos
	n.Rotation = rot
	if parent != nil {
		n.SetParent(parent)
	}
	s.AddNode(n)
	return n
}

func addMesh(s *scene.Scene, name string, pos math.Vec3) *scene.Mesh {
	m := scene.NewMesh(name)
	m.Position = pos
	s.AddMesh(m)
	return m
}

// buildWatchScene builds a minimal watch model.
//
// Camera anchors sit anchorDist units from the pivot at the origin, each
// looking at it: overall from -Z, clasp from +X, face from +Y and levitate
// from +Z. viewbox_0 surrounds the clasp anchor; viewbox_1 is out of reach.
func buildWatchScene(t *testing.T, skip ...string) *scene.Scene {
	t.Helper()
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	s := scene.New(testWidth, testHeight)
	pivot := addNode(s, "camera_pivot", nil, math.Vec3{}, math.QuatIdentity())

	anchors := []struct {
		name string
		pos  math.Vec3
		rot  math.Quat
	}{
		{NodeCameraOverall, math.Vec3{Z: -anchorDist}, math.QuatIdentity()},
		{NodeCameraClasp, math.Vec3{X: anchorDist}, math.QuatFromAxisAngle(math.AxisY, -math.Pi/2)},
		{NodeCameraFace, math.Vec3{Y: anchorDist}, math.QuatFromAxisAngle(math.AxisX, math.Pi/2)},
		{NodeCameraLevitate, math.Vec3{Z: anchorDist}, math.QuatFromAxisAngle(math.AxisY, math.Pi)},
	}
	for _, a := range anchors {
		if !skipped[a.name] {
			addNode(s, a.name, pivot, a.pos, a.rot)
		}
	}

	body := addNode(s, "body", nil, math.Vec3{}, math.QuatIdentity())
	s.AddSkeleton(&scene.Skeleton{
		Name:   "watch_rig",
		Joints: []*scene.Node{scene.NewNode("root_joint"), scene.NewNode("band_joint"), body},
	})

	s.AddAnimationGroup(keyedGroup(AnimSpinUp, body, poseFrames))
	s.AddAnimationGroup(keyedGroup(AnimSpinDown, body, poseFrames))
	for _, name := range []string{AnimOrbitOverall, AnimOrbitClasp, AnimOrbitFace, AnimOrbitLevitate} {
		if !skipped[name] {
			s.AddAnimationGroup(keyedGroup(name, scene.NewNode(name+"_driver"), orbitFrames))
		}
	}

	addNode(s, "hotspot_0", nil, math.Vec3{X: 1}, math.QuatIdentity())
	addNode(s, "hotspot_1", nil, math.Vec3{Y: 1}, math.QuatIdentity())
	addNode(s, "hotspot_2", nil, math.Vec3{Z: -1}, math.QuatIdentity())
	addMesh(s, "viewbox_0", math.Vec3{X: anchorDist})
	addMesh(s, "viewbox_1", math.Vec3{X: 100})

	for _, name := range []string{"chassis", "glass", "diamond", "setting"} {
		addMesh(s, name, math.Vec3{})
	}
	for _, name := range []string{"band_0", "band_1", "glass_0", MaterialDiamondFire} {
		s.AddMaterial(&scene.Material{Name: name})
	}
	return s
}

func newTestShowroom(t *testing.T) *Showroom {
	t.Helper()
	sr, err := New(buildWatchScene(t), testConfig())
	require.NoError(t, err)
	return sr
}

func render(sr *Showroom, frames int) {
	for i := 0; i < frames; i++ {
		sr.Render()
	}
}

func requireVecNear(t *testing.T, want, got math.Vec3, eps float64) {
	t.Helper()
	require.InDelta(t, want.X, got.X, eps, "x")
	require.InDelta(t, want.Y, got.Y, eps, "y")
	require.InDelta(t, want.Z, got.Z, eps, "z")
}
