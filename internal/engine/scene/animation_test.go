package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/vaporwear/pkg/math"
)

func linearGroup(name string, node *Node, last float32) *AnimationGroup {
	return NewAnimationGroup(name, &Track{
		Node: node,
		Positions: []Vec3Key{
			{Frame: 0, Value: math.Vec3{}},
			{Frame: last, Value: math.Vec3{X: last}},
		},
	})
}

func TestAnimationGroupRange(t *testing.T) {
	g := linearGroup("watch_spin-up", NewNode("body"), 30)
	assert.Equal(t, float32(0), g.FirstFrame())
	assert.Equal(t, float32(30), g.LastFrame())
	assert.False(t, g.IsPlaying())
}

func TestAnimationGroupPlaysToEndOnce(t *testing.T) {
	node := NewNode("body")
	g := linearGroup("watch_spin-down", node, 10)

	ended := 0
	g.Play(false)
	g.OnEnd(func() { ended++ })

	for i := 0; i < 9; i++ {
		g.Advance(1)
	}
	assert.True(t, g.IsPlaying())
	assert.InDelta(t, 9, node.Position.X, 1e-5)

	g.Advance(1)
	g.Advance(1)
	assert.False(t, g.IsPlaying())
	assert.Equal(t, 1, ended)
	assert.InDelta(t, 1, g.Progress(), 1e-6)
	assert.InDelta(t, 10, node.Position.X, 1e-5)
}

func TestAnimationGroupLoops(t *testing.T) {
	node := NewNode("orbit")
	g := linearGroup("orbit_overall", node, 10)
	g.Play(true)

	for i := 0; i < 13; i++ {
		g.Advance(1)
	}
	assert.True(t, g.IsPlaying())
	assert.InDelta(t, 3, g.Frame(), 1e-5)
}

func TestAnimationGroupSpeedRatio(t *testing.T) {
	g := linearGroup("watch_spin-up", NewNode("body"), 10)
	g.SpeedRatio = 0.5
	g.Play(false)
	g.Advance(4)
	assert.InDelta(t, 2, g.Frame(), 1e-5)
}

func TestAnimationGroupStopDiscardsEnd(t *testing.T) {
	g := linearGroup("watch_spin-up", NewNode("body"), 10)
	fired := false
	g.Play(false)
	g.OnEnd(func() { fired = true })
	g.Stop()

	g.Start(false, 1, 8, 10)
	g.Advance(5)
	assert.False(t, fired)
	assert.False(t, g.IsPlaying())
}

func TestAnimationGroupPlayKeepsPlayhead(t *testing.T) {
	g := linearGroup("orbit_clasp", NewNode("orbit"), 10)
	g.Play(true)
	g.Advance(4)
	g.Play(true)
	assert.InDelta(t, 4, g.Frame(), 1e-5)
}

func TestAnimationGroupStartMidRange(t *testing.T) {
	g := linearGroup("watch_spin-up", NewNode("body"), 10)
	g.Start(false, 1, 6, g.LastFrame())
	assert.InDelta(t, 0.6, g.Progress(), 1e-6)
}

func TestSceneAdvancesPlayingGroups(t *testing.T) {
	s := New(800, 600)
	node := NewNode("orbit")
	g := linearGroup("orbit_overall", node, 10)
	s.AddAnimationGroup(g)
	g.Play(true)

	s.Render()
	s.Render()
	assert.InDelta(t, 2, g.Frame(), 1e-5)
}
