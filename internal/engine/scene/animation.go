package scene

import (
	"github.com/Faultbox/vaporwear/pkg/math"
)

// FramesPerSecond is the frame rate animation keys are authored at.
const FramesPerSecond = 60

// Vec3Key is a position or scale keyframe.
type Vec3Key struct {
	Frame float32
	Value math.Vec3
}

// QuatKey is a rotation keyframe.
type QuatKey struct {
	Frame float32
	Value math.Quat
}

// Track animates the local transform of one node. Keys must be sorted by
// frame. Empty channels leave the corresponding property untouched.
type Track struct {
	Node      *Node
	Positions []Vec3Key
	Rotations []QuatKey
	Scales    []Vec3Key
}

// apply samples the track at frame and writes the result to the node.
func (t *Track) apply(frame float32) {
	if t.Node == nil {
		return
	}
	if len(t.Positions) > 0 {
		t.Node.Position = interpolateVec3Keys(t.Positions, frame)
	}
	if len(t.Rotations) > 0 {
		t.Node.Rotation = interpolateQuatKeys(t.Rotations, frame)
	}
	if len(t.Scales) > 0 {
		t.Node.Scaling = interpolateVec3Keys(t.Scales, frame)
	}
}

// surroundingKeys finds the keys around frame. prev == next means frame is
// at or outside the keyed range.
func surroundingKeys(n int, frameAt func(int) float32, frame float32) (prev, next int) {
	for i := 0; i < n; i++ {
		if frameAt(i) > frame {
			next = i
			return prev, next
		}
		prev = i
		next = i
	}
	return prev, next
}

func interpolateVec3Keys(keys []Vec3Key, frame float32) math.Vec3 {
	if len(keys) == 1 || frame <= keys[0].Frame {
		return keys[0].Value
	}
	prev, next := surroundingKeys(len(keys), func(i int) float32 { return keys[i].Frame }, frame)
	if prev == next {
		return keys[prev].Value
	}

	k0, k1 := keys[prev], keys[next]
	t := float32(0)
	if k1.Frame != k0.Frame {
		t = (frame - k0.Frame) / (k1.Frame - k0.Frame)
	}
	return math.LerpVec3(k0.Value, k1.Value, t)
}

func interpolateQuatKeys(keys []QuatKey, frame float32) math.Quat {
	if len(keys) == 1 || frame <= keys[0].Frame {
		return keys[0].Value
	}
	prev, next := surroundingKeys(len(keys), func(i int) float32 { return keys[i].Frame }, frame)
	if prev == next {
		return keys[prev].Value
	}

	k0, k1 := keys[prev], keys[next]
	t := float32(0)
	if k1.Frame != k0.Frame {
		t = (frame - k0.Frame) / (k1.Frame - k0.Frame)
	}
	return k0.Value.Slerp(k1.Value, t)
}

// AnimationGroup plays a set of tracks together over a shared frame range.
type AnimationGroup struct {
	Name   string
	Tracks []*Track

	// SpeedRatio scales every playback speed.
	SpeedRatio float32

	first, last float32

	from, to float32
	frame    float32
	speed    float32
	loop     bool
	playing  bool

	onEnd []func()
}

// NewAnimationGroup creates a stopped group. The natural frame range is
// derived from the tracks' keys.
func NewAnimationGroup(name string, tracks ...*Track) *AnimationGroup {
	g := &AnimationGroup{Name: name, SpeedRatio: 1}
	for _, t := range tracks {
		g.AddTrack(t)
	}
	return g
}

// AddTrack appends a track and widens the frame range to cover its keys.
func (g *AnimationGroup) AddTrack(t *Track) {
	first := len(g.Tracks) == 0
	g.Tracks = append(g.Tracks, t)

	widen := func(f float32) {
		if first {
			g.first, g.last = f, f
			first = false
			return
		}
		if f < g.first {
			g.first = f
		}
		if f > g.last {
			g.last = f
		}
	}
	for _, k := range t.Positions {
		widen(k.Frame)
	}
	for _, k := range t.Rotations {
		widen(k.Frame)
	}
	for _, k := range t.Scales {
		widen(k.Frame)
	}
}

// FirstFrame returns the first keyed frame.
func (g *AnimationGroup) FirstFrame() float32 { return g.first }

// LastFrame returns the last keyed frame.
func (g *AnimationGroup) LastFrame() float32 { return g.last }

// Frame returns the current playhead.
func (g *AnimationGroup) Frame() float32 { return g.frame }

// IsPlaying reports whether the group advances with the scene.
func (g *AnimationGroup) IsPlaying() bool { return g.playing }

// IsLooping reports whether the group was started with looping.
func (g *AnimationGroup) IsLooping() bool { return g.loop }

// Progress returns the playhead position over the natural frame range,
// clamped to [0, 1].
func (g *AnimationGroup) Progress() float32 {
	span := g.last - g.first
	if span <= 0 {
		if g.frame >= g.last {
			return 1
		}
		return 0
	}
	p := (g.frame - g.first) / span
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Play plays the full range from the start. Playing a group that is
// already playing keeps its playhead and only updates looping.
func (g *AnimationGroup) Play(loop bool) {
	if g.playing {
		g.loop = loop
		return
	}
	g.Start(loop, 1, g.first, g.last)
}

// Start plays the range [from, to] at speed, beginning at from.
func (g *AnimationGroup) Start(loop bool, speed, from, to float32) {
	g.from, g.to = from, to
	g.speed = speed
	g.loop = loop
	g.playing = true
	g.seek(from)
}

// Stop halts playback. Pending end callbacks are discarded, not fired.
func (g *AnimationGroup) Stop() {
	g.playing = false
	g.onEnd = nil
}

// GoToFrame moves the playhead and applies the pose at that frame.
func (g *AnimationGroup) GoToFrame(frame float32) {
	g.seek(frame)
}

// OnEnd registers a one-shot callback fired when a non-looping playback
// reaches its end.
func (g *AnimationGroup) OnEnd(fn func()) {
	g.onEnd = append(g.onEnd, fn)
}

// Advance moves the playhead by frames scaled by the playback speed.
func (g *AnimationGroup) Advance(frames float32) {
	if !g.playing {
		return
	}

	next := g.frame + frames*g.speed*g.SpeedRatio
	if next < g.to {
		g.seek(next)
		return
	}

	if g.loop {
		span := g.to - g.from
		if span <= 0 {
			g.seek(g.from)
			return
		}
		for next >= g.to {
			next -= span
		}
		g.seek(next)
		return
	}

	g.seek(g.to)
	g.playing = false
	callbacks := g.onEnd
	g.onEnd = nil
	for _, cb := range callbacks {
		cb()
	}
}

func (g *AnimationGroup) seek(frame float32) {
	g.frame = frame
	for _, t := range g.Tracks {
		t.apply(frame)
	}
}
