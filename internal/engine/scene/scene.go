// Package scene provides a retained-mode scene graph with a per-frame task
// scheduler, keyframe animation groups and named lookups.
//
// A scene is owned by a single frame goroutine. Other goroutines hand work
// to it through Post.
package scene

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Camera is anything the scene can render through.
type Camera interface {
	Name() string
	WorldMatrix() math.Mat4
	ViewMatrix() math.Mat4
	ProjectionMatrix(aspect float32) math.Mat4
	Viewport() math.Viewport
}

// Renderer draws a scene at the end of each frame.
type Renderer interface {
	Draw(s *Scene)
}

// Scene holds every node, mesh, material and animation of a showroom.
type Scene struct {
	// EnvironmentTexture is an opaque texture URL.
	EnvironmentTexture string

	nodes     []*Node
	meshes    []*Mesh
	materials []*Material
	groups    []*AnimationGroup
	skeletons []*Skeleton
	cameras   []Camera
	active    Camera
	renderer  Renderer
	width     int
	height    int
	frame     uint64

	tasks   []Task
	pending []Task

	mu     sync.Mutex
	posted []func()

	log *zap.Logger
}

// New creates an empty scene with the given render size.
func New(width, height int) *Scene {
	return &Scene{
		width:  width,
		height: height,
		log:    logger.Named("scene"),
	}
}

// AddNode registers a transform node.
func (s *Scene) AddNode(n *Node) {
	s.nodes = append(s.nodes, n)
}

// AddMesh registers a mesh and its node.
func (s *Scene) AddMesh(m *Mesh) {
	s.meshes = append(s.meshes, m)
	s.nodes = append(s.nodes, m.Node)
}

// AddMaterial registers a material.
func (s *Scene) AddMaterial(m *Material) {
	s.materials = append(s.materials, m)
}

// AddAnimationGroup registers an animation group.
func (s *Scene) AddAnimationGroup(g *AnimationGroup) {
	s.groups = append(s.groups, g)
}

// AddSkeleton registers a skeleton.
func (s *Scene) AddSkeleton(sk *Skeleton) {
	s.skeletons = append(s.skeletons, sk)
}

// AddCamera registers a camera. The first camera becomes active.
func (s *Scene) AddCamera(c Camera) {
	s.cameras = append(s.cameras, c)
	if s.active == nil {
		s.active = c
	}
}

// Node returns the first node with the given name.
func (s *Scene) Node(name string) (*Node, error) {
	for _, n := range s.nodes {
		if n.Name == name {
			return n, nil
		}
	}
	return nil, fmt.Errorf("node %q: %w", name, ErrNotFound)
}

// Mesh returns the first mesh with the given name.
func (s *Scene) Mesh(name string) (*Mesh, error) {
	for _, m := range s.meshes {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("mesh %q: %w", name, ErrNotFound)
}

// Material returns the first material with the given name.
func (s *Scene) Material(name string) (*Material, error) {
	for _, m := range s.materials {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("material %q: %w", name, ErrNotFound)
}

// AnimationGroup returns the first animation group with the given name.
func (s *Scene) AnimationGroup(name string) (*AnimationGroup, error) {
	for _, g := range s.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("animation group %q: %w", name, ErrNotFound)
}

// Skeleton returns the i-th registered skeleton.
func (s *Scene) Skeleton(i int) (*Skeleton, error) {
	if i < 0 || i >= len(s.skeletons) {
		return nil, fmt.Errorf("skeleton %d: %w", i, ErrNotFound)
	}
	return s.skeletons[i], nil
}

// Nodes returns every registered node.
func (s *Scene) Nodes() []*Node { return s.nodes }

// Meshes returns every registered mesh.
func (s *Scene) Meshes() []*Mesh { return s.meshes }

// Materials returns every registered material.
func (s *Scene) Materials() []*Material { return s.materials }

// AnimationGroups returns every registered animation group.
func (s *Scene) AnimationGroups() []*AnimationGroup { return s.groups }

// ActiveCamera returns the camera the scene renders through.
func (s *Scene) ActiveCamera() Camera {
	return s.active
}

// SetActiveCamera switches the rendering camera.
func (s *Scene) SetActiveCamera(c Camera) {
	if s.active != c {
		s.log.Debug("active camera changed", zap.String("camera", c.Name()))
	}
	s.active = c
}

// SetActiveCameraByName switches to a registered camera.
func (s *Scene) SetActiveCameraByName(name string) error {
	for _, c := range s.cameras {
		if c.Name() == name {
			s.SetActiveCamera(c)
			return nil
		}
	}
	return fmt.Errorf("camera %q: %w", name, ErrNotFound)
}

// SetRenderer installs the renderer called at the end of each frame.
func (s *Scene) SetRenderer(r Renderer) {
	s.renderer = r
}

// Resize updates the render size.
func (s *Scene) Resize(width, height int) {
	s.width = width
	s.height = height
}

// RenderWidth returns the render width in pixels.
func (s *Scene) RenderWidth() int { return s.width }

// RenderHeight returns the render height in pixels.
func (s *Scene) RenderHeight() int { return s.height }

// Aspect returns width / height.
func (s *Scene) Aspect() float32 {
	if s.height == 0 {
		return 1
	}
	return float32(s.width) / float32(s.height)
}

// ViewProjection returns the active camera's combined matrix.
func (s *Scene) ViewProjection() math.Mat4 {
	if s.active == nil {
		return math.Identity()
	}
	return s.active.ProjectionMatrix(s.Aspect()).Mul(s.active.ViewMatrix())
}

// Project maps a world position to pixel coordinates through the active
// camera.
func (s *Scene) Project(p math.Vec3) math.Vec2 {
	vp := math.FullViewport
	if s.active != nil {
		vp = s.active.Viewport()
	}
	out := math.Project(p, s.ViewProjection(), vp, float32(s.width), float32(s.height))
	return math.Vec2{X: out.X, Y: out.Y}
}

// Frame returns the number of frames rendered so far.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// Run schedules a task. Its first step happens on the next frame, after
// every task scheduled before it.
func (s *Scene) Run(t Task) {
	s.pending = append(s.pending, t)
}

// RunFunc schedules a function as a task.
func (s *Scene) RunFunc(fn func() bool) {
	s.Run(TaskFunc(fn))
}

// OnBeforeRender calls fn once per frame until the returned remove
// function is called.
func (s *Scene) OnBeforeRender(fn func()) (remove func()) {
	o := &observer{fn: fn}
	s.Run(o)
	return func() { o.removed = true }
}

// Post queues fn to run on the frame goroutine at the start of the next
// frame. It is safe to call from any goroutine.
func (s *Scene) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Render advances the scene by one frame.
//
// Order: posted work, animations, tasks in registration order, renderer.
func (s *Scene) Render() {
	s.drainPosted()
	s.advanceAnimations()
	s.stepTasks()

	if s.renderer != nil {
		s.renderer.Draw(s)
	}
	s.frame++
}

func (s *Scene) drainPosted() {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

func (s *Scene) advanceAnimations() {
	playing := make([]*AnimationGroup, 0, len(s.groups))
	for _, g := range s.groups {
		if g.IsPlaying() {
			playing = append(playing, g)
		}
	}
	for _, g := range playing {
		g.Advance(1)
	}
}

func (s *Scene) stepTasks() {
	s.tasks = append(s.tasks, s.pending...)
	s.pending = nil

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Step() {
			live = append(live, t)
		}
	}
	// Clear the tail so finished tasks can be collected.
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
