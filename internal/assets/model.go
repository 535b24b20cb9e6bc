package assets

import (
	"github.com/Faultbox/vaporwear/internal/engine/scene"
)

// RootName names the node every imported asset hangs from.
const RootName = "__root__"

// Model is an imported asset that has not been added to a scene yet.
//
// Building a model touches no scene, so it may happen on any goroutine.
// AddTo must run on the scene's frame goroutine.
type Model struct {
	URL string

	Root       *scene.Node
	Nodes      []*scene.Node
	Meshes     []*scene.Mesh
	Materials  []*scene.Material
	Skeletons  []*scene.Skeleton
	Animations []*scene.AnimationGroup
}

// AddTo registers every part of the model with s. Meshes register their
// own nodes.
func (m *Model) AddTo(s *scene.Scene) {
	s.AddNode(m.Root)

	meshNodes := make(map[*scene.Node]bool, len(m.Meshes))
	for _, mesh := range m.Meshes {
		meshNodes[mesh.Node] = true
		s.AddMesh(mesh)
	}
	for _, n := range m.Nodes {
		if !meshNodes[n] {
			s.AddNode(n)
		}
	}
	for _, mat := range m.Materials {
		s.AddMaterial(mat)
	}
	for _, sk := range m.Skeletons {
		s.AddSkeleton(sk)
	}
	for _, g := range m.Animations {
		s.AddAnimationGroup(g)
	}
}

// Mesh returns the first mesh with the given name.
func (m *Model) Mesh(name string) (*scene.Mesh, bool) {
	for _, mesh := range m.Meshes {
		if mesh.Name == name {
			return mesh, true
		}
	}
	return nil, false
}

// Node returns the first node with the given name.
func (m *Model) Node(name string) (*scene.Node, bool) {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
