package scene

import (
	"github.com/Faultbox/vaporwear/pkg/math"
)

// Node is a transform in the scene graph.
//
// Position, Rotation and Scaling are local to the parent. World values are
// derived on demand, so a node is always consistent with its ancestors.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scaling  math.Vec3

	enabled  bool
	parent   *Node
	children []*Node
}

// NewNode creates an enabled node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scaling:  math.Vec3{X: 1, Y: 1, Z: 1},
		enabled:  true,
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// SetParent attaches n to parent, keeping its local transform.
// A nil parent detaches the node.
func (n *Node) SetParent(parent *Node) {
	if n.parent == parent {
		return
	}
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
}

// SetEnabled toggles the node and, implicitly, its subtree.
func (n *Node) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled reports whether the node and all of its ancestors are enabled.
func (n *Node) IsEnabled() bool {
	for p := n; p != nil; p = p.parent {
		if !p.enabled {
			return false
		}
	}
	return true
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scaling)
}

// WorldMatrix returns the node's transform in world space.
func (n *Node) WorldMatrix() math.Mat4 {
	local := n.LocalMatrix()
	if n.parent == nil {
		return local
	}
	return n.parent.WorldMatrix().Mul(local)
}

// AbsolutePosition returns the world-space position.
func (n *Node) AbsolutePosition() math.Vec3 {
	return n.WorldMatrix().Translation()
}

// AbsoluteRotation returns the world-space orientation.
func (n *Node) AbsoluteRotation() math.Quat {
	if n.parent == nil {
		return n.Rotation.Normalize()
	}
	return math.QuatFromMat4(n.WorldMatrix())
}

// Forward returns the world-space direction of local +Z.
func (n *Node) Forward() math.Vec3 {
	return n.WorldMatrix().Column(2).Normalize()
}

// Up returns the world-space direction of local +Y.
func (n *Node) Up() math.Vec3 {
	return n.WorldMatrix().Column(1).Normalize()
}

// Right returns the world-space direction of local +X.
func (n *Node) Right() math.Vec3 {
	return n.WorldMatrix().Column(0).Normalize()
}

// RotateLocal rotates the node about one of its own axes.
func (n *Node) RotateLocal(axis math.Vec3, angle float32) {
	n.Rotation = n.Rotation.Mul(math.QuatFromAxisAngle(axis.Normalize(), angle)).Normalize()
}

// SetWorldPose moves the node so that its world position and orientation
// match the given pose. Local scaling is preserved.
func (n *Node) SetWorldPose(position math.Vec3, rotation math.Quat) {
	if n.parent == nil {
		n.Position = position
		n.Rotation = rotation.Normalize()
		return
	}
	world := math.Compose(position, rotation, n.Scaling)
	local := n.parent.WorldMatrix().Inverse().Mul(world)
	n.Position, n.Rotation, _ = local.Decompose()
}
