package scene

// Skeleton is an ordered list of joint nodes.
type Skeleton struct {
	Name   string
	Joints []*Node
}

// Joint returns the i-th joint, or nil when out of range.
func (s *Skeleton) Joint(i int) *Node {
	if i < 0 || i >= len(s.Joints) {
		return nil
	}
	return s.Joints[i]
}
