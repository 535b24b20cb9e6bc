// Package showroom drives the watch showroom: the tracking camera rig, the
// orbit camera used while configuring, the watch pose and orbit animations,
// and the screen-space hotspots.
//
// Everything here runs on the scene's frame goroutine. Per-frame work is
// expressed as scene tasks that hold their own progress.
package showroom

import "strings"

// State is a named viewing state.
type State int

// Viewing states.
const (
	Overall State = iota
	Clasp
	Face
	Levitate
	Configure
)

var stateNames = [...]string{
	Overall:   "overall",
	Clasp:     "clasp",
	Face:      "face",
	Levitate:  "levitate",
	Configure: "configure",
}

// String returns the lower-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ParseState looks up a state by name, case-insensitively.
func ParseState(name string) (State, bool) {
	name = strings.ToLower(name)
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return 0, false
}

// Pose is the watch's articulated pose.
type Pose int

// Watch poses.
const (
	PoseUp Pose = iota
	PoseDown
	PoseAnimating
)

func (p Pose) String() string {
	switch p {
	case PoseUp:
		return "up"
	case PoseDown:
		return "down"
	case PoseAnimating:
		return "animating"
	}
	return "unknown"
}

// poseFor returns the resting pose a state requires.
func poseFor(s State) Pose {
	if s == Levitate {
		return PoseDown
	}
	return PoseUp
}
