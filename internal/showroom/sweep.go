package showroom

import (
	"github.com/Faultbox/vaporwear/internal/engine/scene"
)

// Interpolate returns (1-t)*start + t*end with t = frame/frames.
// A non-positive frame count yields end.
func Interpolate(start, end float32, frame, frames int) float32 {
	if frames <= 0 {
		return end
	}
	t := float32(frame) / float32(frames)
	return (1-t)*start + t*end
}

// Sweep moves a set of scalars from start to end over a fixed number of
// frames, calling apply with the interpolated values once per frame for
// frames 0 through N inclusive.
//
// A sweep is a scene task. Cancel stops it and resolves its future with
// scene.ErrSuperseded.
type Sweep struct {
	start  []float32
	end    []float32
	values []float32
	frames int
	frame  int
	apply  func(values []float32)
	done   *scene.Future
}

// NewSweep creates a sweep. start and end must have the same length.
func NewSweep(start, end []float32, frames int, apply func(values []float32)) *Sweep {
	if frames < 0 {
		frames = 0
	}
	return &Sweep{
		start:  append([]float32(nil), start...),
		end:    append([]float32(nil), end...),
		values: make([]float32, len(start)),
		frames: frames,
		apply:  apply,
		done:   scene.NewFuture(),
	}
}

// Done returns the future resolved when the sweep finishes or is cancelled.
func (s *Sweep) Done() *scene.Future {
	return s.done
}

// Step applies the next frame.
func (s *Sweep) Step() bool {
	if s.done.Done() {
		return true
	}

	for i := range s.values {
		s.values[i] = Interpolate(s.start[i], s.end[i], s.frame, s.frames)
	}
	s.apply(s.values)

	s.frame++
	if s.frame > s.frames {
		s.done.Resolve(nil)
		return true
	}
	return false
}

// Cancel abandons the sweep where it is.
func (s *Sweep) Cancel() {
	s.done.Resolve(scene.ErrSuperseded)
}
