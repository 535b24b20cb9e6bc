package math

import "math"

// Pi as float32.
const Pi = float32(math.Pi)

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// NormalizeAngle folds an accumulated angle into (-Pi, Pi].
//
// The magnitude is reduced modulo 2*Pi with the sign reapplied afterwards,
// then the value is wrapped into the canonical half-open range. Orbit angles
// must go through this before they are swept, otherwise a sweep between
// accumulated angles spins the long way around.
func NormalizeAngle(angle float32) float32 {
	a := float64(angle)
	sign := 1.0
	if a < 0 {
		sign = -1.0
	}
	a = sign * math.Mod(math.Abs(a), 2*math.Pi)

	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}

	r := float32(a)
	// float32 rounding can land exactly on -Pi.
	if r <= -float32(math.Pi) {
		r = float32(math.Pi)
	}
	return r
}
