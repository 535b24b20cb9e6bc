// Package math provides vector, quaternion and matrix types for the showroom engine.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Common axes.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}
)

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp returns the linear interpolation from v to other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return LerpVec3(v, other, t)
}

// LerpVec3 performs linear interpolation between two 3D vectors.
// The result is (1-t)*a + t*b so both endpoints are reproduced exactly.
func LerpVec3(a, b Vec3, t float32) Vec3 {
	return Vec3{
		(1-t)*a.X + t*b.X,
		(1-t)*a.Y + t*b.Y,
		(1-t)*a.Z + t*b.Z,
	}
}

// SlerpVec3 spherically interpolates between two directions.
// Inputs are normalized; nearly parallel directions fall back to a normalized lerp.
func SlerpVec3(a, b Vec3, t float32) Vec3 {
	a = a.Normalize()
	b = b.Normalize()

	dot := float64(a.Dot(b))
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	if sinTheta < 1e-6 {
		return LerpVec3(a, b, t).Normalize()
	}

	wa := float32(math.Sin((1-float64(t))*theta) / sinTheta)
	wb := float32(math.Sin(float64(t)*theta) / sinTheta)
	return a.Scale(wa).Add(b.Scale(wb))
}

// AnyPerpendicular returns a unit vector perpendicular to v.
func (v Vec3) AnyPerpendicular() Vec3 {
	axis := AxisX
	if abs32(v.X) > 0.9*v.Length() {
		axis = AxisY
	}
	return v.Cross(axis).Normalize()
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
