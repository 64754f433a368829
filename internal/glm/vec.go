package glm

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Vec2[T constraints.Float] [2]T

type Vec3[T constraints.Float] [3]T

type Vec4[T constraints.Float] [4]T

func DegToRad[T constraints.Float](deg T) T {
	return deg * T(math.Pi) / 180
}

func (v Vec3[T]) X() T { return v[0] }
func (v Vec3[T]) Y() T { return v[1] }
func (v Vec3[T]) Z() T { return v[2] }

func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3[T]) MulScalar(s T) Vec3[T] {
	return Vec3[T]{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3[T]) Dot(o Vec3[T]) T {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3[T]) Magnitude() T {
	return T(math.Sqrt(float64(v.Dot(v))))
}

func (v Vec3[T]) Normalize() Vec3[T] {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.MulScalar(1 / m)
}

// Inverse returns the component-wise reciprocal.
func (v Vec3[T]) Inverse() Vec3[T] {
	return Vec3[T]{1 / v[0], 1 / v[1], 1 / v[2]}
}

func (v Vec3[T]) Vec4(w T) Vec4[T] {
	return Vec4[T]{v[0], v[1], v[2], w}
}
