package glm

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Mat3 is a column-major 3x3 matrix.
type Mat3[T constraints.Float] [9]T

// Mat4 is a column-major 4x4 matrix, laid out the way shaders read it.
type Mat4[T constraints.Float] [16]T

func Mat3FromCols[T constraints.Float](c0, c1, c2 Vec3[T]) Mat3[T] {
	return Mat3[T]{
		c0[0], c0[1], c0[2],
		c1[0], c1[1], c1[2],
		c2[0], c2[1], c2[2],
	}
}

func (m Mat3[T]) Col(i int) Vec3[T] {
	return Vec3[T]{m[i*3], m[i*3+1], m[i*3+2]}
}

func (m Mat3[T]) At(row, col int) T {
	return m[col*3+row]
}

// Mat4 widens m to a 4x4 matrix with an identity fourth row and column,
// matching the std140 layout of a mat3 padded to vec4 columns.
func (m Mat3[T]) Mat4() Mat4[T] {
	return Mat4FromCols(
		m.Col(0).Vec4(0),
		m.Col(1).Vec4(0),
		m.Col(2).Vec4(0),
		Vec4[T]{0, 0, 0, 1},
	)
}

func Mat4Identity[T constraints.Float]() Mat4[T] {
	return Mat4[T]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Mat4FromCols[T constraints.Float](c0, c1, c2, c3 Vec4[T]) Mat4[T] {
	return Mat4[T]{
		c0[0], c0[1], c0[2], c0[3],
		c1[0], c1[1], c1[2], c1[3],
		c2[0], c2[1], c2[2], c2[3],
		c3[0], c3[1], c3[2], c3[3],
	}
}

func Mat4FromTranslation[T constraints.Float](v Vec3[T]) Mat4[T] {
	m := Mat4Identity[T]()
	m[12], m[13], m[14] = v[0], v[1], v[2]
	return m
}

func (m Mat4[T]) Col(i int) Vec4[T] {
	return Vec4[T]{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

func (m Mat4[T]) At(row, col int) T {
	return m[col*4+row]
}

// Mul4 returns m * o.
func (m Mat4[T]) Mul4(o Mat4[T]) Mat4[T] {
	var r Mat4[T]
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum T
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

func (m Mat4[T]) MulVec4(v Vec4[T]) Vec4[T] {
	var r Vec4[T]
	for row := 0; row < 4; row++ {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}

// LookAtRH builds a right-handed view matrix.
func LookAtRH[T constraints.Float](eye, target, up Vec3[T]) Mat4[T] {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4[T]{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-eye.Dot(s), -eye.Dot(u), eye.Dot(f), 1,
	}
}

// Perspective builds a right-handed projection with depth mapped to [0, 1].
func Perspective[T constraints.Float](fovYRad, aspect, znear, zfar T) Mat4[T] {
	tanHalf := T(math.Tan(float64(fovYRad) / 2))

	var m Mat4[T]
	m[0] = 1 / (aspect * tanHalf)
	m[5] = 1 / tanHalf
	m[10] = zfar / (znear - zfar)
	m[11] = -1
	m[14] = -(zfar * znear) / (zfar - znear)
	return m
}
