package scene

import (
	"github.com/chewxy/math32"
	"github.com/dskgfx/dsk/internal/glm"
)

// Transform places an object in the world. Rotation holds Euler angles in
// radians, composed as Y * X * Z (yaw, then pitch, then roll). Matrices are
// recomputed on every call.
type Transform struct {
	Translation glm.Vec3[float32]
	Rotation    glm.Vec3[float32]
	Scale       glm.Vec3[float32]
}

func NewTransform() Transform {
	return Transform{Scale: glm.Vec3[float32]{1, 1, 1}}
}

// rotation returns the columns of the Y*X*Z rotation matrix.
func (t Transform) rotation() (col0, col1, col2 glm.Vec3[float32]) {
	s3, c3 := math32.Sincos(t.Rotation[2])
	s2, c2 := math32.Sincos(t.Rotation[0])
	s1, c1 := math32.Sincos(t.Rotation[1])

	col0 = glm.Vec3[float32]{c1*c3 + s1*s2*s3, c2 * s3, c1*s2*s3 - c3*s1}
	col1 = glm.Vec3[float32]{c3*s1*s2 - c1*s3, c2 * c3, c1*c3*s2 + s1*s3}
	col2 = glm.Vec3[float32]{c2 * s1, -s2, c1 * c2}
	return col0, col1, col2
}

// Mat4 returns translate * Ry * Rx * Rz * scale.
func (t Transform) Mat4() glm.Mat4[float32] {
	c0, c1, c2 := t.rotation()
	return glm.Mat4FromCols(
		c0.MulScalar(t.Scale[0]).Vec4(0),
		c1.MulScalar(t.Scale[1]).Vec4(0),
		c2.MulScalar(t.Scale[2]).Vec4(0),
		t.Translation.Vec4(1),
	)
}

// NormalMatrix returns the rotation with each column divided by the
// matching scale component. This equals the inverse transpose of the
// model matrix's upper 3x3 only for uniform scale; under non-uniform
// scale the normals come out skewed.
func (t Transform) NormalMatrix() glm.Mat3[float32] {
	c0, c1, c2 := t.rotation()
	inv := t.Scale.Inverse()
	return glm.Mat3FromCols(
		c0.MulScalar(inv[0]),
		c1.MulScalar(inv[1]),
		c2.MulScalar(inv[2]),
	)
}
