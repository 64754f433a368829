package glm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul4Identity(t *testing.T) {
	m := Mat4FromTranslation(Vec3[float32]{1, 2, 3})
	assert.Equal(t, m, Mat4Identity[float32]().Mul4(m))
	assert.Equal(t, m, m.Mul4(Mat4Identity[float32]()))
}

func TestMulVec4Translation(t *testing.T) {
	m := Mat4FromTranslation(Vec3[float32]{1, 2, 3})
	assert.Equal(t, Vec4[float32]{2, 3, 4, 1}, m.MulVec4(Vec4[float32]{1, 1, 1, 1}))
}

func TestMat3Widen(t *testing.T) {
	m := Mat3FromCols(Vec3[float32]{1, 2, 3}, Vec3[float32]{4, 5, 6}, Vec3[float32]{7, 8, 9})
	w := m.Mat4()
	assert.Equal(t, Vec4[float32]{1, 2, 3, 0}, w.Col(0))
	assert.Equal(t, Vec4[float32]{7, 8, 9, 0}, w.Col(2))
	assert.Equal(t, Vec4[float32]{0, 0, 0, 1}, w.Col(3))
	assert.Equal(t, float32(4), m.At(0, 1))
}

func TestLookAtRH(t *testing.T) {
	view := LookAtRH(Vec3[float32]{0, 0, 5}, Vec3[float32]{}, Vec3[float32]{0, 1, 0})
	p := view.MulVec4(Vec4[float32]{0, 0, 0, 1})
	assert.InDelta(t, -5, p[2], 1e-6)
}

func TestVec3(t *testing.T) {
	x := Vec3[float32]{1, 0, 0}
	y := Vec3[float32]{0, 1, 0}
	assert.Equal(t, Vec3[float32]{0, 0, 1}, x.Cross(y))
	assert.InDelta(t, 1, Vec3[float32]{3, 4, 0}.Normalize().Magnitude(), 1e-6)
	assert.Equal(t, Vec3[float32]{0.5, 1, 0.25}, Vec3[float32]{2, 1, 4}.Inverse())
	assert.InDelta(t, 3.14159265/2, DegToRad[float32](90), 1e-6)
}
