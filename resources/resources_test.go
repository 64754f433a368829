package resources

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "res"}
	assert.Equal(t, filepath.Join("res", "models", "cube.obj"), l.ModelPath("cube.obj"))
	assert.Equal(t, filepath.Join("res", "textures", "wood.png"), l.TexturePath("wood.png"))
	assert.Equal(t, filepath.Join("res", "shaders", "simple.vert.spv"), l.ShaderPath("simple.vert.spv"))
}
