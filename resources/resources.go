// Package resources resolves asset file names against a resources root.
package resources

import "path/filepath"

const (
	ModelsDir   = "models"
	TexturesDir = "textures"
	ShadersDir  = "shaders"
)

// Layout locates assets under Root. Callers pass bare file names.
type Layout struct {
	Root string
}

func (l Layout) ModelPath(name string) string {
	return filepath.Join(l.Root, ModelsDir, name)
}

func (l Layout) TexturePath(name string) string {
	return filepath.Join(l.Root, TexturesDir, name)
}

func (l Layout) ShaderPath(name string) string {
	return filepath.Join(l.Root, ShadersDir, name)
}
