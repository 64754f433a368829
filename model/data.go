package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/internal/dedup"
	"github.com/dskgfx/dsk/internal/objloader"
)

// Data is CPU-side mesh geometry. Vertices holds no duplicates and every
// index is below len(Vertices).
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// LoadError reports a model file the parser rejected. Msg is the parser's
// warning text followed by its error text.
type LoadError struct {
	Path string
	Msg  string
	err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("model: load %s: %s", e.Path, e.Msg)
}

func (e *LoadError) Unwrap() error { return e.err }

// LoadModel replaces d's contents with the deduplicated geometry of the OBJ
// file at path.
func (d *Data) LoadModel(path string) error {
	err := d.LoadModelFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		loadErr.Path = path
	}
	return err
}

// LoadModelFS is LoadModel reading name from fsys.
func (d *Data) LoadModelFS(fsys fs.FS, name string) error {
	res, err := objloader.LoadObj(fsys, name)
	if err != nil {
		return &LoadError{Path: name, Msg: err.Error(), err: err}
	}
	if res.Warn != "" {
		gpu.Logger().Warn("model file warnings", "path", name, "warn", res.Warn)
	}

	d.Vertices = d.Vertices[:0]
	d.Indices = d.Indices[:0]

	attrib := &res.Attrib
	unique := dedup.New[Vertex](VertexHasher{})
	for _, shape := range res.Shapes {
		for _, index := range shape.Indices {
			var vertex Vertex

			if index.VertexIndex >= 0 {
				vi := 3 * index.VertexIndex
				vertex.Position = [3]float32{attrib.Vertices[vi], attrib.Vertices[vi+1], attrib.Vertices[vi+2]}
				vertex.Color = [3]float32{attrib.Colors[vi], attrib.Colors[vi+1], attrib.Colors[vi+2]}
			}

			if index.NormalIndex >= 0 {
				ni := 3 * index.NormalIndex
				vertex.Normal = [3]float32{attrib.Normals[ni], attrib.Normals[ni+1], attrib.Normals[ni+2]}
			}

			if index.TexcoordIndex >= 0 {
				ti := 2 * index.TexcoordIndex
				// texture origin is top-left
				vertex.UV = [2]float32{attrib.Texcoords[ti], 1 - attrib.Texcoords[ti+1]}
			}

			idx := unique.Insert(vertex, uint32(len(d.Vertices)))
			if int(idx) == len(d.Vertices) {
				d.Vertices = append(d.Vertices, vertex)
			}
			d.Indices = append(d.Indices, idx)
		}
	}

	gpu.Logger().Debug("model parsed", "path", name, "vertices", len(d.Vertices), "indices", len(d.Indices))
	return nil
}
