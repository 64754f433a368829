package objloader

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// Attrib holds the flat attribute arrays shared by every shape of a file.
// Vertices, Colors and Normals hold three floats per element, Texcoords two.
// Colors always has one entry per vertex; vertices declared without a color
// are white.
type Attrib struct {
	Vertices  []float32
	Colors    []float32
	Normals   []float32
	Texcoords []float32
}

// Index refers into the Attrib arrays. A component is -1 when the face
// element did not reference it.
type Index struct {
	VertexIndex   int
	NormalIndex   int
	TexcoordIndex int
}

// Shape is a triangulated group of faces; Indices holds three entries per
// face and MaterialIDs one per face (-1 for none).
type Shape struct {
	Name        string
	Indices     []Index
	MaterialIDs []int
}

type Material struct {
	Name              string
	Ambient           [3]float32
	Diffuse           [3]float32
	Specular          [3]float32
	Shininess         float32
	Dissolve          float32
	OpticalDensity    float32
	AmbientTexture    string
	DiffuseTexture    string
	SpecularTexture   string
	NormalTexture     string
	ShininessTexture  string
	DissolveTexture   string
	IlluminationModel uint8
}

type Result struct {
	Attrib    Attrib
	Shapes    []Shape
	Materials []Material
	// Warn collects diagnostics that did not fail the load.
	Warn string
}

// Error is returned when a file cannot be parsed. Its message is the
// warnings gathered up to the failure followed by the error text.
type Error struct {
	Warn string
	Err  string
}

func (e *Error) Error() string {
	return e.Warn + e.Err
}

const maxLineSize = 1 << 20

type parser struct {
	dir        fs.FS
	obj        string
	res        Result
	warn       strings.Builder
	current    Shape
	materialID int
	mtlIDs     map[string]int
	lineNumber int
}

// LoadObj parses the Wavefront OBJ file obj from dir, along with any
// material libraries it references. Polygons are fan triangulated.
func LoadObj(dir fs.FS, obj string) (*Result, error) {
	p := &parser{
		dir:        dir,
		obj:        obj,
		current:    Shape{Name: "unnamed_object"},
		materialID: -1,
		mtlIDs:     map[string]int{},
	}

	f, err := dir.Open(obj)
	if err != nil {
		return nil, &Error{Err: fmt.Sprintf("cannot open file [%s]: %v\n", obj, err)}
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.Scan() {
		p.lineNumber++
		if err := p.parseLine(s.Text()); err != "" {
			return nil, &Error{Warn: p.warn.String(), Err: err + "\n"}
		}
	}
	if err := s.Err(); err != nil {
		return nil, &Error{Warn: p.warn.String(), Err: fmt.Sprintf("failed to read %s: %v\n", obj, err)}
	}

	p.flushShape()
	p.res.Warn = p.warn.String()
	return &p.res, nil
}

func (p *parser) warnf(format string, args ...any) {
	fmt.Fprintf(&p.warn, format, args...)
	p.warn.WriteByte('\n')
}

func (p *parser) flushShape() {
	if len(p.current.Indices) != 0 {
		p.res.Shapes = append(p.res.Shapes, p.current)
	}
	p.current = Shape{Name: p.current.Name}
}

// parseLine returns a non-empty error message when the line is malformed.
func (p *parser) parseLine(line string) string {
	split := strings.Fields(line)
	if len(split) == 0 || strings.HasPrefix(split[0], "#") {
		return ""
	}
	args := split[1:]

	switch split[0] {
	case "v":
		if len(args) < 3 {
			return p.errorf("invalid vertex")
		}
		x, y, z, err := parse3Float(args[0], args[1], args[2])
		if err != nil {
			return p.errorf("invalid vertex")
		}
		r, g, b := float32(1), float32(1), float32(1)
		if len(args) >= 6 {
			r, g, b, err = parse3Float(args[3], args[4], args[5])
			if err != nil {
				return p.errorf("invalid vertex color")
			}
		}
		p.res.Attrib.Vertices = append(p.res.Attrib.Vertices, x, y, z)
		p.res.Attrib.Colors = append(p.res.Attrib.Colors, r, g, b)

	case "vn":
		if len(args) < 3 {
			return p.errorf("invalid vertex normal")
		}
		i, j, k, err := parse3Float(args[0], args[1], args[2])
		if err != nil {
			return p.errorf("invalid vertex normal")
		}
		p.res.Attrib.Normals = append(p.res.Attrib.Normals, i, j, k)

	case "vt":
		if len(args) < 1 {
			return p.errorf("invalid texture coordinates")
		}
		u, err := parseFloat(args[0])
		if err != nil {
			return p.errorf("invalid texture coordinates")
		}
		var v float32
		if len(args) >= 2 {
			v, err = parseFloat(args[1])
			if err != nil {
				return p.errorf("invalid texture coordinates")
			}
		}
		p.res.Attrib.Texcoords = append(p.res.Attrib.Texcoords, u, v)

	case "f":
		if len(args) < 3 {
			p.warnf("degenerate face with %d vertices ignored at line %d", len(args), p.lineNumber)
			return ""
		}
		face := make([]Index, 0, len(args))
		for _, tok := range args {
			idx, msg := p.parseFaceIndex(tok)
			if msg != "" {
				return msg
			}
			face = append(face, idx)
		}
		for i := 1; i+1 < len(face); i++ {
			p.current.Indices = append(p.current.Indices, face[0], face[i], face[i+1])
			p.current.MaterialIDs = append(p.current.MaterialIDs, p.materialID)
		}

	case "o", "g":
		name := "unnamed_object"
		if len(args) >= 1 {
			name = strings.Join(args, " ")
		}
		p.flushShape()
		p.current.Name = name

	case "mtllib":
		if len(args) < 1 {
			return p.errorf("invalid external .mtl reference")
		}
		for _, mtl := range args {
			mtls, err := loadMtl(p.dir, path.Join(path.Dir(p.obj), mtl))
			if err != nil {
				p.warnf("failed to load material file [%s]: %v", mtl, err)
				continue
			}
			for _, m := range mtls {
				p.mtlIDs[m.Name] = len(p.res.Materials)
				p.res.Materials = append(p.res.Materials, m)
			}
		}

	case "usemtl":
		if len(args) < 1 {
			return p.errorf("invalid mtl reference")
		}
		id, ok := p.mtlIDs[args[0]]
		if !ok {
			p.warnf("material [%s] not found at line %d", args[0], p.lineNumber)
			id = -1
		}
		p.materialID = id

	default: // s, l, p and unknown statements are ignored
	}
	return ""
}

func (p *parser) errorf(what string) string {
	return fmt.Sprintf("%s at line %d", what, p.lineNumber)
}

// parseFaceIndex parses one of v, v/vt, v//vn or v/vt/vn.
func (p *parser) parseFaceIndex(tok string) (Index, string) {
	idx := Index{VertexIndex: -1, NormalIndex: -1, TexcoordIndex: -1}
	parts := strings.SplitN(tok, "/", 3)

	var msg string
	idx.VertexIndex, msg = p.resolve(parts[0], len(p.res.Attrib.Vertices)/3, false)
	if msg != "" {
		return idx, msg
	}
	if len(parts) >= 2 {
		idx.TexcoordIndex, msg = p.resolve(parts[1], len(p.res.Attrib.Texcoords)/2, true)
		if msg != "" {
			return idx, msg
		}
	}
	if len(parts) == 3 {
		idx.NormalIndex, msg = p.resolve(parts[2], len(p.res.Attrib.Normals)/3, true)
		if msg != "" {
			return idx, msg
		}
	}
	return idx, ""
}

// resolve converts a 1-based or negative relative OBJ index into a 0-based
// index into an array of n elements.
func (p *parser) resolve(s string, n int, optional bool) (int, string) {
	if s == "" {
		if optional {
			return -1, ""
		}
		return -1, p.errorf("missing vertex index in face element")
	}
	i, err := strconv.Atoi(s)
	if err != nil || i == 0 {
		return -1, p.errorf("invalid face element")
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return -1, p.errorf("face index out of bounds")
	}
	return i, ""
}

func parseFloat(s string) (float32, error) {
	r, err := strconv.ParseFloat(s, 32)
	return float32(r), err
}

func parse3Float(xs, ys, zs string) (x float32, y float32, z float32, err error) {
	x, err = parseFloat(xs)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err = parseFloat(ys)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err = parseFloat(zs)
	if err != nil {
		return 0, 0, 0, err
	}
	return
}
