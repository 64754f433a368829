// Package scene holds the objects drawn each frame: their transforms, the
// meshes they share and their texture slots.
package scene

import (
	"errors"
	"fmt"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/internal/glm"
	"github.com/dskgfx/dsk/model"
	"github.com/dskgfx/dsk/resources"
	"github.com/dskgfx/dsk/texture"
	"golang.org/x/exp/slices"
)

// ID identifies an object within its List. It doubles as the object's
// texture slot.
type ID uint32

type Object struct {
	ID        ID
	Tag       string
	Transform Transform
	// Model is shared with other objects; the List holds one reference.
	Model *model.Mesh
	// TextureIndex is the object's slot in the texture array, or -1.
	TextureIndex int
}

func (o *Object) HasTexture() bool { return o.TextureIndex >= 0 }

// List owns scene objects. Objects are added through a Builder and looked
// up by ID afterwards.
type List struct {
	objects []Object
	nextID  ID
}

// NewBuilder starts a new object and reserves its ID.
func (l *List) NewBuilder() *Builder {
	b := &Builder{
		list: l,
		obj: Object{
			ID:           l.nextID,
			Transform:    NewTransform(),
			TextureIndex: -1,
		},
	}
	l.nextID++
	return b
}

// Get returns the object with the given ID, or nil. The pointer is valid
// until the next object is added.
func (l *List) Get(id ID) *Object {
	i := slices.IndexFunc(l.objects, func(o Object) bool { return o.ID == id })
	if i < 0 {
		return nil
	}
	return &l.objects[i]
}

// FindByTag returns the first object tagged tag, or nil.
func (l *List) FindByTag(tag string) *Object {
	i := slices.IndexFunc(l.objects, func(o Object) bool { return o.Tag == tag })
	if i < 0 {
		return nil
	}
	return &l.objects[i]
}

func (l *List) Len() int { return len(l.objects) }

// Each calls fn for every object in insertion order.
func (l *List) Each(fn func(*Object)) {
	for i := range l.objects {
		fn(&l.objects[i])
	}
}

// Release drops the list's mesh references and empties it.
func (l *List) Release() {
	for i := range l.objects {
		l.objects[i].Model.Release()
		l.objects[i].Model = nil
	}
	l.objects = nil
}

var ErrFinished = errors.New("scene: builder already finished")

// Builder configures one object before it is added to its List. Setters
// record the first error they hit; Finish reports it.
type Builder struct {
	list     *List
	obj      Object
	err      error
	finished bool
	// textures is the array SetTexture filled slot obj.ID of, if any.
	textures *texture.Array
}

// ID returns the ID the object will have once finished.
func (b *Builder) ID() ID { return b.obj.ID }

// SetModel loads filename from the models directory and attaches it.
func (b *Builder) SetModel(dev gpu.Device, layout resources.Layout, filename string) *Builder {
	if b.err != nil {
		return b
	}
	m, err := model.NewMeshFromFile(dev, layout.ModelPath(filename))
	if err != nil {
		b.err = fmt.Errorf("scene: object %d model: %w", b.obj.ID, err)
		return b
	}
	b.setMesh(m)
	return b
}

// SetMesh attaches an already loaded mesh, taking a reference to it.
func (b *Builder) SetMesh(m *model.Mesh) *Builder {
	b.setMesh(m.Share())
	return b
}

func (b *Builder) setMesh(m *model.Mesh) {
	if b.obj.Model != nil {
		b.obj.Model.Release()
	}
	b.obj.Model = m
}

// SetTexture loads filename from the textures directory into the slot of
// textures matching the object's ID.
func (b *Builder) SetTexture(dev gpu.Device, layout resources.Layout, filename string, textures *texture.Array) *Builder {
	if b.err != nil {
		return b
	}
	tex, err := texture.Load(dev, layout.TexturePath(filename))
	if err != nil {
		b.err = fmt.Errorf("scene: object %d texture: %w", b.obj.ID, err)
		return b
	}
	if err := textures.Set(int(b.obj.ID), tex); err != nil {
		tex.Release()
		b.err = fmt.Errorf("scene: object %d texture: %w", b.obj.ID, err)
		return b
	}
	b.obj.TextureIndex = int(b.obj.ID)
	b.textures = textures
	return b
}

func (b *Builder) SetTag(tag string) *Builder {
	b.obj.Tag = tag
	return b
}

func (b *Builder) SetTranslation(v glm.Vec3[float32]) *Builder {
	b.obj.Transform.Translation = v
	return b
}

func (b *Builder) SetScale(v glm.Vec3[float32]) *Builder {
	b.obj.Transform.Scale = v
	return b
}

// SetRotation sets the Euler angles, in radians.
func (b *Builder) SetRotation(v glm.Vec3[float32]) *Builder {
	b.obj.Transform.Rotation = v
	return b
}

// Finish adds the object to the list it was started from and returns its
// ID. On error nothing is added, any attached mesh is released and the
// texture slot filled by SetTexture is cleared. A Builder can be finished
// once.
func (b *Builder) Finish() (ID, error) {
	if b.finished {
		return 0, ErrFinished
	}
	b.finished = true

	if b.err != nil {
		b.obj.Model.Release()
		b.obj.Model = nil
		if b.textures != nil {
			// Set(nil) releases the texture loaded for this object.
			_ = b.textures.Set(b.obj.TextureIndex, nil)
			b.obj.TextureIndex = -1
		}
		return 0, b.err
	}

	b.list.objects = append(b.list.objects, b.obj)
	b.obj = Object{}
	return b.list.objects[len(b.list.objects)-1].ID, nil
}
