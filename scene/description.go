package scene

import (
	"fmt"
	"os"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/internal/glm"
	"github.com/dskgfx/dsk/resources"
	"github.com/dskgfx/dsk/texture"
	"gopkg.in/yaml.v3"
)

// Description is the YAML form of a scene:
//
//	objects:
//	  - tag: vase
//	    model: smooth_vase.obj
//	    texture: vase.png
//	    translation: [0, 0.5, 0]
//	    rotation: [0, 90, 0]   # degrees
//	    scale: [3, 1.5, 3]
type Description struct {
	Objects []ObjectDescription `yaml:"objects"`
}

type ObjectDescription struct {
	Tag         string    `yaml:"tag"`
	Model       string    `yaml:"model"`
	Texture     string    `yaml:"texture,omitempty"`
	Translation []float32 `yaml:"translation,omitempty"`
	Rotation    []float32 `yaml:"rotation,omitempty"`
	Scale       []float32 `yaml:"scale,omitempty"`
}

func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	for i, od := range desc.Objects {
		if err := od.validate(); err != nil {
			return nil, fmt.Errorf("scene: %s object %d: %w", path, i, err)
		}
	}
	return &desc, nil
}

func (od *ObjectDescription) validate() error {
	if od.Model == "" {
		return fmt.Errorf("model is required")
	}
	for name, v := range map[string][]float32{
		"translation": od.Translation,
		"rotation":    od.Rotation,
		"scale":       od.Scale,
	} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%s must have 3 components, got %d", name, len(v))
		}
	}
	return nil
}

// Build adds the described object to l. Textures go into the slot matching
// the object's ID.
func (od *ObjectDescription) Build(l *List, dev gpu.Device, layout resources.Layout, textures *texture.Array) (ID, error) {
	if err := od.validate(); err != nil {
		return 0, fmt.Errorf("scene: object %q: %w", od.Tag, err)
	}
	b := l.NewBuilder().
		SetTag(od.Tag).
		SetModel(dev, layout, od.Model)
	if od.Texture != "" {
		b.SetTexture(dev, layout, od.Texture, textures)
	}
	if od.Translation != nil {
		b.SetTranslation(glm.Vec3[float32](od.Translation))
	}
	if od.Rotation != nil {
		r := od.Rotation
		b.SetRotation(glm.Vec3[float32]{glm.DegToRad(r[0]), glm.DegToRad(r[1]), glm.DegToRad(r[2])})
	}
	if od.Scale != nil {
		b.SetScale(glm.Vec3[float32](od.Scale))
	}
	return b.Finish()
}

// Build adds every described object to l, stopping at the first failure.
func (d *Description) Build(l *List, dev gpu.Device, layout resources.Layout, textures *texture.Array) error {
	for i := range d.Objects {
		if _, err := d.Objects[i].Build(l, dev, layout, textures); err != nil {
			return err
		}
	}
	return nil
}
