// Package asset loads scene templates (prefabs) and instantiates them into
// live objects. Templates are opaque external assets; the framework only
// deep-copies them into fresh identities.
package asset

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kjkrol/goko/pkg/scene"
	"gopkg.in/yaml.v3"
)

// Template describes an object hierarchy with pre-declared components.
type Template struct {
	Name       string          `yaml:"name"`
	Tag        string          `yaml:"tag"`
	Layer      uint32          `yaml:"layer"`
	Inactive   bool            `yaml:"inactive"`
	Transform  TransformSpec   `yaml:"transform"`
	Components []ComponentSpec `yaml:"components"`
	Children   []*Template     `yaml:"children"`
}

// TransformSpec holds local transform values; rotation is XYZ Euler degrees.
type TransformSpec struct {
	Position [3]float64  `yaml:"position"`
	Rotation [3]float64  `yaml:"rotation"`
	Scale    *[3]float64 `yaml:"scale"`
}

// ComponentSpec names a registered component factory and its parameters.
type ComponentSpec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// Factory constructs a component from template parameters.
type Factory func(params map[string]any) (scene.Component, error)

// Registry maps component type names to factories. Populate it at startup;
// it is read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) build(spec ComponentSpec) (scene.Component, error) {
	f, ok := r.factories[spec.Type]
	if !ok {
		return nil, fmt.Errorf("asset: unknown component type %q", spec.Type)
	}
	c, err := f(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("asset: build component %q: %w", spec.Type, err)
	}
	return c, nil
}

// Load reads and parses a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read template %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("asset: template %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a template and validates it ahead of use.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Template) validate() error {
	if t.Name == "" {
		return fmt.Errorf("template object has no name")
	}
	for _, c := range t.Components {
		if c.Type == "" {
			return fmt.Errorf("template %q: component with no type", t.Name)
		}
	}
	for _, child := range t.Children {
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate deep-copies the template into the scene as a new live object
// with fresh identity. Construction is not atomic: side effects applied
// before a failure point are not rolled back, so templates should be
// validated ahead of use.
func (t *Template) Instantiate(s *scene.Scene, r *Registry) (*scene.Object, error) {
	o, err := t.spawn(s, r, nil)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (t *Template) spawn(s *scene.Scene, r *Registry, parent *scene.Object) (*scene.Object, error) {
	o := s.NewObject(t.Name)
	o.Tag = t.Tag
	o.Layer = t.Layer

	tr := o.Transform()
	tr.SetPosition(mgl64.Vec3(t.Transform.Position))
	tr.SetRotation(eulerDegrees(t.Transform.Rotation))
	if t.Transform.Scale != nil {
		tr.SetScale(mgl64.Vec3(*t.Transform.Scale))
	}
	if parent != nil {
		if err := tr.SetParent(parent.Transform()); err != nil {
			return o, err
		}
	}

	for _, spec := range t.Components {
		c, err := r.build(spec)
		if err != nil {
			return o, err
		}
		if err := o.Add(c); err != nil {
			return o, fmt.Errorf("asset: attach %q: %w", spec.Type, err)
		}
	}

	for _, child := range t.Children {
		if _, err := child.spawn(s, r, o); err != nil {
			return o, err
		}
	}
	if t.Inactive {
		o.SetActive(false)
	}
	return o, nil
}

func eulerDegrees(deg [3]float64) mgl64.Quat {
	const toRad = math.Pi / 180
	return mgl64.AnglesToQuat(deg[0]*toRad, deg[1]*toRad, deg[2]*toRad, mgl64.XYZ)
}
