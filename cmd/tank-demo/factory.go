package main

import (
	"fmt"

	"github.com/kjkrol/goko/pkg/asset"
	"github.com/kjkrol/goko/pkg/phys"
	"github.com/kjkrol/goko/pkg/scene"
)

func colliderFactory(world phys.World, reg *phys.Registry) asset.Factory {
	return func(params map[string]any) (scene.Component, error) {
		def := phys.BodyDef{
			Mass:       numParam(params, "mass", 1),
			Friction:   numParam(params, "friction", 0.5),
			Elasticity: numParam(params, "elasticity", 0),
		}
		def.Static, _ = params["static"].(bool)
		switch shape, _ := params["shape"].(string); shape {
		case "circle":
			def.Shape = phys.ShapeCircle
			def.Radius = numParam(params, "radius", 1)
		case "box":
			def.Shape = phys.ShapeBox
			def.Width = numParam(params, "width", 1)
			def.Height = numParam(params, "height", 1)
		default:
			return nil, fmt.Errorf("collider: unknown shape %q", shape)
		}
		return phys.NewCollider(world, reg, def), nil
	}
}

// numParam reads a numeric template parameter; YAML decodes whole numbers
// as int and the rest as float64.
func numParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
