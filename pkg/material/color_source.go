package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Solid returns a color function that ignores position
func Solid(color core.Color) func(core.Vec3) core.Color {
	return func(core.Vec3) core.Color { return color }
}

// NewProcedural creates a surface whose diffuse color varies with position.
// diffuse must be pure; it is evaluated concurrently.
func NewProcedural(diffuse func(core.Vec3) core.Color, specular core.Color, reflect float64, roughness int) *Surface {
	return &Surface{
		Diffuse:   diffuse,
		Specular:  Solid(specular),
		Reflect:   func(core.Vec3) float64 { return reflect },
		Roughness: roughness,
	}
}
