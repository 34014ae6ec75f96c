package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Surface describes how a primitive reflects light. The three functions must be
// pure: they are shared by many primitives and called concurrently across pixels.
type Surface struct {
	Diffuse   func(pos core.Vec3) core.Color // Diffuse color at a surface position
	Specular  func(pos core.Vec3) core.Color // Specular color at a surface position
	Reflect   func(pos core.Vec3) float64    // Mirror reflectivity at a surface position
	Roughness int                            // Phong exponent, > 0
}

// NewUniform creates a surface whose properties do not depend on position
func NewUniform(diffuse, specular core.Color, reflect float64, roughness int) *Surface {
	return &Surface{
		Diffuse:   Solid(diffuse),
		Specular:  Solid(specular),
		Reflect:   func(core.Vec3) float64 { return reflect },
		Roughness: roughness,
	}
}

// NewMatte creates a non-reflective surface with no specular highlight
func NewMatte(diffuse core.Color) *Surface {
	return NewUniform(diffuse, core.Black, 0.0, 1)
}

// Shiny is a white, mostly reflective surface with a tight highlight
var Shiny = NewUniform(core.White, core.Grey, 0.7, 250)

// Mirror reflects everything and has no diffuse term
var Mirror = NewUniform(core.Black, core.White, 1.0, 250)

// Checkerboard alternates black and white unit squares in the XZ plane.
// White squares are dull (0.1 reflectivity), black squares glossy (0.7).
var Checkerboard = &Surface{
	Diffuse: func(pos core.Vec3) core.Color {
		if checkerParity(pos) {
			return core.White
		}
		return core.Black
	},
	Specular: Solid(core.White),
	Reflect: func(pos core.Vec3) float64 {
		if checkerParity(pos) {
			return 0.1
		}
		return 0.7
	},
	Roughness: 150,
}

// checkerParity reports whether pos falls on an odd square. The sum is truncated
// toward zero before the modulo, so negative odd sums are odd too.
func checkerParity(pos core.Vec3) bool {
	return int(math.Floor(pos.Z)+math.Floor(pos.X))%2 != 0
}
