package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a scene with a grid of spheres on a checkered floor.
// Spheres on even diagonals are shiny; the rest are matte with a hue that
// sweeps across the grid.
func NewSphereGridScene() *Scene {
	s := New(core.NewVec3(4.5, 6, 14), core.NewVec3(4.5, 0.5, 4.5))
	s.config.MaxDepth = 3 // Many small reflective spheres; deep bounces add little

	gridSize := 6
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)

	// One check per sphere cell
	floor := material.NewProcedural(
		material.NewCheckerPattern(spacing, core.NewColor(0.8, 0.8, 0.75), core.NewColor(0.2, 0.22, 0.3)),
		core.White, 0.3, 100)
	s.AddPlane(core.NewVec3(0, 1, 0), 0, floor)
	sphereRadius := spacing * 0.35

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			surface := material.Shiny
			if (i+j)%2 != 0 {
				hue := (float64(i) / float64(gridSize-1)) * 360.0
				surface = material.NewMatte(oklchToRGB(0.7, 0.15, hue))
			}
			s.AddSphere(position, sphereRadius, surface)
		}
	}

	s.AddLight(core.NewVec3(10, 8, 10), core.NewColor(0.6, 0.55, 0.5)).
		AddLight(core.NewVec3(-2, 6, 2), core.NewColor(0.2, 0.25, 0.4))

	return s
}
