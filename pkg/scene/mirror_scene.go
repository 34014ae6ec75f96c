package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorScene creates a hall of mirrors: two facing perfect mirrors with a
// shiny sphere between them and a graded back wall. Reflections bounce until
// the depth limit.
func NewMirrorScene() *Scene {
	s := New(core.NewVec3(0.0, 1.5, 5.0), core.NewVec3(0.0, 1.0, 0.0))
	s.config.MaxDepth = 8

	backWall := material.NewProcedural(
		material.NewGradientPattern(0.0, 4.0, core.NewColor(0.15, 0.2, 0.35), core.NewColor(0.8, 0.85, 0.9)),
		core.Black, 0.0, 1)

	// Mirrors at x = -2 and x = 2, facing each other
	s.AddPlane(core.NewVec3(1.0, 0.0, 0.0), 2.0, material.Mirror).
		AddPlane(core.NewVec3(-1.0, 0.0, 0.0), 2.0, material.Mirror).
		AddPlane(core.NewVec3(0.0, 1.0, 0.0), 0.0, material.Checkerboard).
		AddPlane(core.NewVec3(0.0, 0.0, 1.0), 3.0, backWall).
		AddSphere(core.NewVec3(0.0, 1.0, 0.0), 0.75, material.Shiny)

	s.AddLight(core.NewVec3(0.0, 4.0, 3.0), core.NewColor(0.6, 0.6, 0.6)).
		AddLight(core.NewVec3(1.0, 2.0, -2.0), core.NewColor(0.3, 0.1, 0.1))

	return s
}
