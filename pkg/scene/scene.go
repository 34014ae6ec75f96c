package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering. It is built once and
// must not be modified while a render is running.
type Scene struct {
	camera *renderer.Camera
	things []geometry.Thing // Order decides ties between equally near hits
	lights []lights.Light
	config renderer.RenderConfig // Recommended render settings
}

// New creates an empty scene viewed from pos toward lookAt
func New(pos, lookAt core.Vec3) *Scene {
	return &Scene{
		camera: renderer.NewCamera(pos, lookAt),
		things: make([]geometry.Thing, 0),
		lights: make([]lights.Light, 0),
		config: renderer.DefaultRenderConfig(),
	}
}

// Things implements renderer.Scene
func (s *Scene) Things() []geometry.Thing { return s.things }

// Lights implements renderer.Scene
func (s *Scene) Lights() []lights.Light { return s.lights }

// Camera implements renderer.Scene
func (s *Scene) Camera() *renderer.Camera { return s.camera }

// RenderConfig returns the scene's recommended render settings
func (s *Scene) RenderConfig() renderer.RenderConfig { return s.config }

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(centre core.Vec3, radius float64, surface *material.Surface) *Scene {
	s.things = append(s.things, geometry.SphereThing(centre, radius, surface))
	return s
}

// AddPlane appends a plane Normal·p + offset = 0 to the scene
func (s *Scene) AddPlane(normal core.Vec3, offset float64, surface *material.Surface) *Scene {
	s.things = append(s.things, geometry.PlaneThing(normal, offset, surface))
	return s
}

// AddLight adds a point light to the scene
func (s *Scene) AddLight(pos core.Vec3, color core.Color) *Scene {
	s.lights = append(s.lights, lights.NewLight(pos, color))
	return s
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.things)
}
