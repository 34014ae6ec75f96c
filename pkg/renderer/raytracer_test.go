package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MockScene implements Scene for testing
type MockScene struct {
	camera *Camera
	things []geometry.Thing
	lights []lights.Light
}

func (m *MockScene) Things() []geometry.Thing { return m.things }
func (m *MockScene) Lights() []lights.Light   { return m.lights }
func (m *MockScene) Camera() *Camera          { return m.camera }

func newMockScene(things []geometry.Thing, sceneLights []lights.Light) *MockScene {
	return &MockScene{
		camera: NewCamera(core.NewVec3(0, 1, 5), core.NewVec3(0, 1, 0)),
		things: things,
		lights: sceneLights,
	}
}

// recordingCanvas remembers the order of SetPixel calls
type recordingCanvas struct {
	calls  []image.Point
	colors map[image.Point]core.Color
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{colors: make(map[image.Point]core.Color)}
}

func (rc *recordingCanvas) SetPixel(x, y int, c core.Color) {
	p := image.Pt(x, y)
	rc.calls = append(rc.calls, p)
	rc.colors[p] = c
}

func defaultRaytracer() *Raytracer {
	return NewRaytracer(DefaultRenderConfig())
}

func TestRaytracer_MissReturnsBackgroundAtEveryDepth(t *testing.T) {
	scene := newMockScene(
		[]geometry.Thing{
			geometry.SphereThing(core.NewVec3(0, 0, -5), 1, material.Shiny),
			geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.Checkerboard),
		},
		[]lights.Light{lights.NewLight(core.NewVec3(0, 5, 0), core.White)},
	)
	rt := defaultRaytracer()

	// Pointing up and away from everything
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))
	for depth := 0; depth <= rt.Config().MaxDepth+1; depth++ {
		if got := rt.TraceRay(ray, scene, depth); got != core.Background {
			t.Errorf("Depth %d: expected background, got %v", depth, got)
		}
	}
}

func TestRaytracer_NearestHit_PicksClosest(t *testing.T) {
	scene := newMockScene([]geometry.Thing{
		geometry.SphereThing(core.NewVec3(0, 0, -10), 1, material.Shiny),
		geometry.SphereThing(core.NewVec3(0, 0, -4), 1, material.Shiny),
		geometry.SphereThing(core.NewVec3(0, 0, -7), 1, material.Shiny),
	}, nil)
	rt := defaultRaytracer()

	hit, isHit := rt.NearestHit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), scene)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Thing != &scene.things[1] {
		t.Errorf("Expected the sphere at z=-4, got %+v", hit.Thing)
	}
	if math.Abs(hit.Dist-3) > 1e-9 {
		t.Errorf("Expected dist=3, got %f", hit.Dist)
	}
}

func TestRaytracer_NearestHit_TieGoesToFirst(t *testing.T) {
	red := material.NewMatte(core.NewColor(1, 0, 0))
	blue := material.NewMatte(core.NewColor(0, 0, 1))

	tests := []struct {
		name   string
		things []geometry.Thing
	}{
		{
			name: "coincident spheres",
			things: []geometry.Thing{
				geometry.SphereThing(core.NewVec3(0, 0, -5), 1, red),
				geometry.SphereThing(core.NewVec3(0, 0, -5), 1, blue),
			},
		},
		{
			name: "coincident planes",
			things: []geometry.Thing{
				geometry.PlaneThing(core.NewVec3(0, 0, 1), 4, red),
				geometry.PlaneThing(core.NewVec3(0, 0, 1), 4, blue),
			},
		},
		{
			name: "sphere touching plane",
			things: []geometry.Thing{
				geometry.PlaneThing(core.NewVec3(0, 0, 1), 4, red),
				geometry.SphereThing(core.NewVec3(0, 0, -5), 1, blue),
			},
		},
	}

	rt := defaultRaytracer()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := newMockScene(tt.things, nil)
			hit, isHit := rt.NearestHit(ray, scene)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.Dist-4) > 1e-9 {
				t.Fatalf("Expected both hits at dist=4, got %f", hit.Dist)
			}
			if hit.Thing != &scene.things[0] {
				t.Error("Expected the first primitive to win the tie")
			}

			// Reversing the order flips the winner
			scene.things[0], scene.things[1] = scene.things[1], scene.things[0]
			hit, _ = rt.NearestHit(ray, scene)
			if hit.Thing.Surface() != scene.things[0].Surface() {
				t.Error("Expected the new first primitive to win after reordering")
			}
		})
	}
}

func TestRaytracer_NearestHit_IgnoresNonPositiveDistances(t *testing.T) {
	// Plane z = 5 lies behind the origin but faces the ray
	scene := newMockScene([]geometry.Thing{
		geometry.PlaneThing(core.NewVec3(0, 0, 1), -5, material.Shiny),
	}, nil)

	if hit, isHit := defaultRaytracer().NearestHit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), scene); isHit {
		t.Errorf("Expected miss for plane behind origin, got dist=%f", hit.Dist)
	}
}

func TestRaytracer_ShadowBlocksLight(t *testing.T) {
	floor := geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.NewMatte(core.White))
	occluder := geometry.SphereThing(core.NewVec3(0, 2, 0), 0.5, material.Shiny)
	light := lights.NewLight(core.NewVec3(0, 4, 0), core.White)

	pos := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	reflectDir := core.NewVec3(0, 1, 0)
	rt := defaultRaytracer()

	shadowed := newMockScene([]geometry.Thing{floor, occluder}, []lights.Light{light})
	got := rt.addLight(&shadowed.things[0], pos, normal, reflectDir, shadowed, core.Black, light, nil)
	if got != core.Black {
		t.Errorf("Expected zero contribution in shadow, got %v", got)
	}

	open := newMockScene([]geometry.Thing{floor}, []lights.Light{light})
	got = rt.addLight(&open.things[0], pos, normal, reflectDir, open, core.Black, light, nil)
	if got != core.White {
		t.Errorf("Expected full diffuse contribution without occluder, got %v", got)
	}
}

func TestRaytracer_ShadowIgnoresObjectsBeyondLight(t *testing.T) {
	floor := geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.NewMatte(core.White))
	// Sphere above the light does not block it
	beyond := geometry.SphereThing(core.NewVec3(0, 8, 0), 1, material.Shiny)
	light := lights.NewLight(core.NewVec3(0, 4, 0), core.White)

	scene := newMockScene([]geometry.Thing{floor, beyond}, []lights.Light{light})
	got := defaultRaytracer().addLight(&scene.things[0], core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 1, 0), scene, core.Black, light, nil)
	if got != core.White {
		t.Errorf("Expected unblocked light, got %v", got)
	}
}

func TestRaytracer_AddLight_SpecularHighlight(t *testing.T) {
	// Black diffuse, white specular, roughness 2: only the Phong term contributes
	glossy := material.NewUniform(core.Black, core.White, 0, 2)
	floor := geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, glossy)
	light := lights.NewLight(core.NewVec3(0, 4, 0), core.NewColor(1, 0.5, 0.25))
	scene := newMockScene([]geometry.Thing{floor}, []lights.Light{light})

	// Reflected direction 60 degrees from the light: cos = 0.5, 0.5^2 = 0.25
	reflectDir := core.NewVec3(math.Sqrt(3)/2, 0.5, 0)
	got := defaultRaytracer().addLight(&scene.things[0], core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		reflectDir, scene, core.Black, light, nil)

	expected := core.NewColor(0.25, 0.125, 0.0625)
	if math.Abs(got.R-expected.R) > 1e-9 || math.Abs(got.G-expected.G) > 1e-9 || math.Abs(got.B-expected.B) > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRaytracer_AddLight_BackFacingLightHasNoDiffuse(t *testing.T) {
	sphere := geometry.SphereThing(core.NewVec3(0, 0, 0), 1, material.NewMatte(core.White))
	light := lights.NewLight(core.NewVec3(0, 5, 0), core.White)
	scene := newMockScene([]geometry.Thing{sphere}, []lights.Light{light})

	// Bottom of the sphere: the light ray re-enters the sphere, and illum < 0 anyway
	got := defaultRaytracer().addLight(&scene.things[0], core.NewVec3(0, -1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, -1, 0), scene, core.Black, light, nil)
	if got != core.Black {
		t.Errorf("Expected no contribution on the unlit side, got %v", got)
	}
}

// newMirrorCorridor builds two perfect mirrors facing each other across x = ±2
func newMirrorCorridor() *MockScene {
	return newMockScene([]geometry.Thing{
		geometry.PlaneThing(core.NewVec3(-1, 0, 0), 2, material.Mirror),
		geometry.PlaneThing(core.NewVec3(1, 0, 0), 2, material.Mirror),
	}, []lights.Light{lights.NewLight(core.NewVec3(0, 5, 0), core.White)})
}

func TestRaytracer_ReflectionDepthIsBounded(t *testing.T) {
	scene := newMirrorCorridor()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	for _, maxDepth := range []int{0, 1, 5, 20} {
		config := DefaultRenderConfig()
		config.MaxDepth = maxDepth
		rt := NewRaytracer(config)

		var stats RenderStats
		color := rt.traceRay(ray, scene, 0, &stats)

		// One trace call for the primary ray plus one per reflection
		if stats.ReflectionRays != maxDepth {
			t.Errorf("MaxDepth %d: expected %d reflection rays, got %d", maxDepth, maxDepth, stats.ReflectionRays)
		}
		if stats.MaxDepthReached != maxDepth {
			t.Errorf("MaxDepth %d: expected deepest level %d, got %d", maxDepth, maxDepth, stats.MaxDepthReached)
		}
		// Perfect mirrors pass the grey fallback back up unchanged
		if math.Abs(color.R-0.5) > 1e-9 || math.Abs(color.G-0.5) > 1e-9 || math.Abs(color.B-0.5) > 1e-9 {
			t.Errorf("MaxDepth %d: expected grey fallback, got %v", maxDepth, color)
		}
	}
}

func TestRaytracer_GreyFallbackAtMaxDepth(t *testing.T) {
	sphere := geometry.SphereThing(core.NewVec3(0, 0, -5), 1, material.NewMatte(core.Black))
	scene := newMockScene([]geometry.Thing{sphere}, nil)
	rt := defaultRaytracer()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// No lights and black diffuse: only the reflected term remains
	if got := rt.TraceRay(ray, scene, rt.Config().MaxDepth); got != core.Grey {
		t.Errorf("Expected grey at max depth, got %v", got)
	}
	// Below max depth the reflection is traced and scaled by reflectivity 0
	if got := rt.TraceRay(ray, scene, 0); got != core.Black {
		t.Errorf("Expected black below max depth, got %v", got)
	}
}

func TestRaytracer_Render_RowMajorOncePerPixel(t *testing.T) {
	scene := newMockScene([]geometry.Thing{
		geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.Checkerboard),
	}, []lights.Light{lights.NewLight(core.NewVec3(0, 5, 0), core.White)})
	canvas := newRecordingCanvas()

	width, height := 5, 3
	stats := defaultRaytracer().Render(scene, canvas, width, height)

	if len(canvas.calls) != width*height {
		t.Fatalf("Expected %d SetPixel calls, got %d", width*height, len(canvas.calls))
	}
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if canvas.calls[i] != image.Pt(x, y) {
				t.Errorf("Call %d: expected (%d,%d), got %v", i, x, y, canvas.calls[i])
			}
			i++
		}
	}

	if stats.TotalPixels != width*height || stats.PrimaryRays != width*height {
		t.Errorf("Expected %d pixels and primary rays, got %+v", width*height, stats)
	}
}

func TestRaytracer_RenderIsDeterministic(t *testing.T) {
	scene := newMockScene([]geometry.Thing{
		geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.Checkerboard),
		geometry.SphereThing(core.NewVec3(0, 1, 0), 1, material.Shiny),
	}, []lights.Light{lights.NewLight(core.NewVec3(2, 4, 2), core.NewColor(0.8, 0.6, 0.4))})
	rt := defaultRaytracer()

	first := NewPixelBuffer(6, 6)
	second := NewPixelBuffer(6, 6)
	rt.Render(scene, first, 6, 6)
	rt.Render(scene, second, 6, 6)

	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Byte %d differs between identical renders: %d vs %d", i, first.Pixels[i], second.Pixels[i])
		}
	}
}

func TestPowi(t *testing.T) {
	tests := []struct {
		base     float64
		exp      int
		expected float64
	}{
		{2, 0, 1},
		{2, 1, 2},
		{2, 10, 1024},
		{0.5, 3, 0.125},
		{-2, 3, -8},
		{0.9, 250, math.Pow(0.9, 250)},
	}

	for _, tt := range tests {
		got := powi(tt.base, tt.exp)
		if math.Abs(got-tt.expected) > 1e-12*math.Max(1, math.Abs(tt.expected)) {
			t.Errorf("powi(%g, %d): expected %g, got %g", tt.base, tt.exp, tt.expected, got)
		}
	}
}

func TestMergeRenderConfig(t *testing.T) {
	base := DefaultRenderConfig()
	merged := MergeRenderConfig(base, RenderConfig{Width: 32, MaxDepth: 2})

	if merged.Width != 32 || merged.MaxDepth != 2 {
		t.Errorf("Expected overrides to apply, got %+v", merged)
	}
	if merged.Height != base.Height || merged.TileSize != base.TileSize || merged.NumWorkers != base.NumWorkers {
		t.Errorf("Expected zero fields to keep defaults, got %+v", merged)
	}
	if base.MaxDepth != 5 {
		t.Errorf("Expected default max depth 5, got %d", base.MaxDepth)
	}
}
