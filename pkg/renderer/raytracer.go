package renderer

import (
	"image"
	"math"
	"runtime"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Scene is the read-only view of a scene that the raytracer needs.
// Things is ordered: the earlier primitive wins when two hits are equally near.
type Scene interface {
	Things() []geometry.Thing
	Lights() []lights.Light
	Camera() *Camera
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width      int // Image width in pixels
	Height     int // Image height in pixels
	MaxDepth   int // Reflection recursion limit
	NumWorkers int // Number of parallel workers (0 = use CPU count)
	TileSize   int // Edge length of square tiles for parallel rendering
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      512,
		Height:     512,
		MaxDepth:   5,
		NumWorkers: runtime.NumCPU(),
		TileSize:   64,
	}
}

// MergeRenderConfig overlays the non-zero fields of override onto base
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.TileSize != 0 {
		result.TileSize = override.TileSize
	}
	return result
}

// Raytracer traces rays through a Scene. It holds only its configuration, so a
// single Raytracer may be shared by any number of goroutines.
type Raytracer struct {
	config RenderConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(config RenderConfig) *Raytracer {
	return &Raytracer{config: config}
}

// Config returns the raytracer's configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// NearestHit returns the closest intersection with positive distance.
// Ties go to the primitive that comes first in scene.Things().
func (rt *Raytracer) NearestHit(ray core.Ray, scene Scene) (geometry.Intersection, bool) {
	closest := math.MaxFloat64
	var closestHit geometry.Intersection
	found := false

	things := scene.Things()
	for i := range things {
		hit, isHit := things[i].Intersect(ray)
		if isHit && hit.Dist > 0 && hit.Dist < closest {
			closest = hit.Dist
			closestHit = hit
			found = true
		}
	}

	return closestHit, found
}

// testRay returns only the distance of the nearest hit, for shadow tests
func (rt *Raytracer) testRay(ray core.Ray, scene Scene) (float64, bool) {
	if hit, isHit := rt.NearestHit(ray, scene); isHit {
		return hit.Dist, true
	}
	return 0, false
}

// TraceRay returns the color seen along ray. depth is the number of mirror
// bounces already taken; primary rays start at 0.
func (rt *Raytracer) TraceRay(ray core.Ray, scene Scene, depth int) core.Color {
	return rt.traceRay(ray, scene, depth, nil)
}

func (rt *Raytracer) traceRay(ray core.Ray, scene Scene, depth int, stats *RenderStats) core.Color {
	stats.recordDepth(depth)

	hit, isHit := rt.NearestHit(ray, scene)
	if !isHit {
		return core.Background
	}
	return rt.shade(hit, scene, depth, stats)
}

// shade combines direct lighting at the hit point with the mirror reflection
func (rt *Raytracer) shade(hit geometry.Intersection, scene Scene, depth int, stats *RenderStats) core.Color {
	d := hit.Ray.Direction
	pos := hit.Ray.At(hit.Dist)
	normal := hit.Thing.Normal(pos)
	reflectDir := d.Subtract(normal.Multiply(normal.Dot(d)).Multiply(2))

	naturalColor := core.Background.Add(rt.naturalColor(hit.Thing, pos, normal, reflectDir, scene, stats))

	// The depth check is the only thing stopping two facing mirrors from recursing forever
	var reflectedColor core.Color
	if depth >= rt.config.MaxDepth {
		reflectedColor = core.Grey
	} else {
		reflectedColor = rt.reflectionColor(hit.Thing, pos, reflectDir, scene, depth, stats)
	}

	return naturalColor.Add(reflectedColor)
}

// reflectionColor traces the mirror ray and weights it by the surface reflectivity
func (rt *Raytracer) reflectionColor(thing *geometry.Thing, pos, reflectDir core.Vec3, scene Scene, depth int, stats *RenderStats) core.Color {
	stats.countReflectionRay()
	reflected := rt.traceRay(core.NewRay(pos, reflectDir), scene, depth+1, stats)
	return reflected.Scale(thing.Surface().Reflect(pos))
}

// naturalColor sums the direct contribution of every light
func (rt *Raytracer) naturalColor(thing *geometry.Thing, pos, normal, reflectDir core.Vec3, scene Scene, stats *RenderStats) core.Color {
	col := core.DefaultColor
	for _, light := range scene.Lights() {
		col = rt.addLight(thing, pos, normal, reflectDir, scene, col, light, stats)
	}
	return col
}

// addLight adds the diffuse and Phong specular terms of one light to col,
// or returns col unchanged when something blocks the light
func (rt *Raytracer) addLight(thing *geometry.Thing, pos, normal, reflectDir core.Vec3, scene Scene, col core.Color, light lights.Light, stats *RenderStats) core.Color {
	ldis, lightDistance := light.DistanceFrom(pos)
	livec := ldis.Normalize()

	stats.countShadowRay()
	if nearDist, isHit := rt.testRay(core.NewRay(pos, livec), scene); isHit && nearDist < lightDistance {
		return col
	}

	illum := livec.Dot(normal)
	lcolor := core.DefaultColor
	if illum > 0 {
		lcolor = light.Color.Scale(illum)
	}

	specular := livec.Dot(reflectDir.Normalize())
	surface := thing.Surface()
	scolor := core.DefaultColor
	if specular > 0 {
		scolor = light.Color.Scale(powi(specular, surface.Roughness))
	}

	return col.Add(surface.Diffuse(pos).Multiply(lcolor)).Add(surface.Specular(pos).Multiply(scolor))
}

// powi raises base to a non-negative integer power by repeated squaring
func powi(base float64, exp int) float64 {
	result := 1.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Render traces every pixel of a width×height image, top row first, and writes
// each result to canvas exactly once
func (rt *Raytracer) Render(scene Scene, canvas Canvas, width, height int) RenderStats {
	return rt.RenderBounds(scene, canvas, image.Rect(0, 0, width, height), width, height)
}

// RenderBounds renders the pixels of bounds, a sub-rectangle of a width×height
// image, in row-major order
func (rt *Raytracer) RenderBounds(scene Scene, canvas Canvas, bounds image.Rectangle, width, height int) RenderStats {
	camera := scene.Camera()
	stats := newRenderStats(bounds.Dx() * bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := camera.GetRay(x, y, width, height)
			stats.PrimaryRays++
			canvas.SetPixel(x, y, rt.traceRay(ray, scene, 0, &stats))
		}
	}

	return stats
}
