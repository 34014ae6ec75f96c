package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ThingKind tags which primitive a Thing holds
type ThingKind uint8

const (
	KindSphere ThingKind = iota + 1
	KindPlane
)

// String returns the lower-case name of the kind
func (k ThingKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	default:
		return fmt.Sprintf("ThingKind(%d)", uint8(k))
	}
}

// Thing is the closed set of intersectable primitives. Dispatch is a switch on
// Kind rather than an interface call; adding a shape means adding a kind, a field
// and a case in each method below.
type Thing struct {
	kind   ThingKind
	sphere Sphere
	plane  Plane
}

// SphereThing wraps a sphere as a Thing
func SphereThing(centre core.Vec3, radius float64, surface *material.Surface) Thing {
	return Thing{kind: KindSphere, sphere: NewSphere(centre, radius, surface)}
}

// PlaneThing wraps a plane as a Thing
func PlaneThing(normal core.Vec3, offset float64, surface *material.Surface) Thing {
	return Thing{kind: KindPlane, plane: NewPlane(normal, offset, surface)}
}

// Kind returns which primitive this Thing holds
func (t *Thing) Kind() ThingKind {
	return t.kind
}

// Sphere returns the wrapped sphere; ok is false for other kinds
func (t *Thing) Sphere() (Sphere, bool) {
	return t.sphere, t.kind == KindSphere
}

// Plane returns the wrapped plane; ok is false for other kinds
func (t *Thing) Plane() (Plane, bool) {
	return t.plane, t.kind == KindPlane
}

// Intersection records a ray hitting a Thing at distance Dist along the ray.
// Thing points into the scene's primitive slice and must not outlive the trace
// call that produced it.
type Intersection struct {
	Thing *Thing
	Ray   core.Ray
	Dist  float64
}

// Intersect tests the ray against the primitive. A sphere reports no hit for a
// zero distance; a plane reports any front-facing distance, including negative ones.
func (t *Thing) Intersect(ray core.Ray) (Intersection, bool) {
	switch t.kind {
	case KindSphere:
		dist := t.sphere.hitDistance(ray)
		if dist == 0 {
			return Intersection{}, false
		}
		return Intersection{Thing: t, Ray: ray, Dist: dist}, true
	case KindPlane:
		dist, ok := t.plane.hitDistance(ray)
		if !ok {
			return Intersection{}, false
		}
		return Intersection{Thing: t, Ray: ray, Dist: dist}, true
	default:
		panic(fmt.Sprintf("geometry: intersect on %v", t.kind))
	}
}

// Normal returns the surface normal at pos
func (t *Thing) Normal(pos core.Vec3) core.Vec3 {
	switch t.kind {
	case KindSphere:
		return t.sphere.Normal(pos)
	case KindPlane:
		return t.plane.Normal
	default:
		panic(fmt.Sprintf("geometry: normal on %v", t.kind))
	}
}

// Surface returns the shared surface of the primitive
func (t *Thing) Surface() *material.Surface {
	switch t.kind {
	case KindSphere:
		return t.sphere.Surface
	case KindPlane:
		return t.plane.Surface
	default:
		panic(fmt.Sprintf("geometry: surface on %v", t.kind))
	}
}
