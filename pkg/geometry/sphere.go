package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Centre  core.Vec3
	Radius2 float64 // Squared radius, precomputed at construction
	Surface *material.Surface
}

// NewSphere creates a new sphere
func NewSphere(centre core.Vec3, radius float64, surface *material.Surface) Sphere {
	return Sphere{
		Centre:  centre,
		Radius2: radius * radius,
		Surface: surface,
	}
}

// hitDistance returns the distance to the near intersection, or 0 for a miss.
// Spheres behind the ray origin are never hit, and a root of exactly 0 counts as a miss.
func (s *Sphere) hitDistance(ray core.Ray) float64 {
	// Vector from ray origin to sphere centre
	eo := s.Centre.Subtract(ray.Origin)
	v := eo.Dot(ray.Direction)

	dist := 0.0
	if v >= 0 {
		disc := s.Radius2 - (eo.Dot(eo) - v*v)
		if disc >= 0 {
			dist = v - math.Sqrt(disc)
		}
	}
	return dist
}

// Normal returns the outward unit normal at a point on the sphere
func (s *Sphere) Normal(pos core.Vec3) core.Vec3 {
	return pos.Subtract(s.Centre).Normalize()
}
