package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite one-sided plane: Normal·p + Offset = 0
type Plane struct {
	Normal  core.Vec3 // Unit normal of the front side
	Offset  float64   // Signed offset from the origin along Normal
	Surface *material.Surface
}

// NewPlane creates a new plane. The normal is stored as given and is expected to be unit length.
func NewPlane(normal core.Vec3, offset float64, surface *material.Surface) Plane {
	return Plane{
		Normal:  normal,
		Offset:  offset,
		Surface: surface,
	}
}

// hitDistance returns the signed distance along the ray to the plane.
// ok is false when the ray faces away from the front side or runs parallel to it.
// The distance may be negative when the plane is behind the origin; the
// intersection resolver rejects non-positive distances.
func (p *Plane) hitDistance(ray core.Ray) (dist float64, ok bool) {
	denom := p.Normal.Dot(ray.Direction)
	// denom == 0 would divide by zero; the quotient could never be a usable hit
	if denom >= 0 {
		return 0, false
	}
	return (p.Normal.Dot(ray.Origin) + p.Offset) / (-denom), true
}
