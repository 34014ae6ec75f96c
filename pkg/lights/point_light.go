package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Light is a point light. Color is an intensity and may exceed 1.
type Light struct {
	Pos   core.Vec3
	Color core.Color
}

// NewLight creates a new point light
func NewLight(pos core.Vec3, color core.Color) Light {
	return Light{Pos: pos, Color: color}
}

// DistanceFrom returns the vector from point to the light and its length
func (l Light) DistanceFrom(point core.Vec3) (core.Vec3, float64) {
	ldis := l.Pos.Subtract(point)
	return ldis, ldis.Length()
}
