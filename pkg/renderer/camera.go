package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// fovScale sets the field of view by scaling the right and up vectors
const fovScale = 1.5

// worldDown is crossed with forward to derive the camera's right vector
var worldDown = core.NewVec3(0.0, -1.0, 0.0)

// Camera generates primary rays. Its basis is derived once from the eye position
// and look-at target and never changes afterwards.
type Camera struct {
	Pos     core.Vec3
	Forward core.Vec3
	Right   core.Vec3
	Up      core.Vec3
}

// NewCamera creates a camera at pos looking toward lookAt
func NewCamera(pos, lookAt core.Vec3) *Camera {
	forward := lookAt.Subtract(pos).Normalize()
	right := forward.Cross(worldDown).Normalize().Multiply(fovScale)
	up := forward.Cross(right).Normalize().Multiply(fovScale)

	return &Camera{
		Pos:     pos,
		Forward: forward,
		Right:   right,
		Up:      up,
	}
}

// GetPoint returns the unit direction through pixel (x, y) of a width×height image.
// Row 0 is the top of the image.
func (c *Camera) GetPoint(x, y, width, height int) core.Vec3 {
	fw, fh := float64(width), float64(height)
	recenterX := (float64(x) - (fw / 2.0)) / 2.0 / fw
	recenterY := -(float64(y) - (fh / 2.0)) / 2.0 / fh

	offset := c.Right.Multiply(recenterX).Add(c.Up.Multiply(recenterY))
	return c.Forward.Add(offset).Normalize()
}

// GetRay returns the primary ray through pixel (x, y)
func (c *Camera) GetRay(x, y, width, height int) core.Ray {
	return core.NewRay(c.Pos, c.GetPoint(x, y, width, height))
}
