package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewCheckerPattern returns a position-based color that alternates color1 and
// color2 on squares of checkSize in the XZ plane
func NewCheckerPattern(checkSize float64, color1, color2 core.Color) func(core.Vec3) core.Color {
	return func(pos core.Vec3) core.Color {
		// Determine which check we're in
		checkX := math.Floor(pos.X / checkSize)
		checkZ := math.Floor(pos.Z / checkSize)

		if int(checkX+checkZ)%2 == 0 {
			return color1
		}
		return color2
	}
}

// NewGradientPattern returns a position-based color that blends from bottom at
// height y0 to top at height y1, holding the end colors outside that band
func NewGradientPattern(y0, y1 float64, bottom, top core.Color) func(core.Vec3) core.Color {
	return func(pos core.Vec3) core.Color {
		t := min(max((pos.Y-y0)/(y1-y0), 0.0), 1.0)
		return bottom.Scale(1.0 - t).Add(top.Scale(t))
	}
}
