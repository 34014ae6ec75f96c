package core

// Color is an unclamped RGB triple. Components may leave [0,1] while light
// accumulates; clamping belongs to whoever stores the pixel.
type Color struct {
	R, G, B float64
}

var (
	White = Color{1.0, 1.0, 1.0}
	Grey  = Color{0.5, 0.5, 0.5}
	Black = Color{}

	// Background is returned for rays that hit nothing
	Background = Black
	// DefaultColor is the starting value for light accumulation
	DefaultColor = Black
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the component-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Scale returns the color with every channel multiplied by k
func (c Color) Scale(k float64) Color {
	return Color{k * c.R, k * c.G, k * c.B}
}

// Multiply returns the component-wise product of two colors
func (c Color) Multiply(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Clamp returns a color with channels clamped to [minVal, maxVal]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
	}
}
