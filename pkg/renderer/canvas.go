package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Canvas receives rendered pixels. The renderer calls SetPixel exactly once per
// pixel with 0 <= x < width and 0 <= y < height and never reads pixels back.
type Canvas interface {
	SetPixel(x, y int, c core.Color)
}

// ColorToRGBA clamps c to [0,1] and quantizes each channel with floor(v*255)
func ColorToRGBA(c core.Color) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(math.Floor(c.R * 255.0)),
		G: uint8(math.Floor(c.G * 255.0)),
		B: uint8(math.Floor(c.B * 255.0)),
		A: 255,
	}
}

// ImageCanvas writes pixels into an *image.RGBA
type ImageCanvas struct {
	img *image.RGBA
}

// NewImageCanvas creates a canvas backed by a new width×height image
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel implements Canvas
func (ic *ImageCanvas) SetPixel(x, y int, c core.Color) {
	ic.img.SetRGBA(x, y, ColorToRGBA(c))
}

// Image returns the backing image
func (ic *ImageCanvas) Image() *image.RGBA {
	return ic.img
}

// SubImage returns the part of the image inside bounds
func (ic *ImageCanvas) SubImage(bounds image.Rectangle) image.Image {
	return ic.img.SubImage(bounds)
}

// PixelBuffer is a fixed-size canvas over packed RGBA bytes, 4 bytes per pixel
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []uint8
}

// NewPixelBuffer allocates a zeroed width×height buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint8, 4*width*height),
	}
}

// SetPixel implements Canvas
func (pb *PixelBuffer) SetPixel(x, y int, c core.Color) {
	rgba := ColorToRGBA(c)
	i := 4 * (x + pb.Width*y)
	pb.Pixels[i] = rgba.R
	pb.Pixels[i+1] = rgba.G
	pb.Pixels[i+2] = rgba.B
	pb.Pixels[i+3] = rgba.A
}
