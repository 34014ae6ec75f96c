package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major over the grid
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of non-overlapping tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

// tileBuffer is a private canvas for one tile. Workers render into it so the
// shared canvas is only ever written from the coordinating goroutine.
type tileBuffer struct {
	bounds image.Rectangle
	pixels []core.Color
}

func newTileBuffer(bounds image.Rectangle) *tileBuffer {
	return &tileBuffer{
		bounds: bounds,
		pixels: make([]core.Color, bounds.Dx()*bounds.Dy()),
	}
}

// SetPixel implements Canvas using image coordinates
func (tb *tileBuffer) SetPixel(x, y int, c core.Color) {
	tb.pixels[(y-tb.bounds.Min.Y)*tb.bounds.Dx()+(x-tb.bounds.Min.X)] = c
}

// copyTo writes the tile into canvas in row-major order
func (tb *tileBuffer) copyTo(canvas Canvas) {
	i := 0
	for y := tb.bounds.Min.Y; y < tb.bounds.Max.Y; y++ {
		for x := tb.bounds.Min.X; x < tb.bounds.Max.X; x++ {
			canvas.SetPixel(x, y, tb.pixels[i])
			i++
		}
	}
}

// TileRenderer renders individual tiles of a scene
type TileRenderer struct {
	scene         Scene
	raytracer     *Raytracer
	width, height int
}

// NewTileRenderer creates a new tile renderer for a width×height image of scene
func NewTileRenderer(scene Scene, raytracer *Raytracer, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:     scene,
		raytracer: raytracer,
		width:     width,
		height:    height,
	}
}

// RenderTile renders the pixels of tile into a fresh buffer
func (tr *TileRenderer) RenderTile(tile *Tile) (*tileBuffer, RenderStats) {
	buffer := newTileBuffer(tile.Bounds)
	stats := tr.raytracer.RenderBounds(tr.scene, buffer, tile.Bounds, tr.width, tr.height)
	return buffer, stats
}
