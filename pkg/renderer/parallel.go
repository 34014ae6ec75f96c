package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX  int // Tile coordinates (not pixel coordinates)
	TileY  int
	Bounds image.Rectangle // Pixel bounds of the tile, already written to the canvas

	// Progress information
	TileNumber int // Completed tiles so far, including this one (1-based)
	TotalTiles int // Total number of tiles in the image
}

// ParallelRaytracer renders a scene by splitting the image into tiles and
// tracing them on a worker pool. Every pixel is computed by the same pure
// function as Raytracer.Render, so the output is identical; only the order of
// SetPixel calls differs (tile by tile, in completion order).
type ParallelRaytracer struct {
	scene  Scene
	config RenderConfig
	tiles  []*Tile
	logger core.Logger
}

// NewParallelRaytracer creates a new parallel raytracer
func NewParallelRaytracer(scene Scene, config RenderConfig, logger core.Logger) *ParallelRaytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &ParallelRaytracer{
		scene:  scene,
		config: config,
		tiles:  NewTileGrid(config.Width, config.Height, config.TileSize),
		logger: logger,
	}
}

// Render traces every tile and writes the pixels to canvas. canvas is only
// touched from the calling goroutine. tileCallback, if not nil, runs after each
// tile has been written. Cancelling ctx stops the render between tiles.
func (pr *ParallelRaytracer) Render(ctx context.Context, canvas Canvas, tileCallback func(TileCompletionResult)) (RenderStats, error) {
	workerPool := NewWorkerPool(pr.scene, pr.config, len(pr.tiles))
	workerPool.Start()
	defer workerPool.Stop()

	pr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers, max depth %d)...\n",
		pr.config.Width, pr.config.Height, len(pr.tiles), workerPool.GetNumWorkers(), pr.config.MaxDepth)
	startTime := time.Now()

	for taskID, tile := range pr.tiles {
		workerPool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: taskID})
	}

	var stats RenderStats
	for i := 0; i < len(pr.tiles); i++ {
		result, err := workerPool.GetResult(ctx)
		if err != nil {
			if ctx.Err() != nil {
				pr.logger.Printf("Rendering cancelled after %d of %d tiles\n", i, len(pr.tiles))
			}
			return stats, err
		}
		if result.Error != nil {
			return stats, result.Error
		}

		result.Pixels.copyTo(canvas)
		stats.Merge(result.Stats)

		if tileCallback != nil {
			tile := pr.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				Bounds:     tile.Bounds,
				TileNumber: i + 1,
				TotalTiles: len(pr.tiles),
			})
		}
	}

	pr.logger.Printf("Render completed in %v (%d rays, max depth reached %d)\n",
		time.Since(startTime), stats.TotalRays(), stats.MaxDepthReached)

	return stats, nil
}

// RenderParallel renders scene into canvas on a worker pool, logging to stdout
func RenderParallel(ctx context.Context, scene Scene, canvas Canvas, config RenderConfig, tileCallback func(TileCompletionResult)) (RenderStats, error) {
	return NewParallelRaytracer(scene, config, nil).Render(ctx, canvas, tileCallback)
}
