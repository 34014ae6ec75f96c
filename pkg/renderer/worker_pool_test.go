package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func newTestScene() *MockScene {
	return newMockScene([]geometry.Thing{
		geometry.PlaneThing(core.NewVec3(0, 1, 0), 0, material.Checkerboard),
		geometry.SphereThing(core.NewVec3(0, 1, 0), 1, material.Shiny),
		geometry.SphereThing(core.NewVec3(1.5, 0.5, 1), 0.5, material.Mirror),
	}, []lights.Light{
		lights.NewLight(core.NewVec3(2, 4, 2), core.NewColor(0.6, 0.5, 0.4)),
		lights.NewLight(core.NewVec3(-3, 3, 1), core.NewColor(0.1, 0.2, 0.5)),
	})
}

func testConfig(width, height, tileSize, workers int) RenderConfig {
	config := DefaultRenderConfig()
	config.Width = width
	config.Height = height
	config.TileSize = tileSize
	config.NumWorkers = workers
	return config
}

func TestWorkerPool_RendersEveryTask(t *testing.T) {
	config := testConfig(10, 10, 4, 3)
	tiles := NewTileGrid(config.Width, config.Height, config.TileSize)

	pool := NewWorkerPool(newTestScene(), config, len(tiles))
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}
	pool.Start()

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: context.Background(), Tile: tile, TaskID: i})
	}

	seen := make(map[int]bool)
	pixels := 0
	for range tiles {
		result, err := pool.GetResult(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Error != nil {
			t.Fatalf("Task %d failed: %v", result.TaskID, result.Error)
		}
		if seen[result.TaskID] {
			t.Errorf("Task %d returned twice", result.TaskID)
		}
		seen[result.TaskID] = true
		pixels += result.Stats.TotalPixels
	}
	pool.Stop()

	if pixels != config.Width*config.Height {
		t.Errorf("Expected %d pixels, got %d", config.Width*config.Height, pixels)
	}
	if _, err := pool.GetResult(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed after Stop, got %v", err)
	}
}

func TestWorkerPool_SkipsCancelledTasks(t *testing.T) {
	config := testConfig(8, 8, 4, 2)
	tiles := NewTileGrid(config.Width, config.Height, config.TileSize)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool(newTestScene(), config, len(tiles))
	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: i})
	}
	for range tiles {
		result, _ := pool.GetResult(context.Background())
		if !errors.Is(result.Error, context.Canceled) {
			t.Errorf("Expected cancelled result, got %v", result.Error)
		}
		if result.Pixels != nil {
			t.Error("Expected no pixels for a cancelled task")
		}
	}
	pool.Stop()
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(newTestScene(), testConfig(4, 4, 4, 0), 1)
	if pool.GetNumWorkers() <= 0 {
		t.Errorf("Expected a positive worker count, got %d", pool.GetNumWorkers())
	}
}
