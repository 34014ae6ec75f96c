package renderer

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by GetResult once the pool has been stopped and drained
var ErrPoolClosed = errors.New("worker pool closed")

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Ctx    context.Context
	Tile   *Tile
	TaskID int // Index of the tile, used to pair results with tiles
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Pixels *tileBuffer
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *TileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool sized for maxTiles outstanding tasks
func NewWorkerPool(scene Scene, config RenderConfig, maxTiles int) *WorkerPool {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),   // Buffer for all tiles
		resultQueue: make(chan TileResult, maxTiles), // Results never block a worker
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    NewTileRenderer(scene, NewRaytracer(config), config.Width, config.Height),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult waits for a completed tile result or for ctx to be cancelled
func (wp *WorkerPool) GetResult(ctx context.Context) (TileResult, error) {
	select {
	case <-ctx.Done():
		return TileResult{}, ctx.Err()
	case result, ok := <-wp.resultQueue:
		if !ok {
			return TileResult{}, ErrPoolClosed
		}
		return result, nil
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Drain cancelled work without rendering it
		if err := task.Ctx.Err(); err != nil {
			w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		pixels, stats := w.renderer.RenderTile(task.Tile)
		w.resultQueue <- TileResult{
			TaskID: task.TaskID,
			Pixels: pixels,
			Stats:  stats,
		}
	}
}
