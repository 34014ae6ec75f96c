package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"` // Pixel position of the tile's top-left corner
	Y          int    `json:"y"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles completed so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// CompleteUpdate is the final SSE event of a streamed render
type CompleteUpdate struct {
	ElapsedMs      int64 `json:"elapsedMs"`
	PrimitiveCount int   `json:"primitiveCount"`
	Stats          Stats `json:"stats"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a scene. By default it responds with a PNG; with
// mode=stream it streams tiles as Server-Sent Events while they complete.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	sceneObj, err := s.parseCommonSceneParams(r, req)

	if r.URL.Query().Get("mode") == "stream" {
		s.handleRenderStream(w, r, req, sceneObj, err)
		return
	}

	if err != nil {
		writeParamError(w, err)
		return
	}
	s.handleRenderPNG(w, r, req, sceneObj)
}

// handleRenderPNG serves a finished image, rendering it on first request
func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request, req *RenderRequest, sceneObj *scene.Scene) {
	img, stats, cached, err := s.renderCached(r.Context(), req, sceneObj, renderer.NewDefaultLogger())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Render error: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Cached", strconv.FormatBool(cached))
	w.Header().Set("X-Render-Rays", strconv.Itoa(stats.TotalRays()))
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		log.Printf("Error writing PNG for %s: %v", req.cacheKey(), err)
	}
}

// renderCached returns the image for req from the cache, rendering it if needed.
// The render runs on the context of the request that started it; concurrent
// requests for the same key wait for it and render afresh if it is cancelled.
func (s *Server) renderCached(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*image.RGBA, renderer.RenderStats, bool, error) {
	config := req.renderConfig(sceneObj)
	return s.cache.GetOrRender(ctx, req.cacheKey(), func(ctx context.Context) (*image.RGBA, renderer.RenderStats, error) {
		canvas := renderer.NewImageCanvas(config.Width, config.Height)
		stats, err := renderer.NewParallelRaytracer(sceneObj, config, logger).Render(ctx, canvas, nil)
		if err != nil {
			return nil, stats, fmt.Errorf("render %s: %w", req.cacheKey(), err)
		}
		return canvas.Image(), stats, nil
	})
}

// Warm renders every built-in scene at width×height into the cache ahead of time
func (s *Server) Warm(width, height int) error {
	for _, info := range scene.List() {
		sceneObj, err := scene.Lookup(info.ID)
		if err != nil {
			return err
		}
		req := &RenderRequest{
			Scene:    info.ID,
			Width:    width,
			Height:   height,
			MaxDepth: sceneObj.RenderConfig().MaxDepth,
		}
		if _, _, _, err := s.renderCached(context.Background(), req, sceneObj, renderer.NewDefaultLogger()); err != nil {
			return err
		}
	}
	return nil
}

// handleRenderStream renders with real-time tile streaming via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request, req *RenderRequest, sceneObj *scene.Scene, parseErr error) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// A single writer goroutine owns w
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	if parseErr != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", parseErr))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	config := req.renderConfig(sceneObj)
	config.TileSize = DefaultTileSize
	canvas := renderer.NewImageCanvas(config.Width, config.Height)
	raytracer := renderer.NewParallelRaytracer(sceneObj, config, webLogger)

	startTime := time.Now()
	stats, err := raytracer.Render(ctx, canvas, func(tile renderer.TileCompletionResult) {
		s.handleTileUpdate(ctx, sseEventChan, canvas, tile)
	})

	// Flush console output before the final event
	close(consoleChan)
	consoleWG.Wait()

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Render error: %v", err))
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		Stats:          newStats(stats),
	})
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every SSE event from one goroutine until the channel
// is closed. After a disconnect it keeps draining so senders never block.
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	connected := true
	for event := range sseEventChan {
		if !connected || ctx.Err() != nil {
			connected = false
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			connected = false
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// handleTileUpdate encodes a finished tile and sends it as a tile event
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, canvas *renderer.ImageCanvas, tile renderer.TileCompletionResult) {
	if ctx.Err() != nil {
		return
	}

	tileData, err := s.imageToBase64PNG(canvas.SubImage(tile.Bounds))
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		TileX:      tile.TileX,
		TileY:      tile.TileY,
		X:          tile.Bounds.Min.X,
		Y:          tile.Bounds.Min.Y,
		ImageData:  tileData,
		TileNumber: tile.TileNumber,
		TotalTiles: tile.TotalTiles,
	})
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
