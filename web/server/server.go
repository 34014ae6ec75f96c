package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Parameter limits shared by every endpoint that takes scene parameters
const (
	MinImageSize = 1
	MaxImageSize = 2000
	MaxDepthCap  = 50
)

// DefaultTileSize is the tile edge used for streamed renders
const DefaultTileSize = 32

// DefaultCachePixels bounds the render cache to four maximum-size images
const DefaultCachePixels = 4 * MaxImageSize * MaxImageSize

// Server handles web requests for the raytracer
type Server struct {
	port  int
	cache *renderer.RenderCache
	mux   *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{
		port:  port,
		cache: renderer.NewRenderCache(DefaultCachePixels),
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/health", s.handleHealth)

	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest holds the parameters shared by render and inspect requests
type RenderRequest struct {
	Scene    string `json:"scene"`    // Scene name (e.g., "default")
	Width    int    `json:"width"`    // Image width
	Height   int    `json:"height"`   // Image height
	MaxDepth int    `json:"maxDepth"` // Reflection recursion limit
}

// renderConfig builds the renderer configuration for req on top of the scene's defaults
func (req *RenderRequest) renderConfig(sceneObj *scene.Scene) renderer.RenderConfig {
	config := sceneObj.RenderConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.MaxDepth = req.MaxDepth
	return config
}

// cacheKey identifies the image req describes
func (req *RenderRequest) cacheKey() renderer.CacheKey {
	return renderer.CacheKey{Scene: req.Scene, Width: req.Width, Height: req.Height, MaxDepth: req.MaxDepth}
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int `json:"totalPixels"`
	PrimaryRays     int `json:"primaryRays"`
	ShadowRays      int `json:"shadowRays"`
	ReflectionRays  int `json:"reflectionRays"`
	MaxDepthReached int `json:"maxDepthReached"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		PrimaryRays:     stats.PrimaryRays,
		ShadowRays:      stats.ShadowRays,
		ReflectionRays:  stats.ReflectionRays,
		MaxDepthReached: stats.MaxDepthReached,
	}
}

// parseCommonSceneParams resolves the scene and parses size and depth.
// Defaults for width, height and maxDepth come from the scene.
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) (*scene.Scene, error) {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, err
	}
	defaults := sceneObj.RenderConfig()

	if req.Width, err = parseIntParam(query, "width", defaults.Width, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaults.Height, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaults.MaxDepth, 0, MaxDepthCap); err != nil {
		return nil, err
	}

	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeParamError reports a parameter error; unknown scenes are 404, everything else 400
func writeParamError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, scene.ErrUnknownScene) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"cachedImages": s.cache.Len(),
		"cachedPixels": s.cache.Pixels(),
	})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Lookup(sceneName)
	if err != nil {
		writeParamError(w, err)
		return
	}

	config := sceneObj.RenderConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":    config.Width,
			"height":   config.Height,
			"maxDepth": config.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"height": map[string]int{
				"min": MinImageSize,
				"max": MaxImageSize,
			},
			"maxDepth": map[string]int{
				"min": 0,
				"max": MaxDepthCap,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
