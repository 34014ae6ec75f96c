package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Index        int                    `json:"index"` // Position of the primitive in the scene
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color,omitempty"` // Rendered pixel color
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorHex(c core.Color) string {
	rgba := renderer.ColorToRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// extractSurfaceInfo samples the surface functions at pos
func (s *Server) extractSurfaceInfo(surface *material.Surface, pos core.Vec3) map[string]interface{} {
	diffuse := surface.Diffuse(pos)
	specular := surface.Specular(pos)
	return map[string]interface{}{
		"diffuse":   [3]float64{diffuse.R, diffuse.G, diffuse.B},
		"specular":  [3]float64{specular.R, specular.G, specular.B},
		"reflect":   surface.Reflect(pos),
		"roughness": surface.Roughness,
		"color":     colorHex(diffuse),
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(thing *geometry.Thing) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	if sphere, ok := thing.Sphere(); ok {
		properties["center"] = vecArray(sphere.Centre)
		properties["radius"] = math.Sqrt(sphere.Radius2)
	} else if plane, ok := thing.Plane(); ok {
		properties["normal"] = vecArray(plane.Normal)
		properties["offset"] = plane.Offset
	}
	return thing.Kind().String(), properties
}

// inspectPixel casts the primary ray through pixel (x, y) and returns the nearest hit
// along with the color the renderer would produce for that pixel
func inspectPixel(sceneObj *scene.Scene, config renderer.RenderConfig, pixelX, pixelY int) (geometry.Intersection, core.Color, bool) {
	raytracer := renderer.NewRaytracer(config)
	ray := sceneObj.Camera().GetRay(pixelX, pixelY, config.Width, config.Height)

	hit, isHit := raytracer.NearestHit(ray, sceneObj)
	return hit, raytracer.TraceRay(ray, sceneObj, 0), isHit
}

// indexOf returns the position of thing in things, or -1
func indexOf(things []geometry.Thing, thing *geometry.Thing) int {
	for i := range things {
		if &things[i] == thing {
			return i
		}
	}
	return -1
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	sceneObj, err := s.parseCommonSceneParams(r, inspectReq)
	if err != nil {
		writeParamError(w, err)
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	hit, pixelColor, isHit := inspectPixel(sceneObj, inspectReq.renderConfig(sceneObj), pixelX, pixelY)
	if !isHit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Index: -1, Color: colorHex(pixelColor)})
		return
	}

	pos := hit.Ray.At(hit.Dist)
	geometryType, geometryProps := s.extractGeometryInfo(hit.Thing)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Index:        indexOf(sceneObj.Things(), hit.Thing),
		Point:        vecArray(pos),
		Normal:       vecArray(hit.Thing.Normal(pos)),
		Distance:     hit.Dist,
		Color:        colorHex(pixelColor),
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"surface":  s.extractSurfaceInfo(hit.Thing.Surface(), pos),
		},
	})
}
