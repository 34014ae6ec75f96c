package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Lookup for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier used on the command line and in URLs
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Primitives  int    `json:"primitives"`  // Number of spheres and planes
	Lights      int    `json:"lights"`      // Number of point lights
}

type sceneEntry struct {
	displayName string
	description string
	build       func() *Scene
}

var builtInScenes = map[string]sceneEntry{
	"default": {
		displayName: "Default Scene",
		description: "Two shiny spheres on a checkerboard, four colored lights",
		build:       NewDefaultScene,
	},
	"mirrors": {
		displayName: "Hall of Mirrors",
		description: "Two facing mirrors around a shiny sphere, graded back wall",
		build:       NewMirrorScene,
	},
	"spheregrid": {
		displayName: "Sphere Grid",
		description: "Grid of shiny and matte spheres on a checkered floor",
		build:       NewSphereGridScene,
	},
}

// Lookup builds the named scene. Names are case-insensitive.
func Lookup(name string) (*Scene, error) {
	entry, ok := builtInScenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return entry.build(), nil
}

// List returns every built-in scene sorted by ID
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for id, entry := range builtInScenes {
		s := entry.build()
		scenes = append(scenes, SceneInfo{
			ID:          id,
			DisplayName: entry.displayName,
			Description: entry.description,
			Primitives:  s.GetPrimitiveCount(),
			Lights:      len(s.Lights()),
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}
