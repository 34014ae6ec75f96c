package scene

import (
	"context"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

type silentLogger struct{}

func (silentLogger) Printf(string, ...interface{}) {}

// Reference output of the default scene at max depth 5
var (
	defaultScene2x2 = []uint8{
		0, 0, 0, 255, 0, 0, 0, 255,
		119, 134, 86, 255, 0, 0, 0, 255,
	}
	defaultScene4x4 = []uint8{
		0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255,
		24, 24, 28, 255, 40, 40, 159, 255, 27, 26, 30, 255, 0, 0, 0, 255,
		119, 134, 86, 255, 102, 110, 217, 255, 0, 0, 0, 255, 66, 62, 197, 255,
		0, 0, 0, 255, 18, 38, 49, 255, 107, 28, 119, 255, 0, 0, 0, 255,
	}
)

func comparePixels(t *testing.T, expected, got []uint8, width int) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d bytes, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			pixel := i / 4
			t.Errorf("Pixel (%d,%d) channel %d: expected %d, got %d",
				pixel%width, pixel/width, i%4, expected[i], got[i])
		}
	}
}

func TestDefaultScene_Contents(t *testing.T) {
	s := NewDefaultScene()

	things := s.Things()
	if len(things) != 3 {
		t.Fatalf("Expected 3 primitives, got %d", len(things))
	}
	expectedKinds := []geometry.ThingKind{geometry.KindPlane, geometry.KindSphere, geometry.KindSphere}
	for i, kind := range expectedKinds {
		if things[i].Kind() != kind {
			t.Errorf("Primitive %d: expected %v, got %v", i, kind, things[i].Kind())
		}
	}
	if len(s.Lights()) != 4 {
		t.Errorf("Expected 4 lights, got %d", len(s.Lights()))
	}
	if s.Camera().Pos != core.NewVec3(3, 2, 4) {
		t.Errorf("Unexpected camera position %v", s.Camera().Pos)
	}
	if s.RenderConfig().MaxDepth != 5 {
		t.Errorf("Expected max depth 5, got %d", s.RenderConfig().MaxDepth)
	}
}

func TestDefaultScene_ReferenceImage(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected []uint8
	}{
		{"2x2", 2, defaultScene2x2},
		{"4x4", 4, defaultScene4x4},
	}

	rt := renderer.NewRaytracer(renderer.DefaultRenderConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := renderer.NewPixelBuffer(tt.size, tt.size)
			rt.Render(NewDefaultScene(), buffer, tt.size, tt.size)
			comparePixels(t, tt.expected, buffer.Pixels, tt.size)

			canvas := renderer.NewImageCanvas(tt.size, tt.size)
			rt.Render(NewDefaultScene(), canvas, tt.size, tt.size)
			comparePixels(t, tt.expected, canvas.Image().Pix, tt.size)
		})
	}
}

func TestDefaultScene_ParallelMatchesReference(t *testing.T) {
	config := renderer.DefaultRenderConfig()
	config.Width, config.Height = 4, 4
	config.TileSize = 2
	config.NumWorkers = 3

	canvas := renderer.NewImageCanvas(4, 4)
	pr := renderer.NewParallelRaytracer(NewDefaultScene(), config, silentLogger{})
	if _, err := pr.Render(context.Background(), canvas, nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	comparePixels(t, defaultScene4x4, canvas.Image().Pix, 4)
}

func TestBuiltInScenes_ParallelMatchesSequential(t *testing.T) {
	for _, info := range List() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Lookup(info.ID)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}

			config := s.RenderConfig()
			config.Width, config.Height = 23, 17
			config.TileSize = 5
			config.NumWorkers = 4

			sequential := renderer.NewPixelBuffer(config.Width, config.Height)
			seqStats := renderer.NewRaytracer(config).Render(s, sequential, config.Width, config.Height)

			parallel := renderer.NewPixelBuffer(config.Width, config.Height)
			parStats, err := renderer.NewParallelRaytracer(s, config, silentLogger{}).Render(context.Background(), parallel, nil)
			if err != nil {
				t.Fatalf("Parallel render failed: %v", err)
			}

			comparePixels(t, sequential.Pixels, parallel.Pixels, config.Width)
			if seqStats != parStats {
				t.Errorf("Stats differ: sequential %+v, parallel %+v", seqStats, parStats)
			}
			if parStats.MaxDepthReached > config.MaxDepth {
				t.Errorf("Depth %d exceeds limit %d", parStats.MaxDepthReached, config.MaxDepth)
			}
		})
	}
}
