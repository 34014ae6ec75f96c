package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// previewSize is the edge of the small image rendered by -precompute
const previewSize = 32

// options holds the parsed command line
type options struct {
	Scene      string
	Width      int
	Height     int
	MaxDepth   int
	Workers    int
	TileSize   int
	OutputDir  string
	Sequential bool
	Precompute bool
	Help       bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	// Show help if requested
	if opts.Help {
		printHelp(os.Stdout)
		return
	}

	if _, err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses args into options. Size and depth flags left at 0 fall back
// to the scene's recommended settings.
func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&opts.Scene, "scene", "default", "Scene name: 'default', 'mirrors' or 'spheregrid'")
	fs.IntVar(&opts.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.Height, "height", 0, "Image height in pixels (0 = scene default)")
	fs.IntVar(&opts.MaxDepth, "max-depth", -1, "Reflection depth limit (-1 = scene default)")
	fs.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	fs.IntVar(&opts.TileSize, "tile-size", 0, "Tile edge in pixels for parallel rendering (0 = default)")
	fs.StringVar(&opts.OutputDir, "output", "output", "Base directory for rendered images")
	fs.BoolVar(&opts.Sequential, "sequential", false, "Render on a single goroutine, row by row")
	fs.BoolVar(&opts.Precompute, "precompute", false, fmt.Sprintf("Also render a %dx%d preview before the full image", previewSize, previewSize))
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Width < 0 || opts.Height < 0 || opts.Workers < 0 || opts.TileSize < 0 {
		err := errors.New("sizes and worker counts must not be negative")
		fmt.Fprintln(errOut, err)
		return opts, err
	}
	if opts.MaxDepth < -1 {
		err := errors.New("max-depth must be -1 (scene default) or at least 0")
		fmt.Fprintln(errOut, err)
		return opts, err
	}
	return opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(w, "  %-12s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <output>/<scene>/render_<timestamp>.png")
	fmt.Fprintln(w, "Run with -h to list the options.")
}

// createScene builds the named built-in scene
func createScene(name string) (*scene.Scene, error) {
	s, err := scene.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	return s, nil
}

// createOutputDir returns the directory renders of sceneName are written to
func createOutputDir(baseDir, sceneName string) string {
	return filepath.Join(baseDir, filepath.Base(sceneName))
}

// buildConfig overlays the command line onto the scene's recommended settings
func buildConfig(opts options, s *scene.Scene) renderer.RenderConfig {
	config := renderer.MergeRenderConfig(s.RenderConfig(), renderer.RenderConfig{
		Width:      opts.Width,
		Height:     opts.Height,
		NumWorkers: opts.Workers,
		TileSize:   opts.TileSize,
	})
	// 0 is a valid depth, so it cannot go through the merge
	if opts.MaxDepth >= 0 {
		config.MaxDepth = opts.MaxDepth
	}
	return config
}

// renderImage renders s with config, in parallel unless sequential is set
func renderImage(s *scene.Scene, config renderer.RenderConfig, sequential bool, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	canvas := renderer.NewImageCanvas(config.Width, config.Height)

	if sequential {
		stats := renderer.NewRaytracer(config).Render(s, canvas, config.Width, config.Height)
		return canvas.Image(), stats, nil
	}

	stats, err := renderer.NewParallelRaytracer(s, config, logger).Render(context.Background(), canvas, nil)
	if err != nil {
		return nil, stats, fmt.Errorf("rendering: %w", err)
	}
	return canvas.Image(), stats, nil
}

// renderPreview renders the fixed-size preview into a PixelBuffer
func renderPreview(s *scene.Scene, maxDepth int) *image.RGBA {
	config := renderer.DefaultRenderConfig()
	config.MaxDepth = maxDepth

	buffer := renderer.NewPixelBuffer(previewSize, previewSize)
	renderer.NewRaytracer(config).Render(s, buffer, previewSize, previewSize)

	return &image.RGBA{
		Pix:    buffer.Pixels,
		Stride: 4 * buffer.Width,
		Rect:   image.Rect(0, 0, buffer.Width, buffer.Height),
	}
}

// savePNG writes img to filename
func savePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	return file.Close()
}

// run renders the scene described by opts and returns the path of the saved image
func run(opts options, logger core.Logger) (string, error) {
	logger.Printf("Starting Whitted Raytracer...\n")

	selectedScene, err := createScene(opts.Scene)
	if err != nil {
		return "", err
	}
	config := buildConfig(opts, selectedScene)
	logger.Printf("Using %s scene (%d primitives, %d lights)\n",
		opts.Scene, selectedScene.GetPrimitiveCount(), len(selectedScene.Lights()))

	// Create output directory for this scene
	outputDir := createOutputDir(opts.OutputDir, opts.Scene)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")

	if opts.Precompute {
		preview := filepath.Join(outputDir, fmt.Sprintf("preview_%dx%d_%s.png", previewSize, previewSize, timestamp))
		if err := savePNG(renderPreview(selectedScene, config.MaxDepth), preview); err != nil {
			return "", err
		}
		logger.Printf("Preview saved as %s\n", preview)
	}

	startTime := time.Now()
	img, stats, err := renderImage(selectedScene, config, opts.Sequential, logger)
	if err != nil {
		return "", err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Rays: %d primary, %d shadow, %d reflection (max depth reached %d)\n",
		stats.PrimaryRays, stats.ShadowRays, stats.ReflectionRays, stats.MaxDepthReached)

	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := savePNG(img, filename); err != nil {
		return "", err
	}

	logger.Printf("Render saved as %s\n", filename)
	return filename, nil
}
