package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	warm := flag.Int("warm", 0, "Pre-render every scene at this size (0 = render on demand only)")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port)

	if *warm > 0 {
		log.Printf("Pre-rendering built-in scenes at %dx%d...", *warm, *warm)
		if err := webServer.Warm(*warm, *warm); err != nil {
			log.Printf("Error pre-rendering scenes: %v", err)
			os.Exit(1)
		}
	}

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
