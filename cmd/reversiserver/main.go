// Command reversiserver runs the Reversi REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/reversi/pkg/api"
	"github.com/yourusername/reversi/pkg/engine"
	"github.com/yourusername/reversi/pkg/external"
)

const version = "0.1.0"

func main() {
	def := api.DefaultConfig()

	// Command line flags
	host := flag.String("host", def.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", def.Port, "Port to listen on")
	depth := flag.Int("depth", engine.DefaultDepth, "Default search depth in plies")
	maxDepth := flag.Int("max-depth", def.MaxDepth, "Largest search depth a request may ask for")
	fastWorkers := flag.Int("fast-workers", def.MaxFastWorkers, "Max concurrent board operations")
	slowWorkers := flag.Int("slow-workers", def.MaxSlowWorkers, "Max concurrent searches")
	readTimeout := flag.Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", def.WriteTimeout, "HTTP write timeout")
	externalPort := flag.Int("external-port", 0, "Also serve the external player protocol on this TCP port (0 = off)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Reversi API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Reversi API Server v%s", version)

	eng, err := engine.NewEngine(engine.EngineOptions{Depth: *depth})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	if *maxDepth < eng.Depth() {
		log.Printf("Warning: default depth %d exceeds max depth %d; requests will be clamped", eng.Depth(), *maxDepth)
	}

	log.Printf("Engine ready (depth %d)", eng.Depth())

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: *fastWorkers,
		MaxSlowWorkers: *slowWorkers,
		MaxDepth:       *maxDepth,
	}

	var ext *external.Server
	if *externalPort > 0 {
		ext = external.NewServer(eng, external.ServerOptions{
			Port:          *externalPort,
			MaxDepth:      *maxDepth,
			PromptEnabled: true,
		})
		if err := ext.Start(); err != nil {
			log.Fatalf("Failed to start external player server: %v", err)
		}
		log.Printf("External player protocol on port %d", *externalPort)
	}

	server := api.NewServer(eng, config, version)

	err = server.ListenAndServeWithGracefulShutdown()
	if ext != nil {
		ext.Stop()
	}
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
