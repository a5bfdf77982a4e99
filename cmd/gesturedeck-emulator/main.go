package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/gesturedeck/internal/action"
	"github.com/phinze/gesturedeck/internal/config"
	"github.com/phinze/gesturedeck/internal/coordinator"
	"github.com/phinze/gesturedeck/internal/device"
	"github.com/phinze/gesturedeck/internal/device/emulator"
	"github.com/phinze/gesturedeck/internal/render"
	"github.com/phinze/gesturedeck/internal/surface"
)

func main() {
	log.Println("=== Touch Strip Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	configPath := flag.String("config", config.DefaultConfigPath(), "config file")
	flag.Parse()

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	emu := emulator.New()
	if err := emu.Open(); err != nil {
		log.Fatalf("Failed to open emulator: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Printf("Warning: config load: %v (using defaults)", err)
		cfg = config.Default()
	}

	// Start coordinator in background goroutine
	go runWithDevice(ctx, cfg, emu)

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}
}

// runWithDevice runs the coordinator with the given device until context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device) {
	log.Printf("Connected to: %s", dev.GetModelName())
	dev.SetBrightness(byte(cfg.Brightness))

	renderer, err := render.NewRenderer(render.ThemeByName(cfg.Theme))
	if err != nil {
		log.Printf("Renderer: %v", err)
		dev.Close()
		return
	}

	runner := action.NewRunner(ctx)
	surfaces, err := surface.BuildAll(cfg.Surfaces, runner)
	if err != nil {
		log.Printf("Surfaces: %v", err)
		dev.Close()
		return
	}

	coord := coordinator.New(dev, renderer, cfg.TickRate)
	for _, s := range surfaces {
		if err := coord.RegisterSurface(s); err != nil {
			log.Printf("Surface %s: %v", s.ID(), err)
		}
	}

	// Run coordinator
	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(ctx)
	}()

	log.Println("Ready! Tap, hold or drag on the strip")

	// Wait for context cancel or error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Coordinator error: %v", err)
		}
	}

	// Stop coordinator with timeout
	done := make(chan struct{})
	go func() {
		coord.Stop()
		runner.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	dev.Close()
}
