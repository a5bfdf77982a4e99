package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/gesturedeck/internal/action"
	"github.com/phinze/gesturedeck/internal/config"
	"github.com/phinze/gesturedeck/internal/coordinator"
	"github.com/phinze/gesturedeck/internal/device"
	"github.com/phinze/gesturedeck/internal/render"
	"github.com/phinze/gesturedeck/internal/surface"
	"github.com/phinze/gesturedeck/internal/usbwatch"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "gesturedeck",
	Short:        "Touch strip gestures for the Stream Deck Plus",
	SilenceUsage: true,
	RunE:         runDaemon,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gesture daemon (default)",
	RunE:  runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultConfigPath()+")")
	rootCmd.AddCommand(runCmd, setupCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the --config file, or the default one.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== Gesturedeck Daemon ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

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

	// Wake and USB arrival both mean "probe for the device now"
	wakeCh := make(chan struct{}, 1)
	notify := func() {
		select {
		case wakeCh <- struct{}{}:
		default:
		}
	}
	watchWake(notify)
	arrivals := usbwatch.Watch(ctx, usbwatch.Filter{VendorID: usbwatch.ElgatoVendorID})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-arrivals:
				notify()
			}
		}
	}()

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, wakeCh)
		if dev == nil {
			// Context cancelled
			return nil
		}

		// Check context before starting - avoid race where device connects after shutdown requested
		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain any stale wake signals that accumulated while waiting for device.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// Brief stabilization delay - USB device enumeration may not be complete
		// even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, dev, wakeCh)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns the device if successful, nil otherwise. The timeout prevents blocking indefinitely
// when the USB subsystem is in a bad state.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck device until one is available.
// Wake and USB arrival signals trigger immediate retry instead of waiting for
// the poll interval.
func waitForHardwareDevice(ctx context.Context, wakeCh <-chan struct{}) device.Device {
	const deviceTimeout = 5 * time.Second

	// First, try to get an already-connected device
	if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
		return device.NewHardware(dev)
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			log.Println("Wake signal received, probing for device...")
			for i := 0; i < 10; i++ {
				if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
					log.Println("Device connected!")
					return device.NewHardware(dev)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-time.After(2 * time.Second):
		}

		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			log.Println("Device connected!")
			return device.NewHardware(dev)
		}
	}
}

// buildCoordinator creates the coordinator and surfaces for a device.
func buildCoordinator(ctx context.Context, cfg *config.Config, dev device.Device) (*coordinator.Coordinator, *action.Runner, error) {
	// Long taps must outlast the longest configured hold or those long presses never fire
	if hw, ok := dev.(*device.HardwareDevice); ok {
		hw.SetSynth(device.DefaultSynth.ForHold(cfg.MaxHoldTicks()))
	}

	renderer, err := render.NewRenderer(render.ThemeByName(cfg.Theme))
	if err != nil {
		return nil, nil, err
	}

	runner := action.NewRunner(ctx)
	surfaces, err := surface.BuildAll(cfg.Surfaces, runner)
	if err != nil {
		return nil, nil, err
	}

	coord := coordinator.New(dev, renderer, cfg.TickRate)
	for _, s := range surfaces {
		if err := coord.RegisterSurface(s); err != nil {
			return nil, nil, err
		}
		log.Printf("Surface %s %v: %d gestures", s.ID(), s.Rect(), s.Dispatcher().Len())
	}
	return coord, runner, nil
}

// runWithDevice runs the coordinator with the given device until disconnect, wake, or context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, wakeCh <-chan struct{}) {
	log.Printf("Connected to: %s", dev.GetModelName())

	dev.SetBrightness(byte(cfg.Brightness))

	// Run coordinator with a child context so we can stop it independently
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	coord, runner, err := buildCoordinator(runCtx, cfg, dev)
	if err != nil {
		log.Printf("Failed to build surfaces: %v", err)
		dev.Close()
		return
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Println("Ready! Touch the strip")

	// Wait for parent context cancel, device error, or system wake
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	// Stop coordinator with timeout
	runCancel()

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

	// Brief delay to let any pending USB I/O callbacks complete.
	// The usbhid library doesn't cancel ongoing I/O on close, so callbacks
	// can fire after close with stale context pointers causing crashes.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// If parent context is cancelled (shutdown signal), force exit
	// since device.Close() may block indefinitely
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}
