package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phinze/gesturedeck/internal/config"
	"github.com/phinze/gesturedeck/internal/surface"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, surfaces, and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Gesturedeck Status ===")
	fmt.Println()

	allOK := true

	// Config file
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Printf("Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found (using defaults)")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	// Surfaces
	if cfg != nil {
		fmt.Printf("Ticks: %d/s  Brightness: %d  Theme: %s\n", cfg.TickRate, cfg.Brightness, cfg.Theme)
		fmt.Println("Surfaces:")
		if _, err := surface.BuildAll(cfg.Surfaces, nil); err != nil {
			fmt.Printf("  Build error: %v\n", err)
			allOK = false
		}
		for _, s := range cfg.Surfaces {
			kinds := make([]string, 0, len(s.Gestures))
			for _, g := range s.Gestures {
				k := g.Type
				if g.Type == config.GestureTap && g.Taps > 1 {
					k = fmt.Sprintf("%dx %s", g.Taps, g.Type)
				}
				if len(g.Command) > 0 {
					k += " -> " + strings.Join(g.Command, " ")
				}
				kinds = append(kinds, k)
			}
			fmt.Printf("  %s %v: %s\n", s.ID, s.Rect, strings.Join(kinds, ", "))
		}
		if len(cfg.Surfaces) == 0 {
			fmt.Println("  NONE (no gestures will fire)")
			allOK = false
		}
		fmt.Println()
	}

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(2 * time.Second)
	if dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		if !dev.GetTouchStripSupported() {
			fmt.Println("  Touch strip: NOT SUPPORTED")
			allOK = false
		}
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'gesturedeck setup' to configure.")
	}

	return nil
}
