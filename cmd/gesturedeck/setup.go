package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/gesturedeck/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write a starter config",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Gesturedeck Setup ===")
	fmt.Println()

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	// Load existing config as defaults
	existing, err := loadConfig()
	if err != nil {
		fmt.Printf("Existing config unusable (%v), starting from defaults\n", err)
		existing = config.Default()
	}

	cfg := *existing

	fmt.Println("-- General --")
	cfg.TickRate = promptInt(reader, "Recognition ticks per second", existing.TickRate)
	cfg.Brightness = promptInt(reader, "Brightness (1-100)", existing.Brightness)
	cfg.Theme = prompt(reader, "Theme (dark/light)", existing.Theme)
	fmt.Println()

	fmt.Println("-- Surfaces --")
	for i := range cfg.Surfaces {
		s := &cfg.Surfaces[i]
		fmt.Printf("  %s %v\n", s.ID, s.Rect)
		s.Label = prompt(reader, "  Label", s.Label)
		for j := range s.Gestures {
			g := &s.Gestures[j]
			label := fmt.Sprintf("  %s command", g.Type)
			if g.Type == config.GestureTap && g.Taps > 1 {
				label = fmt.Sprintf("  %dx tap command", g.Taps)
			}
			cmdLine := prompt(reader, label, strings.Join(g.Command, " "))
			g.Command = strings.Fields(cmdLine)
		}
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Write config file
	if err := config.WriteFile(path, &cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptInt asks for a number, keeping the default on empty or invalid input.
func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	v := prompt(reader, label, strconv.Itoa(defaultVal))
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Printf("  -> %q is not a number, keeping %d\n", v, defaultVal)
		return defaultVal
	}
	return n
}
