package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTickRate, cfg.TickRate)
	assert.Equal(t, DefaultBrightness, cfg.Brightness)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	require.Len(t, cfg.Surfaces, 2)
	assert.Equal(t, image.Rect(0, 0, 400, 100), cfg.Surfaces[0].Rectangle())
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tick_rate: 120
theme: light
surfaces:
  - id: media
    label: Media
    rect: [0, 0, 200, 100]
    gestures:
      - type: tap
        taps: 2
        max_delta: 12
        command: ["media-control", "toggle-play-pause"]
      - type: pan
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, DefaultBrightness, cfg.Brightness, "missing brightness is defaulted")
	assert.Equal(t, "light", cfg.Theme)
	require.Len(t, cfg.Surfaces, 1)

	s := cfg.Surfaces[0]
	assert.Equal(t, "media", s.ID)
	require.Len(t, s.Gestures, 2)
	assert.Equal(t, GestureTap, s.Gestures[0].Type)
	assert.Equal(t, 2, s.Gestures[0].Taps)
	assert.Equal(t, 12.0, s.Gestures[0].MaxDelta)
	assert.Equal(t, []string{"media-control", "toggle-play-pause"}, s.Gestures[0].Command)
	assert.Equal(t, GesturePan, s.Gestures[1].Type)
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
tick_rate = 30

[[surfaces]]
id = "strip"
rect = [0, 0, 800, 100]

[[surfaces.gestures]]
type = "long_press"
hold_ticks = 15
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.TickRate)
	require.Len(t, cfg.Surfaces, 1)
	require.Len(t, cfg.Surfaces[0].Gestures, 1)
	assert.Equal(t, 15, cfg.Surfaces[0].Gestures[0].HoldTicks)
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("GESTUREDECK_TICK_RATE", "90")
	t.Setenv("GESTUREDECK_BRIGHTNESS", "40")
	t.Setenv("GESTUREDECK_THEME", "light")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.TickRate)
	assert.Equal(t, 40, cfg.Brightness)
	assert.Equal(t, "light", cfg.Theme)
}

func TestLoadFileBadEnv(t *testing.T) {
	t.Setenv("GESTUREDECK_TICK_RATE", "fast")

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "GESTUREDECK_TICK_RATE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		surface SurfaceConfig
		wantErr string
	}{
		{
			name:    "empty rect",
			surface: SurfaceConfig{Rect: [4]int{10, 0, 10, 100}},
			wantErr: "empty rect",
		},
		{
			name: "unknown gesture",
			surface: SurfaceConfig{
				Rect:     [4]int{0, 0, 10, 10},
				Gestures: []GestureConfig{{Type: "pinch"}},
			},
			wantErr: `unknown type "pinch"`,
		},
		{
			name: "negative taps",
			surface: SurfaceConfig{
				Rect:     [4]int{0, 0, 10, 10},
				Gestures: []GestureConfig{{Type: GestureTap, Taps: -1}},
			},
			wantErr: "negative value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Surfaces: []SurfaceConfig{tt.surface}}
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}

	dup := &Config{Surfaces: []SurfaceConfig{
		{ID: "a", Rect: [4]int{0, 0, 1, 1}},
		{ID: "a", Rect: [4]int{1, 0, 2, 1}},
	}}
	assert.ErrorContains(t, dup.Validate(), "duplicate id")
}

func TestWriteFileRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, WriteFile(path, Default()))

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestMaxHoldTicks(t *testing.T) {
	assert.Equal(t, 0, Default().MaxHoldTicks())

	cfg := Default()
	cfg.Surfaces[0].Gestures = append(cfg.Surfaces[0].Gestures,
		GestureConfig{Type: GestureLongPress, HoldTicks: 45},
		GestureConfig{Type: GestureTap, HoldTicks: 90},
	)
	cfg.Surfaces[1].Gestures[0].HoldTicks = 75
	assert.Equal(t, 75, cfg.MaxHoldTicks(), "only long presses count")
}
