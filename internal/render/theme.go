package render

import "image/color"

// Theme is the palette used for strip feedback.
type Theme struct {
	Background color.RGBA
	Surface    color.RGBA
	Border     color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA
	Pressed    color.RGBA
}

var (
	// Dark matches the Stream Deck's own black bezel.
	Dark = Theme{
		Background: color.RGBA{25, 25, 25, 255},
		Surface:    color.RGBA{40, 40, 40, 255},
		Border:     color.RGBA{60, 60, 60, 255},
		Text:       color.RGBA{255, 255, 255, 255},
		Muted:      color.RGBA{160, 160, 160, 255},
		Accent:     color.RGBA{100, 149, 237, 255},
		Pressed:    color.RGBA{70, 70, 90, 255},
	}

	Light = Theme{
		Background: color.RGBA{235, 235, 235, 255},
		Surface:    color.RGBA{250, 250, 250, 255},
		Border:     color.RGBA{200, 200, 200, 255},
		Text:       color.RGBA{20, 20, 20, 255},
		Muted:      color.RGBA{110, 110, 110, 255},
		Accent:     color.RGBA{30, 100, 200, 255},
		Pressed:    color.RGBA{215, 225, 245, 255},
	}
)

// ThemeByName returns the named theme, falling back to Dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return Light
	}
	return Dark
}
