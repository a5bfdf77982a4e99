package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDrawsPanels(t *testing.T) {
	r, err := NewRenderer(Dark)
	require.NoError(t, err)

	bounds := image.Rect(0, 0, 800, 100)
	img := r.Strip(bounds, []Feedback{
		{Label: "Left", Rect: image.Rect(0, 0, 400, 100), Gesture: "tap", Detail: "2x", Taps: 1, Target: 2},
		{Label: "Right", Rect: image.Rect(400, 0, 800, 100), Pressed: true},
	})

	assert.Equal(t, bounds, img.Bounds())
	assert.Equal(t, Dark.Border, img.RGBAAt(0, 0), "panel border")
	assert.Equal(t, Dark.Surface, img.RGBAAt(200, 4), "idle panel body")
	assert.Equal(t, Dark.Pressed, img.RGBAAt(600, 4), "pressed panel body")

	// First progress dot is filled, second is not.
	body := image.Rect(0, 0, 400, 100).Inset(2)
	x := body.Max.X - 10 - 2*(8+6) + 6
	y := body.Max.Y - 10 - 8
	assert.Equal(t, Dark.Accent, img.RGBAAt(x+1, y+1))
	assert.Equal(t, Dark.Border, img.RGBAAt(x+14+1, y+1))
}

func TestStripClipsPanelsOutsideBounds(t *testing.T) {
	r, err := NewRenderer(Light)
	require.NoError(t, err)

	img := r.Strip(image.Rect(0, 0, 100, 100), []Feedback{
		{Label: "Off strip", Rect: image.Rect(200, 0, 300, 100)},
	})
	assert.Equal(t, Light.Background, img.RGBAAt(50, 50))
}

func TestIconCache(t *testing.T) {
	r, err := NewRenderer(Dark)
	require.NoError(t, err)

	a := r.icon("pan", Dark.Accent)
	b := r.icon("pan", Dark.Accent)
	assert.Same(t, a.(*image.RGBA), b.(*image.RGBA))

	c := r.icon("pan", color.RGBA{1, 2, 3, 255})
	assert.NotSame(t, a.(*image.RGBA), c.(*image.RGBA))
	assert.Len(t, r.icons, 2)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, Light, ThemeByName("light"))
	assert.Equal(t, Dark, ThemeByName("dark"))
	assert.Equal(t, Dark, ThemeByName("solarized"))
}
