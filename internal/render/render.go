// Package render draws gesture feedback onto touch strip images.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Gesture icons
//
//go:embed icons/tap.svg
var iconTapSVG string

//go:embed icons/hold.svg
var iconHoldSVG string

//go:embed icons/pan.svg
var iconPanSVG string

//go:embed icons/idle.svg
var iconIdleSVG string

const iconSize = 48

// Feedback is everything the renderer needs to know about one surface.
type Feedback struct {
	Label string

	// Rect is the surface region in strip coordinates.
	Rect image.Rectangle

	// Gesture is the kind of the last fired gesture ("tap", "long_press",
	// "pan"), empty if nothing fired recently.
	Gesture string

	// Detail is a short description of the last gesture, e.g. "2x".
	Detail string

	// Pressed is true while a contact is down on the surface.
	Pressed bool

	// Taps and Target show multi-tap progress. Target zero hides it.
	Taps, Target int
}

// Renderer draws strip images. It is safe for concurrent use.
type Renderer struct {
	theme      Theme
	labelFace  font.Face
	detailFace font.Face

	mu    sync.Mutex
	icons map[string]image.Image
}

// NewRenderer creates a renderer for the given theme.
func NewRenderer(theme Theme) (*Renderer, error) {
	r := &Renderer{
		theme: theme,
		icons: make(map[string]image.Image),
	}

	ttBold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	r.labelFace, err = opentype.NewFace(ttBold, &opentype.FaceOptions{
		Size:    20,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}

	ttRegular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	r.detailFace, err = opentype.NewFace(ttRegular, &opentype.FaceOptions{
		Size:    16,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create detail face: %w", err)
	}

	return r, nil
}

// Strip renders a full strip image of the given bounds with one panel per
// feedback entry.
func (r *Renderer) Strip(bounds image.Rectangle, panels []Feedback) *image.RGBA {
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, &image.Uniform{r.theme.Background}, image.Point{}, draw.Src)

	for _, p := range panels {
		r.drawPanel(img, p)
	}
	return img
}

func (r *Renderer) drawPanel(img *image.RGBA, p Feedback) {
	rect := p.Rect.Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	// 2px border, then the panel body
	draw.Draw(img, rect, &image.Uniform{r.theme.Border}, image.Point{}, draw.Src)
	body := rect.Inset(2)
	bg := r.theme.Surface
	if p.Pressed {
		bg = r.theme.Pressed
	}
	draw.Draw(img, body, &image.Uniform{bg}, image.Point{}, draw.Src)

	// Icon on the left, vertically centered
	iconColor := r.theme.Muted
	if p.Gesture != "" {
		iconColor = r.theme.Accent
	}
	icon := r.icon(p.Gesture, iconColor)
	iconX := body.Min.X + 10
	iconY := body.Min.Y + (body.Dy()-iconSize)/2
	draw.Draw(img, image.Rect(iconX, iconY, iconX+iconSize, iconY+iconSize), icon, image.Point{}, draw.Over)

	textX := iconX + iconSize + 12
	r.drawText(img, p.Label, textX, body.Min.Y+body.Dy()/2-4, r.labelFace, r.theme.Text)

	detail := p.Detail
	if detail == "" {
		detail = "waiting"
	}
	r.drawText(img, detail, textX, body.Min.Y+body.Dy()/2+18, r.detailFace, r.theme.Muted)

	if p.Target > 1 {
		r.drawProgress(img, body, p.Taps, p.Target)
	}
}

// drawProgress draws one dot per required tap along the right edge, filled for
// taps already counted.
func (r *Renderer) drawProgress(img *image.RGBA, body image.Rectangle, taps, target int) {
	const dot, gap = 8, 6
	x := body.Max.X - 10 - target*(dot+gap) + gap
	y := body.Max.Y - 10 - dot
	for i := 0; i < target; i++ {
		c := r.theme.Border
		if i < taps {
			c = r.theme.Accent
		}
		dx := x + i*(dot+gap)
		draw.Draw(img, image.Rect(dx, y, dx+dot, y+dot), &image.Uniform{c}, image.Point{}, draw.Src)
	}
}

// icon returns the rasterized icon for a gesture kind, cached per color.
func (r *Renderer) icon(kind string, c color.RGBA) image.Image {
	key := fmt.Sprintf("%s#%02x%02x%02x", kind, c.R, c.G, c.B)

	r.mu.Lock()
	defer r.mu.Unlock()
	if img, ok := r.icons[key]; ok {
		return img
	}
	img := renderSVGIcon(iconFor(kind), iconSize, c)
	r.icons[key] = img
	return img
}

func iconFor(kind string) string {
	switch kind {
	case "tap":
		return iconTapSVG
	case "long_press":
		return iconHoldSVG
	case "pan":
		return iconPanSVG
	default:
		return iconIdleSVG
	}
}

// renderSVGIcon renders an SVG string to an image with the given size and color.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	// Replace currentColor with the actual color
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("render: failed to parse SVG: %v", err)
		return image.NewRGBA(image.Rect(0, 0, size, size))
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// drawText draws text with its baseline at the given position.
func (r *Renderer) drawText(img *image.RGBA, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
