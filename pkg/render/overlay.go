package render

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawStarfield scatters count grayscale stars over the framebuffer without
// touching depth. Positions and brightness are a pure function of the star
// index, so every frame gets the same sky.
func DrawStarfield(fb *Framebuffer, count int) {
	w, h := float32(fb.Width), float32(fb.Height)
	for i := range count {
		seed := float32(i) * 12.9898
		x := fract(math32.Sin(seed)*43758.5453) * w
		y := fract(math32.Sin(seed+1)*43758.5453) * h
		b := (math32.Sin(seed*2)*0.5+0.5)*0.8 + 0.2
		v := uint8(clampUnit(b) * 255)
		fb.Plot(int(x), int(y), RGB(v, v, v))
	}
}

func fract(v float32) float32 {
	return v - math32.Floor(v)
}

// Caption face metrics.
const (
	CaptionLineHeight = 13
	captionAscent     = 11
)

// DrawCaption renders lines of text with the top-left corner at (x, y) on a
// filled background box. Depth is left alone.
func DrawCaption(fb *Framebuffer, x, y int, lines []string, fg, bg uint32) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	fb.Fill(image.Rect(x, y, x+width+2, y+len(lines)*CaptionLineHeight+2), bg)

	d := &font.Drawer{
		Dst:  fbImage{fb},
		Src:  image.NewUniform(UnpackRGB(fg)),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(x+1, y+1+i*CaptionLineHeight+captionAscent)
		d.DrawString(l)
	}
}

// fbImage adapts a Framebuffer to draw.Image so x/image can render into it.
type fbImage struct{ fb *Framebuffer }

func (m fbImage) ColorModel() color.Model { return color.RGBAModel }

func (m fbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.fb.Width, m.fb.Height)
}

func (m fbImage) At(x, y int) color.Color {
	return UnpackRGB(m.fb.At(x, y))
}

func (m fbImage) Set(x, y int, c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	m.fb.Plot(x, y, RGB(rgba.R, rgba.G, rgba.B))
}
