// Package render implements the orrery software rasterizer: a depth-tested
// framebuffer, the shader-driven triangle pipeline, and the terminal and
// image outputs built on them.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/shader"
)

// ErrInvalidSize is returned when a framebuffer is requested with a
// non-positive width or height.
var ErrInvalidSize = errors.New("invalid framebuffer size")

// Framebuffer holds packed 0xRRGGBB color and float depth for every pixel,
// row-major and indexed by y*Width+x. Smaller depth is nearer.
type Framebuffer struct {
	Width  int
	Height int
	Color  []uint32
	Depth  []float32
}

// NewFramebuffer creates a framebuffer cleared to black at infinite depth.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]uint32, width*height),
		Depth:  make([]float32, width*height),
	}
	fb.Clear(0)
	return fb, nil
}

// Clear resets every pixel to bg and every depth to +Inf.
func (fb *Framebuffer) Clear(bg uint32) {
	n := len(fb.Color)
	if n == 0 {
		return
	}
	// Copy-doubling fill.
	fb.Color[0] = bg
	fb.Depth[0] = math32.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.Color[i:], fb.Color[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel writes rgb and depth at (x, y) if depth is strictly nearer than
// the stored value. Color and depth are always written together. It reports
// whether the write happened.
func (fb *Framebuffer) SetPixel(x, y int, depth float32, rgb uint32) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if !(depth < fb.Depth[i]) {
		return false
	}
	fb.Depth[i] = depth
	fb.Color[i] = rgb
	return true
}

// Plot writes rgb at (x, y) without touching depth. Used for background
// layers and overlays.
func (fb *Framebuffer) Plot(x, y int, rgb uint32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Color[y*fb.Width+x] = rgb
}

// Fill writes rgb over the rectangle r, clipped to the framebuffer, without
// touching depth.
func (fb *Framebuffer) Fill(r image.Rectangle, rgb uint32) {
	r = r.Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := fb.Color[y*fb.Width : (y+1)*fb.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = rgb
		}
	}
}

// At returns the packed color at (x, y), or 0 when out of bounds.
func (fb *Framebuffer) At(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Color[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or +Inf when out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math32.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, rgb uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.Plot(x0, y0, rgb)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PackRGB clamps each channel of c to [0, 1] and packs it as 0xRRGGBB.
// Alpha is ignored.
func PackRGB(c shader.Color) uint32 {
	r := uint32(clampUnit(c.R) * 255)
	g := uint32(clampUnit(c.G) * 255)
	b := uint32(clampUnit(c.B) * 255)
	return r<<16 | g<<8 | b
}

// RGB packs 8-bit channels as 0xRRGGBB.
func RGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackRGB splits a packed color into an opaque color.RGBA.
func UnpackRGB(rgb uint32) color.RGBA {
	return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
}

// clampUnit maps NaN to 0 and clamps to [0, 1].
func clampUnit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, UnpackRGB(fb.Color[y*fb.Width+x]))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
