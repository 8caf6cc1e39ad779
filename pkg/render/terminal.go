package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Framebuffer implements uv.Drawable.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.cellColor(col, topY),
					Bg: fb.cellColor(col, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor returns the color at (x, y), or nil past the bottom edge of an
// odd-height framebuffer so the terminal default shows through.
func (fb *Framebuffer) cellColor(x, y int) color.Color {
	if y >= fb.Height {
		return nil
	}
	return UnpackRGB(fb.At(x, y))
}

// TerminalSize returns the framebuffer size that fills a terminal of cols x
// rows cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}
