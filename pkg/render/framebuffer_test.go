package render

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shader"
)

func TestNewFramebufferInvalidSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewFramebuffer(sz[0], sz[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewFramebuffer(%d, %d) error = %v, want ErrInvalidSize", sz[0], sz[1], err)
		}
	}
}

func TestFramebufferClear(t *testing.T) {
	fb, err := NewFramebuffer(7, 5)
	if err != nil {
		t.Fatal(err)
	}
	fb.SetPixel(3, 2, 0.5, RGB(1, 2, 3))
	fb.Clear(RGB(10, 20, 30))

	for i := range fb.Color {
		if fb.Color[i] != RGB(10, 20, 30) {
			t.Fatalf("color[%d] = %06x after clear", i, fb.Color[i])
		}
		if !math32.IsInf(fb.Depth[i], 1) {
			t.Fatalf("depth[%d] = %v after clear, want +Inf", i, fb.Depth[i])
		}
	}
}

func TestSetPixelDepthTest(t *testing.T) {
	fb, _ := NewFramebuffer(4, 4)

	tests := []struct {
		name  string
		depth float32
		rgb   uint32
		want  bool
	}{
		{"first write", 0.5, 0x111111, true},
		{"farther rejected", 0.7, 0x222222, false},
		{"equal rejected", 0.5, 0x333333, false},
		{"nearer accepted", 0.2, 0x444444, true},
	}

	for _, tc := range tests {
		if got := fb.SetPixel(1, 1, tc.depth, tc.rgb); got != tc.want {
			t.Errorf("%s: SetPixel = %v, want %v", tc.name, got, tc.want)
		}
	}
	if fb.At(1, 1) != 0x444444 || fb.DepthAt(1, 1) != 0.2 {
		t.Errorf("pixel = %06x/%v, want 444444/0.2", fb.At(1, 1), fb.DepthAt(1, 1))
	}
	if fb.SetPixel(-1, 0, 0, 1) || fb.SetPixel(0, 4, 0, 1) {
		t.Error("out of bounds write reported success")
	}
}

func TestPackRGB(t *testing.T) {
	tests := []struct {
		name string
		c    shader.Color
		want uint32
	}{
		{"black", shader.Color{}, 0x000000},
		{"white", shader.Color{R: 1, G: 1, B: 1}, 0xffffff},
		{"over range", shader.Color{R: 3, G: 1.01, B: 1}, 0xffffff},
		{"negative", shader.Color{R: -1, G: -0.1, B: 0}, 0x000000},
		{"nan", shader.Color{R: math32.NaN(), G: 1}, 0x00ff00},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PackRGB(tc.c); got != tc.want {
				t.Errorf("PackRGB(%+v) = %06x, want %06x", tc.c, got, tc.want)
			}
		})
	}
}

func TestFillClips(t *testing.T) {
	fb, _ := NewFramebuffer(4, 4)
	fb.Fill(image.Rect(2, 2, 10, 10), 0xabcdef)

	for y := range 4 {
		for x := range 4 {
			want := uint32(0)
			if x >= 2 && y >= 2 {
				want = 0xabcdef
			}
			if got := fb.At(x, y); got != want {
				t.Errorf("At(%d, %d) = %06x, want %06x", x, y, got, want)
			}
		}
	}
}

func TestDrawLine(t *testing.T) {
	fb, _ := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, 0xffffff)

	for i := range 10 {
		if fb.At(i, i) != 0xffffff {
			t.Errorf("diagonal pixel %d not drawn", i)
		}
	}
	// Lines leave depth alone.
	if !math32.IsInf(fb.DepthAt(5, 5), 1) {
		t.Error("DrawLine modified depth")
	}
}

func TestSavePNG(t *testing.T) {
	fb, _ := NewFramebuffer(8, 6)
	fb.Clear(RGB(200, 100, 50))
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Errorf("pixel = (%d, %d, %d), want (200, 100, 50)", r>>8, g>>8, b>>8)
	}
}

func TestSavePNGBadPath(t *testing.T) {
	fb, _ := NewFramebuffer(2, 2)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}

func TestStarfieldDeterministic(t *testing.T) {
	a, _ := NewFramebuffer(80, 48)
	b, _ := NewFramebuffer(80, 48)
	DrawStarfield(a, 100)
	DrawStarfield(b, 100)

	lit := 0
	for i := range a.Color {
		if a.Color[i] != b.Color[i] {
			t.Fatalf("pixel %d differs between runs", i)
		}
		if a.Color[i] != 0 {
			lit++
			c := UnpackRGB(a.Color[i])
			if c.R != c.G || c.G != c.B {
				t.Errorf("star %d is not gray: %v", i, c)
			}
			if c.R < 50 {
				t.Errorf("star %d too dim: %v", i, c)
			}
		}
		if !math32.IsInf(a.Depth[i], 1) {
			t.Fatal("starfield wrote depth")
		}
	}
	if lit == 0 {
		t.Error("no stars drawn")
	}
}

func TestDrawCaption(t *testing.T) {
	fb, _ := NewFramebuffer(120, 40)
	DrawCaption(fb, 2, 2, []string{"star", "freq 3.50"}, 0xffffff, 0x202020)

	fg, bg := 0, 0
	for _, c := range fb.Color {
		switch c {
		case 0x202020:
			bg++
		case 0:
		default:
			fg++
		}
	}
	if fg == 0 {
		t.Error("caption drew no glyph pixels")
	}
	if bg == 0 {
		t.Error("caption drew no background box")
	}
	if fb.At(119, 39) != 0 {
		t.Error("caption spilled outside its box")
	}
}

func TestFramebufferDraw(t *testing.T) {
	fb, _ := NewFramebuffer(3, 4)
	fb.Plot(0, 0, RGB(255, 0, 0))
	fb.Plot(0, 1, RGB(0, 0, 255))

	scr := uv.NewScreenBuffer(3, 2)
	fb.Draw(scr, scr.Bounds())

	cell := scr.CellAt(0, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want half block", cell)
	}
	if cell.Style.Fg != UnpackRGB(RGB(255, 0, 0)) {
		t.Errorf("fg = %v, want top pixel red", cell.Style.Fg)
	}
	if cell.Style.Bg != UnpackRGB(RGB(0, 0, 255)) {
		t.Errorf("bg = %v, want bottom pixel blue", cell.Style.Bg)
	}
}

func TestWireframeDrawMesh(t *testing.T) {
	r, mvp := newTestRenderer(t, 64, 64)
	w := NewWireframe(r.Framebuffer())
	w.DrawMesh(octahedron(), mvp, 0x00ff00)

	// The +Z vertex projects to the center, where four edges meet.
	if got := r.Framebuffer().At(32, 32); got != 0x00ff00 {
		t.Errorf("center = %06x, want wire color", got)
	}
	if got := r.Framebuffer().At(2, 2); got != 0 {
		t.Errorf("corner = %06x, want background", got)
	}
}

func TestWireframeSkipsPointsBehindEye(t *testing.T) {
	r, mvp := newTestRenderer(t, 32, 32)
	w := NewWireframe(r.Framebuffer())
	w.DrawLine3D(mvp, math3d.V3(0, 0, 10), math3d.V3(1, 1, 12), 0xffffff)

	for i, c := range r.Framebuffer().Color {
		if c != 0 {
			t.Fatalf("pixel %d drawn for a line behind the eye", i)
		}
	}
}
