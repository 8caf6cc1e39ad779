package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/config"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shader"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Model = config.ModelOctahedron
	cfg.Shader = "rocky"
	cfg.Width, cfg.Height = 32, 24
	cfg.Stars = 0
	cfg.Caption = false
	cfg.Workers = 1
	return cfg
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	cfg := testConfig()
	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScene(cfg, fb)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s
}

func TestSceneFrameDrawsMesh(t *testing.T) {
	s := newTestScene(t)
	s.Step()
	s.Frame()

	fb := s.Renderer.Framebuffer()
	if d := fb.DepthAt(16, 12); math32.IsInf(d, 1) {
		t.Error("center pixel not covered by the mesh")
	}
	if d := fb.DepthAt(0, 0); !math32.IsInf(d, 1) {
		t.Errorf("corner depth = %v, want background", d)
	}
	if s.Renderer.Stats.Fragments == 0 {
		t.Error("no fragments written")
	}
}

// halfBrightness sums the channels of mesh pixels left and right of the
// vertical center line.
func halfBrightness(fb *render.Framebuffer) (left, right int) {
	for y := range fb.Height {
		for x := range fb.Width {
			if math32.IsInf(fb.DepthAt(x, y), 1) {
				continue
			}
			c := render.UnpackRGB(fb.At(x, y))
			sum := int(c.R) + int(c.G) + int(c.B)
			if x < fb.Width/2 {
				left += sum
			} else {
				right += sum
			}
		}
	}
	return left, right
}

func TestLightFixedWhileModelSpins(t *testing.T) {
	cfg := testConfig()
	cfg.Model = config.ModelSphere
	cfg.Segments, cfg.Rings = 32, 16
	cfg.Shader = "gasgiant"
	cfg.Width, cfg.Height = 96, 72
	// The default camera looks down -Z, so +X is screen right.
	cfg.Light = math3d.V3(1, 0, 0)

	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScene(cfg, fb)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}

	for _, rot := range []float32{0, math32.Pi / 2, math32.Pi, 3 * math32.Pi / 2} {
		s.Rotation = rot
		s.Frame()
		left, right := halfBrightness(fb)
		if right <= left {
			t.Errorf("rotation %.2f: left=%d right=%d, want the lit side on the right", rot, left, right)
		}
	}
}

func TestSceneStep(t *testing.T) {
	s := newTestScene(t)
	for range 10 {
		s.Step()
	}
	if math32.Abs(s.Time-10*timeStep) > 1e-5 {
		t.Errorf("Time = %v, want %v", s.Time, 10*timeStep)
	}
	if math32.Abs(s.Rotation-10*rotationStep) > 1e-5 {
		t.Errorf("Rotation = %v, want %v", s.Rotation, 10*rotationStep)
	}
	// Without input the camera stays where it started.
	if s.Camera.Distance != render.DefaultOrbitDistance {
		t.Errorf("Distance = %v, want %v", s.Camera.Distance, float32(render.DefaultOrbitDistance))
	}
}

func TestHandleKeyQuit(t *testing.T) {
	s := newTestScene(t)
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		if !s.HandleKey(key) {
			t.Errorf("HandleKey(%q) did not quit", key)
		}
	}
	if s.HandleKey("f") {
		t.Error("HandleKey(\"f\") quit")
	}
}

func TestHandleKeySelectsShader(t *testing.T) {
	s := newTestScene(t)

	for i, name := range shader.Order {
		s.HandleKey(string(rune('1' + i)))
		if s.ShaderName != name {
			t.Errorf("key %d selected %q, want %q", i+1, s.ShaderName, name)
		}
	}
	if s.Shader != shader.Shader(s.Star) {
		t.Error("star selection should use the scene's tunable star")
	}
}

func TestStarTuningSurvivesShaderSwitch(t *testing.T) {
	s := newTestScene(t)
	s.HandleKey("6")
	before := s.Star.Frequency
	s.HandleKey("f")
	s.HandleKey("1")
	s.HandleKey("6")

	if want := before + shader.FrequencyStep; math32.Abs(s.Star.Frequency-want) > 1e-5 {
		t.Errorf("Frequency = %v, want %v", s.Star.Frequency, want)
	}
}

func TestHandleKeyTuning(t *testing.T) {
	tests := []struct {
		key   string
		field func(*shader.Star) float32
		delta float32
	}{
		{"f", func(st *shader.Star) float32 { return st.Frequency }, shader.FrequencyStep},
		{"F", func(st *shader.Star) float32 { return st.Frequency }, -shader.FrequencyStep},
		{"s", func(st *shader.Star) float32 { return st.Speed }, shader.SpeedStep},
		{"S", func(st *shader.Star) float32 { return st.Speed }, -shader.SpeedStep},
		{"o", func(st *shader.Star) float32 { return float32(st.Octaves) }, 1},
		{"O", func(st *shader.Star) float32 { return float32(st.Octaves) }, -1},
		{"d", func(st *shader.Star) float32 { return st.DisplacementScale }, shader.DisplacementStep},
		{"D", func(st *shader.Star) float32 { return st.DisplacementScale }, -shader.DisplacementStep},
		{"l", func(st *shader.Star) float32 { return st.FlareStrength }, shader.FlareStep},
		{"L", func(st *shader.Star) float32 { return st.FlareStrength }, -shader.FlareStep},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			s := newTestScene(t)
			before := tc.field(s.Star)
			s.HandleKey(tc.key)
			if got := tc.field(s.Star); math32.Abs(got-(before+tc.delta)) > 1e-5 {
				t.Errorf("after %q: %v, want %v", tc.key, got, before+tc.delta)
			}

			s.HandleKey("r")
			if *s.Star != *shader.DefaultStar() {
				t.Errorf("after reset: %+v, want defaults", *s.Star)
			}
		})
	}
}

func TestHandleKeyToggles(t *testing.T) {
	s := newTestScene(t)
	s.HandleKey("x")
	s.HandleKey("?")
	if !s.Wireframe || !s.Caption {
		t.Errorf("wireframe=%v caption=%v, want both on", s.Wireframe, s.Caption)
	}

	// Both overlays draw without touching depth outside the mesh.
	s.Frame()
	if d := s.Renderer.Framebuffer().DepthAt(31, 23); !math32.IsInf(d, 1) {
		t.Errorf("corner depth = %v after overlays", d)
	}
}

func TestZoomSpringSettlesAtLimit(t *testing.T) {
	s := newTestScene(t)
	for range 200 {
		s.HandleKey("up")
	}
	if s.Distance.Target != render.MinOrbitDistance {
		t.Fatalf("Target = %v, want %v", s.Distance.Target, render.MinOrbitDistance)
	}

	for range 300 {
		s.Step()
	}
	if math.Abs(s.Distance.Position-render.MinOrbitDistance) > 1e-3 {
		t.Errorf("Position = %v, want %v", s.Distance.Position, render.MinOrbitDistance)
	}
	if math32.Abs(s.Camera.Distance-render.MinOrbitDistance) > 1e-3 {
		t.Errorf("camera distance = %v", s.Camera.Distance)
	}
}

func TestOrbitKeysMoveTarget(t *testing.T) {
	s := newTestScene(t)
	s.HandleKey("right")
	s.HandleKey("right")
	s.HandleKey("left")

	if want := render.OrbitAngleStep * keyRepeat; math.Abs(s.Angle.Target-want) > 1e-9 {
		t.Errorf("angle target = %v, want %v", s.Angle.Target, want)
	}
	s.Angle.Settle()
	if s.Angle.Position != s.Angle.Target {
		t.Error("Settle did not reach the target")
	}
}

func TestApplyKeepsStar(t *testing.T) {
	s := newTestScene(t)
	s.HandleKey("6")
	star := s.Star

	cfg := testConfig()
	cfg.Star.Frequency = 7
	cfg.Background = "10,20,30"
	s.Apply(cfg)

	if s.Star != star || s.Shader != shader.Shader(star) {
		t.Error("Apply replaced the star instance")
	}
	if s.Star.Frequency != 7 {
		t.Errorf("Frequency = %v, want 7", s.Star.Frequency)
	}
	if s.Background != render.RGB(10, 20, 30) {
		t.Errorf("Background = %06x", s.Background)
	}
}

func TestCaptionLines(t *testing.T) {
	s := newTestScene(t)
	if got := s.CaptionLines(); len(got) != 1 || got[0] != "rocky" {
		t.Errorf("rocky caption = %q", got)
	}
	s.HandleKey("6")
	if got := s.CaptionLines(); len(got) != 6 {
		t.Errorf("star caption has %d lines, want 6", len(got))
	}
}

func TestLoadMeshMissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.Model = filepath.Join(t.TempDir(), "missing.glb")
	if _, err := loadMesh(cfg); err == nil {
		t.Error("loading a missing model should fail")
	}
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		out  string
		i, n int
		want string
	}{
		{"planet.png", 0, 1, "planet.png"},
		{"planet.png", 3, 10, "planet_0003.png"},
		{"out/frame", 12, 20, "out/frame_0012"},
	}

	for _, tc := range tests {
		if got := framePath(tc.out, tc.i, tc.n); got != tc.want {
			t.Errorf("framePath(%q, %d, %d) = %q, want %q", tc.out, tc.i, tc.n, got, tc.want)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	out := filepath.Join(t.TempDir(), "planet.png")
	if err := runHeadless(testConfig(), out, 2); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	for i := range 2 {
		if _, err := os.Stat(framePath(out, i, 2)); err != nil {
			t.Errorf("frame %d: %v", i, err)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if workerCount(3) != 3 {
		t.Error("explicit worker count changed")
	}
	if workerCount(0) < 1 {
		t.Error("0 should resolve to at least one worker")
	}
}
