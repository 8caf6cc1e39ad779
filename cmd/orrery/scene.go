package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/orrery/pkg/config"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shader"
)

// Per-frame animation steps.
const (
	timeStep     = 0.016
	rotationStep = 0.005
)

// keyRepeat scales orbit steps per key press. Terminal key repeat delivers
// far fewer presses per second than frames.
const keyRepeat = 5

// Overlay colors.
var (
	wireColor = render.RGB(0, 255, 128)
	captionFg = render.RGB(255, 255, 255)
	captionBg = render.RGB(16, 16, 24)
)

const (
	captionInset = 4
	axisLength   = 1.5
)

// OrbitAxis smooths one camera orbit parameter toward its target with a
// critically damped spring.
type OrbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewOrbitAxis creates an axis resting at v.
func NewOrbitAxis(fps int, v float64) OrbitAxis {
	return OrbitAxis{
		Position: v,
		Target:   v,
		// Frequency 6.0 = snappy, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame.
func (a *OrbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// Settle jumps straight to the target.
func (a *OrbitAxis) Settle() {
	a.Position = a.Target
	a.velocity = 0
}

// Scene is everything one frame needs: the mesh, the active shader, the
// camera and the animation clock.
type Scene struct {
	Mesh       *models.Mesh
	Shader     shader.Shader
	ShaderName string
	Star       *shader.Star // shared by every selection of "star"
	Camera     *render.Camera
	Renderer   *render.Renderer

	Light      math3d.Vec3
	Background uint32
	Stars      int

	Time     float32
	Rotation float32

	Angle    OrbitAxis
	Distance OrbitAxis

	Wireframe bool
	Caption   bool
}

// NewScene builds a scene from a validated config, drawing into fb.
func NewScene(cfg config.Config, fb *render.Framebuffer) (*Scene, error) {
	mesh, err := loadMesh(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("mesh loaded",
		"model", cfg.Model,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"size", mesh.Size())

	star := cfg.Star
	s := &Scene{
		Mesh:     mesh,
		Star:     &star,
		Camera:   render.NewCamera(),
		Renderer: render.NewRenderer(fb),
		Caption:  cfg.Caption,
	}
	s.Renderer.Workers = workerCount(cfg.Workers)
	s.Camera.SetAspectRatio(float32(fb.Width) / float32(fb.Height))
	s.Camera.SetOrbit(cfg.Camera.Angle, cfg.Camera.Distance)
	s.Angle = NewOrbitAxis(cfg.FPS, float64(s.Camera.Angle))
	s.Distance = NewOrbitAxis(cfg.FPS, float64(s.Camera.Distance))

	s.Apply(cfg)
	if err := s.SelectShader(cfg.Shader); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply takes over the look settings of cfg, leaving the camera, clock and
// mesh alone. Used for config reloads.
func (s *Scene) Apply(cfg config.Config) {
	s.Light = cfg.Light.Normalize()
	s.Background = cfg.BackgroundRGB()
	s.Stars = cfg.Stars
	*s.Star = cfg.Star
}

func loadMesh(cfg config.Config) (*models.Mesh, error) {
	switch strings.ToLower(cfg.Model) {
	case config.ModelSphere:
		mesh, err := models.UVSphere(cfg.Segments, cfg.Rings)
		if err != nil {
			return nil, fmt.Errorf("build sphere: %w", err)
		}
		return mesh, nil
	case config.ModelOctahedron:
		return models.Octahedron(), nil
	default:
		mesh, err := models.LoadGLB(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		return mesh, nil
	}
}

// SelectShader switches the active shader by name. The star keeps its
// tuning across switches.
func (s *Scene) SelectShader(name string) error {
	sh, err := shader.ByName(name)
	if err != nil {
		return err
	}
	name = shader.Name(sh)
	if name == "star" {
		sh = s.Star
	}
	s.Shader, s.ShaderName = sh, name
	slog.Info("shader selected", "shader", name)
	return nil
}

// Step advances the animation clock, the model spin and the camera springs
// by one frame.
func (s *Scene) Step() {
	s.Time += timeStep
	s.Rotation += rotationStep

	s.Angle.Update()
	s.Distance.Update()
	s.Camera.SetOrbit(float32(s.Angle.Position), float32(s.Distance.Position))
}

// Frame draws the scene into the renderer's framebuffer.
func (s *Scene) Frame() {
	fb := s.Renderer.Framebuffer()
	fb.Clear(s.Background)
	render.DrawStarfield(fb, s.Stars)

	model := math3d.RotateY(s.Rotation)
	mvp := s.Camera.MVP(model)
	toObject := math3d.RotateY(-s.Rotation)
	u := shader.Uniforms{
		Time:     s.Time,
		// Shaders see object-space positions and normals, so bring the
		// light and the eye along.
		LightDir:  toObject.MulVec3(s.Light),
		CameraPos: toObject.MulVec3(s.Camera.Position()),
	}

	s.Renderer.ResetStats()
	s.Renderer.DrawMesh(s.Mesh, mvp, s.Shader, u)

	if s.Wireframe {
		w := render.NewWireframe(fb)
		w.DrawMesh(s.Mesh, mvp, wireColor)
		w.DrawAxes(mvp, axisLength)
	}
	if s.Caption {
		render.DrawCaption(fb, captionInset, captionInset, s.CaptionLines(), captionFg, captionBg)
	}
}

// CaptionLines describes the active shader, plus the star tuning when the
// star is shown.
func (s *Scene) CaptionLines() []string {
	lines := []string{s.ShaderName}
	if s.ShaderName == "star" {
		st := s.Star
		lines = append(lines,
			fmt.Sprintf("freq  %.2f", st.Frequency),
			fmt.Sprintf("speed %.3f", st.Speed),
			fmt.Sprintf("oct   %d", st.Octaves),
			fmt.Sprintf("disp  %.3f", st.DisplacementScale),
			fmt.Sprintf("flare %.3f", st.FlareStrength),
		)
	}
	return lines
}

// HandleKey applies one key press, named the way the terminal reports it
// ("f", "F", "up", "esc"). It reports whether the viewer should quit.
func (s *Scene) HandleKey(key string) (quit bool) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true
	case "1", "2", "3", "4", "5", "6":
		// Names come from shader.Order, so selection cannot fail.
		_ = s.SelectShader(shader.Order[key[0]-'1'])
	case "left":
		s.Angle.Target -= render.OrbitAngleStep * keyRepeat
	case "right":
		s.Angle.Target += render.OrbitAngleStep * keyRepeat
	case "up":
		s.Distance.Target = clampOrbit(s.Distance.Target - render.OrbitZoomStep*keyRepeat)
	case "down":
		s.Distance.Target = clampOrbit(s.Distance.Target + render.OrbitZoomStep*keyRepeat)
	case "f":
		s.Star.AdjustFrequency(1)
	case "F":
		s.Star.AdjustFrequency(-1)
	case "s":
		s.Star.AdjustSpeed(1)
	case "S":
		s.Star.AdjustSpeed(-1)
	case "o":
		s.Star.AdjustOctaves(1)
	case "O":
		s.Star.AdjustOctaves(-1)
	case "d":
		s.Star.AdjustDisplacement(1)
	case "D":
		s.Star.AdjustDisplacement(-1)
	case "l":
		s.Star.AdjustFlare(1)
	case "L":
		s.Star.AdjustFlare(-1)
	case "r":
		s.Star.Reset()
		slog.Debug("star tuning reset")
	case "x":
		s.Wireframe = !s.Wireframe
	case "?":
		s.Caption = !s.Caption
	}
	return false
}

func clampOrbit(d float64) float64 {
	return float64(render.ClampOrbitDistance(float32(d)))
}
