package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	starCore = FromRGB(10, 5, 0)
	starMid  = FromRGB(180, 40, 0)
	starHot  = FromRGB(255, 100, 0)
	starPeak = FromRGB(255, 150, 50)
)

// Tuning steps and lower bounds used by the interactive controls.
const (
	FrequencyStep     = 0.2
	MinFrequency      = 0.1
	SpeedStep         = 0.05
	DisplacementStep  = 0.01
	FlareStep         = 0.05
	defaultFrequency  = 3.5
	defaultSpeed      = 0.35
	defaultOctaves    = 6
	defaultDisplace   = 0.08
	defaultFlare      = 0.35
	minStarOctaves    = 1
	starBaseEmission  = 0.95
	starSurfaceFactor = 0.6
	starSurfaceSpeed  = 0.7
)

// Star is a self-luminous sun with a boiling, flaring surface. Its fields are
// tuned at runtime; the renderer only reads them.
type Star struct {
	Frequency         float32 `yaml:"frequency"`
	Speed             float32 `yaml:"speed"`
	Octaves           int     `yaml:"octaves"`
	DisplacementScale float32 `yaml:"displacement"`
	FlareStrength     float32 `yaml:"flare"`
}

// DefaultStar returns a star with the stock tuning.
func DefaultStar() *Star {
	s := &Star{}
	s.Reset()
	return s
}

// Reset restores the stock tuning.
func (s *Star) Reset() {
	*s = Star{
		Frequency:         defaultFrequency,
		Speed:             defaultSpeed,
		Octaves:           defaultOctaves,
		DisplacementScale: defaultDisplace,
		FlareStrength:     defaultFlare,
	}
}

// AdjustFrequency changes the noise frequency by steps, never below MinFrequency.
func (s *Star) AdjustFrequency(steps int) {
	s.Frequency = math32.Max(s.Frequency+float32(steps)*FrequencyStep, MinFrequency)
}

// AdjustSpeed changes the animation speed by steps, never below zero.
func (s *Star) AdjustSpeed(steps int) {
	s.Speed = math32.Max(s.Speed+float32(steps)*SpeedStep, 0)
}

// AdjustOctaves changes the octave count, clamped to [1, noise.MaxOctaves].
func (s *Star) AdjustOctaves(steps int) {
	s.Octaves = min(max(s.Octaves+steps, minStarOctaves), noise.MaxOctaves)
}

// AdjustDisplacement changes the displacement scale by steps, never below zero.
func (s *Star) AdjustDisplacement(steps int) {
	s.DisplacementScale = math32.Max(s.DisplacementScale+float32(steps)*DisplacementStep, 0)
}

// AdjustFlare changes the flare strength by steps, never below zero.
func (s *Star) AdjustFlare(steps int) {
	s.FlareStrength = math32.Max(s.FlareStrength+float32(steps)*FlareStep, 0)
}

// Vertex displaces the surface by animated noise. Noise above 0.6 adds a
// quadratic flare on top.
func (s *Star) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, u Uniforms) (math3d.Vec3, math3d.Vec3) {
	n := noise.FBM(pos.X*s.Frequency, pos.Y*s.Frequency, pos.Z*s.Frequency+u.Time*s.Speed, s.Octaves)

	centered := (n - 0.5) * 2
	flare := math32.Max(n-0.6, 0)
	disp := centered*s.DisplacementScale + flare*flare*s.FlareStrength

	return pos.Add(normal.Scale(disp)), normal
}

// Fragment returns an emissive color. Channels routinely exceed 1.
func (s *Star) Fragment(pos, _ math3d.Vec3, _ math3d.Vec2, u Uniforms) Color {
	p := pos.Normalize()
	freq := s.Frequency * starSurfaceFactor
	n := noise.FBM(p.X*freq, p.Y*freq, p.Z*freq+u.Time*s.Speed*starSurfaceSpeed, s.Octaves)

	pulse := math32.Sin(u.Time*0.6)*0.5 + 0.5
	intensity := clamp01(n*0.75 + pulse*0.25)
	emission := starBaseEmission + Smoothstep(0.3, 0.9, intensity)*(0.5+intensity*0.8)

	c := MixColor(starCore, starMid, Smoothstep(0, 0.35, intensity))
	c = MixColor(c, starHot, Smoothstep(0.35, 0.65, intensity))
	c = MixColor(c, starPeak, Smoothstep(0.65, 1, intensity))

	return c.Scale(emission)
}
