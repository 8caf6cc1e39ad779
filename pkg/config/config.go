// Package config loads orrery settings from YAML and watches the file for
// changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shader"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// maxConfigSize bounds the config file read.
const maxConfigSize = 1 << 20

// Built-in model names. Any other model value is a glTF/GLB path.
const (
	ModelSphere     = "sphere"
	ModelOctahedron = "octahedron"
)

// Config holds every tunable of a render session.
type Config struct {
	Shader   string `yaml:"shader"`
	Model    string `yaml:"model"`
	Segments int    `yaml:"segments"`
	Rings    int    `yaml:"rings"`

	// Headless output size in pixels. Interactive mode sizes to the terminal.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	FPS        int    `yaml:"fps"`
	Workers    int    `yaml:"workers"` // 0 uses every CPU
	Background string `yaml:"background"`
	Stars      int    `yaml:"stars"`
	Caption    bool   `yaml:"caption"`

	Camera Camera      `yaml:"camera"`
	Light  math3d.Vec3 `yaml:"light"`
	Star   shader.Star `yaml:"star"`
}

// Camera is the initial orbit of the viewer.
type Camera struct {
	Distance float32 `yaml:"distance"`
	Angle    float32 `yaml:"angle"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Shader:     "star",
		Model:      ModelSphere,
		Segments:   64,
		Rings:      64,
		Width:      1024,
		Height:     768,
		FPS:        60,
		Background: "0,0,0",
		Stars:      500,
		Caption:    true,
		Camera: Camera{
			Distance: render.DefaultOrbitDistance,
		},
		Light: math3d.V3(1, 1, 0.5),
		Star:  *shader.DefaultStar(),
	}
}

// Load reads a YAML config from path over the defaults and validates it.
// Unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(data) > maxConfigSize {
		return Config{}, fmt.Errorf("config %s: larger than %d bytes", path, maxConfigSize)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field range.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	if _, err := shader.ByName(c.Shader); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	check(c.Model != "", "model is empty")
	check(c.Segments >= models.MinSegments, "segments %d < %d", c.Segments, models.MinSegments)
	check(c.Rings >= models.MinRings, "rings %d < %d", c.Rings, models.MinRings)
	check(c.Width > 0 && c.Height > 0, "size %dx%d", c.Width, c.Height)
	check(c.FPS >= 1 && c.FPS <= 240, "fps %d outside [1, 240]", c.FPS)
	check(c.Workers >= 0, "workers %d < 0", c.Workers)
	check(c.Stars >= 0, "stars %d < 0", c.Stars)
	if _, err := ParseRGB(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("%w: background: %w", ErrInvalid, err))
	}
	check(c.Camera.Distance >= render.MinOrbitDistance && c.Camera.Distance <= render.MaxOrbitDistance,
		"camera distance %v outside [%v, %v]", c.Camera.Distance, render.MinOrbitDistance, render.MaxOrbitDistance)
	check(c.Light.LenSq() > 0 && c.Light.IsFinite(), "light direction %v", c.Light)

	s := c.Star
	check(s.Frequency >= shader.MinFrequency, "star frequency %v < %v", s.Frequency, shader.MinFrequency)
	check(s.Speed >= 0, "star speed %v < 0", s.Speed)
	check(s.Octaves >= 1 && s.Octaves <= noise.MaxOctaves, "star octaves %d outside [1, %d]", s.Octaves, noise.MaxOctaves)
	check(s.DisplacementScale >= 0, "star displacement %v < 0", s.DisplacementScale)
	check(s.FlareStrength >= 0, "star flare %v < 0", s.FlareStrength)

	return errors.Join(errs...)
}

// BackgroundRGB returns the background as a packed 0xRRGGBB color. The
// config must be valid.
func (c Config) BackgroundRGB() uint32 {
	rgb, _ := ParseRGB(c.Background)
	return rgb
}

// ParseRGB parses "R,G,B" with 0-255 components into a packed color.
func ParseRGB(s string) (uint32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("color %q: want R,G,B", s)
	}
	var c [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return render.RGB(c[0], c[1], c[2]), nil
}
