// Package shader defines the programmable surface model used by the
// rasterizer and the procedural planet and star shaders built on it.
package shader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
)

// ErrUnknownShader is returned by ByName for names that match no shader.
var ErrUnknownShader = errors.New("unknown shader")

// Uniforms is the per-frame state shared by every vertex and fragment
// invocation of a draw call.
type Uniforms struct {
	Time      float32     // Seconds since start, monotonically increasing
	LightDir  math3d.Vec3 // Direction towards the light, renormalized on use
	CameraPos math3d.Vec3 // Eye position in object space
}

// Shader computes vertex displacement and fragment color for a surface.
// Implementations must be pure: identical inputs give identical outputs and
// no shared state is mutated, so a shader may be called from several
// goroutines during one frame.
type Shader interface {
	// Vertex returns the displaced position and normal of a vertex.
	Vertex(pos, normal math3d.Vec3, uv math3d.Vec2, u Uniforms) (math3d.Vec3, math3d.Vec3)
	// Fragment returns the color of a surface point. Components may fall
	// outside [0, 1]; the framebuffer clamps on write.
	Fragment(pos, normal math3d.Vec3, uv math3d.Vec2, u Uniforms) Color
}

// Color is a floating point RGBA color, nominally in [0, 1].
type Color struct {
	R, G, B, A float32
}

// FromRGB converts 8-bit channels to an opaque Color.
func FromRGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: 1,
	}
}

// Scale multiplies the color channels by s, leaving alpha alone.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Smoothstep returns the cubic Hermite ease of x between edge0 and edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Mix linearly interpolates between a and b.
func Mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// MixColor interpolates every channel of a and b, alpha included.
func MixColor(a, b Color, t float32) Color {
	return Color{
		R: Mix(a.R, b.R, t),
		G: Mix(a.G, b.G, t),
		B: Mix(a.B, b.B, t),
		A: Mix(a.A, b.A, t),
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// diffuse is the Lambert term for a light direction of any length.
func diffuse(normal, lightDir math3d.Vec3) float32 {
	return math32.Max(normal.Dot(lightDir.Normalize()), 0)
}

// specular is a view-aligned highlight: max(view·n, 0)^power * strength.
func specular(pos, normal math3d.Vec3, u Uniforms, power, strength float32) float32 {
	view := u.CameraPos.Sub(pos).Normalize()
	return math32.Pow(math32.Max(view.Dot(normal), 0), power) * strength
}

// factories maps selectable names to constructors. Star returns a fresh
// tunable instance each time.
var factories = map[string]func() Shader{
	"rocky":    func() Shader { return Rocky{} },
	"gasgiant": func() Shader { return GasGiant{} },
	"ocean":    func() Shader { return Ocean{} },
	"ice":      func() Shader { return Ice{} },
	"volcanic": func() Shader { return Volcanic{} },
	"star":     func() Shader { return DefaultStar() },
}

// Order is the selection order used by number keys in the viewer.
var Order = []string{"rocky", "gasgiant", "ocean", "ice", "volcanic", "star"}

// ByName returns a new shader for a case-insensitive name.
func ByName(name string) (Shader, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownShader, name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names returns the selectable shader names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the registry name of s, or "custom" for shaders defined
// elsewhere.
func Name(s Shader) string {
	switch s.(type) {
	case Rocky:
		return "rocky"
	case GasGiant:
		return "gasgiant"
	case Ocean:
		return "ocean"
	case Ice:
		return "ice"
	case Volcanic:
		return "volcanic"
	case *Star:
		return "star"
	}
	return "custom"
}
