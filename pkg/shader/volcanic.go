package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	lavaRock   = FromRGB(40, 30, 30)
	lavaRed    = FromRGB(200, 50, 20)
	lavaOrange = FromRGB(255, 140, 30)
	lavaYellow = FromRGB(255, 220, 100)
)

// Volcanic is a molten world whose lava glows independently of the light.
type Volcanic struct{}

// Vertex leaves the surface undisplaced.
func (Volcanic) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, _ Uniforms) (math3d.Vec3, math3d.Vec3) {
	return pos, normal
}

// Fragment maps flowing heat to a lava ramp and adds heat as emission.
func (Volcanic) Fragment(pos, normal math3d.Vec3, _ math3d.Vec2, u Uniforms) Color {
	flow := noise.FBM(pos.X*4, pos.Y*4, pos.Z*4+u.Time*0.2, 3)
	pulse := math32.Sin(u.Time*2)*0.5 + 0.5
	heat := flow*0.7 + pulse*0.3

	var base Color
	switch {
	case heat > 0.7:
		base = MixColor(lavaOrange, lavaYellow, Smoothstep(0.7, 0.85, heat))
	case heat > 0.4:
		base = MixColor(lavaRed, lavaOrange, Smoothstep(0.4, 0.7, heat))
	default:
		base = MixColor(lavaRock, lavaRed, Smoothstep(0.1, 0.4, heat))
	}

	lighting := math32.Min(0.2+diffuse(normal, u.LightDir)*0.3+heat*0.6, 1.5)
	return base.Scale(lighting)
}
