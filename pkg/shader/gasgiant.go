package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	gasOrange     = FromRGB(220, 150, 80)
	gasCream      = FromRGB(240, 200, 150)
	gasDarkOrange = FromRGB(180, 100, 50)
)

// GasGiant is a smooth body with drifting latitude bands.
type GasGiant struct{}

// Vertex leaves the surface undisplaced.
func (GasGiant) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, _ Uniforms) (math3d.Vec3, math3d.Vec3) {
	return pos, normal
}

// Fragment mixes latitude bands with turbulence.
func (GasGiant) Fragment(pos, normal math3d.Vec3, uv math3d.Vec2, u Uniforms) Color {
	bands := math32.Sin(uv.Y*12+u.Time*0.1)*0.5 + 0.5
	turbulence := noise.FBM(pos.X*5, pos.Y*2.5, pos.Z*5+u.Time*0.05, 2) * 0.3
	m := bands + turbulence

	var base Color
	if m > 0.6 {
		base = MixColor(gasOrange, gasCream, Smoothstep(0.6, 0.8, m))
	} else {
		base = MixColor(gasDarkOrange, gasOrange, Smoothstep(0.3, 0.6, m))
	}

	lighting := math32.Min(0.35+diffuse(normal, u.LightDir)*0.65, 1)
	return base.Scale(lighting)
}
