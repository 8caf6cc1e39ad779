package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	iceWhite = FromRGB(240, 245, 255)
	iceBlue  = FromRGB(180, 210, 240)
	iceDark  = FromRGB(140, 170, 200)
)

// Ice is a frozen body with dark crack lines and a strong glint.
type Ice struct{}

// Vertex leaves the surface undisplaced.
func (Ice) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, _ Uniforms) (math3d.Vec3, math3d.Vec3) {
	return pos, normal
}

// Fragment layers a crack mask over a two-tone sheet.
func (Ice) Fragment(pos, normal math3d.Vec3, _ math3d.Vec2, u Uniforms) Color {
	sheet := noise.FBM(pos.X*5, pos.Y*5, pos.Z*5, 3)
	cracks := noise.FBM(pos.X*10, pos.Y*10, pos.Z*10+1, 2)

	var base Color
	if sheet > 0.6 {
		base = MixColor(iceBlue, iceWhite, Smoothstep(0.6, 0.8, sheet))
	} else {
		base = MixColor(iceDark, iceBlue, Smoothstep(0.3, 0.6, sheet))
	}
	if cracks < 0.2 {
		base = MixColor(base, iceDark, Smoothstep(0, 0.2, cracks))
	}

	spec := specular(pos, normal, u, 30, 0.5)
	lighting := math32.Min(0.4+diffuse(normal, u.LightDir)*0.5+spec, 1.3)
	return base.Scale(lighting)
}
