package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	oceanDeep  = FromRGB(30, 60, 120)
	oceanBlue  = FromRGB(50, 100, 180)
	oceanLight = FromRGB(80, 140, 220)
	oceanFoam  = FromRGB(200, 220, 240)
)

// Ocean is a water world with moving swell and a specular glint.
type Ocean struct{}

// Vertex leaves the surface undisplaced.
func (Ocean) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, _ Uniforms) (math3d.Vec3, math3d.Vec3) {
	return pos, normal
}

// Fragment blends four blues by swell height and adds a view-dependent
// highlight.
func (Ocean) Fragment(pos, normal math3d.Vec3, _ math3d.Vec2, u Uniforms) Color {
	pattern := noise.FBM(pos.X*3, pos.Y*3, pos.Z*3+u.Time*0.1, 3)
	wave := math32.Sin(pos.X*7.5+u.Time*0.2)*0.5 + 0.5
	h := pattern*0.7 + wave*0.3

	var base Color
	switch {
	case h > 0.7:
		base = MixColor(oceanLight, oceanFoam, Smoothstep(0.7, 0.85, h))
	case h > 0.45:
		base = MixColor(oceanBlue, oceanLight, Smoothstep(0.45, 0.7, h))
	default:
		base = MixColor(oceanDeep, oceanBlue, Smoothstep(0.2, 0.45, h))
	}

	spec := specular(pos, normal, u, 20, 0.3)
	lighting := math32.Min(0.25+diffuse(normal, u.LightDir)*0.6+spec, 1.2)
	return base.Scale(lighting)
}
