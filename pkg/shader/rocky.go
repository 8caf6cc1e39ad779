package shader

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

var (
	rockBase  = FromRGB(120, 90, 70)
	rockLight = FromRGB(160, 130, 100)
	rockDark  = FromRGB(80, 60, 45)
)

// Rocky is a cratered brown planet. Craters and ridges displace vertices
// along the normal.
type Rocky struct{}

// Vertex pushes the vertex out or in by two layers of object-space noise.
func (Rocky) Vertex(pos, normal math3d.Vec3, _ math3d.Vec2, _ Uniforms) (math3d.Vec3, math3d.Vec3) {
	crater := noise.FBM(pos.X*4, pos.Y*4, pos.Z*4, 4)
	mountain := noise.FBM(pos.X*2, pos.Y*2, pos.Z*2, 3)
	disp := (crater-0.5)*0.15 + (mountain-0.5)*0.08
	return pos.Add(normal.Scale(disp)), normal
}

// Fragment blends three browns by a surface texture and applies
// ambient plus diffuse lighting.
func (Rocky) Fragment(pos, normal math3d.Vec3, _ math3d.Vec2, u Uniforms) Color {
	tex := noise.FBM(pos.X*4, pos.Y*4, pos.Z*4, 3)

	var base Color
	if tex > 0.55 {
		base = MixColor(rockBase, rockLight, Smoothstep(0.55, 0.7, tex))
	} else {
		base = MixColor(rockDark, rockBase, Smoothstep(0.4, 0.55, tex))
	}

	lighting := math32.Min(0.3+diffuse(normal, u.LightDir)*0.7, 1)
	return base.Scale(lighting)
}
