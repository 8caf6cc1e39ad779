package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shader"
)

const (
	// edgeBias admits pixels whose weights are slightly negative so that
	// adjacent triangles leave no gaps along shared edges. Pixels exactly on
	// a shared edge can be shaded twice.
	edgeBias = -0.001

	// degenerateEpsilon is the smallest barycentric denominator rasterized.
	degenerateEpsilon = 1e-10
)

// baryDenom returns the barycentric denominator of a screen triangle.
func baryDenom(x, y [3]float32) float32 {
	return (y[1]-y[2])*(x[0]-x[2]) + (x[2]-x[1])*(y[0]-y[2])
}

// barycentric computes the weights of (px, py) against the triangle
// (x0,y0), (x1,y1), (x2,y2). ok is false for degenerate triangles.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float32) (w0, w1, w2 float32, ok bool) {
	denom := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if denom > -degenerateEpsilon && denom < degenerateEpsilon {
		return 0, 0, 0, false
	}
	w0 = ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / denom
	w1 = ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / denom
	w2 = 1 - w0 - w1
	return w0, w1, w2, true
}

// rasterize fills the rows [rowMin, rowMax] of a prepared triangle, running
// the depth test and fragment shader for every covered pixel center.
func (r *Renderer) rasterize(t *preparedTriangle, s shader.Shader, u shader.Uniforms, rowMin, rowMax int, st *Stats) {
	fb := r.fb
	y0, y1 := max(t.minY, rowMin), min(t.maxY, rowMax)

	for y := y0; y <= y1; y++ {
		py := float32(y) + 0.5
		row := y * fb.Width
		for x := t.minX; x <= t.maxX; x++ {
			px := float32(x) + 0.5

			b0, b1, b2, ok := barycentric(
				t.sx[0], t.sy[0],
				t.sx[1], t.sy[1],
				t.sx[2], t.sy[2],
				px, py,
			)
			if !ok {
				return
			}
			if b0 < edgeBias || b1 < edgeBias || b2 < edgeBias {
				continue
			}

			z := b0*t.sz[0] + b1*t.sz[1] + b2*t.sz[2]
			if z < -1 || z > 1 {
				continue
			}
			// Depth test before shading; the write below re-checks.
			if !(z < fb.Depth[row+x]) {
				continue
			}

			pos := interp3(t.pos, b0, b1, b2)
			nrm := interp3(t.nrm, b0, b1, b2).Normalize()
			uv := math3d.V2(
				b0*t.uv[0].X+b1*t.uv[1].X+b2*t.uv[2].X,
				b0*t.uv[0].Y+b1*t.uv[1].Y+b2*t.uv[2].Y,
			)

			c := s.Fragment(pos, nrm, uv, u)
			if fb.SetPixel(x, y, z, PackRGB(c)) {
				st.Fragments++
			}
		}
	}
}

func interp3(v [3]math3d.Vec3, b0, b1, b2 float32) math3d.Vec3 {
	return v[0].Scale(b0).Add(v[1].Scale(b1)).Add(v[2].Scale(b2))
}
