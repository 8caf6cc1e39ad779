package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
)

// Wireframe renders mesh edges as lines over the framebuffer.
type Wireframe struct {
	fb *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(fb *Framebuffer) *Wireframe {
	return &Wireframe{fb: fb}
}

// DrawLine3D draws a line between two object-space points projected by mvp.
func (w *Wireframe) DrawLine3D(mvp math3d.Mat4, p1, p2 math3d.Vec3, rgb uint32) {
	x1, y1, _, vis1 := WorldToScreen(mvp, p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := WorldToScreen(mvp, p2, w.fb.Width, w.fb.Height)

	// No line clipping: both ends must be in front of the eye.
	if !vis1 || !vis2 {
		return
	}
	if !inLineRange(x1) || !inLineRange(y1) || !inLineRange(x2) || !inLineRange(y2) {
		return
	}

	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), rgb)
}

// DrawMesh draws the three edges of every triangle. Shared edges are drawn
// twice.
func (w *Wireframe) DrawMesh(mesh MeshRenderer, mvp math3d.Mat4, rgb uint32) {
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		a, b, c := mesh.GetVertex(f[0]), mesh.GetVertex(f[1]), mesh.GetVertex(f[2])
		w.DrawLine3D(mvp, a, b, rgb)
		w.DrawLine3D(mvp, b, c, rgb)
		w.DrawLine3D(mvp, c, a, rgb)
	}
}

// DrawAxes draws the object-space coordinate axes at the origin.
func (w *Wireframe) DrawAxes(mvp math3d.Mat4, length float32) {
	origin := math3d.Zero3()
	w.DrawLine3D(mvp, origin, math3d.V3(length, 0, 0), RGB(255, 0, 0)) // X axis
	w.DrawLine3D(mvp, origin, math3d.V3(0, length, 0), RGB(0, 255, 0)) // Y axis
	w.DrawLine3D(mvp, origin, math3d.V3(0, 0, length), RGB(0, 0, 255)) // Z axis
}

// maxLineCoord bounds the endpoints handed to Bresenham so a vertex near the
// eye plane cannot produce a line millions of pixels long.
const maxLineCoord = 1 << 14

func inLineRange(v float32) bool {
	return isFinite(v) && v > -maxLineCoord && v < maxLineCoord
}
