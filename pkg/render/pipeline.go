package render

import (
	"context"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shader"
)

// MeshRenderer is the read-only view of a triangle mesh the pipeline needs.
// It lets the render package draw meshes without importing models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
}

// BoundedMeshRenderer is a mesh that can report its object-space bounds,
// enabling whole-mesh frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// Stats counts what happened to the triangles of the draws since the last
// ResetStats.
type Stats struct {
	MeshesTested   int // Meshes tested against the frustum
	MeshesCulled   int // Meshes skipped entirely by the frustum test
	Triangles      int // Triangles submitted
	NearRejected   int // A vertex had clip w <= 0
	NonFinite      int // NaN or Inf reached screen space
	BackfaceCulled int // Signed screen area <= 0
	Degenerate     int // Barycentric denominator too small
	Rasterized     int // Triangles that reached the pixel loop
	Fragments      int // Pixels written
}

func (s *Stats) add(o Stats) {
	s.MeshesTested += o.MeshesTested
	s.MeshesCulled += o.MeshesCulled
	s.Triangles += o.Triangles
	s.NearRejected += o.NearRejected
	s.NonFinite += o.NonFinite
	s.BackfaceCulled += o.BackfaceCulled
	s.Degenerate += o.Degenerate
	s.Rasterized += o.Rasterized
	s.Fragments += o.Fragments
}

// Renderer runs the shader pipeline over meshes into a framebuffer.
type Renderer struct {
	fb *Framebuffer

	// Stats accumulates per-triangle outcomes until ResetStats.
	Stats Stats

	// Workers sets the parallelism of DrawMesh. Values <= 1 render serially.
	// Output is identical either way.
	Workers int

	// FrustumCull enables whole-mesh culling for BoundedMeshRenderer meshes.
	// CullMargin inflates the bounds to cover vertex displacement.
	FrustumCull bool
	CullMargin  float32

	tris []preparedTriangle
}

// NewRenderer creates a serial renderer drawing into fb.
func NewRenderer(fb *Framebuffer) *Renderer {
	return &Renderer{
		fb:          fb,
		FrustumCull: true,
		CullMargin:  0.5,
	}
}

// Framebuffer returns the render target.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer swaps the render target, e.g. after a terminal resize.
func (r *Renderer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	Logger().Info("framebuffer set", "width", fb.Width, "height", fb.Height)
}

// ResetStats clears the statistics (call once per frame).
func (r *Renderer) ResetStats() {
	r.Stats = Stats{}
}

// triOutcome is the result of preparing one triangle.
type triOutcome uint8

const (
	triVisible triOutcome = iota
	triNear
	triNonFinite
	triBackface
	triDegenerate
)

// preparedTriangle is a triangle after the vertex stage, projected to screen
// space and ready for rasterization.
type preparedTriangle struct {
	outcome triOutcome

	sx, sy, sz [3]float32 // Screen position and NDC depth
	pos        [3]math3d.Vec3
	nrm        [3]math3d.Vec3
	uv         [3]math3d.Vec2

	minX, maxX, minY, maxY int // Clamped pixel bounding box
}

// SphericalUV maps a point to longitude/latitude texture coordinates on the
// unit sphere through the origin.
func SphericalUV(p math3d.Vec3) math3d.Vec2 {
	n := p.Normalize()
	return math3d.V2(
		0.5+math32.Atan2(n.Z, n.X)/(2*math32.Pi),
		0.5-math32.Asin(clampSigned(n.Y))/math32.Pi,
	)
}

func clampSigned(v float32) float32 {
	return math32.Max(-1, math32.Min(1, v))
}

// prepare runs the per-triangle stages up to and including backface culling.
func (r *Renderer) prepare(t *preparedTriangle, mesh MeshRenderer, face int, mvp math3d.Mat4, s shader.Shader, u shader.Uniforms) {
	idx := mesh.GetFace(face)
	p0 := mesh.GetVertex(idx[0])
	p1 := mesh.GetVertex(idx[1])
	p2 := mesh.GetVertex(idx[2])

	// Face normal shared by all three vertices
	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	local := [3]math3d.Vec3{p0, p1, p2}
	var clip [3]math3d.Vec4
	for i, p := range local {
		t.uv[i] = SphericalUV(p)
		t.pos[i], t.nrm[i] = s.Vertex(p, normal, t.uv[i], u)
		clip[i] = mvp.MulPoint(t.pos[i])
	}

	// Near-plane reject: no clipping, the whole triangle goes
	if clip[0].W <= 0 || clip[1].W <= 0 || clip[2].W <= 0 {
		t.outcome = triNear
		return
	}

	w, h := float32(r.fb.Width), float32(r.fb.Height)
	for i, c := range clip {
		t.sx[i] = (c.X/c.W + 1) * 0.5 * w
		t.sy[i] = (1 - c.Y/c.W) * 0.5 * h
		t.sz[i] = c.Z / c.W
		if !isFinite(t.sx[i]) || !isFinite(t.sy[i]) || !isFinite(t.sz[i]) {
			t.outcome = triNonFinite
			return
		}
	}

	// Screen Y points down, so negate the raw cross product to get the
	// signed area with counter-clockwise front faces.
	area := -((t.sx[1]-t.sx[0])*(t.sy[2]-t.sy[0]) - (t.sy[1]-t.sy[0])*(t.sx[2]-t.sx[0]))
	if area <= 0 {
		t.outcome = triBackface
		return
	}
	if math32.Abs(baryDenom(t.sx, t.sy)) < degenerateEpsilon {
		t.outcome = triDegenerate
		return
	}

	// Clamp in float space first so huge coordinates never overflow int.
	t.minX = int(math32.Max(0, math32.Min(math32.Floor(min3(t.sx[0], t.sx[1], t.sx[2])), w)))
	t.maxX = int(math32.Min(w-1, math32.Max(math32.Ceil(max3(t.sx[0], t.sx[1], t.sx[2])), -1)))
	t.minY = int(math32.Max(0, math32.Min(math32.Floor(min3(t.sy[0], t.sy[1], t.sy[2])), h)))
	t.maxY = int(math32.Min(h-1, math32.Max(math32.Ceil(max3(t.sy[0], t.sy[1], t.sy[2])), -1)))
	t.outcome = triVisible
}

func (st *Stats) count(t *preparedTriangle) {
	st.Triangles++
	switch t.outcome {
	case triNear:
		st.NearRejected++
	case triNonFinite:
		st.NonFinite++
	case triBackface:
		st.BackfaceCulled++
	case triDegenerate:
		st.Degenerate++
	case triVisible:
		st.Rasterized++
	}
}

// DrawMesh renders every triangle of mesh with shader s. mvp maps object
// space to clip space. Nearer fragments win; on equal depth the earlier
// triangle in index order is kept.
func (r *Renderer) DrawMesh(mesh MeshRenderer, mvp math3d.Mat4, s shader.Shader, u shader.Uniforms) {
	if r.fb == nil {
		return
	}

	var st Stats
	if r.FrustumCull {
		if b, ok := mesh.(BoundedMeshRenderer); ok {
			st.MeshesTested++
			lo, hi := b.GetBounds()
			m := math3d.V3(r.CullMargin, r.CullMargin, r.CullMargin)
			box := NewAABB(lo.Sub(m), hi.Add(m))
			if !NewFrustumFromMatrix(mvp).IntersectAABB(box) {
				st.MeshesCulled++
				r.Stats.add(st)
				Logger().Debug("mesh culled", "triangles", mesh.TriangleCount())
				return
			}
		}
	}

	if r.Workers > 1 {
		st.add(r.drawParallel(mesh, mvp, s, u))
	} else {
		st.add(r.drawSerial(mesh, mvp, s, u))
	}
	r.Stats.add(st)

	l := Logger()
	if st.NonFinite > 0 {
		l.Warn("triangles dropped with non-finite coordinates", "count", st.NonFinite)
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("mesh drawn",
			"triangles", st.Triangles,
			"rasterized", st.Rasterized,
			"backface", st.BackfaceCulled,
			"near", st.NearRejected,
			"fragments", st.Fragments,
			"workers", r.Workers,
		)
	}
}

func (r *Renderer) drawSerial(mesh MeshRenderer, mvp math3d.Mat4, s shader.Shader, u shader.Uniforms) Stats {
	var st Stats
	var t preparedTriangle
	for i := range mesh.TriangleCount() {
		r.prepare(&t, mesh, i, mvp, s, u)
		st.count(&t)
		if t.outcome == triVisible {
			r.rasterize(&t, s, u, 0, r.fb.Height-1, &st)
		}
	}
	return st
}

func min3(a, b, c float32) float32 {
	return min(a, b, c)
}

func max3(a, b, c float32) float32 {
	return max(a, b, c)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
