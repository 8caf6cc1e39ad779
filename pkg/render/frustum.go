package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
)

// Plane represents a plane Ax + By + Cz + D = 0 with normal (A, B, C).
type Plane struct {
	Normal math3d.Vec3
	D      float32
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum, normals pointing inward.
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a combined matrix using
// the Gribb/Hartmann method. Given an MVP the planes live in object space.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Row i element j of the column-major matrix is m[i+j*4].
	row := func(i int) (float32, float32, float32, float32) {
		return m[i], m[i+4], m[i+8], m[i+12]
	}
	ax, ay, az, aw := row(3)

	var f Frustum
	for i := range 3 {
		bx, by, bz, bw := row(i)
		f.Planes[2*i] = Plane{Normal: math3d.V3(ax+bx, ay+by, az+bz), D: aw + bw}
		f.Planes[2*i+1] = Plane{Normal: math3d.V3(ax-bx, ay-by, az-bz), D: aw - bw}
	}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IntersectAABB reports whether any part of the box may be inside the
// frustum, using the positive-vertex test.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The corner furthest along the plane normal.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}
