// Package models provides the triangle meshes rendered by orrery: procedural
// bodies and meshes loaded from glTF files.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Mesh validation errors.
var (
	ErrPositionCount   = errors.New("position count not divisible by 3")
	ErrIndexCount      = errors.New("index count not divisible by 3")
	ErrIndexOutOfRange = errors.New("vertex index out of range")
)

// Mesh is an indexed triangle list. Positions holds x, y, z per vertex and
// Indices holds three vertex indices per triangle. Front faces wind
// counter-clockwise seen from outside.
type Mesh struct {
	Name      string
	Positions []float32
	Indices   []uint32

	// Bounding box (calculated on construction)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates a mesh over the given arrays and computes its bounds. The
// slices are used directly, not copied.
func NewMesh(name string, positions []float32, indices []uint32) *Mesh {
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
	m.CalculateBounds()
	return m
}

// Validate checks the mesh invariants: whole vertices, whole triangles and
// every index in range. The renderer trusts meshes, so call this on anything
// read from outside.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %q: %w: %d", m.Name, ErrPositionCount, len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %w: %d", m.Name, ErrIndexCount, len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q: %w: indices[%d] = %d, %d vertices", m.Name, ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if m.VertexCount() == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.GetVertex(0)
	m.BoundsMax = m.BoundsMin

	for i := 1; i < m.VertexCount(); i++ {
		v := m.GetVertex(i)
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.VertexCount() {
		m.setVertex(i, mat.MulVec3(m.GetVertex(i)))
	}
	m.CalculateBounds()
}

// FitUnitSphere centers the mesh on its bounding box and scales it so the
// farthest vertex lies at distance 1. Shaders map surface position to
// spherical UV and noise coordinates, which assumes a unit body at the origin.
func (m *Mesh) FitUnitSphere() {
	c := m.Center()
	var r float32
	for i := range m.VertexCount() {
		r = max(r, m.GetVertex(i).Sub(c).Len())
	}
	if r == 0 {
		return
	}
	m.Transform(math3d.Scale(math3d.V3(1/r, 1/r, 1/r)).Mul(math3d.Translate(c.Negate())))
}

// GetVertex returns the position of vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	p := m.Positions[i*3 : i*3+3]
	return math3d.V3(p[0], p[1], p[2])
}

func (m *Mesh) setVertex(i int, v math3d.Vec3) {
	m.Positions[i*3] = v.X
	m.Positions[i*3+1] = v.Y
	m.Positions[i*3+2] = v.Z
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	f := m.Indices[i*3 : i*3+3]
	return [3]int{int(f[0]), int(f[1]), int(f[2])}
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
