package models

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrTessellation is returned for sphere resolutions too coarse to close a
// surface.
var ErrTessellation = errors.New("invalid sphere tessellation")

// Minimum sphere resolution.
const (
	MinSegments = 3
	MinRings    = 2
)

// UVSphere builds a unit sphere of segments longitude slices and rings
// latitude bands. Vertex (ring r, segment s) sits at polar angle r*pi/rings
// and azimuth 2*pi*s/segments; the seam column is duplicated. Triangles that
// would collapse at the poles are omitted, leaving segments*(2*rings-2)
// triangles, all wound counter-clockwise seen from outside.
func UVSphere(segments, rings int) (*Mesh, error) {
	if segments < MinSegments || rings < MinRings {
		return nil, fmt.Errorf("%w: %d segments, %d rings (need at least %d, %d)",
			ErrTessellation, segments, rings, MinSegments, MinRings)
	}

	cols := segments + 1
	positions := make([]float32, 0, (rings+1)*cols*3)
	for r := 0; r <= rings; r++ {
		theta := float32(r) * math32.Pi / float32(rings)
		sinT, cosT := math32.Sin(theta), math32.Cos(theta)
		for s := 0; s <= segments; s++ {
			phi := float32(s) * 2 * math32.Pi / float32(segments)
			positions = append(positions, sinT*math32.Cos(phi), cosT, sinT*math32.Sin(phi))
		}
	}

	indices := make([]uint32, 0, segments*(2*rings-2)*3)
	for r := range rings {
		for s := range segments {
			i0 := uint32(r*cols + s)
			i1 := i0 + uint32(cols)
			i2 := i0 + 1
			i3 := i1 + 1
			if r != 0 {
				indices = append(indices, i0, i2, i1)
			}
			if r != rings-1 {
				indices = append(indices, i1, i2, i3)
			}
		}
	}

	return NewMesh(fmt.Sprintf("uvsphere-%dx%d", segments, rings), positions, indices), nil
}

// Octahedron returns the unit octahedron: six vertices on the axes and eight
// outward-facing triangles.
func Octahedron() *Mesh {
	positions := []float32{
		1, 0, 0, -1, 0, 0,
		0, 1, 0, 0, -1, 0,
		0, 0, 1, 0, 0, -1,
	}
	indices := []uint32{
		0, 2, 4, 0, 5, 2, 0, 4, 3, 0, 3, 5,
		1, 4, 2, 1, 2, 5, 1, 3, 4, 1, 5, 3,
	}
	return NewMesh("octahedron", positions, indices)
}
