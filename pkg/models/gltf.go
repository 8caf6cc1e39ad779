package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
)

// ErrNoGeometry is returned when a glTF file holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FitUnitSphere recenters and rescales the result to the unit sphere.
	FitUnitSphere bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FitUnitSphere: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file with the default options.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file, merging every triangle primitive of every
// mesh into one Mesh. glTF front faces are counter-clockwise, matching the
// renderer, so winding is kept as stored.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path), nil, nil)

	// Process all meshes in the document
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	if l.FitUnitSphere {
		mesh.FitUnitSphere()
	}

	return mesh, nil
}

// processMesh appends the geometry of a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		// Get position accessor
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		// Base vertex index for this primitive
		baseVertex := uint32(mesh.VertexCount())
		mesh.Positions = append(mesh.Positions, positions...)
		count := uint32(len(positions) / 3)

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				for _, idx := range indices[i : i+3] {
					if idx >= count {
						return fmt.Errorf("%w: %d, primitive has %d vertices", ErrIndexOutOfRange, idx, count)
					}
					mesh.Indices = append(mesh.Indices, baseVertex+idx)
				}
			}
		} else {
			// No indices, assume sequential triangles
			for i := uint32(0); i+2 < count; i += 3 {
				mesh.Indices = append(mesh.Indices, baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}

	return nil
}

// readVec3Accessor reads VEC3 float data from a GLTF accessor as a flat
// x, y, z slice.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]float32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]float32, 0, accessor.Count*3)
	for i := range accessor.Count {
		offset := start + i*stride
		for j := range 3 {
			result = append(result, readFloat32(data[offset+j*4:]))
		}
	}
	return result, nil
}

// readIndices reads unsigned SCALAR index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, accessor.Count)
	for i := range accessor.Count {
		b := data[start+i*stride:]
		switch size {
		case 1:
			result[i] = uint32(b[0])
		case 2:
			result[i] = uint32(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = binary.LittleEndian.Uint32(b)
		}
	}
	return result, nil
}

// accessorBytes resolves the buffer bytes behind an accessor and checks that
// every element of elemSize bytes lies inside it.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}

	// gltf.Open resolves embedded and external buffers into Data.
	data = doc.Buffers[bufferView.Buffer].Data
	if data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	start = bufferView.ByteOffset + accessor.ByteOffset
	stride = bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if start < 0 || end > len(data) {
			return nil, 0, 0, fmt.Errorf("accessor reads bytes [%d, %d) of a %d byte buffer", start, end, len(data))
		}
	}
	return data, start, stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
