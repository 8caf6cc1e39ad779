package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float32
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math32.Abs(dist-tc.expected) > 1e-6 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if l := plane.Normal.Len(); math32.Abs(l-1) > 1e-6 {
		t.Errorf("normalized normal length = %v, want 1.0", l)
	}
	if math32.Abs(plane.Normal.Y-0.6) > 1e-6 || math32.Abs(plane.Normal.Z-0.8) > 1e-6 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	// D should be scaled too (10/5 = 2)
	if math32.Abs(plane.D-2) > 1e-6 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBCenter(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))
	if c := box.Center(); c != math3d.Zero3() {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	proj := math3d.Perspective(math32.Pi/3, 16.0/9.0, 0.1, 100)
	frustum := NewFrustumFromMatrix(proj)

	for i, plane := range frustum.Planes {
		if l := plane.Normal.Len(); math32.Abs(l-1) > 1e-5 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, l)
		}
	}
}

// pointBox is a zero-sized box, so IntersectAABB acts as a point test.
func pointBox(p math3d.Vec3) AABB {
	return NewAABB(p, p)
}

func TestFrustumPointInside(t *testing.T) {
	proj := math3d.Perspective(math32.Pi/3, 16.0/9.0, 0.1, 100)
	frustum := NewFrustumFromMatrix(proj)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.01), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(pointBox(tc.point)); got != tc.expected {
				t.Errorf("point %v inside = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	proj := math3d.Perspective(math32.Pi/3, 16.0/9.0, 1, 100)
	frustum := NewFrustumFromMatrix(proj)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{
			"fully inside",
			NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)),
			true,
		},
		{
			"crosses near plane",
			NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)),
			true,
		},
		{
			"behind camera",
			NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)),
			false,
		},
		{
			"beyond far plane",
			NewAABB(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)),
			false,
		},
		{
			"far to the right",
			NewAABB(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)),
			false,
		},
		{
			"large box containing frustum",
			NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)),
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	// Camera at origin looking along +X
	proj := math3d.Perspective(math32.Pi/3, 1, 1, 100)
	view := math3d.LookAt(math3d.Zero3(), math3d.V3(10, 0, 0), math3d.Up())
	frustum := NewFrustumFromMatrix(proj.Mul(view))

	if !frustum.IntersectAABB(pointBox(math3d.V3(10, 0, 0))) {
		t.Error("point in front of rotated camera should be visible")
	}
	if frustum.IntersectAABB(pointBox(math3d.V3(-10, 0, 0))) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func TestCameraOrbitClampsDistance(t *testing.T) {
	cam := NewCamera()

	cam.SetOrbit(0, 0.2)
	if cam.Distance != MinOrbitDistance {
		t.Errorf("Distance after zoom in = %v, want %v", cam.Distance, float32(MinOrbitDistance))
	}
	cam.SetOrbit(0, 100)
	if cam.Distance != MaxOrbitDistance {
		t.Errorf("Distance after zoom out = %v, want %v", cam.Distance, float32(MaxOrbitDistance))
	}
}

func TestCameraPosition(t *testing.T) {
	cam := NewCamera()
	cam.SetOrbit(0, 5)

	p := cam.Position()
	if math32.Abs(p.X) > 1e-6 || p.Y != DefaultOrbitHeight || math32.Abs(p.Z-5) > 1e-6 {
		t.Errorf("Position() = %v, want (0, 1, 5)", p)
	}

	cam.SetOrbit(math32.Pi/2, 5)
	p = cam.Position()
	if math32.Abs(p.X-5) > 1e-5 || math32.Abs(p.Z) > 1e-5 {
		t.Errorf("Position() after quarter orbit = %v, want (5, 1, 0)", p)
	}
}

func TestCameraTargetProjectsToCenter(t *testing.T) {
	cam := NewCamera()
	cam.SetOrbit(0.7, 4)

	x, y, depth, visible := WorldToScreen(cam.MVP(math3d.Identity()), math3d.Zero3(), 100, 60)
	if !visible {
		t.Fatal("target should be visible")
	}
	if math32.Abs(x-50) > 1e-3 || math32.Abs(y-30) > 1e-3 {
		t.Errorf("target projected to (%v, %v), want (50, 30)", x, y)
	}
	if depth < -1 || depth > 1 {
		t.Errorf("depth = %v, want within [-1, 1]", depth)
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	proj := math3d.Perspective(math32.Pi/3, 16.0/9.0, 1, 100)
	frustum := NewFrustumFromMatrix(proj)
	box := NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))

	for b.Loop() {
		frustum.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	cam := NewCamera()
	mvp := cam.MVP(math3d.RotateY(0.3))

	for b.Loop() {
		NewFrustumFromMatrix(mvp)
	}
}
