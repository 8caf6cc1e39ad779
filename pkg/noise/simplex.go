// Package noise implements deterministic 3D simplex noise and fractal
// Brownian motion over it. All tables are immutable and every function is
// safe for concurrent use.
package noise

import "github.com/chewxy/math32"

// Skew and unskew factors for three dimensions.
const (
	f3 = float32(1.0 / 3.0)
	g3 = float32(1.0 / 6.0)
)

// p is Ken Perlin's reference permutation.
var p = [256]uint8{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// perm is p repeated twice so hashed lookups never need to wrap.
var perm = func() (t [512]uint8) {
	copy(t[:256], p[:])
	copy(t[256:], p[:])
	return t
}()

// grad3 holds the 12 edge-midpoint gradients of a cube.
var grad3 = [12][3]float32{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Noise3D returns 3D simplex noise at (x, y, z), rescaled from [-1, 1] to
// roughly [0, 1]. Identical inputs always produce identical outputs.
func Noise3D(x, y, z float32) float32 {
	// Skew the input space to find the simplex cell.
	s := (x + y + z) * f3
	i := math32.Floor(x + s)
	j := math32.Floor(y + s)
	k := math32.Floor(z + s)

	t := (i + j + k) * g3
	x0 := x - (i - t)
	y0 := y - (j - t)
	z0 := z - (k - t)

	// Pick the simplex traversal order.
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float32(i1) + g3
	y1 := y0 - float32(j1) + g3
	z1 := z0 - float32(k1) + g3
	x2 := x0 - float32(i2) + 2*g3
	y2 := y0 - float32(j2) + 2*g3
	z2 := z0 - float32(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	ii := int(int32(i) & 255)
	jj := int(int32(j) & 255)
	kk := int(int32(k) & 255)

	gi0 := hash(ii, jj, kk)
	gi1 := hash(ii+i1, jj+j1, kk+k1)
	gi2 := hash(ii+i2, jj+j2, kk+k2)
	gi3 := hash(ii+1, jj+1, kk+1)

	n := corner(gi0, x0, y0, z0) +
		corner(gi1, x1, y1, z1) +
		corner(gi2, x2, y2, z2) +
		corner(gi3, x3, y3, z3)

	return 32*n*0.5 + 0.5
}

// hash maps a lattice corner to one of the 12 gradients.
func hash(i, j, k int) int {
	return int(perm[i+int(perm[j+int(perm[k])])]) % 12
}

// corner returns the radially attenuated gradient contribution of one corner.
func corner(gi int, x, y, z float32) float32 {
	t := 0.6 - x*x - y*y - z*z
	if t <= 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}
