package noise

// MaxOctaves is the largest octave count the interactive tuning allows.
const MaxOctaves = 10

// FBM sums octaves of Noise3D at doubling frequency and halving amplitude,
// starting at amplitude 0.5 and frequency 1. octaves < 1 yields 0.
func FBM(x, y, z float32, octaves int) float32 {
	var value float32
	amplitude := float32(0.5)
	frequency := float32(1)

	for range octaves {
		value += amplitude * Noise3D(x*frequency, y*frequency, z*frequency)
		frequency *= 2
		amplitude *= 0.5
	}

	return value
}
