// Package mapgen lays out the startup cube grid.
package mapgen

import (
	"math"
	"math/rand/v2"
	"time"

	"cube-demo/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// GridOptions controls the startup cube layout.
// Cols run along X, Rows along Z; Spacing is the distance between neighbouring cube centers.
// Relief lifts each cube on Y by fractal noise in [0, Relief]; zero keeps the grid flat.
// Seed controls randomness; Seed == 0 uses a time-based seed.
type GridOptions struct {
	Rows    int
	Cols    int
	Spacing float32
	Relief  float32
	Seed    int64

	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultGridOptions returns the 4x4 flat grid used by the demo.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Rows:       4,
		Cols:       4,
		Spacing:    2,
		Relief:     0,
		Seed:       42,
		Octaves:    4,
		Frequency:  0.35,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// ResolveSeed returns opts.Seed, or a time-based seed when it is zero.
func (opts GridOptions) ResolveSeed() int64 {
	if opts.Seed == 0 {
		return time.Now().UnixNano()
	}
	return opts.Seed
}

// NewRand returns the PCG source that colors the scene for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Grid lays out Rows*Cols unit cubes centered on the world origin, row by row.
// With the default spacing every center sits on integer coordinates.
func Grid(opts GridOptions) []scene.ObjectInstance {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil
	}
	if opts.Spacing <= 0 {
		opts.Spacing = 1
	}
	if opts.Octaves <= 0 {
		opts.Octaves = 1
	}
	if opts.Frequency <= 0 {
		opts.Frequency = 0.35
	}
	if opts.Lacunarity <= 0 {
		opts.Lacunarity = 2.0
	}
	if opts.Gain <= 0 {
		opts.Gain = 0.5
	}

	// First center is at (-extentX, -extentZ) so the grid is symmetric about the origin.
	extentX := float32(opts.Cols-1) * opts.Spacing * 0.5
	extentZ := float32(opts.Rows-1) * opts.Spacing * 0.5

	var seed int64
	if opts.Relief > 0 {
		seed = opts.ResolveSeed()
	}

	objs := make([]scene.ObjectInstance, 0, opts.Rows*opts.Cols)
	for z := 0; z < opts.Rows; z++ {
		for x := 0; x < opts.Cols; x++ {
			var y float32
			if opts.Relief > 0 {
				h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency,
					seed, opts.Octaves, opts.Lacunarity, opts.Gain)
				if isFinite(h) {
					y = h * opts.Relief
				}
			}
			objs = append(objs, scene.ObjectInstance{
				Position: mgl32.Vec3{
					-extentX + float32(x)*opts.Spacing,
					y,
					-extentZ + float32(z)*opts.Spacing,
				},
				Scale: mgl32.Vec3{1, 1, 1},
			})
		}
	}
	return objs
}

// fractalValueNoise2D sums octaves of value noise and normalizes to [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, norm float32
	amp := float32(1)
	freq := float32(1)
	s := int32(seed ^ (seed >> 32))
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, s+int32(i)*1013) * amp
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math.Floor(float64(x)))
	y0 := int32(math.Floor(float64(y)))
	tx := smoothStep(x - float32(x0))
	ty := smoothStep(y - float32(y0))

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// hash2D maps lattice coordinates to [0,1].
func hash2D(x, y, seed int32) float32 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(seed)*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0x00ffffff) / float32(0x00ffffff)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func smoothStep(t float32) float32 { return t * t * (3 - 2*t) }

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
