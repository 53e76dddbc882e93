// Package procgen generates island terrain: a noise heightmap shaped into a
// coastline, and the partition of its land into sub-islands.
package procgen

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/world"
)

// Island size limits, in tiles per side.
const (
	IslandSizeMin = 16
	IslandSizeMax = 512
)

// Heightmap shaping constants.
const (
	NoiseOctaves     = 4
	NoiseZoom        = 0.1
	NoisePersistence = 0.5

	// IslandHeightModifier scales the radial falloff toward the edges.
	IslandHeightModifier = 0.6
	// BorderModifierOuter damps the first ring inside the border below the waterline.
	BorderModifierOuter = 0.2
	// BorderModifierInner damps the second ring below the lowland band.
	BorderModifierInner = 0.1
)

// Heightmap is a square grid of elevations in [0, 1], stored row-major.
type Heightmap struct {
	Size  int
	Cells []float32
}

// NewHeightmap allocates a flat heightmap at minimum elevation.
func NewHeightmap(size int) *Heightmap {
	return &Heightmap{Size: size, Cells: make([]float32, size*size)}
}

// At returns the elevation at (x, y). Coordinates off the map panic with
// an "Invalid array index!" meditation.
func (h *Heightmap) At(x, y int) float32 { return h.Cells[mustIndex(x, y, h.Size)] }

// Set writes the elevation at (x, y).
func (h *Heightmap) Set(x, y int, v float32) { h.Cells[mustIndex(x, y, h.Size)] = v }

// mustIndex maps (x, y) into a square grid through world.Index.
func mustIndex(x, y, size int) int {
	i, err := world.Index(image.Pt(x, y), image.Pt(size, size))
	if err != nil {
		panic(err)
	}
	return i
}

// neighbourMax returns the highest elevation among the 8 neighbours of an
// interior cell.
func (h *Heightmap) neighbourMax(x, y int) float32 {
	m := float32(math.Inf(-1))
	for _, d := range world.Neighbours {
		if v := h.At(x+d.X, y+d.Y); v > m {
			m = v
		}
	}
	return m
}

// Island is a generated island and its sub-island partition.
type Island struct {
	Seed       uint32
	Heightmap  *Heightmap
	SubIslands *SubIslands
}

// Generate builds an island of size by size tiles. A zero seed picks a random
// one; the seed used is recorded on the result.
func Generate(size int, seed uint32) (*Island, error) {
	hm, seed, err := GenerateHeightmap(size, seed)
	if err != nil {
		return nil, err
	}
	return &Island{Seed: seed, Heightmap: hm, SubIslands: Extract(hm)}, nil
}

// GenerateHeightmap synthesizes the elevation field. The same nonzero seed
// always produces the same heightmap.
func GenerateHeightmap(size int, seed uint32) (*Heightmap, uint32, error) {
	if size < IslandSizeMin || size > IslandSizeMax {
		return nil, 0, guru.New("Invalid island size!", uint32(size), IslandSizeMax)
	}
	for seed == 0 {
		seed = rand.Uint32()
	}

	noise := opensimplex.NewNormalized(int64(seed))
	hm := NewHeightmap(size)
	centre := float64(size-1) / 2
	radius := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := octaveNoise(noise, float64(x)*NoiseZoom, float64(y)*NoiseZoom)
			d := math.Hypot(float64(x)-centre, float64(y)-centre) / radius
			hm.Set(x, y, float32(clamp01(n-d*IslandHeightModifier)))
		}
	}

	dampBorder(hm)
	smoothLoneTiles(hm)
	return hm, seed, nil
}

// octaveNoise sums NoiseOctaves layers of noise, doubling the frequency and
// scaling the amplitude by NoisePersistence each time. The result stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64) float64 {
	total, amplitude, maxValue, frequency := 0.0, 1.0, 0.0, 1.0
	for i := 0; i < NoiseOctaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= NoisePersistence
		frequency *= 2
	}
	return total / maxValue
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ring returns how many steps (x, y) is from the nearest edge.
func ring(x, y, size int) int {
	return min(x, y, size-1-x, size-1-y)
}

// dampBorder forces the edge to the ocean floor and pushes the next two rings
// below the water and lowland bands.
func dampBorder(hm *Heightmap) {
	for y := 0; y < hm.Size; y++ {
		for x := 0; x < hm.Size; x++ {
			h := hm.At(x, y)
			switch ring(x, y, hm.Size) {
			case 0:
				hm.Set(x, y, world.MinElevation)
			case 1:
				hm.Set(x, y, min(h, world.Water)*(1-BorderModifierOuter))
			case 2:
				hm.Set(x, y, min(h, world.Lowland)*(1-BorderModifierInner))
			}
		}
	}
}

// smoothLoneTiles removes single-tile spikes. An interior cell whose
// neighbours all sit at or below deep water (or water) is clamped down to
// that band. Cells are never raised.
func smoothLoneTiles(hm *Heightmap) {
	for y := 1; y < hm.Size-1; y++ {
		for x := 1; x < hm.Size-1; x++ {
			h := hm.At(x, y)
			m := hm.neighbourMax(x, y)
			switch {
			case m <= world.DeepWater:
				hm.Set(x, y, min(h, world.DeepWater))
			case m <= world.Water:
				hm.Set(x, y, min(h, world.Water))
			}
		}
	}
}
