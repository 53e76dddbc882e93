package procgen

import (
	"errors"
	"image"
	"math"
	"slices"
	"testing"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/world"
)

func TestGenerateRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, IslandSizeMin - 1, IslandSizeMax + 1} {
		_, err := Generate(size, 1)
		var m *guru.Meditation
		if !errors.As(err, &m) {
			t.Fatalf("Generate(%d) err = %v, want meditation", size, err)
		}
		if m.A != uint32(size) || m.B != IslandSizeMax {
			t.Errorf("Generate(%d) code = %s", size, m.Code())
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, size := range []int{IslandSizeMin, 64, 100} {
		a, err := Generate(size, 12345)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Generate(size, 12345)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(a.Heightmap.Cells, b.Heightmap.Cells) {
			t.Fatalf("size %d: heightmaps differ for the same seed", size)
		}
		if !slices.Equal(a.SubIslands.Labels, b.SubIslands.Labels) {
			t.Fatalf("size %d: labels differ for the same seed", size)
		}
	}
	c, _ := Generate(64, 54321)
	d, _ := Generate(64, 12345)
	if slices.Equal(c.Heightmap.Cells, d.Heightmap.Cells) {
		t.Errorf("different seeds produced identical heightmaps")
	}
}

func TestGenerateRandomSeed(t *testing.T) {
	island, err := Generate(32, 0)
	if err != nil {
		t.Fatal(err)
	}
	if island.Seed == 0 {
		t.Errorf("zero seed should be replaced by a random one")
	}
	again, _ := Generate(32, island.Seed)
	if !slices.Equal(island.Heightmap.Cells, again.Heightmap.Cells) {
		t.Errorf("recorded seed does not reproduce the island")
	}
}

func TestHeightmapInvariants(t *testing.T) {
	for _, seed := range []uint32{1, 7, 12345, 99999} {
		hm, _, err := GenerateHeightmap(64, seed)
		if err != nil {
			t.Fatal(err)
		}
		n := hm.Size
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				h := hm.At(x, y)
				if math.IsNaN(float64(h)) || h < 0 || h > 1 {
					t.Fatalf("seed %d: elevation %v at (%d,%d) out of range", seed, h, x, y)
				}
				switch ring(x, y, n) {
				case 0:
					if h != world.MinElevation {
						t.Fatalf("seed %d: border (%d,%d) = %v", seed, x, y, h)
					}
				case 1:
					if h >= world.Water {
						t.Fatalf("seed %d: ring 1 (%d,%d) = %v not below water", seed, x, y, h)
					}
				case 2:
					if h >= world.Lowland {
						t.Fatalf("seed %d: ring 2 (%d,%d) = %v not below lowland", seed, x, y, h)
					}
				}
			}
		}
	}
}

func TestNoLoneTiles(t *testing.T) {
	for _, seed := range []uint32{3, 12345, 424242} {
		hm, _, _ := GenerateHeightmap(96, seed)
		for y := 1; y < hm.Size-1; y++ {
			for x := 1; x < hm.Size-1; x++ {
				h := hm.At(x, y)
				m := hm.neighbourMax(x, y)
				if h > world.Water && m <= world.Water {
					t.Fatalf("seed %d: lone land tile at (%d,%d): %v, neighbours <= %v", seed, x, y, h, m)
				}
				if h > world.DeepWater && m <= world.DeepWater {
					t.Fatalf("seed %d: lone shallow tile at (%d,%d): %v, neighbours <= %v", seed, x, y, h, m)
				}
			}
		}
	}
}

func TestSmoothingOnlyLowers(t *testing.T) {
	hm := NewHeightmap(5)
	hm.Set(2, 2, 0.9) // spike in open water
	hm.Set(1, 1, 0.05)
	smoothLoneTiles(hm)
	if got := hm.At(2, 2); got != world.DeepWater {
		t.Errorf("spike = %v, want clamped to %v", got, world.DeepWater)
	}
	if got := hm.At(1, 1); got != 0.05 {
		t.Errorf("low cell = %v, smoothing must not raise it", got)
	}
}

func TestIslandScenario(t *testing.T) {
	island, err := Generate(64, 12345)
	if err != nil {
		t.Fatal(err)
	}
	big := island.SubIslands.Largest()
	if big < 0 || len(island.SubIslands.Regions[big]) < 2 {
		t.Fatalf("expected a multi-cell land region, got %d regions", len(island.SubIslands.Regions))
	}
}

func TestExtractLabelsEverything(t *testing.T) {
	island, _ := Generate(128, 777)
	s := island.SubIslands
	hm := island.Heightmap
	for i, l := range s.Labels {
		switch {
		case l == SubIslandUnassigned:
			t.Fatalf("cell %d left unassigned", i)
		case world.IsLand(hm.Cells[i]) && l < 0:
			t.Fatalf("land cell %d has label %d", i, l)
		case !world.IsLand(hm.Cells[i]) && l != SubIslandWater:
			t.Fatalf("water cell %d has label %d", i, l)
		}
	}
	total := 0
	for id, r := range s.Regions {
		total += len(r)
		for _, p := range r {
			if s.Label(p.X, p.Y) != int32(id) {
				t.Fatalf("registry for %d holds %v labelled %d", id, p, s.Label(p.X, p.Y))
			}
		}
	}
	land := 0
	for _, h := range hm.Cells {
		if world.IsLand(h) {
			land++
		}
	}
	if total != land {
		t.Errorf("registry holds %d cells, heightmap has %d land cells", total, land)
	}
}

// Two land cells share a label if and only if an 8-connected land path joins them.
func TestExtractConnectivity(t *testing.T) {
	island, _ := Generate(96, 2024)
	s := island.SubIslands
	size := image.Pt(s.Size, s.Size)
	for id, r := range s.Regions {
		seen := map[image.Point]bool{r[0]: true}
		queue := []image.Point{r[0]}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, d := range world.Neighbours {
				n := p.Add(d)
				if !world.InBounds(n, size) || seen[n] || !world.IsLand(island.Heightmap.At(n.X, n.Y)) {
					continue
				}
				seen[n] = true
				queue = append(queue, n)
			}
		}
		if len(seen) != len(r) {
			t.Fatalf("region %d: %d cells reachable, %d labelled", id, len(seen), len(r))
		}
		for p := range seen {
			if s.Label(p.X, p.Y) != int32(id) {
				t.Fatalf("region %d: reachable cell %v labelled %d", id, p, s.Label(p.X, p.Y))
			}
		}
	}
}

func TestExtractHandmade(t *testing.T) {
	// Land (#) on a 6x6 map:
	//   . . . . . .
	//   . # . . # .
	//   . . # . . .
	//   . . . . . .
	//   . # # . . .
	//   . . . . . .
	hm := NewHeightmap(6)
	for _, p := range []image.Point{{1, 1}, {2, 2}, {4, 1}, {1, 4}, {2, 4}} {
		hm.Set(p.X, p.Y, 0.5)
	}
	s := Extract(hm)
	if len(s.Regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(s.Regions))
	}
	if s.Label(1, 1) != 0 || s.Label(2, 2) != 0 {
		t.Errorf("diagonal neighbours should share label 0")
	}
	if s.Label(4, 1) != 1 {
		t.Errorf("second region in scan order should be 1, got %d", s.Label(4, 1))
	}
	if s.Label(1, 4) != 2 || s.Label(2, 4) != 2 {
		t.Errorf("bottom pair should be label 2")
	}
	if want := []image.Point{{1, 1}, {2, 2}}; !slices.Equal(s.Regions[0], want) {
		t.Errorf("fill order = %v, want %v", s.Regions[0], want)
	}
	if s.Label(0, 0) != SubIslandWater {
		t.Errorf("water cell label = %d", s.Label(0, 0))
	}
}

// offMap runs fn and returns the meditation it panicked with, if any.
func offMap(fn func()) (m *guru.Meditation) {
	defer func() {
		if r := recover(); r != nil {
			err, _ := r.(error)
			errors.As(err, &m)
		}
	}()
	fn()
	return nil
}

func TestAccessorsRejectOffMapCells(t *testing.T) {
	hm := NewHeightmap(4)
	hm.Set(0, 1, 0.7)
	s := Extract(hm)
	cases := map[string]func(){
		"At past row end": func() { hm.At(4, 0) },
		"At negative":     func() { hm.At(-1, 2) },
		"Set below map":   func() { hm.Set(0, 4, 0.5) },
		"Label past end":  func() { s.Label(4, 0) },
	}
	for name, fn := range cases {
		if m := offMap(fn); m == nil || m.Msg != "Invalid array index!" {
			t.Errorf("%s: got %v, want Invalid array index!", name, m)
		}
	}
	if hm.At(0, 1) != 0.7 || s.Label(0, 1) != 0 {
		t.Errorf("in-range reads changed")
	}
}
