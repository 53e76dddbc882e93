package procgen

import (
	"image"

	"github.com/gorp-rogue/gorp/internal/world"
)

// Reserved sub-island labels.
const (
	SubIslandUnassigned int32 = -1
	SubIslandWater      int32 = -2
)

// SubIslands partitions a heightmap's land into 8-connected regions.
type SubIslands struct {
	Size int
	// Labels holds one label per cell, row-major.
	Labels []int32
	// Regions lists the cells of each label in fill order.
	Regions [][]image.Point
}

// Label returns the label at (x, y). Like Heightmap.At it panics off the map.
func (s *SubIslands) Label(x, y int) int32 { return s.Labels[mustIndex(x, y, s.Size)] }

// Largest returns the label of the biggest region, or -1 if there is no land.
func (s *SubIslands) Largest() int {
	best := -1
	for id, r := range s.Regions {
		if best < 0 || len(r) > len(s.Regions[best]) {
			best = id
		}
	}
	return best
}

// Extract labels every cell of hm. Cells are scanned row by row (y outer, x
// inner); each unlabeled land cell found starts a flood fill with the next
// label, so numbering is stable for a given heightmap.
func Extract(hm *Heightmap) *SubIslands {
	s := &SubIslands{
		Size:   hm.Size,
		Labels: make([]int32, len(hm.Cells)),
	}
	for i := range s.Labels {
		s.Labels[i] = SubIslandUnassigned
	}
	for y := 0; y < hm.Size; y++ {
		for x := 0; x < hm.Size; x++ {
			i := y*hm.Size + x
			if !world.IsLand(hm.Cells[i]) {
				s.Labels[i] = SubIslandWater
				continue
			}
			if s.Labels[i] == SubIslandUnassigned {
				s.fill(hm, image.Pt(x, y), int32(len(s.Regions)))
			}
		}
	}
	return s
}

// fill labels the 8-connected land region containing start. It uses an
// explicit stack so large islands cannot exhaust the call stack.
func (s *SubIslands) fill(hm *Heightmap, start image.Point, label int32) {
	size := image.Pt(hm.Size, hm.Size)
	var region []image.Point
	stack := []image.Point{start}
	s.Labels[mustIndex(start.X, start.Y, hm.Size)] = label
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, p)
		for _, d := range world.Neighbours {
			n := p.Add(d)
			if !world.InBounds(n, size) {
				continue
			}
			i := n.Y*hm.Size + n.X
			if s.Labels[i] != SubIslandUnassigned || !world.IsLand(hm.Cells[i]) {
				continue
			}
			s.Labels[i] = label
			stack = append(stack, n)
		}
	}
	s.Regions = append(s.Regions, region)
}
