// Package world holds the shared grid helpers and the terrain model used
// by island generation and map views.
package world

import (
	"image"

	"github.com/gorp-rogue/gorp/internal/guru"
)

// Neighbours lists the Moore neighbourhood offsets in raster order.
var Neighbours = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// InBounds reports whether p lies inside a grid of the given size.
func InBounds(p, size image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < size.X && p.Y < size.Y
}

// Index maps p to its row-major offset in a size.X by size.Y array.
// Coordinates outside the grid are a fatal error.
func Index(p, size image.Point) (int, error) {
	if !InBounds(p, size) {
		return 0, guru.New("Invalid array index!", uint32(p.X)<<16|uint32(p.Y)&0xFFFF, uint32(size.X)<<16|uint32(size.Y)&0xFFFF)
	}
	return p.Y*size.X + p.X, nil
}
