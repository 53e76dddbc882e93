package terminal

import (
	"image"

	"github.com/gorp-rogue/gorp/internal/guru"
)

// TileSize is the edge length in pixels of one atlas cell at tile scale 1.
const TileSize = 16

// Atlas describes how a sprite sheet is partitioned into tiles. It holds no
// pixels; backends cut their own images with the rectangles it returns.
type Atlas struct {
	Cols int
	Rows int
}

// DefaultAtlas is the layout of the generated sheet: 256 normal glyphs, 256
// alternate glyphs, then 256 half-width glyphs packed two per tile.
var DefaultAtlas = Atlas{Cols: 16, Rows: 40}

// NewAtlas partitions a sheet of the given pixel size.
func NewAtlas(width, height int) Atlas {
	return Atlas{Cols: width / TileSize, Rows: height / TileSize}
}

// Max returns the number of full tiles on the sheet.
func (a Atlas) Max() int { return a.Cols * a.Rows }

// Rect returns the sub-rectangle of the sheet for a glyph in a font. Indices
// past the end of the sheet are a fatal error.
func (a Atlas) Rect(g Glyph, f Font) (image.Rectangle, error) {
	idx := int(g) + f.Offset()
	if f.Half() {
		if idx >= a.Max()*2 {
			return image.Rectangle{}, guru.New("Invalid sprite tile!", uint32(idx), uint32(a.Max()*2))
		}
		cols := a.Cols * 2
		x := (idx % cols) * TileSize / 2
		y := (idx / cols) * TileSize
		return image.Rect(x, y, x+TileSize/2, y+TileSize), nil
	}
	if idx >= a.Max() {
		return image.Rectangle{}, guru.New("Invalid sprite tile!", uint32(idx), uint32(a.Max()))
	}
	x := (idx % a.Cols) * TileSize
	y := (idx / a.Cols) * TileSize
	return image.Rect(x, y, x+TileSize, y+TileSize), nil
}
