package world

import "github.com/gorp-rogue/gorp/internal/terminal"

// Elevation bands. A cell belongs to the first band its height does not exceed.
const (
	MinElevation = 0.0
	DeepWater    = 0.1
	Water        = 0.2
	Lowland      = 0.3
	Highland     = 0.6
	Mountain     = 0.7
	MountainPeak = 0.8
)

// Terrain is the discrete class of a heightmap cell.
type Terrain uint8

const (
	TerrainDeepWater Terrain = iota // open ocean
	TerrainWater                    // shallows
	TerrainBeach                    // coast, just above the waterline
	TerrainLowland                  // grass and scrub
	TerrainHighland                 // hills
	TerrainMountain                 // rocky slopes
	TerrainPeak                     // snow-capped peaks
)

func (t Terrain) String() string {
	switch t {
	case TerrainDeepWater:
		return "deep water"
	case TerrainWater:
		return "water"
	case TerrainBeach:
		return "beach"
	case TerrainLowland:
		return "lowland"
	case TerrainHighland:
		return "highland"
	case TerrainMountain:
		return "mountain"
	default:
		return "peak"
	}
}

// Classify returns the terrain class for an elevation.
func Classify(h float32) Terrain {
	switch {
	case h <= DeepWater:
		return TerrainDeepWater
	case h <= Water:
		return TerrainWater
	case h <= Lowland:
		return TerrainBeach
	case h <= Highland:
		return TerrainLowland
	case h <= Mountain:
		return TerrainHighland
	case h <= MountainPeak:
		return TerrainMountain
	default:
		return TerrainPeak
	}
}

// IsLand reports whether an elevation is above the waterline.
func IsLand(h float32) bool { return h > Water }

// Visual returns the glyph and colour a terrain class is drawn with.
func Visual(t Terrain) (terminal.Glyph, terminal.Colour) {
	switch t {
	case TerrainDeepWater:
		return terminal.GlyphApprox, terminal.ColourBlueDark
	case TerrainWater:
		return terminal.GlyphApprox, terminal.ColourBlue
	case TerrainBeach:
		return '.', terminal.ColourYellow
	case TerrainLowland:
		return '"', terminal.ColourGreen
	case TerrainHighland:
		return terminal.GlyphMediumShade, terminal.ColourGreenDark
	case TerrainMountain:
		return '^', terminal.ColourGray
	default:
		return terminal.GlyphUpTriangle, terminal.ColourWhite
	}
}
