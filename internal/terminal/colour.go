package terminal

import (
	"fmt"
	"image/color"
)

// Colour identifies one entry in the fixed engine palette.
type Colour uint8

const (
	ColourNone Colour = iota
	ColourBlack
	ColourGrayDark
	ColourGray
	ColourWhite
	ColourRedLight
	ColourRed
	ColourRedDark
	ColourOrangeLight
	ColourOrange
	ColourOrangeDark
	ColourYellowLight
	ColourYellow
	ColourYellowDark
	ColourGreenLight
	ColourGreen
	ColourGreenDark
	ColourCyanLight
	ColourCyan
	ColourCyanDark
	ColourBlueLight
	ColourBlue
	ColourBlueDark
	ColourPurpleLight
	ColourPurple
	ColourPurpleDark
	ColourBrownLight
	ColourBrown
	ColourBrownDark

	colourCount
)

// Background is the colour the frame is cleared to before windows are drawn.
var Background = color.RGBA{2, 2, 2, 255}

var palette = [colourCount]color.RGBA{
	ColourNone:        {255, 255, 255, 255},
	ColourBlack:       {2, 2, 2, 255},
	ColourGrayDark:    {64, 64, 64, 255},
	ColourGray:        {128, 128, 128, 255},
	ColourWhite:       {255, 255, 255, 255},
	ColourRedLight:    {255, 144, 114, 255},
	ColourRed:         {220, 98, 80, 255},
	ColourRedDark:     {160, 15, 15, 255},
	ColourOrangeLight: {246, 195, 124, 255},
	ColourOrange:      {242, 140, 58, 255},
	ColourOrangeDark:  {215, 73, 34, 255},
	ColourYellowLight: {253, 255, 117, 255},
	ColourYellow:      {255, 215, 49, 255},
	ColourYellowDark:  {237, 164, 30, 255},
	ColourGreenLight:  {221, 255, 163, 255},
	ColourGreen:       {130, 206, 99, 255},
	ColourGreenDark:   {42, 157, 100, 255},
	ColourCyanLight:   {155, 252, 248, 255},
	ColourCyan:        {93, 233, 218, 255},
	ColourCyanDark:    {67, 150, 178, 255},
	ColourBlueLight:   {126, 191, 255, 255},
	ColourBlue:        {90, 139, 222, 255},
	ColourBlueDark:    {38, 58, 174, 255},
	ColourPurpleLight: {206, 144, 255, 255},
	ColourPurple:      {66, 30, 166, 255},
	ColourPurpleDark:  {78, 24, 124, 255},
	ColourBrownLight:  {228, 166, 114, 255},
	ColourBrown:       {184, 111, 80, 255},
	ColourBrownDark:   {116, 63, 57, 255},
}

// colourCodes maps the character inside a {X} tag to its colour.
var colourCodes = map[byte]Colour{
	'W': ColourWhite,
	'w': ColourGray,
	'K': ColourGrayDark,
	'k': ColourBlack,
	'1': ColourRedLight,
	'R': ColourRed,
	'r': ColourRedDark,
	'2': ColourOrangeLight,
	'O': ColourOrange,
	'o': ColourOrangeDark,
	'3': ColourYellowLight,
	'Y': ColourYellow,
	'y': ColourYellowDark,
	'4': ColourGreenLight,
	'G': ColourGreen,
	'g': ColourGreenDark,
	'5': ColourCyanLight,
	'C': ColourCyan,
	'c': ColourCyanDark,
	'6': ColourBlueLight,
	'U': ColourBlue,
	'u': ColourBlueDark,
	'7': ColourPurpleLight,
	'P': ColourPurple,
	'p': ColourPurpleDark,
	'8': ColourBrownLight,
	'B': ColourBrown,
	'b': ColourBrownDark,
}

var colourNames = map[string]Colour{
	"NONE":         ColourNone,
	"BLACK":        ColourBlack,
	"GRAY_DARK":    ColourGrayDark,
	"GRAY":         ColourGray,
	"WHITE":        ColourWhite,
	"RED_LIGHT":    ColourRedLight,
	"RED":          ColourRed,
	"RED_DARK":     ColourRedDark,
	"ORANGE_LIGHT": ColourOrangeLight,
	"ORANGE":       ColourOrange,
	"ORANGE_DARK":  ColourOrangeDark,
	"YELLOW_LIGHT": ColourYellowLight,
	"YELLOW":       ColourYellow,
	"YELLOW_DARK":  ColourYellowDark,
	"GREEN_LIGHT":  ColourGreenLight,
	"GREEN":        ColourGreen,
	"GREEN_DARK":   ColourGreenDark,
	"CYAN_LIGHT":   ColourCyanLight,
	"CYAN":         ColourCyan,
	"CYAN_DARK":    ColourCyanDark,
	"BLUE_LIGHT":   ColourBlueLight,
	"BLUE":         ColourBlue,
	"BLUE_DARK":    ColourBlueDark,
	"PURPLE_LIGHT": ColourPurpleLight,
	"PURPLE":       ColourPurple,
	"PURPLE_DARK":  ColourPurpleDark,
	"BROWN_LIGHT":  ColourBrownLight,
	"BROWN":        ColourBrown,
	"BROWN_DARK":   ColourBrownDark,
}

// RGBA returns the palette entry for c. ColourNone leaves glyphs untinted.
func (c Colour) RGBA() color.RGBA {
	if c >= colourCount {
		return palette[ColourNone]
	}
	return palette[c]
}

// ColourFromCode maps a tag character such as 'R' to its colour.
func ColourFromCode(code byte) (Colour, error) {
	c, ok := colourCodes[code]
	if !ok {
		return ColourNone, fmt.Errorf("invalid colour code: %q", code)
	}
	return c, nil
}

// ColourFromName maps a name such as "GREEN_DARK" to its colour.
func ColourFromName(name string) (Colour, error) {
	c, ok := colourNames[name]
	if !ok {
		return ColourNone, fmt.Errorf("invalid colour name: %q", name)
	}
	return c, nil
}

// Vibrant brightens a colour by 20% for the shader pipeline, which dims the
// image with its scanlines.
func Vibrant(c color.RGBA) color.RGBA {
	scale := func(v uint8) uint8 {
		f := float64(v) * 1.2
		if f > 255 {
			return 255
		}
		return uint8(f)
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}
