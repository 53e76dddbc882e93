package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/gorp-rogue/gorp/internal/datafile"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

// FontPath is an optional replacement sprite sheet inside gamedata.
const FontPath = "png/font.png"

const (
	tile     = terminal.TileSize
	halfTile = terminal.TileSize / 2
)

var white = color.NRGBA{255, 255, 255, 255}

// LoadSheet returns the sprite sheet and its layout. A png/font.png in
// gamedata replaces the generated sheet.
func LoadSheet(data *datafile.Resolver) (image.Image, terminal.Atlas, error) {
	if data == nil || !data.Exists(FontPath) {
		return GenerateSheet(), terminal.DefaultAtlas, nil
	}
	f, err := data.Open(FontPath)
	if err != nil {
		return nil, terminal.Atlas{}, fmt.Errorf("open %s: %w", FontPath, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, terminal.Atlas{}, fmt.Errorf("decode %s: %w", FontPath, err)
	}
	b := img.Bounds()
	atlas := terminal.NewAtlas(b.Dx(), b.Dy())
	if atlas.Max() == 0 {
		return nil, terminal.Atlas{}, fmt.Errorf("%s is smaller than one tile", FontPath)
	}
	return img, atlas, nil
}

// GenerateSheet draws the CP437 sprite sheet at startup in the layout of
// terminal.DefaultAtlas. The normal font uses basicfont.Face7x13, the
// trihook font inconsolata bold, and the half-width font inconsolata regular.
// Box-drawing and block characters are drawn by hand in every font.
func GenerateSheet() *image.NRGBA {
	a := terminal.DefaultAtlas
	img := image.NewNRGBA(image.Rect(0, 0, a.Cols*tile, a.Rows*tile))

	fonts := []struct {
		font terminal.Font
		face font.Face
	}{
		{terminal.FontNormal, basicfont.Face7x13},
		{terminal.FontTrihook, inconsolata.Bold8x16},
		{terminal.FontTrihookHalf, inconsolata.Regular8x16},
	}
	for _, f := range fonts {
		for code := 0; code < 256; code++ {
			r, err := a.Rect(terminal.Glyph(code), f.font)
			if err != nil {
				continue
			}
			drawGlyph(img, r, f.face, byte(code))
		}
	}
	return img
}

func drawGlyph(img *image.NRGBA, cell image.Rectangle, face font.Face, code byte) {
	if bc, ok := boxChars[code]; ok {
		drawBoxGlyph(img, cell, bc)
		return
	}
	if drawBlockGlyph(img, cell, code) {
		return
	}
	r := terminal.CP437ToUnicode[code]
	if r == ' ' {
		return
	}
	drawFontGlyph(img, face, cell, r)
}

// drawFontGlyph renders one character centred horizontally in its cell.
// Runes the face lacks are left blank.
func drawFontGlyph(img *image.NRGBA, face font.Face, cell image.Rectangle, r rune) {
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		return
	}
	m := face.Metrics()
	x := cell.Min.X + (cell.Dx()-adv.Ceil())/2
	y := cell.Min.Y + (cell.Dy()-m.Height.Ceil())/2 + m.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(r))
}

// box describes which edges a box-drawing character connects to, and
// whether each axis uses a double line.
type box struct {
	left, right, top, bottom bool
	doubleH, doubleV         bool
}

// boxChars covers │┤╡╢╖╕╣║╗╝╜╛┐└┴┬├─┼╞╟╚╔╩╦╠═╬┘┌.
var boxChars = map[byte]box{
	179: {top: true, bottom: true},
	180: {left: true, top: true, bottom: true},
	181: {left: true, top: true, bottom: true, doubleH: true},
	182: {left: true, top: true, bottom: true, doubleV: true},
	183: {left: true, bottom: true, doubleV: true},
	184: {left: true, bottom: true, doubleH: true},
	185: {left: true, top: true, bottom: true, doubleH: true, doubleV: true},
	186: {top: true, bottom: true, doubleV: true},
	187: {left: true, bottom: true, doubleH: true, doubleV: true},
	188: {left: true, top: true, doubleH: true, doubleV: true},
	189: {left: true, top: true, doubleV: true},
	190: {left: true, top: true, doubleH: true},
	191: {left: true, bottom: true},
	192: {right: true, top: true},
	193: {left: true, right: true, top: true},
	194: {left: true, right: true, bottom: true},
	195: {right: true, top: true, bottom: true},
	196: {left: true, right: true},
	197: {left: true, right: true, top: true, bottom: true},
	198: {right: true, top: true, bottom: true, doubleH: true},
	199: {right: true, top: true, bottom: true, doubleV: true},
	200: {right: true, top: true, doubleH: true, doubleV: true},
	201: {right: true, bottom: true, doubleH: true, doubleV: true},
	202: {left: true, right: true, top: true, doubleH: true, doubleV: true},
	203: {left: true, right: true, bottom: true, doubleH: true, doubleV: true},
	204: {right: true, top: true, bottom: true, doubleH: true, doubleV: true},
	205: {left: true, right: true, doubleH: true},
	206: {left: true, right: true, top: true, bottom: true, doubleH: true, doubleV: true},
	217: {left: true, top: true},
	218: {right: true, bottom: true},
}

// drawBoxGlyph draws a box-drawing character. Single lines are centred in
// the cell; double lines sit either side of the centre.
func drawBoxGlyph(img *image.NRGBA, cell image.Rectangle, b box) {
	thick := max(1, cell.Dx()/8)
	cx := cell.Min.X + cell.Dx()/2 - thick/2
	cy := cell.Min.Y + cell.Dy()/2 - thick/2

	hLines := []int{cy}
	if b.doubleH {
		hLines = []int{cy - thick*2, cy + thick*2}
	}
	vLines := []int{cx}
	if b.doubleV {
		vLines = []int{cx - thick*2, cx + thick*2}
	}

	x0, x1 := cx, cx+thick
	if b.doubleV {
		x0, x1 = vLines[0], vLines[1]+thick
	}
	if b.left {
		x0 = cell.Min.X
	}
	if b.right {
		x1 = cell.Max.X
	}
	if b.left || b.right {
		for _, y := range hLines {
			fill(img, image.Rect(x0, y, x1, y+thick))
		}
	}

	y0, y1 := cy, cy+thick
	if b.doubleH {
		y0, y1 = hLines[0], hLines[1]+thick
	}
	if b.top {
		y0 = cell.Min.Y
	}
	if b.bottom {
		y1 = cell.Max.Y
	}
	if b.top || b.bottom {
		for _, x := range vLines {
			fill(img, image.Rect(x, y0, x+thick, y1))
		}
	}
}

// drawBlockGlyph draws block elements and shading characters. It reports
// false for codes it does not handle.
func drawBlockGlyph(img *image.NRGBA, cell image.Rectangle, code byte) bool {
	w, h := cell.Dx(), cell.Dy()
	switch code {
	case 176: // ░
		shade(img, cell, func(x, y int) bool { return (x+y)%4 == 0 })
	case 177: // ▒
		shade(img, cell, func(x, y int) bool { return (x+y)%2 == 0 })
	case 178: // ▓
		shade(img, cell, func(x, y int) bool { return (x+y)%4 != 0 })
	case 219: // █
		fill(img, cell)
	case 220: // ▄
		fill(img, image.Rect(cell.Min.X, cell.Min.Y+h/2, cell.Max.X, cell.Max.Y))
	case 221: // ▌
		fill(img, image.Rect(cell.Min.X, cell.Min.Y, cell.Min.X+w/2, cell.Max.Y))
	case 222: // ▐
		fill(img, image.Rect(cell.Min.X+w/2, cell.Min.Y, cell.Max.X, cell.Max.Y))
	case 223: // ▀
		fill(img, image.Rect(cell.Min.X, cell.Min.Y, cell.Max.X, cell.Min.Y+h/2))
	case 254: // ■
		fill(img, image.Rect(cell.Min.X+w/4, cell.Min.Y+h/4, cell.Max.X-w/4, cell.Max.Y-h/4))
	default:
		return false
	}
	return true
}

func fill(img *image.NRGBA, r image.Rectangle) {
	draw.Draw(img, r, image.NewUniform(white), image.Point{}, draw.Src)
}

func shade(img *image.NRGBA, cell image.Rectangle, on func(x, y int) bool) {
	for y := 0; y < cell.Dy(); y++ {
		for x := 0; x < cell.Dx(); x++ {
			if on(x, y) {
				img.SetNRGBA(cell.Min.X+x, cell.Min.Y+y, white)
			}
		}
	}
}
