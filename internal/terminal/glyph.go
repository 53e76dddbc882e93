package terminal

// Glyph is an index into the sprite atlas. Indices 0-255 follow code page 437.
type Glyph uint16

// Named CP437 glyphs used by the UI.
const (
	GlyphSmiley      Glyph = 1
	GlyphBullet      Glyph = 7
	GlyphUpTriangle  Glyph = 30
	GlyphHouse       Glyph = 127
	GlyphLightShade  Glyph = 176
	GlyphMediumShade Glyph = 177
	GlyphDarkShade   Glyph = 178
	GlyphBoxLV       Glyph = 179 // │
	GlyphBoxLVL      Glyph = 180 // ┤
	GlyphBoxDV       Glyph = 186 // ║
	GlyphBoxLDL      Glyph = 191 // ┐
	GlyphBoxLUR      Glyph = 192 // └
	GlyphBoxLHU      Glyph = 193 // ┴
	GlyphBoxLHD      Glyph = 194 // ┬
	GlyphBoxLVR      Glyph = 195 // ├
	GlyphBoxLH       Glyph = 196 // ─
	GlyphBoxLVH      Glyph = 197 // ┼
	GlyphBoxDH       Glyph = 205 // ═
	GlyphBoxLUL      Glyph = 217 // ┘
	GlyphBoxLDR      Glyph = 218 // ┌
	GlyphFullBlock   Glyph = 219
	GlyphLowerHalf   Glyph = 220
	GlyphLeftHalf    Glyph = 221
	GlyphRightHalf   Glyph = 222
	GlyphUpperHalf   Glyph = 223
	GlyphApprox      Glyph = 247 // ≈
	GlyphSquare      Glyph = 254
)

// Font selects a region of the atlas. Alternate fonts are the same glyph
// set offset into the sheet; the half-width font addresses half-tile columns.
type Font uint8

const (
	FontNormal Font = iota
	FontTrihook
	FontTrihookHalf
)

// Offset is added to a glyph index before the atlas lookup. For the
// half-width font it counts half tiles.
func (f Font) Offset() int {
	switch f {
	case FontTrihook:
		return 256
	case FontTrihookHalf:
		return 1024
	default:
		return 0
	}
}

// Half reports whether the font draws half-width glyphs.
func (f Font) Half() bool { return f == FontTrihookHalf }

// CP437ToUnicode maps code page 437 to Unicode for atlas generation and
// text-mode backends.
var CP437ToUnicode = [256]rune{
	' ', '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
	' ', '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'@', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', '[', '\\', ']', '^', '_',
	'`', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', '{', '|', '}', '~', '⌂',
	'Ç', 'ü', 'é', 'â', 'ä', 'à', 'å', 'ç', 'ê', 'ë', 'è', 'ï', 'î', 'ì', 'Ä', 'Å',
	'É', 'æ', 'Æ', 'ô', 'ö', 'ò', 'û', 'ù', 'ÿ', 'Ö', 'Ü', '¢', '£', '¥', '₧', 'ƒ',
	'á', 'í', 'ó', 'ú', 'ñ', 'Ñ', 'ª', 'º', '¿', '⌐', '¬', '½', '¼', '¡', '«', '»',
	'░', '▒', '▓', '│', '┤', '╡', '╢', '╖', '╕', '╣', '║', '╗', '╝', '╜', '╛', '┐',
	'└', '┴', '┬', '├', '─', '┼', '╞', '╟', '╚', '╔', '╩', '╦', '╠', '═', '╬', '╧',
	'╨', '╤', '╥', '╙', '╘', '╒', '╓', '╫', '╪', '┘', '┌', '█', '▄', '▌', '▐', '▀',
	'α', 'ß', 'Γ', 'π', 'Σ', 'σ', 'µ', 'τ', 'Φ', 'Θ', 'Ω', 'δ', '∞', 'φ', 'ε', '∩',
	'≡', '±', '≥', '≤', '⌠', '⌡', '÷', '≈', '°', '∙', '·', '√', 'ⁿ', '²', '■', ' ',
}

var unicodeToCP437 = func() map[rune]Glyph {
	m := make(map[rune]Glyph, 256)
	for i := len(CP437ToUnicode) - 1; i >= 0; i-- {
		m[CP437ToUnicode[i]] = Glyph(i)
	}
	return m
}()

// GlyphForRune returns the CP437 glyph for r, or '?' when the code page has none.
func GlyphForRune(r rune) Glyph {
	if r >= ' ' && r <= '~' {
		return Glyph(r)
	}
	if g, ok := unicodeToCP437[r]; ok {
		return g
	}
	return '?'
}
