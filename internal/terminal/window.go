package terminal

import (
	"image"
	"unicode/utf8"
)

// WindowID is a handle to a window owned by the Terminal.
type WindowID uint32

// Cell is one tile of a window surface.
type Cell struct {
	Glyph Glyph
	FG    Colour
	BG    Colour
	Font  Font
}

// Window is a rectangular tile surface composited by the Terminal. All
// drawing is clipped to the window: out-of-bounds writes do nothing.
//
// Invalid glyphs and colour codes are fatal. The first one is kept as a
// sticky error and reported through Err; later draws still run.
type Window struct {
	id     WindowID
	size   image.Point
	pos    image.Point
	cells  []Cell
	halves []Cell
	atlas  Atlas
	err    error
}

func newWindow(id WindowID, size, pos image.Point, atlas Atlas) *Window {
	if size.X < 1 {
		size.X = 1
	}
	if size.Y < 1 {
		size.Y = 1
	}
	return &Window{
		id:     id,
		size:   size,
		pos:    pos,
		cells:  make([]Cell, size.X*size.Y),
		halves: make([]Cell, size.X*2*size.Y),
		atlas:  atlas,
	}
}

// ID returns the window's handle.
func (w *Window) ID() WindowID { return w.id }

// Size returns the window size in tiles.
func (w *Window) Size() image.Point { return w.size }

// Pos returns the window position in terminal tiles.
func (w *Window) Pos() image.Point { return w.pos }

// Middle returns the centre tile of the window.
func (w *Window) Middle() image.Point { return w.size.Div(2) }

// Err returns the first fatal drawing error.
func (w *Window) Err() error { return w.err }

func (w *Window) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Move places the window at pos.
func (w *Window) Move(pos image.Point) { w.pos = pos }

// Clear fills the window with a background colour and removes all glyphs.
func (w *Window) Clear(col Colour) {
	for i := range w.cells {
		w.cells[i] = Cell{BG: col}
	}
	clear(w.halves)
}

// Cell returns the full-width cell at (x, y). Out-of-bounds reads return a
// blank cell.
func (w *Window) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= w.size.X || y >= w.size.Y {
		return Cell{}
	}
	return w.cells[y*w.size.X+x]
}

// HalfCell returns the half-width layer cell at (x, y), where x counts half tiles.
func (w *Window) HalfCell(x, y int) Cell {
	if x < 0 || y < 0 || x >= w.size.X*2 || y >= w.size.Y {
		return Cell{}
	}
	return w.halves[y*w.size.X*2+x]
}

// Put draws a glyph. With a half-width font pos.X counts half tiles.
func (w *Window) Put(pos image.Point, g Glyph, col Colour, f Font) {
	if _, err := w.atlas.Rect(g, f); err != nil {
		w.fail(err)
		return
	}
	if f.Half() {
		if pos.X < 0 || pos.Y < 0 || pos.X >= w.size.X*2 || pos.Y >= w.size.Y {
			return
		}
		w.halves[pos.Y*w.size.X*2+pos.X] = Cell{Glyph: g, FG: col, Font: f}
		return
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= w.size.X || pos.Y >= w.size.Y {
		return
	}
	c := &w.cells[pos.Y*w.size.X+pos.X]
	c.Glyph, c.FG, c.Font = g, col, f
}

// Print draws a string starting at pos. {X} tags change colour and take up
// no space.
func (w *Window) Print(pos image.Point, s string, col Colour, f Font) {
	spans, err := ParseTags(s, col)
	if err != nil {
		w.fail(err)
		return
	}
	for _, span := range spans {
		for _, r := range span.Text {
			w.Put(pos, GlyphForRune(r), span.Colour, f)
			pos.X++
		}
	}
}

// PrintCentred prints s on row y, centred on the window.
func (w *Window) PrintCentred(y int, s string, col Colour, f Font) {
	x := (w.size.X - utf8.RuneCountInString(StripTags(s))) / 2
	w.Print(image.Pt(x, y), s, col, f)
}

// Rect fills a rectangle with a background colour, erasing any glyphs. A
// zero-sized rectangle does nothing.
func (w *Window) Rect(pos, size image.Point, col Colour) {
	if size.X == 0 || size.Y == 0 {
		return
	}
	r := image.Rectangle{Min: pos, Max: pos.Add(size)}.Intersect(image.Rect(0, 0, w.size.X, w.size.Y))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			w.cells[y*w.size.X+x] = Cell{BG: col}
			w.halves[y*w.size.X*2+x*2] = Cell{}
			w.halves[y*w.size.X*2+x*2+1] = Cell{}
		}
	}
}

// Box draws a single-line border around the edge of the window.
func (w *Window) Box(col Colour) {
	right, bottom := w.size.X-1, w.size.Y-1
	for x := 1; x < right; x++ {
		w.Put(image.Pt(x, 0), GlyphBoxLH, col, FontNormal)
		w.Put(image.Pt(x, bottom), GlyphBoxLH, col, FontNormal)
	}
	for y := 1; y < bottom; y++ {
		w.Put(image.Pt(0, y), GlyphBoxLV, col, FontNormal)
		w.Put(image.Pt(right, y), GlyphBoxLV, col, FontNormal)
	}
	w.Put(image.Pt(0, 0), GlyphBoxLDR, col, FontNormal)
	w.Put(image.Pt(right, 0), GlyphBoxLDL, col, FontNormal)
	w.Put(image.Pt(0, bottom), GlyphBoxLUR, col, FontNormal)
	w.Put(image.Pt(right, bottom), GlyphBoxLUL, col, FontNormal)
}
