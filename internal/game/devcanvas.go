package game

import (
	"image"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

// DevCanvas is a movable drawing surface for previewing data during
// development. Its window is created once and survives resizes.
type DevCanvas struct {
	size   image.Point
	window *terminal.Window
}

// NewDevCanvas creates a canvas of size tiles. Both sides must be nonzero.
func NewDevCanvas(size image.Point) (*DevCanvas, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, guru.New("Invalid DevCanvas size", uint32(max(size.X, 0)), uint32(max(size.Y, 0)))
	}
	return &DevCanvas{size: size}, nil
}

// Pos returns the canvas position in terminal tiles.
func (c *DevCanvas) Pos() image.Point {
	if c.window == nil {
		return image.Point{}
	}
	return c.window.Pos()
}

// Clear wipes the canvas to a background colour.
func (c *DevCanvas) Clear(col terminal.Colour) {
	if c.window != nil {
		c.window.Clear(col)
	}
}

// Print writes tagged text on the canvas.
func (c *DevCanvas) Print(pos image.Point, s string, col terminal.Colour, f terminal.Font) {
	if c.window != nil {
		c.window.Print(pos, s, col, f)
	}
}

// Put draws a single glyph.
func (c *DevCanvas) Put(pos image.Point, g terminal.Glyph, col terminal.Colour, f terminal.Font) {
	if c.window != nil {
		c.window.Put(pos, g, col, f)
	}
}

// Rect fills a rectangle with a background colour.
func (c *DevCanvas) Rect(pos, size image.Point, col terminal.Colour) {
	if c.window != nil {
		c.window.Rect(pos, size, col)
	}
}

func (c *DevCanvas) recreate(g *Game, el *Element) error {
	if el.hasWindow {
		g.term.WindowToFront(el.window)
		return nil
	}
	el.window = g.term.AddWindow(c.size, image.Point{})
	el.hasWindow = true
	w, err := g.term.Window(el.window)
	if err != nil {
		return err
	}
	w.Clear(terminal.ColourNone)
	c.window = w
	return nil
}

func (c *DevCanvas) handleKey(g *Game, el *Element, k terminal.Key) (bool, error) {
	var delta image.Point
	switch k {
	case terminal.KeyArrowUp, 'w', 'W':
		delta.Y = -1
	case terminal.KeyArrowDown, 's', 'S':
		delta.Y = 1
	case terminal.KeyArrowLeft, 'a', 'A':
		delta.X = -1
	case terminal.KeyArrowRight, 'd', 'D':
		delta.X = 1
	case terminal.KeyEscape:
		return true, g.DeleteElement(el.id)
	case terminal.KeyTab:
		if ids := g.Elements(); ids[len(ids)-1] == el.id {
			return true, g.ElementToBack(el.id, 0)
		}
		return true, g.ElementToFront(el.id)
	default:
		return false, nil
	}
	c.window.Move(c.window.Pos().Add(delta))
	return true, nil
}
