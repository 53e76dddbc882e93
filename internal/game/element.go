package game

import (
	"image"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

// ElementID identifies a UI element. IDs start at 1 and are never reused.
type ElementID uint32

// Body is the element-specific part of an Element. The set of bodies is
// closed: *MessageLog, *Input, *TitleScreen and *DevCanvas.
type Body interface {
	element()
}

func (*MessageLog) element()  {}
func (*Input) element()       {}
func (*TitleScreen) element() {}
func (*DevCanvas) element()   {}

// Element is one UI component on the game's element stack.
type Element struct {
	id           ElementID
	needsRedraw  bool
	alwaysRedraw bool
	window       terminal.WindowID
	hasWindow    bool
	body         Body
}

// ID returns the element's handle.
func (e *Element) ID() ElementID { return e.id }

// Body returns the element-specific state.
func (e *Element) Body() Body { return e.body }

// Window returns the element's window handle, if it has one.
func (e *Element) Window() (terminal.WindowID, bool) { return e.window, e.hasWindow }

// NeedsRedraw reports whether the element will be drawn on the next step.
func (e *Element) NeedsRedraw() bool { return e.alwaysRedraw || e.needsRedraw }

// render draws the element into its window.
func (g *Game) render(el *Element) error {
	switch b := el.body.(type) {
	case *MessageLog:
		return b.render(g, el)
	case *Input:
		return b.render(g, el)
	case *TitleScreen:
		return b.render(g, el)
	case *DevCanvas:
		return nil
	}
	return nil
}

// recreate rebuilds the element's window for the current terminal size.
func (g *Game) recreate(el *Element) error {
	switch b := el.body.(type) {
	case *MessageLog:
		return b.recreate(g, el)
	case *Input:
		return b.recreate(g, el)
	case *TitleScreen:
		return b.recreate(g, el)
	case *DevCanvas:
		return b.recreate(g, el)
	}
	return nil
}

// handleKey offers a key to the element. It reports whether the key was consumed.
func (g *Game) handleKey(el *Element, k terminal.Key) (bool, error) {
	switch b := el.body.(type) {
	case *MessageLog:
		return b.handleKey(el, k), nil
	case *Input:
		return b.handleKey(g, k)
	case *TitleScreen:
		return b.handleKey(g, el, k)
	case *DevCanvas:
		return b.handleKey(g, el, k)
	}
	return false, nil
}

// replaceWindow swaps the element's window for a new one on top of the stack.
func (g *Game) replaceWindow(el *Element, size, pos image.Point) (*terminal.Window, error) {
	if el.hasWindow {
		if err := g.term.RemoveWindow(el.window); err != nil {
			return nil, err
		}
	}
	el.window = g.term.AddWindow(size, pos)
	el.hasWindow = true
	return g.term.Window(el.window)
}

// windowOf resolves the element's window.
func (g *Game) windowOf(el *Element) (*terminal.Window, error) {
	if !el.hasWindow {
		return nil, guru.New("UI element has no window!", uint32(el.id), 0)
	}
	return g.term.Window(el.window)
}
