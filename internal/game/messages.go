package game

import (
	"image"
	"slices"

	"github.com/gorp-rogue/gorp/internal/terminal"
)

const (
	// MaxMessages is how many messages the log keeps before evicting the oldest.
	MaxMessages = 200
	// PageScroll is how many lines PageUp and PageDown move.
	PageScroll = 8
)

// MessageLog is the scrolling log that fills most of the screen. Messages may
// carry {X} colour tags and are word-wrapped to the window.
type MessageLog struct {
	messages  []string
	lines     []string
	offset    int
	maxOffset int
	size      image.Point
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{messages: make([]string, 0, MaxMessages)}
}

// Add appends a message, evicting the oldest if full, and scrolls to the bottom.
func (l *MessageLog) Add(text string) {
	if len(l.messages) >= MaxMessages {
		l.messages = slices.Delete(l.messages, 0, len(l.messages)-MaxMessages+1)
	}
	l.messages = append(l.messages, text)
	l.offset = 0
	l.process()
}

// Messages returns the stored messages, oldest first.
func (l *MessageLog) Messages() []string { return l.messages }

// Lines returns the wrapped display lines.
func (l *MessageLog) Lines() []string { return l.lines }

// Offset returns how many lines the log is scrolled up from the bottom.
func (l *MessageLog) Offset() int { return l.offset }

// process re-wraps every message to the window width.
func (l *MessageLog) process() {
	l.lines = l.lines[:0]
	width := l.size.X - 2
	for _, m := range l.messages {
		if width < 1 {
			l.lines = append(l.lines, m)
			continue
		}
		l.lines = append(l.lines, terminal.WrapTagged(m, width)...)
	}
	l.maxOffset = max(0, len(l.lines)-(l.size.Y-2))
}

func (l *MessageLog) recreate(g *Game, el *Element) error {
	term := g.term.Size()
	l.size = image.Pt(max(5, term.X), max(3, term.Y-2))
	if _, err := g.replaceWindow(el, l.size, image.Point{}); err != nil {
		return err
	}
	l.offset = 0
	l.process()
	return nil
}

func (l *MessageLog) handleKey(el *Element, k terminal.Key) bool {
	switch k {
	case terminal.KeyArrowDown, terminal.KeyPageDown, terminal.KeyEnd:
		if l.offset > 0 {
			l.offset = max(0, l.offset-scrollAmount(k))
			el.needsRedraw = true
		}
		return true
	case terminal.KeyArrowUp, terminal.KeyPageUp, terminal.KeyHome:
		if l.offset < l.maxOffset {
			l.offset = min(l.maxOffset, l.offset+scrollAmount(k))
			el.needsRedraw = true
		}
		return true
	}
	return false
}

func scrollAmount(k terminal.Key) int {
	switch k {
	case terminal.KeyPageUp, terminal.KeyPageDown:
		return PageScroll
	case terminal.KeyHome, terminal.KeyEnd:
		return MaxMessages * 1000
	}
	return 1
}

func (l *MessageLog) render(g *Game, el *Element) error {
	w, err := g.windowOf(el)
	if err != nil {
		return err
	}
	size := w.Size()
	w.Clear(terminal.ColourNone)
	w.Box(terminal.ColourNone)
	w.Put(image.Pt(0, size.Y-1), terminal.GlyphBoxLVR, terminal.ColourNone, terminal.FontNormal)
	w.Put(image.Pt(size.X-1, size.Y-1), terminal.GlyphBoxLVL, terminal.ColourNone, terminal.FontNormal)

	row := min(size.Y-2, len(l.lines))
	for i := len(l.lines) - 1 - l.offset; i >= 0 && row > 0; i-- {
		w.Print(image.Pt(1, row), l.lines[i], terminal.ColourGray, terminal.FontNormal)
		row--
	}
	return nil
}
