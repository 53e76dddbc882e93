package game

import (
	"image"
	"time"

	"github.com/gorp-rogue/gorp/internal/terminal"
)

const (
	prompt = "> "
	// MaxInputLength is the longest line the player can type.
	MaxInputLength = 255

	cursorOn  = 1000 * time.Millisecond
	cursorOff = 500 * time.Millisecond
)

// Input is the single-line command prompt at the bottom of the screen.
type Input struct {
	buffer  string
	cursor  bool
	blinkAt time.Time
}

// NewInput creates an empty prompt.
func NewInput() *Input {
	return &Input{buffer: prompt, cursor: true}
}

// Text returns what the player has typed so far.
func (in *Input) Text() string { return in.buffer[len(prompt):] }

func (in *Input) recreate(g *Game, el *Element) error {
	term := g.term.Size()
	_, err := g.replaceWindow(el, image.Pt(max(5, term.X), 3), image.Pt(0, term.Y-3))
	return err
}

func (in *Input) handleKey(g *Game, k terminal.Key) (bool, error) {
	if k.Printable() && k != '{' && k != '}' {
		if len(in.buffer) >= len(prompt)+MaxInputLength {
			g.sfx.PlaySound("fail")
		} else {
			in.buffer += string(rune(k))
		}
		return true, nil
	}
	switch k {
	case terminal.KeyBackspace:
		if len(in.buffer) > len(prompt) {
			in.buffer = in.buffer[:len(in.buffer)-1]
		} else {
			g.sfx.PlaySound("fail")
		}
		return true, nil
	case terminal.KeyEnter:
		if len(in.buffer) == len(prompt) {
			g.sfx.PlaySound("fail")
			return true, nil
		}
		text := in.Text()
		in.buffer = prompt
		return true, g.ProcessInput(text)
	}
	return false, nil
}

func (in *Input) render(g *Game, el *Element) error {
	w, err := g.windowOf(el)
	if err != nil {
		return err
	}
	size := w.Size()
	w.Clear(terminal.ColourNone)
	w.Box(terminal.ColourNone)
	w.Put(image.Pt(0, 0), terminal.GlyphBoxLVR, terminal.ColourNone, terminal.FontNormal)
	w.Put(image.Pt(size.X-1, 0), terminal.GlyphBoxLVL, terminal.ColourNone, terminal.FontNormal)

	// Scroll horizontally once the text reaches the right edge.
	visible := size.X - 4
	cursor := len(in.buffer) + 1
	begin := 0
	if len(in.buffer) >= visible+1 {
		begin = len(in.buffer) - visible - 1
		cursor = size.X - 2
	}
	w.Print(image.Pt(1, 1), in.buffer[begin:], terminal.ColourGreen, terminal.FontNormal)

	if in.cursor {
		w.Put(image.Pt(cursor, 1), terminal.GlyphFullBlock, terminal.ColourGreen, terminal.FontNormal)
	}
	now := g.now()
	if in.blinkAt.IsZero() {
		in.blinkAt = now
	}
	period := cursorOff
	if in.cursor {
		period = cursorOn
	}
	if now.Sub(in.blinkAt) > period {
		in.cursor = !in.cursor
		in.blinkAt = now
	}
	return nil
}
