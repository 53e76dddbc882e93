package game

import (
	"errors"
	"image"
	"time"
	"unicode/utf8"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

const haltBlink = 500 * time.Millisecond

// haltPanel is the "Software Failure" box shown after a fatal error.
type haltPanel struct {
	err     error
	msg     string
	code    string
	window  terminal.WindowID
	border  bool
	dirty   bool
	resized bool
	blinkAt time.Time
}

// Halt logs a fatal error and replaces normal play with the halt panel. The
// panel keeps running from Step until the display closes, at which point Step
// returns err. A halt raised while already halting returns err at once.
func (g *Game) Halt(err error) error {
	if !g.guru.BeginHalt(err) {
		return err
	}
	if g.opts.Music != nil {
		g.opts.Music.StopMusic()
	}
	msg, code := guru.Describe(err)
	height := 5
	if code != "" {
		height = 7
	}
	size := image.Pt(max(37, utf8.RuneCountInString(msg))+2, height)
	g.halt = &haltPanel{
		err:     err,
		msg:     msg,
		code:    code,
		window:  g.term.AddWindow(size, image.Point{}),
		border:  true,
		dirty:   true,
		resized: true,
		blinkAt: g.now(),
	}
	return nil
}

// Halting reports whether the halt panel is showing.
func (g *Game) Halting() bool { return g.halt != nil }

// HaltWindow returns the halt panel's window while halting.
func (g *Game) HaltWindow() (*terminal.Window, bool) {
	if g.halt == nil {
		return nil, false
	}
	w, err := g.term.Window(g.halt.window)
	return w, err == nil
}

func (g *Game) haltStep() error {
	p := g.halt
	w, err := g.term.Window(p.window)
	if err != nil {
		g.guru.BeginHalt(err)
		return p.err
	}
	mid := w.Middle()
	if p.dirty {
		w.Clear(terminal.ColourNone)
		if p.border {
			w.Box(terminal.ColourRed)
		}
		plain(w, image.Pt(mid.X-17, 1), "Software Failure, Halting Execution")
		plain(w, image.Pt(mid.X-utf8.RuneCountInString(p.msg)/2, 3), p.msg)
		if p.code != "" {
			plain(w, image.Pt(mid.X-utf8.RuneCountInString(p.code)/2, 5), p.code)
		}
		p.dirty = false
	}
	if p.resized {
		w.Move(g.term.Size().Div(2).Sub(mid))
		p.resized = false
	}

	k, err := g.term.GetKey()
	switch {
	case errors.Is(err, terminal.ErrShutdown):
		return p.err
	case err != nil:
		g.guru.BeginHalt(err)
		return p.err
	case k == terminal.KeyResize:
		p.resized = true
	default:
		if now := g.now(); now.Sub(p.blinkAt) > haltBlink {
			p.blinkAt = now
			p.border = !p.border
			p.dirty = true
		}
	}
	return nil
}

// plain draws text in red without interpreting colour tags, since error
// messages can contain braces.
func plain(w *terminal.Window, pos image.Point, s string) {
	for _, r := range s {
		w.Put(pos, terminal.GlyphForRune(r), terminal.ColourRed, terminal.FontNormal)
		pos.X++
	}
}
