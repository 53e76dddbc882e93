// Package tty is a text-terminal backend for the faux-terminal. Each tile is
// one character cell; glyphs are mapped from CP437 to Unicode and colours
// are sent as 24-bit RGB.
package tty

import (
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gorp-rogue/gorp/internal/terminal"
)

const eventBuffer = 100

type cell struct {
	r      rune
	fg, bg tcell.Color
}

// Display implements terminal.Display on a tcell screen.
type Display struct {
	screen tcell.Screen
	events chan terminal.Event
	quit   chan struct{}
	frame  *time.Ticker

	cols, rows int
	cells      []cell
}

// New opens the controlling terminal.
func New(tps int) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, tps)
}

// NewWithScreen runs the display on an existing screen, which it initializes
// and takes ownership of.
func NewWithScreen(screen tcell.Screen, tps int) (*Display, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	if tps < 1 {
		tps = 60
	}
	d := &Display{
		screen: screen,
		events: make(chan terminal.Event, eventBuffer),
		quit:   make(chan struct{}),
		frame:  time.NewTicker(time.Second / time.Duration(tps)),
	}
	d.cols, d.rows = screen.Size()
	d.cells = make([]cell, d.cols*d.rows)
	go d.poll()
	return d, nil
}

// poll forwards tcell events until the screen is finalized.
func (d *Display) poll() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		out, ok := translate(ev)
		if !ok {
			continue
		}
		select {
		case d.events <- out:
		case <-d.quit:
			return
		}
	}
}

func translate(ev tcell.Event) (terminal.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		return terminal.Event{Kind: terminal.EventResized, Width: w * terminal.TileSize, Height: h * terminal.TileSize}, true
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0) {
			return terminal.Event{Kind: terminal.EventClosed}, true
		}
		if ev.Key() == tcell.KeyRune {
			if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
				return terminal.Event{}, false
			}
			return terminal.Event{Kind: terminal.EventText, Rune: ev.Rune()}, true
		}
		k, ok := keymap[ev.Key()]
		if !ok {
			return terminal.Event{}, false
		}
		var mods terminal.Modifiers
		if ev.Modifiers()&tcell.ModShift != 0 {
			mods |= terminal.ModShift
		}
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			mods |= terminal.ModCtrl
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			mods |= terminal.ModAlt
		}
		return terminal.Event{Kind: terminal.EventKey, Key: k, Mods: mods}, true
	}
	return terminal.Event{}, false
}

// PollEvent returns the next forwarded event without blocking.
func (d *Display) PollEvent() (terminal.Event, bool) {
	select {
	case ev := <-d.events:
		return ev, true
	default:
		return terminal.Event{}, false
	}
}

// PixelSize reports the screen as if every character cell were one tile.
func (d *Display) PixelSize() (int, int) {
	return d.cols * terminal.TileSize, d.rows * terminal.TileSize
}

// Recreate resizes the cell buffer.
func (d *Display) Recreate(w, h int) error {
	d.cols, d.rows = max(1, w/terminal.TileSize), max(1, h/terminal.TileSize)
	d.cells = make([]cell, d.cols*d.rows)
	d.screen.Clear()
	return nil
}

// Present composites the layers into the cell buffer, shows it, and then
// waits for the next frame tick. Half-width glyphs share a cell with their
// neighbour; the right-hand one wins.
func (d *Display) Present(layers []terminal.Layer, opts terminal.FrameOptions) {
	bg := rgb(terminal.Background)
	for i := range d.cells {
		d.cells[i] = cell{r: ' ', fg: bg, bg: bg}
	}
	step := terminal.TileSize * max(1, opts.TileScale)
	for _, l := range layers {
		d.drawWindow(l.Window, l.Origin.Div(step))
	}
	for y := 0; y < d.rows; y++ {
		for x := 0; x < d.cols; x++ {
			c := d.cells[y*d.cols+x]
			d.screen.SetContent(x, y, c.r, nil, tcell.StyleDefault.Foreground(c.fg).Background(c.bg))
		}
	}
	d.screen.Show()

	select {
	case <-d.frame.C:
	case <-d.quit:
	}
}

func (d *Display) drawWindow(w *terminal.Window, origin image.Point) {
	size := w.Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			c := w.Cell(x, y)
			if c.BG != terminal.ColourNone {
				d.fill(origin.X+x, origin.Y+y, rgb(c.BG.RGBA()))
			}
			d.put(origin.X+x, origin.Y+y, c)
		}
		for x := 0; x < size.X*2; x++ {
			d.put(origin.X+x/2, origin.Y+y, w.HalfCell(x, y))
		}
	}
}

func (d *Display) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= d.cols || y >= d.rows {
		return nil
	}
	return &d.cells[y*d.cols+x]
}

func (d *Display) fill(x, y int, bg tcell.Color) {
	if c := d.at(x, y); c != nil {
		c.r, c.bg = ' ', bg
	}
}

func (d *Display) put(x, y int, src terminal.Cell) {
	if src.Glyph == 0 || src.Glyph == ' ' {
		return
	}
	if c := d.at(x, y); c != nil {
		c.r = terminal.CP437ToUnicode[src.Glyph]
		c.fg = rgb(src.FG.RGBA())
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Close stops event forwarding and restores the terminal.
func (d *Display) Close() error {
	select {
	case <-d.quit:
		return nil
	default:
	}
	close(d.quit)
	d.frame.Stop()
	d.screen.Fini()
	return nil
}

var keymap = map[tcell.Key]terminal.Key{
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyUp:         terminal.KeyArrowUp,
	tcell.KeyDown:       terminal.KeyArrowDown,
	tcell.KeyLeft:       terminal.KeyArrowLeft,
	tcell.KeyRight:      terminal.KeyArrowRight,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}
