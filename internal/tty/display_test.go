package tty

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/terminal"
	"github.com/gorp-rogue/gorp/internal/terminal/terminaltest"
)

func newSim(t *testing.T) (tcell.SimulationScreen, *Display, *terminal.Terminal) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	d, err := NewWithScreen(sim, 1000)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	term, err := terminal.New(d, Prefs{}, &terminaltest.Sounds{}, guru.Discard(), terminal.Options{Atlas: terminal.DefaultAtlas})
	if err != nil {
		t.Fatalf("terminal.New: %v", err)
	}
	return sim, d, term
}

// waitKey reads keys until want arrives, skipping resizes and idle frames.
func waitKey(t *testing.T, term *terminal.Terminal, want terminal.Key) error {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		k, err := term.GetKey()
		if err != nil {
			return err
		}
		if k == want {
			return nil
		}
	}
	t.Fatalf("timed out waiting for key %d", want)
	return nil
}

func TestPixelSizeIsOneTilePerCell(t *testing.T) {
	sim, d, term := newSim(t)
	cols, rows := sim.Size()
	w, h := d.PixelSize()
	if w != cols*terminal.TileSize || h != rows*terminal.TileSize {
		t.Errorf("PixelSize = %dx%d for %dx%d cells", w, h, cols, rows)
	}
	if got := term.Size(); got != image.Pt(cols, rows) {
		t.Errorf("terminal size = %v, want %dx%d", got, cols, rows)
	}
}

func TestPresentWritesCells(t *testing.T) {
	sim, _, term := newSim(t)
	id := term.AddWindow(image.Pt(4, 2), image.Pt(2, 1))
	w, err := term.Window(id)
	if err != nil {
		t.Fatal(err)
	}
	w.Clear(terminal.ColourBlue)
	w.Put(image.Pt(0, 0), 'A', terminal.ColourRed, terminal.FontNormal)
	w.Put(image.Pt(1, 1), terminal.GlyphBoxLH, terminal.ColourNone, terminal.FontNormal)
	term.Flip()

	cells, width, _ := sim.GetContents()
	at := func(x, y int) tcell.SimCell { return cells[y*width+x] }
	if r := at(2, 1).Runes; len(r) == 0 || r[0] != 'A' {
		t.Errorf("cell (2,1) = %q, want 'A'", r)
	}
	if r := at(3, 2).Runes; len(r) == 0 || r[0] != '─' {
		t.Errorf("cell (3,2) = %q, want '─'", r)
	}
	fg, bg, _ := at(2, 1).Style.Decompose()
	if fg != rgb(terminal.ColourRed.RGBA()) {
		t.Errorf("fg = %v, want red", fg)
	}
	if bg != rgb(terminal.ColourBlue.RGBA()) {
		t.Errorf("bg = %v, want blue", bg)
	}
	if _, bg, _ := at(0, 0).Style.Decompose(); bg != rgb(terminal.Background) {
		t.Errorf("uncovered cell bg = %v, want background", bg)
	}
}

func TestKeysAndShutdown(t *testing.T) {
	sim, _, term := newSim(t)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	if err := waitKey(t, term, terminal.KeyEnter); err != nil {
		t.Fatalf("waiting for Enter: %v", err)
	}
	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	if err := waitKey(t, term, 'x'); err != nil {
		t.Fatalf("waiting for x: %v", err)
	}
	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	err := waitKey(t, term, terminal.KeyEscape)
	if !errors.Is(err, terminal.ErrShutdown) {
		t.Errorf("Ctrl-C err = %v, want ErrShutdown", err)
	}
}

func TestPrefsPinTextMode(t *testing.T) {
	var p Prefs
	if p.TileScale() != 1 || p.Shader() || p.ShaderGeometry() || p.AutoRescale() {
		t.Errorf("text mode prefs = %+v", p)
	}
	if err := p.SetTileScale(4); err != nil || p.TileScale() != 1 {
		t.Errorf("SetTileScale should be ignored")
	}
}
