package game

import (
	"fmt"
	"image"
	"time"

	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

const (
	titleWidth  = 43
	titleHeight = 27

	blinkLength  = 200 * time.Millisecond
	blinkMinWait = 2000 // ms
	blinkMaxWait = 10000

	// SpeedTestLength is how long the F12 render test runs.
	SpeedTestLength = 10 * time.Second
)

// TitleScreen is the main menu.
type TitleScreen struct {
	backronym string
	phrase    string
	version   string

	blinking  bool
	blinkAt   time.Time
	nextBlink time.Duration

	test *speedTest
}

// speedTest fills the title window with random glyphs every frame and counts
// how many frames it managed.
type speedTest struct {
	start  time.Time
	frames int
	fps    float64
	done   bool
}

func newTitleScreen(g *Game) *TitleScreen {
	t := g.opts.Title
	ts := &TitleScreen{version: g.opts.Version}
	if len(t.GWords) > 0 && len(t.RWords) > 0 && len(t.PWords) > 0 {
		ts.backronym = pick(g, t.GWords) + " of " + pick(g, t.RWords) + " " + pick(g, t.PWords)
	}
	if len(t.Phrases) > 0 {
		ts.phrase = pick(g, t.Phrases)
	}
	ts.nextBlink = randomBlink(g)
	return ts
}

func pick(g *Game, list []string) string { return list[g.random.Intn(len(list))] }

func randomBlink(g *Game) time.Duration {
	return time.Duration(blinkMinWait+g.random.Intn(blinkMaxWait-blinkMinWait+1)) * time.Millisecond
}

// Blinking reports whether the dragon currently has its eyes shut.
func (ts *TitleScreen) Blinking() bool { return ts.blinking }

// Testing reports whether the render speed test or its result is showing.
func (ts *TitleScreen) Testing() bool { return ts.test != nil }

func (ts *TitleScreen) recreate(g *Game, el *Element) error {
	size := image.Pt(titleWidth, titleHeight)
	pos := g.term.Size().Div(2).Sub(size.Div(2))
	_, err := g.replaceWindow(el, size, pos)
	return err
}

func (ts *TitleScreen) handleKey(g *Game, el *Element, k terminal.Key) (bool, error) {
	if ts.test != nil {
		if ts.test.done {
			ts.test = nil
		}
		return true, nil
	}
	switch k {
	case '1':
		return true, g.NewGame()
	case '2':
		g.sfx.PlaySound("fail")
		return true, nil
	case '3':
		return true, ErrQuit
	case terminal.KeyF12:
		ts.test = &speedTest{start: g.now()}
		return true, nil
	}
	return false, nil
}

func (ts *TitleScreen) render(g *Game, el *Element) error {
	w, err := g.windowOf(el)
	if err != nil {
		return err
	}
	now := g.now()
	if ts.test != nil {
		ts.renderTest(g, w, now)
		return nil
	}

	if ts.blinkAt.IsZero() {
		ts.blinkAt = now
	}
	elapsed := now.Sub(ts.blinkAt)
	switch {
	case ts.blinking && elapsed > blinkLength:
		ts.blinking = false
		ts.blinkAt = now
	case !ts.blinking && elapsed > ts.nextBlink:
		ts.blinking = true
		ts.blinkAt = now
		ts.nextBlink = randomBlink(g)
	}
	ts.draw(w)
	return nil
}

func (ts *TitleScreen) draw(w *terminal.Window) {
	const n = terminal.FontNormal
	line := func(x, y int, s string) { w.Print(image.Pt(x, y), s, terminal.ColourNone, n) }

	w.Clear(terminal.ColourNone)
	w.Print(image.Pt(5, 0), ts.phrase, terminal.ColourGrayDark, terminal.FontTrihookHalf)

	line(3, 1, "{r}_______  {K}_______  {g}______    {u}_______")
	line(2, 2, "{r}|       |{K}|       |{g}|    _ |  {u}|       |")
	line(2, 3, "{r}|    ___|{K}|   _   |{g}|   | ||  {u}|    _  |")
	line(2, 4, "{r}|   | __ {K}|  | |  |{g}|   |_||_ {u}|   |_| |")
	line(2, 5, "{r}|   ||  |{K}|  |_|  |{g}|    __  |{u}|    ___|")
	line(2, 6, "{r}|   |_| |{K}|       |{g}|   |  | |{u}|   |")
	line(2, 7, "{r}|_______|{K}|_______|{g}|___|  |_|{u}|___|")

	w.Print(image.Pt(18, 14), `/\/\`, terminal.ColourGreen, n)
	line(18, 15, "{G}|   _oo")
	line(8, 16, "{G}/\\  {g}/\\   {G}/ (_{W},,,{G})")
	line(7, 17, "{G}) /^\\{g}) ^\\{G}/ {Y}_)")
	line(7, 18, "{G})   /^\\/   {Y}_)")
	line(7, 19, "{G})   _ /  / {Y}_)")
	line(4, 20, "{g}/\\ {G})/\\/ ||  | {Y})_)")
	line(3, 21, "{g}<  >     {G}|({W},,{G}) {Y})__)")
	line(4, 22, "{g}||      {G}/   \\{Y})___){g}\\")
	line(4, 23, "{g}| \\____{G}(     {Y})___){g})__")
	line(5, 24, "{g}\\______{G}(_____{W};;  {g}__{w};;")

	if ts.blinking {
		w.Put(image.Pt(21, 15), '-', terminal.ColourGreenDark, n)
	} else {
		w.Put(image.Pt(21, 15), '@', terminal.ColourRedDark, n)
	}

	if ts.backronym != "" {
		x := max(0, w.Middle().X-(len(ts.backronym)+2)/2)
		w.Print(image.Pt(x, 11), "("+ts.backronym+")", terminal.ColourGrayDark, n)
	}
	w.Put(image.Pt(25, 12), 'o', terminal.ColourGrayDark, n)
	w.Put(image.Pt(23, 13), 'o', terminal.ColourGrayDark, n)

	line(4, 9, "{r}version "+ts.version)

	line(27, 17, "{W}({g}1{W}) New Game")
	line(27, 19, "{K}(2) {w}Load Game")
	line(27, 21, "{W}({g}3{W}) Quit Game")
	w.PrintCentred(26, "F1 CRT  F4 bezel  F2/F3 zoom  F12 test", terminal.ColourBlueDark, n)
}

func (ts *TitleScreen) renderTest(g *Game, w *terminal.Window, now time.Time) {
	t := ts.test
	if elapsed := now.Sub(t.start); !t.done && elapsed >= SpeedTestLength {
		t.done = true
		t.fps = float64(t.frames) / elapsed.Seconds()
		g.guru.Log("Render speed test finished", guru.Info, "frames", t.frames, "fps", fmt.Sprintf("%.1f", t.fps))
	}
	if t.done {
		w.Clear(terminal.ColourNone)
		w.Print(image.Pt(1, 1), fmt.Sprintf("Frames per second: %.1f", t.fps), terminal.ColourNone, terminal.FontNormal)
		w.Print(image.Pt(1, 3), "Press any key.", terminal.ColourGray, terminal.FontNormal)
		return
	}
	w.Clear(terminal.ColourNone)
	size := w.Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			col := terminal.Colour(1 + g.random.Intn(int(terminal.ColourBrownDark)))
			w.Put(image.Pt(x, y), terminal.Glyph(g.random.Intn(256)), col, terminal.FontNormal)
		}
	}
	t.frames++
}
