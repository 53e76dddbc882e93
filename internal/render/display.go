// Package render is the ebiten backend for the faux-terminal. It draws the
// window stack from a CP437 sprite sheet, keeps the ghosting frames, and
// runs the final image through the CRT shader.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gorp-rogue/gorp/internal/config"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

const (
	// ghostAlpha is how strongly the previous frame shows through.
	ghostAlpha = 200.0 / 255.0

	// Key repeat, in ticks.
	repeatDelay = 30
	repeatRate  = 3
)

var clearColour = color.RGBA{4, 4, 4, 255}

// Options configures the ebiten window and post-process pass.
type Options struct {
	Title  string
	Width  int
	Height int
	TPS    int
	// Shader is Kage source for the CRT pass. Nil disables the pass.
	Shader   []byte
	Uniforms config.Uniforms
}

type glyphKey struct {
	glyph terminal.Glyph
	font  terminal.Font
}

// Display implements terminal.Display on an ebiten window and ebiten.Game
// on top of a step function that drives one loop iteration.
type Display struct {
	sheet  *ebiten.Image
	atlas  terminal.Atlas
	glyphs map[glyphKey]*ebiten.Image
	pixel  *ebiten.Image

	shader   *ebiten.Shader
	uniforms config.Uniforms

	current  *ebiten.Image
	previous *ebiten.Image
	frame    terminal.FrameOptions

	pixels image.Point
	events []terminal.Event
	keys   []ebiten.Key
	chars  []rune

	step      func() error
	presented bool
	closed    bool
}

// New creates the display and configures the ebiten window. It does not
// open the window; Run does.
func New(sheet image.Image, atlas terminal.Atlas, opts Options) (*Display, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	d := &Display{
		sheet:    ebiten.NewImageFromImage(sheet),
		atlas:    atlas,
		glyphs:   make(map[glyphKey]*ebiten.Image),
		pixel:    pixel,
		uniforms: opts.Uniforms,
		pixels:   image.Pt(opts.Width, opts.Height),
	}
	if opts.Shader != nil {
		s, err := ebiten.NewShader(opts.Shader)
		if err != nil {
			return nil, fmt.Errorf("compile shader: %w", err)
		}
		d.shader = s
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	return d, nil
}

// Run opens the window and calls step until it returns an error. Step must
// make the terminal present at least one frame once the event queue is
// empty. Run returns step's error.
func (d *Display) Run(step func() error) error {
	d.step = step
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update queues this tick's input and steps the loop until a frame has
// been presented.
func (d *Display) Update() error {
	if ebiten.IsWindowBeingClosed() && !d.closed {
		d.closed = true
		d.events = append(d.events, terminal.Event{Kind: terminal.EventClosed})
	}
	d.collectInput()

	d.presented = false
	for !d.presented {
		if err := d.step(); err != nil {
			return err
		}
	}
	return nil
}

// collectInput queues key and text events for this tick. A numpad digit
// also arrives as a typed character; only its KP key is queued.
func (d *Display) collectInput() {
	mods := modifiers()
	var numpad [10]bool
	d.keys = ebiten.AppendPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		if k >= ebiten.KeyNumpad0 && k <= ebiten.KeyNumpad9 {
			numpad[k-ebiten.KeyNumpad0] = true
		}
		key, ok := keymap[k]
		if !ok || !repeating(k) {
			continue
		}
		d.events = append(d.events, terminal.Event{Kind: terminal.EventKey, Key: key, Mods: mods})
	}
	d.chars = ebiten.AppendInputChars(d.chars[:0])
	d.events = appendText(d.events, d.chars, numpad)
}

// appendText queues typed characters, dropping digits whose numpad key is
// held.
func appendText(events []terminal.Event, chars []rune, numpad [10]bool) []terminal.Event {
	for _, r := range chars {
		if r >= '0' && r <= '9' && numpad[r-'0'] {
			continue
		}
		events = append(events, terminal.Event{Kind: terminal.EventText, Rune: r})
	}
	return events
}

// repeating reports whether a held key fires this tick.
func repeating(k ebiten.Key) bool {
	return fires(inpututil.KeyPressDuration(k))
}

// fires reports whether a key held for dur ticks produces an event.
func fires(dur int) bool {
	return dur == 1 || (dur >= repeatDelay && (dur-repeatDelay)%repeatRate == 0)
}

func modifiers() terminal.Modifiers {
	var m terminal.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= terminal.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= terminal.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= terminal.ModAlt
	}
	return m
}

// Draw shows the current frame, through the shader when it is enabled.
func (d *Display) Draw(screen *ebiten.Image) {
	screen.Fill(clearColour)
	if d.current == nil {
		return
	}
	if !d.frame.Shader || d.shader == nil {
		screen.DrawImage(d.current, nil)
		return
	}
	b := d.current.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = d.current
	op.Uniforms = d.shaderUniforms()
	screen.DrawRectShader(b.Dx(), b.Dy(), d.shader, op)
}

func (d *Display) shaderUniforms() map[string]any {
	u := make(map[string]any, len(d.uniforms)+3)
	for k, v := range d.uniforms {
		u[k] = v
	}
	geometry := float32(0)
	if d.frame.Geometry {
		geometry = 1
	}
	u["Time"] = float32(d.frame.Time)
	u["Scanlines"] = float32(d.frame.Scanlines)
	u["Geometry"] = geometry
	return u
}

// Layout reports the window size as the screen size and queues a resize
// event when it changes.
func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && image.Pt(outsideWidth, outsideHeight) != d.pixels {
		d.pixels = image.Pt(outsideWidth, outsideHeight)
		d.events = append(d.events, terminal.Event{
			Kind:   terminal.EventResized,
			Width:  outsideWidth,
			Height: outsideHeight,
		})
	}
	return d.pixels.X, d.pixels.Y
}

// PollEvent pops the oldest queued event.
func (d *Display) PollEvent() (terminal.Event, bool) {
	if len(d.events) == 0 {
		return terminal.Event{}, false
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, true
}

// PixelSize returns the window size in pixels.
func (d *Display) PixelSize() (int, int) { return d.pixels.X, d.pixels.Y }

// Recreate reallocates the current and previous frames.
func (d *Display) Recreate(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	if d.current != nil {
		d.current.Deallocate()
		d.previous.Deallocate()
	}
	d.current = ebiten.NewImage(w, h)
	d.previous = ebiten.NewImage(w, h)
	d.previous.Fill(clearColour)
	return nil
}

// Present composites the layers into the current frame and blends in the
// previous one when ghosting is on.
func (d *Display) Present(layers []terminal.Layer, opts terminal.FrameOptions) {
	d.presented = true
	d.frame = opts
	if d.current == nil {
		return
	}
	d.current.Fill(terminal.Background)
	scale := max(1, opts.TileScale)
	for _, l := range layers {
		d.drawWindow(l, scale, opts.Shader)
	}

	if opts.Ghosting {
		var op ebiten.DrawImageOptions
		op.ColorScale.ScaleAlpha(ghostAlpha)
		d.current.DrawImage(d.previous, &op)
		d.previous.Fill(clearColour)
		d.previous.DrawImage(d.current, nil)
		return
	}
	d.previous.Fill(clearColour)
}

// drawWindow draws one window's background, its full-width glyphs, and
// then its half-width layer.
func (d *Display) drawWindow(l terminal.Layer, scale int, vibrant bool) {
	w := l.Window
	size := w.Size()
	step := tile * scale
	for y := 0; y < size.Y; y++ {
		py := l.Origin.Y + y*step
		for x := 0; x < size.X; x++ {
			px := l.Origin.X + x*step
			c := w.Cell(x, y)
			if c.BG != terminal.ColourNone {
				d.fillRect(px, py, step, step, c.BG.RGBA())
			}
			d.drawGlyph(c, px, py, scale, vibrant)
		}
		for x := 0; x < size.X*2; x++ {
			d.drawGlyph(w.HalfCell(x, y), l.Origin.X+x*halfTile*scale, py, scale, vibrant)
		}
	}
}

func (d *Display) fillRect(px, py, w, h int, col color.RGBA) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(px), float64(py))
	op.ColorScale.ScaleWithColor(col)
	d.current.DrawImage(d.pixel, &op)
}

func (d *Display) drawGlyph(c terminal.Cell, px, py, scale int, vibrant bool) {
	if c.Glyph == 0 || c.Glyph == ' ' {
		return
	}
	img := d.glyph(c.Glyph, c.Font)
	if img == nil {
		return
	}
	col := c.FG.RGBA()
	if vibrant {
		col = terminal.Vibrant(col)
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(px), float64(py))
	op.ColorScale.ScaleWithColor(col)
	d.current.DrawImage(img, &op)
}

// glyph returns the cached sub-image for a glyph in a font.
func (d *Display) glyph(g terminal.Glyph, f terminal.Font) *ebiten.Image {
	key := glyphKey{g, f}
	if img, ok := d.glyphs[key]; ok {
		return img
	}
	r, err := d.atlas.Rect(g, f)
	if err != nil {
		return nil
	}
	img := d.sheet.SubImage(r).(*ebiten.Image)
	d.glyphs[key] = img
	return img
}

// Close releases the GPU images. The window itself closes when Run returns.
func (d *Display) Close() error {
	d.closed = true
	if d.current != nil {
		d.current.Deallocate()
		d.previous.Deallocate()
		d.current, d.previous = nil, nil
	}
	if d.shader != nil {
		d.shader.Deallocate()
		d.shader = nil
	}
	return nil
}

var keymap = map[ebiten.Key]terminal.Key{
	ebiten.KeyBackspace:   terminal.KeyBackspace,
	ebiten.KeyTab:         terminal.KeyTab,
	ebiten.KeyEnter:       terminal.KeyEnter,
	ebiten.KeyNumpadEnter: terminal.KeyEnter,
	ebiten.KeyArrowUp:     terminal.KeyArrowUp,
	ebiten.KeyArrowDown:   terminal.KeyArrowDown,
	ebiten.KeyArrowLeft:   terminal.KeyArrowLeft,
	ebiten.KeyArrowRight:  terminal.KeyArrowRight,
	ebiten.KeyDelete:      terminal.KeyDelete,
	ebiten.KeyInsert:      terminal.KeyInsert,
	ebiten.KeyHome:        terminal.KeyHome,
	ebiten.KeyEnd:         terminal.KeyEnd,
	ebiten.KeyPageUp:      terminal.KeyPageUp,
	ebiten.KeyPageDown:    terminal.KeyPageDown,
	ebiten.KeyEscape:      terminal.KeyEscape,
	ebiten.KeyF1:          terminal.KeyF1,
	ebiten.KeyF2:          terminal.KeyF2,
	ebiten.KeyF3:          terminal.KeyF3,
	ebiten.KeyF4:          terminal.KeyF4,
	ebiten.KeyF5:          terminal.KeyF5,
	ebiten.KeyF6:          terminal.KeyF6,
	ebiten.KeyF7:          terminal.KeyF7,
	ebiten.KeyF8:          terminal.KeyF8,
	ebiten.KeyF9:          terminal.KeyF9,
	ebiten.KeyF10:         terminal.KeyF10,
	ebiten.KeyF11:         terminal.KeyF11,
	ebiten.KeyF12:         terminal.KeyF12,
	ebiten.KeyNumpad0:     terminal.KeyKP0,
	ebiten.KeyNumpad1:     terminal.KeyKP1,
	ebiten.KeyNumpad2:     terminal.KeyKP2,
	ebiten.KeyNumpad3:     terminal.KeyKP3,
	ebiten.KeyNumpad4:     terminal.KeyKP4,
	ebiten.KeyNumpad5:     terminal.KeyKP5,
	ebiten.KeyNumpad6:     terminal.KeyKP6,
	ebiten.KeyNumpad7:     terminal.KeyKP7,
	ebiten.KeyNumpad8:     terminal.KeyKP8,
	ebiten.KeyNumpad9:     terminal.KeyKP9,
}
