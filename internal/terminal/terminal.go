// Package terminal implements the faux-terminal: tile windows, the window
// stack, key normalization, and frame composition over a pluggable Display.
package terminal

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/gorp-rogue/gorp/internal/guru"
)

// ErrShutdown is returned by GetKey once the display has been closed.
var ErrShutdown = errors.New("display closed")

const (
	// TileScaleMin and TileScaleMax bound the F2/F3 tile scale keys.
	TileScaleMin = 1
	TileScaleMax = 10

	// BezelPixels sets how much of the screen the simulated bezel hides.
	BezelPixels = 300

	// rescaleArea is the pixel count at which auto-rescale steps up.
	rescaleArea = 960000

	// Frames drawn after a reallocation to settle the ghosting buffer.
	settleFrames = 16
)

// Options configures a Terminal.
type Options struct {
	Atlas    Atlas
	Ghosting bool
	Now      func() time.Time
}

// Terminal owns the window stack and turns display events into keys.
type Terminal struct {
	display Display
	prefs   Prefs
	sfx     SoundPlayer
	guru    *guru.Guru

	atlas    Atlas
	ghosting bool

	windows map[WindowID]*Window
	stack   []WindowID
	nextID  WindowID

	pixels    image.Point
	scanlines int

	start time.Time
	now   func() time.Time
}

// New creates a terminal on display and allocates its first frames.
func New(d Display, p Prefs, sfx SoundPlayer, g *guru.Guru, opts Options) (*Terminal, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Atlas.Max() == 0 {
		return nil, guru.Fatalf("sprite atlas is empty")
	}
	t := &Terminal{
		display:  d,
		prefs:    p,
		sfx:      sfx,
		guru:     g,
		atlas:    opts.Atlas,
		ghosting: opts.Ghosting,
		windows:  make(map[WindowID]*Window),
		now:      opts.Now,
	}
	t.start = t.now()
	w, h := d.PixelSize()
	t.pixels = image.Pt(w, h)
	t.scanlines = h / 3
	if err := t.recreateFrames(); err != nil {
		return nil, err
	}
	return t, nil
}

// Atlas returns the sprite atlas geometry.
func (t *Terminal) Atlas() Atlas { return t.atlas }

// AddWindow creates a window and puts it on top of the stack.
func (t *Terminal) AddWindow(size, pos image.Point) WindowID {
	t.nextID++
	w := newWindow(t.nextID, size, pos, t.atlas)
	t.windows[w.id] = w
	t.stack = append(t.stack, w.id)
	return w.id
}

// RemoveWindow destroys a window. Removing an unknown window is reported as a
// non-fatal error; the returned error is set only if that trips a cascade.
func (t *Terminal) RemoveWindow(id WindowID) error {
	if _, ok := t.windows[id]; !ok {
		return t.guru.Nonfatal(fmt.Sprintf("Attempt to remove nonexistent window %d", id), guru.Error)
	}
	delete(t.windows, id)
	t.stack = slices.DeleteFunc(t.stack, func(w WindowID) bool { return w == id })
	return nil
}

// Window resolves a handle. A destroyed or unknown handle is fatal.
func (t *Terminal) Window(id WindowID) (*Window, error) {
	w, ok := t.windows[id]
	if !ok {
		return nil, guru.New("Invalid window handle!", uint32(id), uint32(len(t.windows)))
	}
	return w, nil
}

// Windows returns the live window handles from bottom to top.
func (t *Terminal) Windows() []WindowID { return slices.Clone(t.stack) }

// WindowToFront moves a window to the top of the stack.
func (t *Terminal) WindowToFront(id WindowID) {
	i := slices.Index(t.stack, id)
	if i < 0 {
		return
	}
	t.stack = append(slices.Delete(t.stack, i, i+1), id)
}

// WindowToBack moves a window to the bottom of the stack, above the lowest
// keep windows.
func (t *Terminal) WindowToBack(id WindowID, keep int) {
	i := slices.Index(t.stack, id)
	if i < 0 {
		return
	}
	t.stack = slices.Delete(t.stack, i, i+1)
	keep = min(max(keep, 0), len(t.stack))
	t.stack = slices.Insert(t.stack, keep, id)
}

// Err returns the first fatal error recorded by any live window.
func (t *Terminal) Err() error {
	for _, id := range t.stack {
		if err := t.windows[id].Err(); err != nil {
			return err
		}
	}
	return nil
}

// PixelSize returns the display size in pixels.
func (t *Terminal) PixelSize() image.Point { return t.pixels }

// Bezel reports whether the simulated bezel is drawn.
func (t *Terminal) Bezel() bool { return t.prefs.Shader() && t.prefs.ShaderGeometry() }

// RenderOffset returns the number of tiles hidden behind the bezel on each edge.
func (t *Terminal) RenderOffset() image.Point {
	if !t.Bezel() {
		return image.Point{}
	}
	scale := t.prefs.TileScale()
	x := int(float64(t.pixels.X)/1.2) / (BezelPixels * scale)
	y := t.pixels.Y / (BezelPixels * scale)
	return image.Pt(max(1, x), max(1, y))
}

// Size returns the usable terminal size in tiles.
func (t *Terminal) Size() image.Point {
	scale := t.prefs.TileScale()
	off := t.RenderOffset()
	w := t.pixels.X/scale/TileSize - off.X*2
	h := t.pixels.Y/scale/TileSize - off.Y*2
	return image.Pt(max(1, w), max(1, h))
}

// GetKey returns the next normalized key. When no event is waiting it draws
// a frame and returns KeyNone. It returns ErrShutdown once the display has
// closed.
func (t *Terminal) GetKey() (Key, error) {
	for {
		ev, ok := t.display.PollEvent()
		if !ok {
			t.Flip()
			return KeyNone, nil
		}
		switch ev.Kind {
		case EventClosed:
			return KeyNone, ErrShutdown
		case EventResized:
			if err := t.resize(ev.Width, ev.Height); err != nil {
				return KeyNone, err
			}
			return KeyResize, nil
		case EventText:
			if k := Key(ev.Rune); k.Printable() {
				return k, nil
			}
		case EventKey:
			if ev.Mods != 0 {
				continue
			}
			k, err := t.handleKey(ev.Key)
			if err != nil {
				return KeyNone, err
			}
			if k != KeyNone {
				return k, nil
			}
		}
	}
}

func (t *Terminal) handleKey(k Key) (Key, error) {
	switch k {
	case KeyF1:
		if err := t.prefs.SetShader(!t.prefs.Shader()); err != nil {
			return KeyNone, err
		}
		return KeyResize, t.recreateFrames()
	case KeyF4:
		if err := t.prefs.SetShaderGeometry(!t.prefs.ShaderGeometry()); err != nil {
			return KeyNone, err
		}
		return KeyResize, t.recreateFrames()
	case KeyF5:
		if err := t.prefs.SetAutoRescale(!t.prefs.AutoRescale()); err != nil {
			return KeyNone, err
		}
		return KeyResize, t.resize(t.pixels.X, t.pixels.Y)
	case KeyF2:
		return t.stepTileScale(-1)
	case KeyF3:
		return t.stepTileScale(1)
	}
	if passthrough[k] {
		return k, nil
	}
	return KeyNone, nil
}

func (t *Terminal) stepTileScale(delta int) (Key, error) {
	scale := t.prefs.TileScale() + delta
	if scale < TileScaleMin || scale > TileScaleMax {
		t.sfx.PlaySound("fail")
		return KeyNone, nil
	}
	if err := t.SetTileScale(scale); err != nil {
		return KeyNone, err
	}
	return KeyResize, nil
}

// SetTileScale changes the tile scale and reallocates the frames.
func (t *Terminal) SetTileScale(scale int) error {
	if err := t.prefs.SetTileScale(scale); err != nil {
		return err
	}
	return t.recreateFrames()
}

func (t *Terminal) resize(w, h int) error {
	t.pixels = image.Pt(w, h)
	t.scanlines = h / 3
	if t.prefs.AutoRescale() {
		scale := t.prefs.TileScale()
		area := w * h
		switch {
		case scale > 1 && area < rescaleArea:
			if err := t.prefs.SetTileScale(1); err != nil {
				return err
			}
		case scale < 2 && area >= rescaleArea:
			if err := t.prefs.SetTileScale(2); err != nil {
				return err
			}
		}
	}
	return t.recreateFrames()
}

func (t *Terminal) recreateFrames() error {
	if err := t.display.Recreate(t.pixels.X, t.pixels.Y); err != nil {
		return fmt.Errorf("recreate frames: %w", err)
	}
	t.sfx.PlaySound("degauss")
	for range settleFrames {
		t.Flip()
	}
	return nil
}

// Layers returns the live windows in stack order with their pixel origins.
func (t *Terminal) Layers() []Layer {
	tile := TileSize * t.prefs.TileScale()
	off := t.RenderOffset()
	layers := make([]Layer, 0, len(t.stack))
	for _, id := range t.stack {
		w := t.windows[id]
		layers = append(layers, Layer{Window: w, Origin: w.pos.Add(off).Mul(tile)})
	}
	return layers
}

// Flip composites every window and presents the frame.
func (t *Terminal) Flip() {
	t.display.Present(t.Layers(), FrameOptions{
		TileScale: t.prefs.TileScale(),
		Shader:    t.prefs.Shader(),
		Geometry:  t.Bezel(),
		Ghosting:  t.ghosting && t.prefs.Shader(),
		Scanlines: t.scanlines,
		Time:      t.now().Sub(t.start).Seconds(),
	})
}

// Close releases the display.
func (t *Terminal) Close() error {
	return t.display.Close()
}
