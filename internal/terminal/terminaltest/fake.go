// Package terminaltest provides in-memory Display, Prefs and SoundPlayer
// implementations for driving a Terminal without a window.
package terminaltest

import (
	"fmt"

	"github.com/gorp-rogue/gorp/internal/terminal"
)

// Display queues scripted events and records presented frames.
type Display struct {
	W, H      int
	Events    []terminal.Event
	Frames    int
	Recreated int
	Last      []terminal.Layer
	LastOpts  terminal.FrameOptions
	Closed    bool
}

// NewDisplay returns a display of the given pixel size.
func NewDisplay(w, h int) *Display {
	return &Display{W: w, H: h}
}

// Push queues events for PollEvent.
func (d *Display) Push(evs ...terminal.Event) { d.Events = append(d.Events, evs...) }

// PushKeys queues key events with no modifiers.
func (d *Display) PushKeys(keys ...terminal.Key) {
	for _, k := range keys {
		d.Push(terminal.Event{Kind: terminal.EventKey, Key: k})
	}
}

// PushText queues a text event per rune.
func (d *Display) PushText(s string) {
	for _, r := range s {
		d.Push(terminal.Event{Kind: terminal.EventText, Rune: r})
	}
}

func (d *Display) PollEvent() (terminal.Event, bool) {
	if len(d.Events) == 0 {
		return terminal.Event{}, false
	}
	ev := d.Events[0]
	d.Events = d.Events[1:]
	if ev.Kind == terminal.EventResized {
		d.W, d.H = ev.Width, ev.Height
	}
	return ev, true
}

func (d *Display) PixelSize() (int, int) { return d.W, d.H }

func (d *Display) Recreate(w, h int) error {
	d.Recreated++
	return nil
}

func (d *Display) Present(layers []terminal.Layer, opts terminal.FrameOptions) {
	d.Frames++
	d.Last = layers
	d.LastOpts = opts
}

func (d *Display) Close() error {
	d.Closed = true
	return nil
}

// Prefs is an in-memory preference set with the same range checks as the
// persisted one.
type Prefs struct {
	Scale    int
	ShaderOn bool
	Geometry bool
	Rescale  bool
}

func (p *Prefs) TileScale() int { return p.Scale }

func (p *Prefs) SetTileScale(scale int) error {
	if scale < 1 || scale > 255 {
		return fmt.Errorf("invalid tile scale %d", scale)
	}
	p.Scale = scale
	return nil
}

func (p *Prefs) Shader() bool { return p.ShaderOn }

func (p *Prefs) SetShader(on bool) error {
	p.ShaderOn = on
	return nil
}

func (p *Prefs) ShaderGeometry() bool { return p.Geometry }

func (p *Prefs) SetShaderGeometry(on bool) error {
	p.Geometry = on
	return nil
}

func (p *Prefs) AutoRescale() bool { return p.Rescale }

func (p *Prefs) SetAutoRescale(on bool) error {
	p.Rescale = on
	return nil
}

// Sounds records the names of played sounds.
type Sounds struct {
	Played []string
}

func (s *Sounds) PlaySound(name string) { s.Played = append(s.Played, name) }

// Count returns how many times name was played.
func (s *Sounds) Count(name string) int {
	n := 0
	for _, p := range s.Played {
		if p == name {
			n++
		}
	}
	return n
}
