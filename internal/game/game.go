// Package game runs the UI element stack: the title screen, the message log
// and input line, developer canvases, and the guru halt panel.
package game

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorp-rogue/gorp/internal/config"
	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/procgen"
	"github.com/gorp-rogue/gorp/internal/terminal"
	"github.com/gorp-rogue/gorp/internal/world"
)

// ErrQuit is returned by Step when the player asks to leave the game.
var ErrQuit = errors.New("quit")

// MusicPlayer plays the background track. It may be nil.
type MusicPlayer interface {
	PlayMusic(name string, loop int, volume float64) error
	StopMusic()
}

// Options configures a Game.
type Options struct {
	Title   config.Title
	Island  config.IslandConfig
	Version string
	Sounds  terminal.SoundPlayer
	Music   MusicPlayer
	Now     func() time.Time
	Random  *rand.Rand
}

// Game owns the UI elements and drives them from terminal input.
type Game struct {
	term   *terminal.Terminal
	guru   *guru.Guru
	opts   Options
	sfx    terminal.SoundPlayer
	now    func() time.Time
	random *rand.Rand

	elements []*Element
	nextID   ElementID
	logID    ElementID
	inputID  ElementID

	island       *procgen.Island
	islandCanvas ElementID

	halt *haltPanel
}

type silence struct{}

func (silence) PlaySound(string) {}

// New creates a game on term. Call Begin to show the title screen.
func New(term *terminal.Terminal, g *guru.Guru, opts Options) *Game {
	gm := &Game{term: term, guru: g, opts: opts, sfx: opts.Sounds, now: opts.Now, random: opts.Random}
	if gm.sfx == nil {
		gm.sfx = silence{}
	}
	if gm.now == nil {
		gm.now = time.Now
	}
	if gm.random == nil {
		gm.random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return gm
}

// Begin shows the title screen and starts the title music.
func (g *Game) Begin() error {
	if _, err := g.AddElement(newTitleScreen(g)); err != nil {
		return err
	}
	if g.opts.Music != nil {
		if err := g.opts.Music.PlayMusic("title", -1, 1); err != nil {
			return g.guru.Nonfatal("Could not start title music: "+err.Error(), guru.Warn)
		}
	}
	return nil
}

// AddElement puts body on top of the element stack, creates its window and
// returns its id.
func (g *Game) AddElement(body Body) (ElementID, error) {
	g.nextID++
	el := &Element{id: g.nextID, needsRedraw: true, body: body}
	switch body.(type) {
	case *Input, *TitleScreen:
		el.alwaysRedraw = true
	}
	g.elements = append(g.elements, el)
	if err := g.recreate(el); err != nil {
		return el.id, err
	}
	return el.id, nil
}

// Element returns the element with the given id. An unknown id is fatal.
func (g *Game) Element(id ElementID) (*Element, error) {
	i := g.indexOf(id)
	if i < 0 {
		return nil, guru.New("Invalid UI element requested!", uint32(id), uint32(len(g.elements)))
	}
	return g.elements[i], nil
}

// Elements returns the element ids from bottom to top.
func (g *Game) Elements() []ElementID {
	ids := make([]ElementID, len(g.elements))
	for i, el := range g.elements {
		ids[i] = el.id
	}
	return ids
}

func (g *Game) indexOf(id ElementID) int {
	return slices.IndexFunc(g.elements, func(el *Element) bool { return el.id == id })
}

// DeleteElement removes an element and its window. An unknown id is fatal.
func (g *Game) DeleteElement(id ElementID) error {
	i := g.indexOf(id)
	if i < 0 {
		return guru.New("Attempt to delete invalid UI element!", uint32(id), uint32(len(g.elements)))
	}
	el := g.elements[i]
	g.elements = slices.Delete(g.elements, i, i+1)
	if el.hasWindow {
		return g.term.RemoveWindow(el.window)
	}
	return nil
}

// ClearElements removes every element and window.
func (g *Game) ClearElements() error {
	for _, el := range g.elements {
		if el.hasWindow {
			if err := g.term.RemoveWindow(el.window); err != nil {
				return err
			}
		}
	}
	g.elements = nil
	g.logID, g.inputID, g.islandCanvas = 0, 0, 0
	return nil
}

// ElementToFront moves an element and its window to the top.
func (g *Game) ElementToFront(id ElementID) error {
	i := g.indexOf(id)
	if i < 0 {
		return guru.New("Invalid UI element requested!", uint32(id), uint32(len(g.elements)))
	}
	el := g.elements[i]
	g.elements = append(slices.Delete(g.elements, i, i+1), el)
	if el.hasWindow {
		g.term.WindowToFront(el.window)
	}
	el.needsRedraw = true
	return nil
}

// ElementToBack moves an element to the bottom of the stack, leaving the
// lowest ignore elements beneath it.
func (g *Game) ElementToBack(id ElementID, ignore int) error {
	i := g.indexOf(id)
	if i < 0 {
		return guru.New("Invalid UI element requested!", uint32(id), uint32(len(g.elements)))
	}
	el := g.elements[i]
	g.elements = slices.Delete(g.elements, i, i+1)
	ignore = min(max(ignore, 0), len(g.elements))
	g.elements = slices.Insert(g.elements, ignore, el)
	if el.hasWindow {
		below := 0
		for _, other := range g.elements[:ignore] {
			if other.hasWindow {
				below++
			}
		}
		g.term.WindowToBack(el.window, below)
	}
	for _, other := range g.elements {
		other.needsRedraw = true
	}
	return nil
}

// Step runs one iteration of the main loop: redraw, poll one key, dispatch
// it. Errors other than ErrQuit and terminal.ErrShutdown start the halt
// panel, which then takes over every following Step until the display closes.
func (g *Game) Step() error {
	if g.halt != nil {
		return g.haltStep()
	}
	err := g.step()
	if err == nil || errors.Is(err, ErrQuit) || errors.Is(err, terminal.ErrShutdown) {
		return err
	}
	return g.Halt(err)
}

func (g *Game) step() error {
	for _, el := range slices.Clone(g.elements) {
		if !el.NeedsRedraw() {
			continue
		}
		if err := g.render(el); err != nil {
			return err
		}
		el.needsRedraw = false
	}
	if err := g.term.Err(); err != nil {
		return err
	}
	if err := g.guru.Err(); err != nil {
		return err
	}

	k, err := g.term.GetKey()
	if err != nil {
		return err
	}
	switch k {
	case terminal.KeyNone:
		return nil
	case terminal.KeyResize:
		for _, el := range slices.Clone(g.elements) {
			if err := g.recreate(el); err != nil {
				return err
			}
			el.needsRedraw = true
		}
		return nil
	}
	stack := slices.Clone(g.elements)
	for i := len(stack) - 1; i >= 0; i-- {
		consumed, err := g.handleKey(stack[i], k)
		if err != nil {
			return err
		}
		if consumed {
			break
		}
	}
	return nil
}

// Run steps until the player quits or the display closes. A halt returns the
// error that caused it once the display is closed.
func (g *Game) Run() error {
	for {
		if err := g.Step(); err != nil {
			if errors.Is(err, ErrQuit) || errors.Is(err, terminal.ErrShutdown) {
				return nil
			}
			return err
		}
	}
}

// Message adds a line to the message log, if there is one.
func (g *Game) Message(text string) {
	if g.logID == 0 {
		return
	}
	el, err := g.Element(g.logID)
	if err != nil {
		return
	}
	el.body.(*MessageLog).Add(text)
	el.needsRedraw = true
}

// Log returns the message log, or nil before a game has started.
func (g *Game) Log() *MessageLog {
	if g.logID == 0 {
		return nil
	}
	el, err := g.Element(g.logID)
	if err != nil {
		return nil
	}
	return el.body.(*MessageLog)
}

// Island returns the most recently generated island.
func (g *Game) Island() *procgen.Island { return g.island }

// NewGame replaces the title screen with the message log, input line and a
// freshly generated island.
func (g *Game) NewGame() error {
	if g.opts.Music != nil {
		g.opts.Music.StopMusic()
	}
	if err := g.ClearElements(); err != nil {
		return err
	}
	var err error
	if g.logID, err = g.AddElement(NewMessageLog()); err != nil {
		return err
	}
	if g.inputID, err = g.AddElement(NewInput()); err != nil {
		return err
	}
	g.sfx.PlaySound("newgame")
	g.Message("{G}Welcome to GORP!{w} Type {W}help{w} for a list of commands.")
	return g.showIsland(g.opts.Island.Seed)
}

// ProcessInput handles a line typed into the input window.
func (g *Game) ProcessInput(text string) error {
	g.Message("{K}> {w}" + text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return ErrQuit
	case "help":
		g.Message("{W}island {w}[seed]{K}: generate a new island")
		g.Message("{W}help{K}: show this list")
		g.Message("{W}quit{K}: leave the game")
	case "island":
		var seed uint32
		if len(fields) > 1 {
			v, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				g.Message("{y}That is not a valid seed: {Y}" + fields[1])
				return nil
			}
			seed = uint32(v)
		}
		return g.showIsland(seed)
	default:
		g.Message("{y}I don't understand that. Type {Y}help{y} for a list of commands.")
	}
	return nil
}

// showIsland generates an island and draws it on a developer canvas,
// replacing the previous one.
func (g *Game) showIsland(seed uint32) error {
	size := g.opts.Island.Size
	if size == 0 {
		size = 128
	}
	island, err := procgen.Generate(size, seed)
	if err != nil {
		return err
	}
	if g.islandCanvas != 0 && g.indexOf(g.islandCanvas) >= 0 {
		if err := g.DeleteElement(g.islandCanvas); err != nil {
			return err
		}
	}
	canvas, err := NewDevCanvas(image.Pt(size, size))
	if err != nil {
		return err
	}
	if g.islandCanvas, err = g.AddElement(canvas); err != nil {
		return err
	}
	hm := island.Heightmap
	for y := 0; y < hm.Size; y++ {
		for x := 0; x < hm.Size; x++ {
			glyph, col := world.Visual(world.Classify(hm.At(x, y)))
			canvas.Put(image.Pt(x, y), glyph, col, terminal.FontNormal)
		}
	}
	g.island = island

	subs := island.SubIslands
	largest := 0
	if id := subs.Largest(); id >= 0 {
		largest = len(subs.Regions[id])
	}
	g.guru.Log("Generated island", guru.Info, "seed", island.Seed, "size", size, "subislands", len(subs.Regions))
	g.Message(fmt.Sprintf("{w}Island {W}%d{w}: {W}%d{w} sub-islands, the largest covering {W}%d{w} tiles.",
		island.Seed, len(subs.Regions), largest))
	g.Message("{K}Arrows or WASD move the map, TAB sends it behind the log and back, ESC closes it.")
	return nil
}
