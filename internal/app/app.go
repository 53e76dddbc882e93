// Package app owns the engine's long-lived services and wires them
// together in start-up order: guru, gamedata, preferences, configuration,
// audio, then the display, terminal and game.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gorp-rogue/gorp/internal/audio"
	"github.com/gorp-rogue/gorp/internal/config"
	"github.com/gorp-rogue/gorp/internal/datafile"
	"github.com/gorp-rogue/gorp/internal/game"
	"github.com/gorp-rogue/gorp/internal/guru"
	"github.com/gorp-rogue/gorp/internal/prefs"
	"github.com/gorp-rogue/gorp/internal/render"
	"github.com/gorp-rogue/gorp/internal/terminal"
	"github.com/gorp-rogue/gorp/internal/tty"
)

// Options selects where data lives and which backend to run.
type Options struct {
	Version string
	// Gamedata is an explicit gamedata root. Empty searches the usual places.
	Gamedata string
	// Userdata holds prefs.dat and log.txt. Empty means ~/.gorp.
	Userdata string
	// Config is an explicit engine.yml.
	Config string
	// Headless skips audio and the display.
	Headless bool
	// TTY uses the text-terminal backend instead of a window.
	TTY bool
	// Display overrides the backend. Run drives it with Game.Run.
	Display terminal.Display
	// Console receives log output. Nil means stderr.
	Console io.Writer
}

// Context holds the services for one run of the engine.
type Context struct {
	opts Options

	Guru   *guru.Guru
	Data   *datafile.Resolver
	Prefs  *prefs.Prefs
	Engine config.Engine
	Title  config.Title
	Audio  *audio.Player

	Term *terminal.Terminal
	Game *game.Game
}

// Open starts every service up to, but not including, the display.
func Open(opts Options) (*Context, error) {
	if opts.Userdata == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		opts.Userdata = filepath.Join(home, ".gorp")
	}
	if err := os.MkdirAll(opts.Userdata, 0o755); err != nil {
		return nil, fmt.Errorf("create userdata: %w", err)
	}

	g, err := guru.Open(guru.Options{
		LogPath: filepath.Join(opts.Userdata, "log.txt"),
		Console: opts.Console,
	})
	if err != nil {
		return nil, err
	}
	c := &Context{opts: opts, Guru: g}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) init() error {
	var err error
	if c.Data, err = datafile.Open(c.opts.Gamedata); err != nil {
		return err
	}
	c.Guru.Log("Gamedata located", guru.Info, "root", c.Data.Root())

	if c.Prefs, err = prefs.Load(filepath.Join(c.opts.Userdata, "prefs.dat"), c.Guru); err != nil {
		return err
	}
	if c.Engine, err = config.LoadEngine(c.Data, c.opts.Config); err != nil {
		return err
	}
	if c.Title, err = config.LoadTitle(c.Data); err != nil {
		return err
	}

	lib, err := audio.LoadLibrary(c.Data)
	if err != nil {
		return err
	}
	c.Audio = audio.NewPlayer(lib, c.Guru, !c.opts.Headless && c.opts.Display == nil)
	return nil
}

// Run opens the display and plays until the player quits or the window
// closes. After a fatal error it shows the halt panel and returns that
// error once the display has closed.
func (c *Context) Run() error {
	if c.opts.Headless {
		return errors.New("cannot run the game headless")
	}
	var err error
	switch {
	case c.opts.Display != nil:
		err = c.runLoop(c.opts.Display, c.Prefs)
	case c.opts.TTY:
		err = c.runTTY()
	default:
		err = c.runWindow()
	}
	if errors.Is(err, game.ErrQuit) || errors.Is(err, terminal.ErrShutdown) {
		return nil
	}
	return err
}

func (c *Context) runLoop(d terminal.Display, p terminal.Prefs) error {
	if err := c.start(d, p); err != nil {
		return err
	}
	return c.Game.Run()
}

func (c *Context) runTTY() error {
	d, err := tty.New(c.Engine.TPS)
	if err != nil {
		return fmt.Errorf("open text terminal: %w", err)
	}
	return c.runLoop(d, tty.Prefs{})
}

// runWindow hands the loop to ebiten. The terminal and game are created on
// the first tick, once the window exists.
func (c *Context) runWindow() error {
	sheet, atlas, err := render.LoadSheet(c.Data)
	if err != nil {
		return err
	}
	shader, err := c.Data.ReadFile("shader/crt.kage")
	if err != nil {
		return err
	}
	uniforms, err := config.LoadUniforms(c.Data)
	if err != nil {
		return err
	}
	d, err := render.New(sheet, atlas, render.Options{
		Title:    c.Engine.Window.Title,
		Width:    c.Engine.Window.Width,
		Height:   c.Engine.Window.Height,
		TPS:      c.Engine.TPS,
		Shader:   shader,
		Uniforms: uniforms,
	})
	if err != nil {
		return err
	}
	return d.Run(func() error {
		if c.Game == nil {
			if err := c.startWith(d, c.Prefs, atlas); err != nil {
				return err
			}
		}
		return c.Game.Step()
	})
}

func (c *Context) start(d terminal.Display, p terminal.Prefs) error {
	return c.startWith(d, p, terminal.DefaultAtlas)
}

func (c *Context) startWith(d terminal.Display, p terminal.Prefs, atlas terminal.Atlas) error {
	term, err := terminal.New(d, p, c.Audio, c.Guru, terminal.Options{
		Atlas:    atlas,
		Ghosting: c.Engine.Ghosting,
	})
	if err != nil {
		d.Close()
		return err
	}
	c.Term = term
	c.Game = game.New(term, c.Guru, game.Options{
		Title:   c.Title,
		Island:  c.Engine.Island,
		Version: c.opts.Version,
		Sounds:  c.Audio,
		Music:   c.Audio,
	})
	if err := c.Game.Begin(); err != nil {
		return c.Game.Halt(err)
	}
	return nil
}

// Close shuts the services down in reverse order.
func (c *Context) Close() error {
	var errs []error
	if c.Term != nil {
		errs = append(errs, c.Term.Close())
		c.Term = nil
	}
	if c.Audio != nil {
		c.Audio.Close()
		c.Audio = nil
	}
	if c.Guru != nil {
		errs = append(errs, c.Guru.Close())
	}
	return errors.Join(errs...)
}
