package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorp-rogue/gorp/internal/terminal"
	"github.com/gorp-rogue/gorp/internal/terminal/terminaltest"
)

const testConfig = `window:
  title: "GORP test"
  width: 800
  height: 600
tps: 60
ghosting: false
island:
  size: 32
  seed: 7
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func open(t *testing.T, opts Options) *Context {
	t.Helper()
	opts.Userdata = t.TempDir()
	opts.Console = io.Discard
	if opts.Config == "" {
		opts.Config = writeConfig(t, testConfig)
	}
	c, err := Open(opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestOpenHeadless(t *testing.T) {
	c := open(t, Options{Headless: true})
	defer c.Close()

	for _, name := range []string{"prefs.dat", "log.txt"} {
		if _, err := os.Stat(filepath.Join(c.opts.Userdata, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
	if c.Engine.Window.Title != "GORP test" || c.Engine.Island.Size != 32 {
		t.Errorf("engine config = %+v", c.Engine)
	}
	if len(c.Title.GWords) == 0 {
		t.Errorf("title data not loaded")
	}
	if c.Audio.Enabled() {
		t.Errorf("headless run opened the audio device")
	}
	if err := c.Run(); err == nil {
		t.Errorf("Run should refuse to start headless")
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(Options{
		Userdata: t.TempDir(),
		Console:  io.Discard,
		Config:   writeConfig(t, "window:\n  width: 0\n"),
	})
	if err == nil {
		t.Errorf("zero window width should fail")
	}
}

func TestRunQuitFromTitle(t *testing.T) {
	d := terminaltest.NewDisplay(800, 600)
	d.PushText("3")
	c := open(t, Options{Display: d})
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !d.Closed {
		t.Errorf("display not closed")
	}
}

func TestRunNewGameAndQuitCommand(t *testing.T) {
	d := terminaltest.NewDisplay(800, 600)
	d.PushText("1")
	d.PushText("quit")
	d.PushKeys(terminal.KeyEnter)
	c := open(t, Options{Display: d})
	defer c.Close()

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	isl := c.Game.Island()
	if isl == nil {
		t.Fatalf("new game did not generate an island")
	}
	if isl.Seed != 7 || isl.Heightmap.Size != 32 {
		t.Errorf("island seed %d size %d, want 7 and 32", isl.Seed, isl.Heightmap.Size)
	}
}

func TestRunWindowClosedIsClean(t *testing.T) {
	d := terminaltest.NewDisplay(800, 600)
	d.Push(terminal.Event{Kind: terminal.EventClosed})
	c := open(t, Options{Display: d})
	defer c.Close()
	if err := c.Run(); err != nil {
		t.Errorf("Run after close = %v, want nil", err)
	}
}
