package guru

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMeditationCode(t *testing.T) {
	m := New("Invalid island size!", 600, 512)
	if got, want := m.Code(), "Guru Meditation 00000258.00000200"; got != want {
		t.Fatalf("Code() = %q, want %q", got, want)
	}
	if !strings.Contains(m.Error(), "Invalid island size!") {
		t.Errorf("Error() = %q, missing message", m.Error())
	}
	if Fatalf("no code").Code() != "" {
		t.Errorf("expected empty code when both parts are zero")
	}
}

func TestDescribe(t *testing.T) {
	wrapped := fmt.Errorf("new game: %w", New("bad", 0xAB, 1))
	msg, code := Describe(wrapped)
	if msg != "bad" || code != "Guru Meditation 000000AB.00000001" {
		t.Fatalf("Describe = %q, %q", msg, code)
	}
	msg, code = Describe(errors.New("plain"))
	if msg != "plain" || code != "" {
		t.Fatalf("Describe(plain) = %q, %q", msg, code)
	}
}

func TestCascadeTripsAboveThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewCascade(clock.now)
	for i := 0; i < 5; i++ {
		if c.Add(Error) {
			t.Fatalf("tripped early at error %d (count %d)", i+1, c.Count())
		}
	}
	if c.Count() != 25 {
		t.Fatalf("count = %d, want 25", c.Count())
	}
	if !c.Add(Warn) {
		t.Fatalf("expected cascade to trip at count %d", c.Count())
	}
	if c.Add(Critical) {
		t.Errorf("a tripped cascade must not trip again")
	}
}

func TestCascadeResetsAfterQuietPeriod(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewCascade(clock.now)
	c.Add(Critical)
	if c.Count() != 20 {
		t.Fatalf("count = %d, want 20", c.Count())
	}
	clock.t = clock.t.Add(CascadeTimeout + time.Second)
	if c.Add(Critical) {
		t.Fatalf("reset call must not trip")
	}
	if c.Count() != 0 {
		t.Fatalf("count after reset = %d, want 0 (weight discarded)", c.Count())
	}
	clock.t = clock.t.Add(CascadeTimeout)
	c.Add(Critical)
	if !c.Add(Critical) {
		t.Fatalf("two criticals inside the window should trip, count %d", c.Count())
	}
}

func TestCascadeInfoDoesNotRestartWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewCascade(clock.now)
	clock.t = clock.t.Add(CascadeTimeout + time.Second)
	c.Add(Info)
	tripped := false
	for range 6 {
		tripped = c.Add(Error) || tripped
	}
	if tripped || c.Count() != 25 {
		t.Errorf("tripped=%v count=%d, want no trip at 25", tripped, c.Count())
	}
}

func TestNonfatalEscalates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	g, err := Open(Options{Console: &buf, Now: clock.now})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := g.Nonfatal("first", Critical); err != nil {
		t.Fatalf("unexpected cascade: %v", err)
	}
	err = g.Nonfatal("second", Critical)
	var m *Meditation
	if !errors.As(err, &m) || m.Msg != "Cascade failure detected!" {
		t.Fatalf("expected cascade meditation, got %v", err)
	}
	if g.Err() == nil {
		t.Errorf("Err() should keep the cascade failure")
	}
	if g.Nonfatal("ignored", Critical) != nil {
		t.Errorf("calls after the cascade must be ignored")
	}
	if !strings.Contains(buf.String(), "second") {
		t.Errorf("console log missing message: %q", buf.String())
	}
}

func TestNonfatalInvalidSeverity(t *testing.T) {
	var buf bytes.Buffer
	g, _ := Open(Options{Console: &buf})
	g.Nonfatal("odd", Severity(42))
	if !strings.Contains(buf.String(), "incorrect severity") {
		t.Errorf("expected warning about severity, got %q", buf.String())
	}
}

func TestLogFileReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata", "log.txt")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var console bytes.Buffer
	g, err := Open(Options{LogPath: path, Console: &console})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	g.Log("hello", Warn)
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Errorf("log file was not truncated")
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing line: %q", data)
	}
}

func TestBeginHaltOnce(t *testing.T) {
	g := Discard()
	if !g.BeginHalt(New("boom", 1, 2)) {
		t.Fatal("first halt should begin")
	}
	if g.BeginHalt(errors.New("again")) {
		t.Fatal("re-entrant halt should be refused")
	}
	if !g.Halting() {
		t.Error("Halting() = false")
	}
}
