package datafile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorp-rogue/gorp/internal/guru"
)

func TestEmbedded(t *testing.T) {
	r, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	for _, rel := range []string{"misc/title.yml", "shader/crt.kage", "shader/uniforms.yml", "sfx/sounds.yml", "config/engine.yml"} {
		if !r.Exists(rel) {
			t.Errorf("embedded gamedata missing %s", rel)
		}
	}
	if _, ok := r.Path("misc/title.yml"); ok {
		t.Errorf("embedded files have no disk path")
	}
	_, err = r.ReadFile("nope/missing.txt")
	var m *guru.Meditation
	if !errors.As(err, &m) {
		t.Errorf("missing file err = %v, want meditation", err)
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version"), []byte("2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "misc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "misc", "hello.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	p, ok := r.Path("misc/hello.txt")
	if !ok || p != filepath.Join(dir, "misc", "hello.txt") {
		t.Errorf("Path = %q, %v", p, ok)
	}
	data, err := r.ReadFile("misc/hello.txt")
	if err != nil || string(data) != "hi" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}

func TestOpenRejectsBadRoot(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Errorf("missing gamedata root should be fatal")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(dir)
	var m *guru.Meditation
	if !errors.As(err, &m) || m.A != 1 || m.B != Version {
		t.Errorf("wrong version err = %v", err)
	}
}
