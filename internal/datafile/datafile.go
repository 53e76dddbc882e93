// Package datafile resolves logical gamedata paths such as "shader/crt.kage"
// against an on-disk gamedata directory or the embedded copy.
package datafile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorp-rogue/gorp/assets"
	"github.com/gorp-rogue/gorp/internal/guru"
)

// Version is the gamedata layout version this build understands.
const Version = 2

// Resolver reads gamedata files by relative path.
type Resolver struct {
	root string // absolute on-disk root, or "" for the embedded tree
	fsys fs.FS
}

// Open returns a resolver for root. With an empty root it looks for a
// gamedata directory next to the executable and then in the working
// directory, and falls back to the embedded copy. An explicit root that is
// missing or has the wrong version is fatal.
func Open(root string) (*Resolver, error) {
	if root != "" {
		return openDir(root)
	}
	for _, dir := range candidates() {
		if r, err := openDir(dir); err == nil {
			return r, nil
		}
	}
	return Embedded()
}

// Embedded returns a resolver over the gamedata compiled into the binary.
func Embedded() (*Resolver, error) {
	sub, err := fs.Sub(assets.Gamedata, "gamedata")
	if err != nil {
		return nil, fmt.Errorf("embedded gamedata: %w", err)
	}
	r := &Resolver{fsys: sub}
	if err := r.checkVersion(); err != nil {
		return nil, err
	}
	return r, nil
}

func candidates() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "gamedata"))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, "gamedata"))
	}
	return dirs
}

func openDir(dir string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve gamedata %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, guru.Fatalf("Could not locate gamedata folder: %s", abs)
	}
	r := &Resolver{root: abs, fsys: os.DirFS(abs)}
	if err := r.checkVersion(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) checkVersion() error {
	data, err := fs.ReadFile(r.fsys, "version")
	if err != nil {
		return guru.Fatalf("Gamedata version file missing in %s", r.Root())
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v != Version {
		return guru.New("Invalid gamedata version!", uint32(v), Version)
	}
	return nil
}

// Root returns the on-disk gamedata directory, or "embedded".
func (r *Resolver) Root() string {
	if r.root == "" {
		return "embedded"
	}
	return r.root
}

// Path returns the absolute on-disk path for rel. Files served from the
// embedded tree have no path and return false.
func (r *Resolver) Path(rel string) (string, bool) {
	if r.root == "" {
		return "", false
	}
	return filepath.Join(r.root, filepath.FromSlash(rel)), true
}

// Exists reports whether rel is present.
func (r *Resolver) Exists(rel string) bool {
	_, err := fs.Stat(r.fsys, path.Clean(rel))
	return err == nil
}

// ReadFile returns the contents of rel. A missing file is fatal.
func (r *Resolver) ReadFile(rel string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, path.Clean(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, guru.Fatalf("Missing gamedata file: %s", rel)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Open opens rel for streaming.
func (r *Resolver) Open(rel string) (fs.File, error) {
	f, err := r.fsys.Open(path.Clean(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, guru.Fatalf("Missing gamedata file: %s", rel)
	}
	return f, err
}
