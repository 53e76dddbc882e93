// Package prefs stores user preferences in a small versioned binary file.
package prefs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gorp-rogue/gorp/internal/guru"
)

// Version is written after the magic bytes; files with any other version are
// replaced with defaults.
const Version uint32 = 3

var magic = [2]byte{'K', '8'}

const (
	flagShader      = 1 << 0
	flagAutoRescale = 1 << 1
	flagShaderGeom  = 1 << 2
)

// TileScaleMax is the largest tile scale the file format can hold.
const TileScaleMax = 255

// Prefs holds the persisted preferences. Every setter saves immediately.
type Prefs struct {
	path        string
	shader      bool
	autoRescale bool
	shaderGeom  bool
	tileScale   int
}

// Defaults returns the default preferences, saved to path.
func Defaults(path string) *Prefs {
	return &Prefs{
		path:        path,
		shader:      true,
		autoRescale: true,
		shaderGeom:  true,
		tileScale:   1,
	}
}

// Load reads the preferences file at path. A missing file is created with
// defaults; a corrupt or outdated one is reported and replaced.
func Load(path string, g *guru.Guru) (*Prefs, error) {
	p := Defaults(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, p.Save()
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := p.decode(data); err != nil {
		if nerr := g.Nonfatal("Discarding preferences file: "+err.Error(), guru.Warn); nerr != nil {
			return nil, nerr
		}
		p = Defaults(path)
		return p, p.Save()
	}
	return p, nil
}

func (p *Prefs) decode(data []byte) error {
	var hdr struct {
		Magic   [2]byte
		Version uint32
		Flags   uint8
		Scale   uint8
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("truncated preferences: %w", err)
	}
	if hdr.Magic != magic {
		return fmt.Errorf("bad magic %q", hdr.Magic[:])
	}
	if hdr.Version != Version {
		return fmt.Errorf("version %d, want %d", hdr.Version, Version)
	}
	if hdr.Scale == 0 {
		return errors.New("tile scale is zero")
	}
	p.shader = hdr.Flags&flagShader != 0
	p.autoRescale = hdr.Flags&flagAutoRescale != 0
	p.shaderGeom = hdr.Flags&flagShaderGeom != 0
	p.tileScale = int(hdr.Scale)
	return nil
}

func (p *Prefs) encode() []byte {
	var flags uint8
	if p.shader {
		flags |= flagShader
	}
	if p.autoRescale {
		flags |= flagAutoRescale
	}
	if p.shaderGeom {
		flags |= flagShaderGeom
	}
	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.LittleEndian, Version)
	buf.WriteByte(flags)
	buf.WriteByte(uint8(p.tileScale))
	return buf.Bytes()
}

// Save writes the preferences file. An empty path keeps them in memory only.
func (p *Prefs) Save() error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}
	if err := os.WriteFile(p.path, p.encode(), 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func (p *Prefs) TileScale() int       { return p.tileScale }
func (p *Prefs) Shader() bool         { return p.shader }
func (p *Prefs) ShaderGeometry() bool { return p.shaderGeom }
func (p *Prefs) AutoRescale() bool    { return p.autoRescale }

// SetTileScale sets the tile scale. Values outside 1-255 are fatal.
func (p *Prefs) SetTileScale(scale int) error {
	if scale < 1 || scale > TileScaleMax {
		return guru.New("Invalid tile scale!", uint32(scale), TileScaleMax)
	}
	p.tileScale = scale
	return p.Save()
}

func (p *Prefs) SetShader(on bool) error {
	p.shader = on
	return p.Save()
}

func (p *Prefs) SetShaderGeometry(on bool) error {
	p.shaderGeom = on
	return p.Save()
}

func (p *Prefs) SetAutoRescale(on bool) error {
	p.autoRescale = on
	return p.Save()
}
