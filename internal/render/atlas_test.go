package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorp-rogue/gorp/internal/datafile"
	"github.com/gorp-rogue/gorp/internal/terminal"
)

func lit(img *image.NRGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				n++
			}
		}
	}
	return n
}

func glyphRect(t *testing.T, g terminal.Glyph, f terminal.Font) image.Rectangle {
	t.Helper()
	r, err := terminal.DefaultAtlas.Rect(g, f)
	if err != nil {
		t.Fatalf("Rect(%d, %d): %v", g, f, err)
	}
	return r
}

func TestGenerateSheetLayout(t *testing.T) {
	img := GenerateSheet()
	if got, want := img.Bounds().Size(), image.Pt(256, 640); got != want {
		t.Fatalf("sheet size = %v, want %v", got, want)
	}
	for _, f := range []terminal.Font{terminal.FontNormal, terminal.FontTrihook, terminal.FontTrihookHalf} {
		if n := lit(img, glyphRect(t, 'A', f)); n == 0 {
			t.Errorf("font %d: 'A' is blank", f)
		}
		if n := lit(img, glyphRect(t, ' ', f)); n != 0 {
			t.Errorf("font %d: space has %d lit pixels", f, n)
		}
	}
}

func TestGenerateSheetBlocksAndBoxes(t *testing.T) {
	img := GenerateSheet()
	full := glyphRect(t, terminal.GlyphFullBlock, terminal.FontNormal)
	if n := lit(img, full); n != tile*tile {
		t.Errorf("full block lit %d pixels, want %d", n, tile*tile)
	}
	half := glyphRect(t, terminal.GlyphFullBlock, terminal.FontTrihookHalf)
	if n := lit(img, half); n != halfTile*tile {
		t.Errorf("half-width full block lit %d pixels, want %d", n, halfTile*tile)
	}

	h := glyphRect(t, terminal.GlyphBoxLH, terminal.FontNormal)
	mid := h.Min.Y + tile/2
	if img.NRGBAAt(h.Min.X, mid).A == 0 || img.NRGBAAt(h.Max.X-1, mid).A == 0 {
		t.Errorf("horizontal line does not reach both edges")
	}
	if img.NRGBAAt(h.Min.X+tile/2, h.Min.Y).A != 0 {
		t.Errorf("horizontal line should not touch the top edge")
	}

	d := glyphRect(t, terminal.GlyphBoxDV, terminal.FontNormal)
	if img.NRGBAAt(d.Min.X+tile/2, d.Min.Y).A != 0 {
		t.Errorf("double vertical line should leave the centre column empty")
	}
	if n := lit(img, d); n == 0 {
		t.Errorf("double vertical line is blank")
	}
}

func TestLoadSheetDefault(t *testing.T) {
	data, err := datafile.Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	img, atlas, err := LoadSheet(data)
	if err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if atlas != terminal.DefaultAtlas {
		t.Errorf("atlas = %+v, want default", atlas)
	}
	if img.Bounds().Dx() != 256 {
		t.Errorf("sheet width = %d", img.Bounds().Dx())
	}
}

func TestLoadSheetFromGamedata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version"), []byte("2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "png"), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "png", "font.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 128, 64))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	data, err := datafile.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, atlas, err := LoadSheet(data)
	if err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if atlas.Cols != 8 || atlas.Rows != 4 {
		t.Errorf("atlas = %+v, want 8x4", atlas)
	}
}
