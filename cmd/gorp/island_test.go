package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/gorp-rogue/gorp/internal/procgen"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestRenderIsland(t *testing.T) {
	hm := procgen.NewHeightmap(3)
	for i := range hm.Cells {
		hm.Cells[i] = 0.05
	}
	hm.Set(1, 1, 0.5)
	hm.Set(2, 1, 0.5)
	hm.Set(0, 2, 0.25)

	got := ansi.ReplaceAllString(renderIsland(hm), "")
	want := "≈≈≈\n≈\"\"\n.≈≈\n"
	if got != want {
		t.Errorf("renderIsland =\n%s\nwant\n%s", got, want)
	}
}

func TestIslandCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"island", "--size", "64", "--seed", "12345", "--no-map"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("island: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "Island seed 12345, 64x64 tiles") {
		t.Errorf("summary = %q", lines[0])
	}
	if strings.Contains(out.String(), "≈") {
		t.Errorf("--no-map still printed the map")
	}
}

func TestIslandCommandRejectsBadSize(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"island", "--size", "1", "--no-map"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err == nil {
		t.Errorf("size 1 should be rejected")
	}
}
