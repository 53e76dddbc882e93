package world

import (
	"image"
	"testing"
)

func TestIndex(t *testing.T) {
	size := image.Pt(10, 4)
	i, err := Index(image.Pt(3, 2), size)
	if err != nil || i != 23 {
		t.Fatalf("Index = %d, %v; want 23", i, err)
	}
	for _, p := range []image.Point{{10, 0}, {0, 4}, {-1, 0}} {
		if _, err := Index(p, size); err == nil {
			t.Errorf("Index(%v) should fail", p)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		h    float32
		want Terrain
	}{
		{0, TerrainDeepWater},
		{0.1, TerrainDeepWater},
		{0.15, TerrainWater},
		{0.25, TerrainBeach},
		{0.5, TerrainLowland},
		{0.65, TerrainHighland},
		{0.75, TerrainMountain},
		{0.95, TerrainPeak},
	}
	for _, tt := range tests {
		if got := Classify(tt.h); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
	if IsLand(Water) || !IsLand(0.21) {
		t.Errorf("IsLand boundary is wrong")
	}
}
