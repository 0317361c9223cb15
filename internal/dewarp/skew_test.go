package dewarp

import (
	"math"
	"testing"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// slantedLinesImage draws dark text-line stripes with the given slope
// (dy/dx) on white paper.
func slantedLinesImage(w, h int, tan float64) *grid.Grid[uint8] {
	g := grid.New[uint8](w, h)
	g.Fill(255)
	for y0 := 20; y0 < h-20; y0 += 20 {
		for x := 10; x < w-10; x++ {
			y := y0 + int(math.Round(float64(x)*tan))
			for t := 0; t < 2; t++ {
				if g.Contains(x, y+t) {
					g.Set(x, y+t, 0)
				}
			}
		}
	}
	return g
}

func TestFindSkewAngle(t *testing.T) {
	tests := []struct {
		name string
		tan  float64
	}{
		{"horizontal", 0},
		{"slight positive slant", math.Tan(3 * math.Pi / 180)},
		{"slight negative slant", math.Tan(-4 * math.Pi / 180)},
		{"strong slant", math.Tan(12 * math.Pi / 180)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := slantedLinesImage(300, 220, tt.tan)
			got := findSkewAngle(img, DefaultParams())
			want := math.Atan(tt.tan)
			if math.Abs(got-want) > 0.02 {
				t.Errorf("angle: got %.4f rad, want %.4f rad", got, want)
			}
		})
	}
}

func TestFindSkewAngleDeterministic(t *testing.T) {
	img := slantedLinesImage(300, 220, 0.05)
	first := findSkewAngle(img, DefaultParams())
	for i := 0; i < 3; i++ {
		if got := findSkewAngle(img, DefaultParams()); got != first {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestFindSkewAngleNeutralFallback(t *testing.T) {
	tests := []struct {
		name string
		fill func(*grid.Grid[uint8])
	}{
		{"blank white", func(g *grid.Grid[uint8]) { g.Fill(255) }},
		{"uniform gray", func(g *grid.Grid[uint8]) { g.Fill(128) }},
		{"single dot", func(g *grid.Grid[uint8]) {
			g.Fill(255)
			g.Set(50, 50, 0)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := grid.New[uint8](100, 100)
			tt.fill(g)
			if got := findSkewAngle(g, DefaultParams()); got != 0 {
				t.Errorf("got %v, want neutral 0", got)
			}
		})
	}
}

func TestFindSkewAngleStaysInRange(t *testing.T) {
	params := DefaultParams()
	img := slantedLinesImage(300, 220, math.Tan(45*math.Pi/180))
	got := findSkewAngle(img, params)
	if math.Abs(got) > params.MaxSkewAngle+1e-9 {
		t.Errorf("angle %v outside +/-%v search range", got, params.MaxSkewAngle)
	}
}
