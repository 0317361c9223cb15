package imgproc

import (
	"testing"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

func setRect(m *grid.BinaryMap, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, true)
		}
	}
}

func TestLargestComponent(t *testing.T) {
	m := grid.NewBinaryMap(20, 20)
	setRect(m, 1, 1, 5, 5)   // 16 px
	setRect(m, 10, 10, 18, 18) // 64 px

	out := LargestComponent(m)
	if out.Get(2, 2) {
		t.Error("smaller component survived")
	}
	if !out.Get(12, 12) {
		t.Error("largest component missing")
	}
	if got := out.CountNonZero(); got != 64 {
		t.Errorf("CountNonZero: got %d, want 64", got)
	}
}

func TestLargestComponentEmpty(t *testing.T) {
	out := LargestComponent(grid.NewBinaryMap(8, 8))
	if got := out.CountNonZero(); got != 0 {
		t.Errorf("CountNonZero: got %d, want 0", got)
	}
}

func TestLargestComponentDiagonalConnectivity(t *testing.T) {
	m := grid.NewBinaryMap(6, 6)
	m.Set(1, 1, true)
	m.Set(2, 2, true)
	m.Set(3, 3, true)
	m.Set(5, 0, true)

	out := LargestComponent(m)
	if got := out.CountNonZero(); got != 3 {
		t.Errorf("diagonal chain: got %d pixels, want 3", got)
	}
	if out.Get(5, 0) {
		t.Error("isolated pixel survived")
	}
}

func TestDespeckle(t *testing.T) {
	m := grid.NewBinaryMap(20, 20)
	setRect(m, 1, 1, 3, 3)  // 4 px speckle
	setRect(m, 8, 8, 14, 14) // 36 px blob

	Despeckle(m, 10)
	if m.Get(1, 1) {
		t.Error("speckle below minimum area survived")
	}
	if !m.Get(10, 10) {
		t.Error("blob above minimum area removed")
	}
}
