package dewarp

import (
	"testing"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

func TestMaskTextLines(t *testing.T) {
	mask := grid.NewBinaryMap(100, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 50; x++ {
			mask.Set(x, y, true)
		}
	}

	inside := Polyline{{X: 5, Y: 10}, {X: 20, Y: 11}, {X: 45, Y: 10}}
	outside := Polyline{{X: 60, Y: 10}, {X: 80, Y: 11}, {X: 95, Y: 10}}
	straddling := Polyline{{X: 40, Y: 50}, {X: 45, Y: 50}, {X: 60, Y: 50}, {X: 70, Y: 50}}

	got := maskTextLines([]Polyline{inside, outside, straddling}, mask, DefaultParams())
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}

	// The retained inside line must be unchanged, not clipped.
	for i, p := range got[0] {
		if p != inside[i] {
			t.Errorf("inside line mutated at %d: got %v, want %v", i, p, inside[i])
		}
	}
	// The straddler meets the half-inside rule and is kept whole.
	if len(got[1]) != len(straddling) {
		t.Errorf("straddling line clipped: got %d points, want %d", len(got[1]), len(straddling))
	}
}

func TestMaskTextLinesDropsAll(t *testing.T) {
	mask := grid.NewBinaryMap(50, 50)
	lines := []Polyline{{{X: 10, Y: 10}, {X: 40, Y: 10}}}
	if got := maskTextLines(lines, mask, DefaultParams()); got != nil {
		t.Errorf("empty mask must drop every line, got %d", len(got))
	}
}

func TestMaskTextLinesOutOfRangePointsCountOutside(t *testing.T) {
	mask := grid.NewBinaryMap(20, 20)
	mask.Fill(true)
	lines := []Polyline{{{X: -5, Y: 10}, {X: -3, Y: 10}, {X: 2, Y: 10}}}
	got := maskTextLines(lines, mask, DefaultParams())
	if got != nil {
		t.Error("line mostly outside the mask frame must be dropped")
	}
}

func TestCalcPageMaskSeparatesPageFromBackground(t *testing.T) {
	// Bright page region on a dark scanner background, with a little
	// bright noise in the background that despeckling must remove.
	work := grid.New[uint8](120, 100)
	work.Fill(20)
	for y := 10; y < 90; y++ {
		row := work.Row(y)
		for x := 20; x < 100; x++ {
			row[x] = 230
		}
	}
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			work.Set(x, y, 230)
		}
	}

	params := DefaultParams()
	mask := calcPageMask(suppressContent(work, ReferenceBackend{}, params), params)

	if !mask.Get(60, 50) {
		t.Error("page center not in mask")
	}
	if mask.Get(3, 3) {
		t.Error("background speckle survived in mask")
	}
	if mask.Get(5, 95) {
		t.Error("dark background leaked into mask")
	}
}

func TestSuppressContentRemovesInk(t *testing.T) {
	work := grid.New[uint8](80, 80)
	work.Fill(240)
	// A 3px thick text stroke.
	for y := 40; y < 43; y++ {
		row := work.Row(y)
		for x := 10; x < 70; x++ {
			row[x] = 10
		}
	}

	params := DefaultParams()
	contentless := suppressContent(work, ReferenceBackend{}, params)
	if got := contentless.At(40, 41); got < 200 {
		t.Errorf("stroke not suppressed: value %d at its center", got)
	}
}
