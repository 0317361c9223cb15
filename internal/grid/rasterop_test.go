package grid

import (
	"errors"
	"testing"
)

func TestForEach(t *testing.T) {
	g := New[int32](3, 2)
	ForEach(g, func(v int32) int32 { return v + 2 })
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) != 2 {
				t.Fatalf("At(%d,%d): got %d, want 2", x, y, g.At(x, y))
			}
		}
	}
}

func TestForEachXYVisitsRowMajor(t *testing.T) {
	g := New[int32](3, 2)
	var visits [][2]int
	ForEachXY(g, func(x, y int, v int32) int32 {
		visits = append(visits, [2]int{x, y})
		return int32(y*3 + x)
	})

	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(visits) != len(want) {
		t.Fatalf("visit count: got %d, want %d", len(visits), len(want))
	}
	for i, v := range visits {
		if v != want[i] {
			t.Fatalf("visit %d: got %v, want %v", i, v, want[i])
		}
	}
	if g.At(2, 1) != 5 {
		t.Errorf("At(2,1): got %d, want 5", g.At(2, 1))
	}
}

func TestForEachPair(t *testing.T) {
	a := New[uint8](2, 2)
	b := New[float32](2, 2)
	a.Fill(10)

	err := ForEachPair(a, b, func(av uint8, bv float32) (uint8, float32) {
		return av + 1, float32(av) * 2
	})
	if err != nil {
		t.Fatalf("ForEachPair: %v", err)
	}
	if a.At(0, 0) != 11 {
		t.Errorf("a At(0,0): got %d, want 11", a.At(0, 0))
	}
	if b.At(1, 1) != 20 {
		t.Errorf("b At(1,1): got %g, want 20", b.At(1, 1))
	}
}

func TestForEachPairSizeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		w2, h2 int
	}{
		{"narrower", 2, 3},
		{"shorter", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New[uint8](3, 3)
			b := New[uint8](tt.w2, tt.h2)
			err := ForEachPair(a, b, func(av, bv uint8) (uint8, uint8) { return av, bv })
			if !errors.Is(err, ErrSizeMismatch) {
				t.Errorf("got %v, want ErrSizeMismatch", err)
			}
		})
	}
}

func TestForEachTripleSizeMismatch(t *testing.T) {
	a := New[uint8](3, 3)
	b := New[uint8](3, 3)
	c := New[uint8](3, 4)
	err := ForEachTriple(a, b, c, func(av, bv, cv uint8) (uint8, uint8, uint8) {
		return av, bv, cv
	})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
}

func TestForEachBinPair(t *testing.T) {
	bm := NewBinaryMap(3, 3)
	g := New[uint8](3, 3)
	g.Set(1, 1, 200)

	err := ForEachBinPair(bm, g, func(bit bool, v uint8) (bool, uint8) {
		return v > 100, v
	})
	if err != nil {
		t.Fatalf("ForEachBinPair: %v", err)
	}
	if !bm.Get(1, 1) {
		t.Error("bit not set where value exceeds threshold")
	}
	if got := bm.CountNonZero(); got != 1 {
		t.Errorf("CountNonZero: got %d, want 1", got)
	}

	small := New[uint8](2, 3)
	if err := ForEachBinPair(bm, small, func(bit bool, v uint8) (bool, uint8) { return bit, v }); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
}
