package dewarp

import (
	"math"
	"testing"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// pathMap lays out one simple path per entry on a fresh connectivity map.
func pathMap(t *testing.T, w, h int, paths ...[][2]int) *grid.ConnMap {
	t.Helper()
	cmap := grid.NewConnMap(w, h)
	for i, path := range paths {
		for _, p := range path {
			cmap.SetLabel(p[0], p[1], int32(i+1))
		}
	}
	return cmap
}

func horizontalPath(y, x0, x1 int) [][2]int {
	var out [][2]int
	for x := x0; x <= x1; x++ {
		out = append(out, [2]int{x, y})
	}
	return out
}

func TestWalkPathOrdersEndToEnd(t *testing.T) {
	// A staircase path entered from its middle pixel listing.
	path := [][2]int{{2, 5}, {3, 5}, {4, 4}, {5, 4}, {6, 3}}
	cmap := pathMap(t, 10, 10, path)

	poly := walkPath(cmap, offsetsOf(cmap, path))
	if len(poly) != len(path) {
		t.Fatalf("length: got %d, want %d", len(poly), len(path))
	}
	for i := 1; i < len(poly); i++ {
		dx := math.Abs(poly[i].X - poly[i-1].X)
		dy := math.Abs(poly[i].Y - poly[i-1].Y)
		if dx > 1 || dy > 1 {
			t.Errorf("points %d and %d not adjacent: %v -> %v", i-1, i, poly[i-1], poly[i])
		}
	}
	first, last := poly[0], poly[len(poly)-1]
	if math.Abs(first.X-last.X) != 4 {
		t.Errorf("endpoints %v and %v do not span the path", first, last)
	}
}

func offsetsOf(cmap *grid.ConnMap, path [][2]int) []int {
	out := make([]int, len(path))
	for i, p := range path {
		out[i] = cmap.OffsetOf(p[0], p[1])
	}
	return out
}

func TestRefineDropsDegenerates(t *testing.T) {
	cmap := pathMap(t, 40, 20,
		horizontalPath(3, 5, 30), // real line
		[][2]int{{10, 10}},       // isolated pixel
		[][2]int{{10, 15}, {11, 15}}, // too short
	)

	lines, _, _, hasBounds := refineSegmentation(cmap, DefaultParams())
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !hasBounds {
		t.Error("expected bounds from the surviving line")
	}
}

func TestRefineOrientsLeftToRight(t *testing.T) {
	cmap := pathMap(t, 40, 10, horizontalPath(4, 6, 28))
	lines, _, _, _ := refineSegmentation(cmap, DefaultParams())
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	poly := lines[0]
	if poly[0].X >= poly[len(poly)-1].X {
		t.Errorf("polyline not left-to-right: first %v, last %v", poly[0], poly[len(poly)-1])
	}
}

func TestFindVerticalBoundIgnoresOutliers(t *testing.T) {
	lines := []Polyline{
		{{X: 2, Y: 10}, {X: 50, Y: 10}},  // outlier reaching into the margin
		{{X: 3, Y: 20}, {X: 50, Y: 20}},  // outlier
		{{X: 20, Y: 30}, {X: 50, Y: 30}},
		{{X: 21, Y: 40}, {X: 50, Y: 40}},
		{{X: 22, Y: 50}, {X: 50, Y: 50}},
		{{X: 20, Y: 60}, {X: 50, Y: 60}},
	}
	got := findVerticalBound(lines, false, 3)
	if got != 20 {
		t.Errorf("left bound: got %g, want 20 (majority cluster minimum)", got)
	}

	right := findVerticalBound(lines, true, 3)
	if right != 50 {
		t.Errorf("right bound: got %g, want 50", right)
	}
}

func TestClipToBounds(t *testing.T) {
	tests := []struct {
		name      string
		poly      Polyline
		wantFirst Point
		wantLast  Point
		wantSame  bool
	}{
		{
			name:     "inside stays unchanged",
			poly:     Polyline{{X: 10, Y: 5}, {X: 20, Y: 6}, {X: 30, Y: 5}},
			wantSame: true,
		},
		{
			name:      "left overhang trimmed",
			poly:      Polyline{{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 30, Y: 10}},
			wantFirst: Point{X: 5, Y: 10},
			wantLast:  Point{X: 30, Y: 10},
		},
		{
			name:      "both overhangs trimmed with interpolation",
			poly:      Polyline{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 30, Y: 10}, {X: 40, Y: 20}},
			wantFirst: Point{X: 5, Y: 5},
			wantLast:  Point{X: 35, Y: 15},
		},
	}
	const leftX, rightX = 5.0, 35.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipToBounds(tt.poly, leftX, rightX)
			if tt.wantSame {
				if len(got) != len(tt.poly) {
					t.Fatalf("length changed: got %d, want %d", len(got), len(tt.poly))
				}
				for i := range got {
					if got[i] != tt.poly[i] {
						t.Errorf("point %d changed: got %v, want %v", i, got[i], tt.poly[i])
					}
				}
				return
			}
			if len(got) < 2 {
				t.Fatalf("clipped to %d points", len(got))
			}
			if !closePoints(got[0], tt.wantFirst) {
				t.Errorf("first point: got %v, want %v", got[0], tt.wantFirst)
			}
			if !closePoints(got[len(got)-1], tt.wantLast) {
				t.Errorf("last point: got %v, want %v", got[len(got)-1], tt.wantLast)
			}
			for _, p := range got {
				if p.X < leftX-1e-9 || p.X > rightX+1e-9 {
					t.Errorf("point %v outside bounds [%g,%g]", p, leftX, rightX)
				}
			}
		})
	}
}

func closePoints(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRefineTrimsOnlyOutliers(t *testing.T) {
	params := DefaultParams()
	params.BoundClusterTol = 3

	consistent := [][][2]int{
		horizontalPath(5, 20, 60),
		horizontalPath(15, 21, 61),
		horizontalPath(25, 20, 60),
		horizontalPath(35, 22, 59),
	}
	outliers := [][][2]int{
		horizontalPath(45, 2, 60), // bleeds into the left margin
		horizontalPath(55, 20, 78), // bleeds into the right margin
	}

	cmap := pathMap(t, 80, 70, append(consistent, outliers...)...)
	lines, left, right, hasBounds := refineSegmentation(cmap, params)
	if !hasBounds {
		t.Fatal("no bounds computed")
	}
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}

	for _, poly := range lines {
		for _, p := range poly {
			if p.X < left.P1.X-1e-9 || p.X > right.P1.X+1e-9 {
				t.Errorf("point %v outside bounds [%g,%g]", p, left.P1.X, right.P1.X)
			}
		}
	}

	// The consistent majority keeps its full extent.
	for _, poly := range lines {
		y := poly[0].Y
		if y == 5.5 || y == 25.5 {
			if poly[0].X != 20.5 || poly[len(poly)-1].X != 60.5 {
				t.Errorf("consistent line at y=%g was trimmed: [%g,%g]",
					y, poly[0].X, poly[len(poly)-1].X)
			}
		}
		if y == 45.5 && poly[0].X < 20 {
			t.Errorf("left outlier not trimmed: starts at %g", poly[0].X)
		}
		if y == 55.5 && poly[len(poly)-1].X > 62 {
			t.Errorf("right outlier not trimmed: ends at %g", poly[len(poly)-1].X)
		}
	}
}
