package dewarp

import (
	"math"
	"sort"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// refineSegmentation turns the repaired connectivity map into ordered
// polylines, oriented left to right, with degenerate candidates dropped
// and every line trimmed to the detected left/right content bounds.
func refineSegmentation(cmap *grid.ConnMap, params *Params) (lines []Polyline, left, right Line, hasBounds bool) {
	for _, pixels := range collectLabelPixels(cmap) {
		poly := walkPath(cmap, pixels)
		if len(poly) < params.MinLinePoints {
			continue
		}
		chord := Line{P1: poly[0], P2: poly[len(poly)-1]}
		if chord.Length() < params.MinChordLength {
			continue
		}
		if poly[0].X > poly[len(poly)-1].X {
			for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
				poly[i], poly[j] = poly[j], poly[i]
			}
		}
		lines = append(lines, poly)
	}
	if len(lines) == 0 {
		return nil, Line{}, Line{}, false
	}

	leftX := findVerticalBound(lines, false, params.BoundClusterTol)
	rightX := findVerticalBound(lines, true, params.BoundClusterTol)

	trimmed := lines[:0]
	for _, poly := range lines {
		clipped := clipToBounds(poly, leftX, rightX)
		if len(clipped) >= 2 {
			trimmed = append(trimmed, clipped)
		}
	}
	lines = trimmed
	if len(lines) == 0 {
		return nil, Line{}, Line{}, false
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, poly := range lines {
		for _, p := range []Point{poly[0], poly[len(poly)-1]} {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	left = Line{P1: Point{X: leftX, Y: minY}, P2: Point{X: leftX, Y: maxY}}
	right = Line{P1: Point{X: rightX, Y: minY}, P2: Point{X: rightX, Y: maxY}}
	return lines, left, right, true
}

// walkPath orders a label's pixels by walking its simple path from one
// degree-1 endpoint to the other. Pixel centers become polyline points.
// Isolated pixels and (unexpected) non-path shapes yield a short result
// that the caller discards as degenerate.
func walkPath(cmap *grid.ConnMap, pixels []int) Polyline {
	if len(pixels) == 0 {
		return nil
	}
	data := cmap.Data()
	neighbors := cmap.Neighbors8()
	lbl := data[pixels[0]]

	sameLabel := func(off int) []int {
		var out []int
		for _, d := range neighbors {
			if data[off+d] == lbl {
				out = append(out, off+d)
			}
		}
		return out
	}

	start := -1
	for _, off := range pixels {
		if len(sameLabel(off)) <= 1 {
			start = off
			break
		}
	}
	if start == -1 {
		return nil
	}

	poly := make(Polyline, 0, len(pixels))
	prev := -1
	for at := start; at != -1; {
		x, y := cmap.CoordOf(at)
		poly = append(poly, Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
		next := -1
		for _, n := range sameLabel(at) {
			if n != prev {
				next = n
				break
			}
		}
		prev, at = at, next
	}
	return poly
}

// findVerticalBound locates the left (rightSide=false) or right content
// boundary from the respective line endpoints. Endpoints are clustered
// along X with the given tolerance; the cluster containing the most
// endpoints wins and its extreme member becomes the bound, so isolated
// outlier endpoints cannot drag the boundary into margin noise. Ties go
// to the first maximal cluster in sorted order.
func findVerticalBound(lines []Polyline, rightSide bool, tol float64) float64 {
	xs := make([]float64, len(lines))
	for i, poly := range lines {
		if rightSide {
			xs[i] = poly[len(poly)-1].X
		} else {
			xs[i] = poly[0].X
		}
	}
	sort.Float64s(xs)

	bestLo, bestCount := 0, 0
	for lo, hi := 0, 0; lo < len(xs); lo++ {
		if hi < lo {
			hi = lo
		}
		for hi < len(xs) && xs[hi]-xs[lo] <= 2*tol {
			hi++
		}
		if hi-lo > bestCount {
			bestLo, bestCount = lo, hi-lo
		}
	}

	if rightSide {
		return xs[bestLo+bestCount-1]
	}
	return xs[bestLo]
}

// clipToBounds drops polyline points outside [leftX, rightX], inserting
// interpolated points exactly on a crossed bound. Lines already within
// the bounds come back unchanged.
func clipToBounds(poly Polyline, leftX, rightX float64) Polyline {
	out := make(Polyline, 0, len(poly))
	inside := func(p Point) bool { return p.X >= leftX && p.X <= rightX }

	for i, p := range poly {
		if inside(p) {
			if i > 0 && !inside(poly[i-1]) {
				if cross, ok := boundCrossing(poly[i-1], p, leftX, rightX); ok {
					out = append(out, cross)
				}
			}
			out = append(out, p)
			continue
		}
		if i > 0 && inside(poly[i-1]) {
			if cross, ok := boundCrossing(poly[i-1], p, leftX, rightX); ok {
				out = append(out, cross)
			}
		}
	}
	return out
}

// boundCrossing interpolates the point where segment a-b crosses the
// nearer of the two vertical bounds.
func boundCrossing(a, b Point, leftX, rightX float64) (Point, bool) {
	for _, bx := range []float64{leftX, rightX} {
		if (a.X-bx)*(b.X-bx) > 0 {
			continue
		}
		if a.X == b.X {
			return Point{}, false
		}
		t := (bx - a.X) / (b.X - a.X)
		return Point{X: bx, Y: a.Y + t*(b.Y-a.Y)}, true
	}
	return Point{}, false
}
