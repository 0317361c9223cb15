package dewarp

import (
	"math"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// initialSegmentation labels 8-connected components of the peak mask.
//
// Labeling runs in raster order, so for every peak pixel only the four
// already-visited neighbors (NW, N, NE, W) can carry labels. A pixel
// touching labels of more than one component is assigned to the component
// whose blurred-field value at the touching neighbor is closest to the
// pixel's own value, falling back to the stronger neighbor on equal
// distance. Components are never merged here: two candidate lines that
// touch keep distinct labels, and Y-shaped branches within one label are
// legitimate output. Both conditions are resolved by makePathsUnique.
func initialSegmentation(blurred *grid.Grid[float32], peaks *grid.BinaryMap) *grid.ConnMap {
	cmap := grid.NewConnMap(peaks.Width, peaks.Height)

	type neighbor struct{ dx, dy int }
	visited := [4]neighbor{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}}

	for y := 0; y < peaks.Height; y++ {
		for x := 0; x < peaks.Width; x++ {
			if !peaks.Get(x, y) {
				continue
			}
			own := float64(blurred.At(x, y))

			var (
				best     int32
				bestDist = math.Inf(1)
				bestVal  = math.Inf(-1)
			)
			for _, n := range visited {
				nx, ny := x+n.dx, y+n.dy
				lbl := cmap.Label(nx, ny)
				if lbl == 0 {
					continue
				}
				val := float64(blurred.At(nx, ny))
				dist := math.Abs(val - own)
				if dist < bestDist || (dist == bestDist && val > bestVal) {
					best, bestDist, bestVal = lbl, dist, val
				}
			}
			if best == 0 {
				best = cmap.NextLabel()
			}
			cmap.SetLabel(x, y, best)
		}
	}
	return cmap
}
