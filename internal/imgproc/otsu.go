package imgproc

import "github.com/yasamoka/scantailor-universal/internal/grid"

// Histogram counts luminance values over the whole grid.
func Histogram(g *grid.Grid[uint8]) [256]int {
	var hist [256]int
	for y := 0; y < g.Height; y++ {
		for _, v := range g.Row(y) {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold computes the threshold maximizing between-class variance
// over a luminance histogram. Pixels with value <= threshold belong to the
// dark class. A histogram with fewer than two populated bins has no
// split to find and yields zero.
func OtsuThreshold(hist [256]int) uint8 {
	total := 0
	sum := 0.0
	for v, n := range hist {
		total += n
		sum += float64(v) * float64(n)
	}
	if total == 0 {
		return 0
	}

	best := 0
	bestVar := -1.0
	weightB := 0
	sumB := 0.0
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		diff := meanB - meanF
		between := float64(weightB) * float64(weightF) * diff * diff
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// BinarizeAbove returns a bitmap with bits set where the luminance is
// strictly greater than the threshold (the bright class).
func BinarizeAbove(g *grid.Grid[uint8], threshold uint8) *grid.BinaryMap {
	out := grid.NewBinaryMap(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x, v := range row {
			if v > threshold {
				out.Set(x, y, true)
			}
		}
	}
	return out
}
