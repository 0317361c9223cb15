package dewarp

import (
	"math"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// findSkewAngle estimates the dominant slant of text lines in the working
// image, in radians, positive for lines descending to the right.
//
// The estimate shears ink mass into horizontal projection bins for a range
// of candidate angles and scores each profile by its squared row-to-row
// contrast; text aligned with the shear produces sharp alternating bands
// and a high score. The search is coarse-to-fine (1 degree, then 0.1
// degree) and fully deterministic. When no candidate beats the neutral
// profile by a clear margin the image has no reliable orientation signal
// and zero is returned.
func findSkewAngle(work *grid.Grid[uint8], params *Params) float64 {
	const (
		coarseStep = 1.0 * math.Pi / 180
		fineStep   = 0.1 * math.Pi / 180
		margin     = 1.02
	)

	ink := inkField(work)
	if ink == nil {
		return 0
	}

	maxAngle := params.MaxSkewAngle
	neutral := shearScore(ink, 0)

	bestAngle := 0.0
	bestScore := neutral
	for a := -maxAngle; a <= maxAngle+1e-9; a += coarseStep {
		s := shearScore(ink, a)
		if better(s, a, bestScore, bestAngle) {
			bestScore, bestAngle = s, a
		}
	}

	lo := math.Max(-maxAngle, bestAngle-coarseStep)
	hi := math.Min(maxAngle, bestAngle+coarseStep)
	for a := lo; a <= hi+1e-9; a += fineStep {
		s := shearScore(ink, a)
		if better(s, a, bestScore, bestAngle) {
			bestScore, bestAngle = s, a
		}
	}

	if bestScore < neutral*margin {
		return 0
	}
	return bestAngle
}

// better prefers higher score, breaking near-ties toward the smaller
// absolute angle so the search never drifts on flat score plateaus.
func better(score, angle, bestScore, bestAngle float64) bool {
	if score > bestScore {
		return true
	}
	return score == bestScore && math.Abs(angle) < math.Abs(bestAngle)
}

// sampledInk holds the nonzero ink samples of the working image with
// their coordinates, so each candidate angle only touches pixels that
// actually carry mass.
type sampledInk struct {
	values []float32
	xs     []int
	ys     []int
	width  int
	height int
}

// inkField converts the working image to float ink mass (dark = high),
// sampled with a stride that bounds the per-angle cost on large images.
// It returns nil when the image carries no ink at all.
func inkField(work *grid.Grid[uint8]) *sampledInk {
	step := 1
	if work.Width*work.Height > 512*512 {
		step = 2
	}
	s := &sampledInk{width: work.Width, height: work.Height}
	total := 0.0
	for y := 0; y < work.Height; y += step {
		row := work.Row(y)
		for x := 0; x < work.Width; x += step {
			v := float32(255 - row[x])
			if v == 0 {
				continue
			}
			s.values = append(s.values, v)
			s.xs = append(s.xs, x)
			s.ys = append(s.ys, y)
			total += float64(v)
		}
	}
	if total == 0 {
		return nil
	}
	return s
}

// shearScore accumulates ink into rows sheared by the candidate angle and
// returns the squared difference between adjacent projection bins.
func shearScore(s *sampledInk, angle float64) float64 {
	tan := math.Tan(angle)
	span := int(math.Abs(tan)*float64(s.width)) + 1
	bins := make([]float64, s.height+2*span)

	for i, v := range s.values {
		bin := s.ys[i] - int(math.Round(float64(s.xs[i])*tan)) + span
		bins[bin] += float64(v)
	}

	score := 0.0
	for i := 1; i < len(bins); i++ {
		d := bins[i] - bins[i-1]
		score += d * d
	}
	return score
}
