package dewarp

import (
	"math"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// minPeakContrast is the smallest vertical ink contrast, in gray levels,
// a column neighborhood must show before its maximum counts as a ridge
// point. Flat neighborhoods produce no peak at all.
const minPeakContrast = 0.5

// blurAndFindPeaks produces the smoothed ink field and the ridge mask.
//
// The ink image (inverted luminance) is sheared so that text lines at the
// estimated skew angle become horizontal, blurred with a kernel elongated
// along the lines and narrow across them, and sheared back. Peaks are
// local per-column maxima of the sheared blurred field above a noise
// floor; a column position with no qualifying maximum contributes nothing
// to the mask, so gaps stay gaps instead of becoming weak ridge pixels.
func blurAndFindPeaks(work *grid.Grid[uint8], angle float64, backend Backend, params *Params) (*grid.Grid[float32], *grid.BinaryMap) {
	w, h := work.Width, work.Height
	shifts, shearedH := shearOffsets(w, h, angle)

	sheared := grid.New[float32](w, shearedH)
	for y := 0; y < h; y++ {
		row := work.Row(y)
		for x, v := range row {
			sheared.Data[(y+shifts[x])*sheared.Stride+x] = float32(255 - v)
		}
	}

	rx := int(params.BlurWidthFrac * float64(w))
	if rx < 4 {
		rx = 4
	}
	tmp := grid.New[float32](w, shearedH)
	// Three box passes approximate a Gaussian along the line direction.
	for pass := 0; pass < 3; pass++ {
		horizontalBoxBlur(backend, sheared, tmp, rx)
		sheared, tmp = tmp, sheared
	}
	if params.BlurVertRadius > 0 {
		verticalBoxBlur(backend, sheared, tmp, params.BlurVertRadius)
		sheared, tmp = tmp, sheared
	}

	blurred := grid.New[float32](w, h)
	for y := 0; y < h; y++ {
		dst := blurred.Row(y)
		for x := 0; x < w; x++ {
			dst[x] = sheared.Data[(y+shifts[x])*sheared.Stride+x]
		}
	}

	peaks := findPeaks(sheared, shifts, h, noiseFloor(blurred, params), params)
	return blurred, peaks
}

// shearOffsets computes, per column, the downward displacement that maps
// a line of slope tan(angle) onto a horizontal row, plus the height of
// the sheared field.
func shearOffsets(w, h int, angle float64) ([]int, int) {
	tan := math.Tan(angle)
	shifts := make([]int, w)
	minShift, maxShift := 0, 0
	for x := 0; x < w; x++ {
		s := -int(math.Round(float64(x) * tan))
		shifts[x] = s
		if s < minShift {
			minShift = s
		}
		if s > maxShift {
			maxShift = s
		}
	}
	for x := range shifts {
		shifts[x] -= minShift
	}
	return shifts, h + (maxShift - minShift)
}

// horizontalBoxBlur runs one clamped box pass of the given radius over
// every row, src to dst. Clamped normalization keeps uniform fields
// exactly uniform, so blurring introduces no phantom border ridges.
func horizontalBoxBlur(backend Backend, src, dst *grid.Grid[float32], radius int) {
	w := src.Width
	backend.Rows(src.Height, func(lo, hi int) {
		prefix := make([]float64, w+1)
		for y := lo; y < hi; y++ {
			in := src.Row(y)
			out := dst.Row(y)
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + float64(in[x])
			}
			for x := 0; x < w; x++ {
				x0 := x - radius
				if x0 < 0 {
					x0 = 0
				}
				x1 := x + radius + 1
				if x1 > w {
					x1 = w
				}
				out[x] = float32((prefix[x1] - prefix[x0]) / float64(x1-x0))
			}
		}
	})
}

// verticalBoxBlur is the transposed counterpart, sliced across columns.
func verticalBoxBlur(backend Backend, src, dst *grid.Grid[float32], radius int) {
	h := src.Height
	backend.Rows(src.Width, func(lo, hi int) {
		prefix := make([]float64, h+1)
		for x := lo; x < hi; x++ {
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + float64(src.Data[y*src.Stride+x])
			}
			for y := 0; y < h; y++ {
				y0 := y - radius
				if y0 < 0 {
					y0 = 0
				}
				y1 := y + radius + 1
				if y1 > h {
					y1 = h
				}
				dst.Data[y*dst.Stride+x] = float32((prefix[y1] - prefix[y0]) / float64(y1-y0))
			}
		}
	})
}

// noiseFloor derives the peak qualification threshold from the field's
// own statistics, so the detector adapts to exposure instead of relying
// on an absolute constant.
func noiseFloor(blurred *grid.Grid[float32], params *Params) float64 {
	n := blurred.Width * blurred.Height
	if n == 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for y := 0; y < blurred.Height; y++ {
		for _, v := range blurred.Row(y) {
			sum += float64(v)
		}
	}
	mean := sum / float64(n)
	variance := 0.0
	for y := 0; y < blurred.Height; y++ {
		for _, v := range blurred.Row(y) {
			d := float64(v) - mean
			variance += d * d
		}
	}
	return mean + params.PeakFloorFactor*math.Sqrt(variance/float64(n))
}

// findPeaks scans each sheared column for local maxima above the floor
// and writes them back into unsheared coordinates. A plateau of equal
// maxima contributes its first pixel only.
func findPeaks(sheared *grid.Grid[float32], shifts []int, origHeight int, floor float64, params *Params) *grid.BinaryMap {
	peaks := grid.NewBinaryMap(len(shifts), origHeight)
	window := params.PeakWindow
	if window < 1 {
		window = 1
	}

	h := sheared.Height
	for x := range shifts {
		for ys := 0; ys < h; ys++ {
			y := ys - shifts[x]
			if y < 0 || y >= origHeight {
				continue
			}
			v := float64(sheared.Data[ys*sheared.Stride+x])
			if v < floor {
				continue
			}
			if ys > 0 && float64(sheared.Data[(ys-1)*sheared.Stride+x]) >= v {
				continue
			}
			lo := ys - window
			if lo < 0 {
				lo = 0
			}
			hi := ys + window
			if hi > h-1 {
				hi = h - 1
			}
			winMax, winMin := v, v
			for yy := lo; yy <= hi; yy++ {
				nv := float64(sheared.Data[yy*sheared.Stride+x])
				if nv > winMax {
					winMax = nv
				}
				if nv < winMin {
					winMin = nv
				}
			}
			if winMax > v || winMax-winMin < minPeakContrast {
				continue
			}
			peaks.Set(x, y, true)
		}
	}
	return peaks
}
