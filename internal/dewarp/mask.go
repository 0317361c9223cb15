package dewarp

import (
	"github.com/anthonynsimon/bild/blur"

	"github.com/yasamoka/scantailor-universal/internal/grid"
	"github.com/yasamoka/scantailor-universal/internal/imgproc"
)

// suppressContent produces the "contentless" version of the working
// image: a grayscale morphological closing (max then min filter) with a
// window larger than a text line's thickness replaces ink strokes with
// the surrounding paper tone, then a mild Gaussian smooths the blocky
// filter output. What remains is the page-versus-background structure.
func suppressContent(work *grid.Grid[uint8], backend Backend, params *Params) *grid.Grid[uint8] {
	r := params.MaskCloseRadius
	if r < 1 {
		r = 1
	}
	closed := minFilter(maxFilter(work, r, backend), r, backend)
	if params.MaskBlurRadius > 0 {
		return imgproc.FromImage(blur.Gaussian(imgproc.ToImage(closed), params.MaskBlurRadius))
	}
	return closed
}

// calcPageMask derives the printed-content region from the contentless
// image: Otsu splits paper from background, small bright speckles are
// removed, and the largest bright component becomes the mask. An image
// that is a single flat tone has nothing to separate and masks in the
// whole frame.
func calcPageMask(contentless *grid.Grid[uint8], params *Params) *grid.BinaryMap {
	threshold := imgproc.OtsuThreshold(imgproc.Histogram(contentless))
	bright := imgproc.BinarizeAbove(contentless, threshold)
	imgproc.Despeckle(bright, params.MaskDespeckleArea)
	return imgproc.LargestComponent(bright)
}

// maskTextLines drops every line whose share of points inside the mask
// falls below params.MaskInsideFraction. Surviving lines pass through
// unchanged; a line straddling the mask edge is kept or dropped whole,
// never clipped, because partially-masked candidates are margin artifacts
// rather than real text.
func maskTextLines(lines []Polyline, mask *grid.BinaryMap, params *Params) []Polyline {
	kept := lines[:0]
	for _, poly := range lines {
		inside := 0
		for _, p := range poly {
			x, y := int(p.X), int(p.Y)
			if x >= 0 && x < mask.Width && y >= 0 && y < mask.Height && mask.Get(x, y) {
				inside++
			}
		}
		if float64(inside) >= params.MaskInsideFraction*float64(len(poly)) {
			kept = append(kept, poly)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// maxFilter runs a separable sliding-window maximum of the given radius,
// horizontal then vertical.
func maxFilter(src *grid.Grid[uint8], radius int, backend Backend) *grid.Grid[uint8] {
	return separableExtremum(src, radius, backend, func(a, b uint8) bool { return a > b })
}

// minFilter is the erosion counterpart of maxFilter.
func minFilter(src *grid.Grid[uint8], radius int, backend Backend) *grid.Grid[uint8] {
	return separableExtremum(src, radius, backend, func(a, b uint8) bool { return a < b })
}

func separableExtremum(src *grid.Grid[uint8], radius int, backend Backend, wins func(a, b uint8) bool) *grid.Grid[uint8] {
	w, h := src.Width, src.Height
	mid := grid.New[uint8](w, h)
	backend.Rows(h, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			in := src.Row(y)
			out := mid.Row(y)
			for x := 0; x < w; x++ {
				x0, x1 := x-radius, x+radius
				if x0 < 0 {
					x0 = 0
				}
				if x1 > w-1 {
					x1 = w - 1
				}
				best := in[x0]
				for xx := x0 + 1; xx <= x1; xx++ {
					if wins(in[xx], best) {
						best = in[xx]
					}
				}
				out[x] = best
			}
		}
	})

	dst := grid.New[uint8](w, h)
	backend.Rows(w, func(lo, hi int) {
		for x := lo; x < hi; x++ {
			for y := 0; y < h; y++ {
				y0, y1 := y-radius, y+radius
				if y0 < 0 {
					y0 = 0
				}
				if y1 > h-1 {
					y1 = h - 1
				}
				best := mid.Data[y0*mid.Stride+x]
				for yy := y0 + 1; yy <= y1; yy++ {
					if v := mid.Data[yy*mid.Stride+x]; wins(v, best) {
						best = v
					}
				}
				dst.Data[y*dst.Stride+x] = best
			}
		}
	})
	return dst
}
