package dewarp

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/yasamoka/scantailor-universal/internal/grid"
	"github.com/yasamoka/scantailor-universal/internal/imgproc"
)

// workingImage materializes the transformed, cropped and downscaled
// grayscale working image. It returns the working grid, a mapper from
// working coordinates back to original image coordinates, and the
// downscale factor. A crop polygon with no interior yields a nil grid,
// which the orchestrator reports as an empty result.
func workingImage(src AffineTransformedImage, params *Params) (*grid.Grid[uint8], func(Point) Point, error) {
	if src.Image == nil {
		return nil, nil, fmt.Errorf("nil source image")
	}
	inv, err := src.Transform.Invert()
	if err != nil {
		return nil, nil, fmt.Errorf("input transform: %w", err)
	}

	crop := src.Crop
	if len(crop) < 3 {
		crop = transformedCorners(src)
	}
	minX, minY, maxX, maxY := polygonBounds(crop)
	w := int(math.Ceil(maxX - minX))
	h := int(math.Ceil(maxY - minY))
	if w < 1 || h < 1 {
		return nil, nil, nil
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}
	m := f64.Aff3{
		src.Transform.A, src.Transform.B, src.Transform.C - minX,
		src.Transform.D, src.Transform.E, src.Transform.F - minY,
	}
	xdraw.ApproxBiLinear.Transform(dst, m, src.Image, src.Image.Bounds(), xdraw.Src, nil)

	whitenOutsideCrop(dst, crop, minX, minY)

	gray := imgproc.FromImage(dst)
	work, scale := imgproc.Downscale(gray, params.MaxWorkingSize)

	toOrig := func(p Point) Point {
		transformed := Point{
			X: p.X/scale + minX,
			Y: p.Y/scale + minY,
		}
		return inv.Apply(transformed)
	}
	return work, toOrig, nil
}

// whitenOutsideCrop fills everything outside the crop polygon with paper
// white so margins beyond the crop never contribute peaks. The polygon is
// rasterized once through a drawing context rather than per-pixel
// point-in-polygon tests.
func whitenOutsideCrop(dst *image.Gray, crop []Point, minX, minY float64) {
	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.MoveTo(crop[0].X-minX, crop[0].Y-minY)
	for _, p := range crop[1:] {
		dc.LineTo(p.X-minX, p.Y-minY)
	}
	dc.ClosePath()
	dc.SetRGB(1, 1, 1)
	dc.Fill()

	mask := dc.Image()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := mask.At(x, y).RGBA()
			if r == 0 {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
}

func transformedCorners(src AffineTransformedImage) []Point {
	b := src.Image.Bounds()
	corners := []Point{
		{X: float64(b.Min.X), Y: float64(b.Min.Y)},
		{X: float64(b.Max.X), Y: float64(b.Min.Y)},
		{X: float64(b.Max.X), Y: float64(b.Max.Y)},
		{X: float64(b.Min.X), Y: float64(b.Max.Y)},
	}
	out := make([]Point, len(corners))
	for i, c := range corners {
		out[i] = src.Transform.Apply(c)
	}
	return out
}

func polygonBounds(poly []Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
