package imgproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// FromImage converts any image to a luminance grid using ITU-R BT.601
// weights (0.299 R + 0.587 G + 0.114 B), matching the usual scanned-page
// grayscale convention.
func FromImage(img image.Image) *grid.Grid[uint8] {
	b := img.Bounds()
	out := grid.New[uint8](b.Dx(), b.Dy())

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < out.Height; y++ {
			src := g.Pix[y*g.Stride : y*g.Stride+out.Width]
			copy(out.Row(y), src)
		}
		return out
	}

	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for x := 0; x < out.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
			row[x] = uint8(lum)
		}
	}
	return out
}

// ToImage converts a luminance grid back to an *image.Gray.
func ToImage(g *grid.Grid[uint8]) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+g.Width], g.Row(y))
	}
	return out
}

// BinaryToImage renders a bitmap as a black-on-white *image.Gray, set bits
// drawn black.
func BinaryToImage(m *grid.BinaryMap) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := color.Gray{Y: 255}
			if m.Get(x, y) {
				c.Y = 0
			}
			out.SetGray(x, y, c)
		}
	}
	return out
}

// Downscale resizes a luminance grid so that its longest side does not
// exceed maxSide, preserving aspect ratio. Images already within the limit
// are returned as a copy at scale 1. The second return value is the
// downscale factor (new size / old size).
func Downscale(g *grid.Grid[uint8], maxSide int) (*grid.Grid[uint8], float64) {
	longest := g.Width
	if g.Height > longest {
		longest = g.Height
	}
	if longest <= maxSide || longest == 0 {
		return g.Clone(), 1.0
	}
	scale := float64(maxSide) / float64(longest)
	w := int(float64(g.Width)*scale + 0.5)
	h := int(float64(g.Height)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	resized := imaging.Resize(ToImage(g), w, h, imaging.Box)
	return FromImage(resized), scale
}

// Invert flips a luminance grid in place, turning dark ink into high
// values.
func Invert(g *grid.Grid[uint8]) {
	grid.ForEach(g, func(v uint8) uint8 { return 255 - v })
}
