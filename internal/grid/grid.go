package grid

import "fmt"

// Number constrains the element types a Grid can hold.
type Number interface {
	~uint8 | ~int32 | ~int | ~float32 | ~float64
}

// Grid is a dense 2D field of numeric values.
//
// Data holds Height rows of Stride elements each; only the first Width
// elements of every row are part of the field. Stride >= Width always
// holds. The zero value is not usable; construct with New or SubGrid.
type Grid[T Number] struct {
	Data   []T
	Width  int
	Height int
	Stride int
}

// New allocates a zero-filled Width x Height grid with Stride == Width.
func New[T Number](width, height int) *Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	return &Grid[T]{
		Data:   make([]T, width*height),
		Width:  width,
		Height: height,
		Stride: width,
	}
}

// At returns the value at (x, y). It panics if the coordinates are out of
// bounds.
func (g *Grid[T]) At(x, y int) T {
	g.check(x, y)
	return g.Data[y*g.Stride+x]
}

// Set stores v at (x, y). It panics if the coordinates are out of bounds.
func (g *Grid[T]) Set(x, y int, v T) {
	g.check(x, y)
	g.Data[y*g.Stride+x] = v
}

// Contains reports whether (x, y) lies within the field.
func (g *Grid[T]) Contains(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Row returns the live slice backing row y, trimmed to Width elements.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.Height {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", y, g.Height))
	}
	off := y * g.Stride
	return g.Data[off : off+g.Width : off+g.Width]
}

// SubGrid returns a view of the rectangle (x0,y0)-(x0+w,y0+h) sharing the
// receiver's backing slice. Mutations through the view are visible in the
// parent.
func (g *Grid[T]) SubGrid(x0, y0, w, h int) *Grid[T] {
	if x0 < 0 || y0 < 0 || w < 0 || h < 0 || x0+w > g.Width || y0+h > g.Height {
		panic(fmt.Sprintf("grid: sub-grid (%d,%d %dx%d) outside %dx%d",
			x0, y0, w, h, g.Width, g.Height))
	}
	off := y0*g.Stride + x0
	return &Grid[T]{
		Data:   g.Data[off:],
		Width:  w,
		Height: h,
		Stride: g.Stride,
	}
}

// Clone returns a deep copy with a compact stride.
func (g *Grid[T]) Clone() *Grid[T] {
	out := New[T](g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		copy(out.Row(y), g.Row(y))
	}
	return out
}

// Fill sets every pixel of the field to v. Padding bytes between rows are
// left untouched.
func (g *Grid[T]) Fill(v T) {
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

func (g *Grid[T]) check(x, y int) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		panic(fmt.Sprintf("grid: access (%d,%d) outside %dx%d", x, y, g.Width, g.Height))
	}
}
