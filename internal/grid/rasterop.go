package grid

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned by the paired and triple traversal forms when
// the fields disagree on width or height. It indicates a wiring bug in the
// caller; correct pipeline code never triggers it.
var ErrSizeMismatch = errors.New("grid: size mismatch")

// ForEach applies op to every pixel of g in row-major order, storing the
// returned value back into the field.
func ForEach[T Number](g *Grid[T], op func(v T) T) {
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x, v := range row {
			row[x] = op(v)
		}
	}
}

// ForEachXY is ForEach with the pixel coordinates passed to op.
func ForEachXY[T Number](g *Grid[T], op func(x, y int, v T) T) {
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x, v := range row {
			row[x] = op(x, y, v)
		}
	}
}

// ForEachPair applies op to corresponding pixels of a and b in row-major
// order. The values returned by op are stored back into the respective
// fields.
func ForEachPair[A, B Number](a *Grid[A], b *Grid[B], op func(av A, bv B) (A, B)) error {
	if err := sameSize(a.Width, a.Height, b.Width, b.Height); err != nil {
		return err
	}
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)
		for x := range ra {
			ra[x], rb[x] = op(ra[x], rb[x])
		}
	}
	return nil
}

// ForEachPairXY is ForEachPair with the pixel coordinates passed to op.
func ForEachPairXY[A, B Number](a *Grid[A], b *Grid[B], op func(x, y int, av A, bv B) (A, B)) error {
	if err := sameSize(a.Width, a.Height, b.Width, b.Height); err != nil {
		return err
	}
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)
		for x := range ra {
			ra[x], rb[x] = op(x, y, ra[x], rb[x])
		}
	}
	return nil
}

// ForEachTriple applies op to corresponding pixels of three same-shape
// fields in row-major order.
func ForEachTriple[A, B, C Number](a *Grid[A], b *Grid[B], c *Grid[C], op func(av A, bv B, cv C) (A, B, C)) error {
	if err := sameSize(a.Width, a.Height, b.Width, b.Height); err != nil {
		return err
	}
	if err := sameSize(a.Width, a.Height, c.Width, c.Height); err != nil {
		return err
	}
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)
		rc := c.Row(y)
		for x := range ra {
			ra[x], rb[x], rc[x] = op(ra[x], rb[x], rc[x])
		}
	}
	return nil
}

// ForEachBinPair applies op to every (bit, value) pair of a packed bitmap
// and a same-shape grid. The returned bit and value are stored back.
func ForEachBinPair[T Number](bm *BinaryMap, g *Grid[T], op func(bit bool, v T) (bool, T)) error {
	if err := sameSize(bm.Width, bm.Height, g.Width, g.Height); err != nil {
		return err
	}
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x := range row {
			bit, v := op(bm.Get(x, y), row[x])
			bm.Set(x, y, bit)
			row[x] = v
		}
	}
	return nil
}

// ForEachBinPairXY is ForEachBinPair with the pixel coordinates passed to
// op.
func ForEachBinPairXY[T Number](bm *BinaryMap, g *Grid[T], op func(x, y int, bit bool, v T) (bool, T)) error {
	if err := sameSize(bm.Width, bm.Height, g.Width, g.Height); err != nil {
		return err
	}
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x := range row {
			bit, v := op(x, y, bm.Get(x, y), row[x])
			bm.Set(x, y, bit)
			row[x] = v
		}
	}
	return nil
}

func sameSize(w1, h1, w2, h2 int) error {
	if w1 != w2 || h1 != h2 {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, w1, h1, w2, h2)
	}
	return nil
}
