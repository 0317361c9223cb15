package grid

import "fmt"

// ConnMap is a labeled connectivity field. Labels are positive int32
// values; 0 is background. The backing slice carries a one-pixel zero
// border on all four sides, so 8-neighbor offset arithmetic over Data()
// never reads outside the allocation and the border itself always reads
// as background.
type ConnMap struct {
	data     []int32
	Width    int
	Height   int
	stride   int // padded row length, Width+2
	maxLabel int32
}

// NewConnMap allocates an all-background Width x Height label field.
func NewConnMap(width, height int) *ConnMap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	stride := width + 2
	return &ConnMap{
		data:   make([]int32, stride*(height+2)),
		Width:  width,
		Height: height,
		stride: stride,
	}
}

// Label returns the label at (x, y). Coordinates one pixel outside the
// field are legal and read as background; anything further out panics.
func (m *ConnMap) Label(x, y int) int32 {
	if x < -1 || x > m.Width || y < -1 || y > m.Height {
		panic(fmt.Sprintf("connmap: access (%d,%d) outside %dx%d", x, y, m.Width, m.Height))
	}
	return m.data[m.OffsetOf(x, y)]
}

// SetLabel stores label v at (x, y). The border is not writable.
func (m *ConnMap) SetLabel(x, y int, v int32) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		panic(fmt.Sprintf("connmap: access (%d,%d) outside %dx%d", x, y, m.Width, m.Height))
	}
	m.data[m.OffsetOf(x, y)] = v
	if v > m.maxLabel {
		m.maxLabel = v
	}
}

// Data exposes the padded backing slice for offset-arithmetic loops.
func (m *ConnMap) Data() []int32 {
	return m.data
}

// OffsetOf converts field coordinates into an index into Data().
func (m *ConnMap) OffsetOf(x, y int) int {
	return (y+1)*m.stride + (x + 1)
}

// CoordOf is the inverse of OffsetOf.
func (m *ConnMap) CoordOf(off int) (x, y int) {
	return off%m.stride - 1, off/m.stride - 1
}

// Neighbors8 returns the Data() index deltas of the eight neighbors, in
// raster order (NW, N, NE, W, E, SW, S, SE).
func (m *ConnMap) Neighbors8() [8]int {
	s := m.stride
	return [8]int{-s - 1, -s, -s + 1, -1, 1, s - 1, s, s + 1}
}

// MaxLabel returns the highest label ever stored. It is not decremented
// when labels are erased.
func (m *ConnMap) MaxLabel() int32 {
	return m.maxLabel
}

// NextLabel reserves and returns a fresh, previously unused label.
func (m *ConnMap) NextLabel() int32 {
	m.maxLabel++
	return m.maxLabel
}

// Clone returns a deep copy of the label field.
func (m *ConnMap) Clone() *ConnMap {
	out := NewConnMap(m.Width, m.Height)
	copy(out.data, m.data)
	out.maxLabel = m.maxLabel
	return out
}
