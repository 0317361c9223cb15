package grid

import (
	"fmt"
	"math/bits"
)

const wordBits = 64

// BinaryMap is a dense bitmap packed 64 pixels per word. Rows are aligned
// to whole words; WordsPerLine plays the role of a stride expressed in
// words rather than pixels.
type BinaryMap struct {
	Words        []uint64
	Width        int
	Height       int
	WordsPerLine int
}

// NewBinaryMap allocates an all-zero Width x Height bitmap.
func NewBinaryMap(width, height int) *BinaryMap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	wpl := (width + wordBits - 1) / wordBits
	return &BinaryMap{
		Words:        make([]uint64, wpl*height),
		Width:        width,
		Height:       height,
		WordsPerLine: wpl,
	}
}

// Get returns the bit at (x, y). It panics if the coordinates are out of
// bounds.
func (m *BinaryMap) Get(x, y int) bool {
	m.check(x, y)
	w := m.Words[y*m.WordsPerLine+x/wordBits]
	return w&(1<<uint(x%wordBits)) != 0
}

// Set stores bit v at (x, y). It panics if the coordinates are out of
// bounds.
func (m *BinaryMap) Set(x, y int, v bool) {
	m.check(x, y)
	idx := y*m.WordsPerLine + x/wordBits
	mask := uint64(1) << uint(x%wordBits)
	if v {
		m.Words[idx] |= mask
	} else {
		m.Words[idx] &^= mask
	}
}

// Fill sets every pixel to v. Padding bits beyond Width are kept zero so
// that CountNonZero stays exact.
func (m *BinaryMap) Fill(v bool) {
	if !v {
		for i := range m.Words {
			m.Words[i] = 0
		}
		return
	}
	full := ^uint64(0)
	lastBits := m.Width % wordBits
	lastMask := full
	if lastBits != 0 {
		lastMask = full >> uint(wordBits-lastBits)
	}
	for y := 0; y < m.Height; y++ {
		row := m.Words[y*m.WordsPerLine : (y+1)*m.WordsPerLine]
		for i := range row {
			row[i] = full
		}
		row[len(row)-1] = lastMask
	}
}

// CountNonZero returns the number of set pixels.
func (m *BinaryMap) CountNonZero() int {
	n := 0
	for _, w := range m.Words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns a deep copy of the bitmap.
func (m *BinaryMap) Clone() *BinaryMap {
	out := NewBinaryMap(m.Width, m.Height)
	copy(out.Words, m.Words)
	return out
}

func (m *BinaryMap) check(x, y int) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		panic(fmt.Sprintf("grid: access (%d,%d) outside %dx%d", x, y, m.Width, m.Height))
	}
}
