package imgproc

import "github.com/yasamoka/scantailor-universal/internal/grid"

// LargestComponent returns a bitmap containing only the largest
// 8-connected component of set pixels. An empty input yields an empty
// output. Ties are broken toward the component encountered first in
// raster order, keeping the result deterministic.
func LargestComponent(m *grid.BinaryMap) *grid.BinaryMap {
	labels, sizes := labelComponents(m)
	best := int32(0)
	bestSize := 0
	for lbl := int32(1); lbl <= labels.MaxLabel(); lbl++ {
		if sizes[lbl] > bestSize {
			bestSize = sizes[lbl]
			best = lbl
		}
	}

	out := grid.NewBinaryMap(m.Width, m.Height)
	if best == 0 {
		return out
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if labels.Label(x, y) == best {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Despeckle clears every 8-connected component of set pixels whose area is
// below minArea, in place.
func Despeckle(m *grid.BinaryMap, minArea int) {
	if minArea <= 1 {
		return
	}
	labels, sizes := labelComponents(m)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			lbl := labels.Label(x, y)
			if lbl != 0 && sizes[lbl] < minArea {
				m.Set(x, y, false)
			}
		}
	}
}

// labelComponents assigns a label to every 8-connected component of set
// pixels and returns per-label pixel counts indexed by label.
func labelComponents(m *grid.BinaryMap) (*grid.ConnMap, []int) {
	labels := grid.NewConnMap(m.Width, m.Height)
	sizes := []int{0}

	var stack [][2]int
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Get(x, y) || labels.Label(x, y) != 0 {
				continue
			}
			lbl := labels.NextLabel()
			sizes = append(sizes, 0)
			stack = stack[:0]
			stack = append(stack, [2]int{x, y})
			labels.SetLabel(x, y, lbl)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				sizes[lbl]++
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p[0]+dx, p[1]+dy
						if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
							continue
						}
						if m.Get(nx, ny) && labels.Label(nx, ny) == 0 {
							labels.SetLabel(nx, ny, lbl)
							stack = append(stack, [2]int{nx, ny})
						}
					}
				}
			}
		}
	}
	return labels, sizes
}
