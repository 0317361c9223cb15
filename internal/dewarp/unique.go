package dewarp

import (
	"sort"

	"github.com/yasamoka/scantailor-universal/internal/grid"
)

// makePathsUnique repairs the raw connectivity map in place so that every
// surviving label forms a simple 8-connected path: two degree-1 endpoints
// with interior pixels of degree 2, or a single isolated pixel.
//
// Three conditions are resolved, always keeping the side with the higher
// blurred-field support and falling back to size only on exact ties:
//
//  1. Pixels of two different labels touching: the weaker pixel of each
//     touching pair is erased, separating the components.
//  2. A label split into disconnected fragments (possible after the
//     separation step): only the strongest fragment survives.
//  3. Branches and cycles within one component: the component is reduced
//     to its trunk, the leaf-to-leaf path maximizing accumulated field
//     value over a maximum spanning tree, and finally compressed so that
//     no two non-consecutive trunk pixels touch.
//
// A map already consisting of simple paths is a fixed point of this
// function.
func makePathsUnique(cmap *grid.ConnMap, blurred *grid.Grid[float32]) {
	separateTouchingLabels(cmap, blurred)

	byLabel := collectLabelPixels(cmap)
	for _, pixels := range byLabel {
		if len(pixels) == 0 {
			continue
		}
		kept := strongestFragment(cmap, blurred, pixels)
		reduceToTrunk(cmap, blurred, kept)
	}
}

// separateTouchingLabels erases the weaker pixel of every touching pair
// of different labels. Only forward neighbors (E, SW, S, SE) are examined
// so each pair is considered exactly once per scan position.
func separateTouchingLabels(cmap *grid.ConnMap, blurred *grid.Grid[float32]) {
	forward := [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	for y := 0; y < cmap.Height; y++ {
		for x := 0; x < cmap.Width; x++ {
			lbl := cmap.Label(x, y)
			if lbl == 0 {
				continue
			}
			for _, d := range forward {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= cmap.Width || ny < 0 || ny >= cmap.Height {
					continue
				}
				other := cmap.Label(nx, ny)
				if other == 0 || other == lbl {
					continue
				}
				if blurred.At(x, y) < blurred.At(nx, ny) {
					cmap.SetLabel(x, y, 0)
				} else {
					cmap.SetLabel(nx, ny, 0)
				}
				if cmap.Label(x, y) == 0 {
					break
				}
			}
		}
	}
}

// collectLabelPixels gathers, per label, the Data() offsets of its pixels
// in raster order.
func collectLabelPixels(cmap *grid.ConnMap) [][]int {
	byLabel := make([][]int, cmap.MaxLabel()+1)
	data := cmap.Data()
	for y := 0; y < cmap.Height; y++ {
		for x := 0; x < cmap.Width; x++ {
			off := cmap.OffsetOf(x, y)
			if lbl := data[off]; lbl != 0 {
				byLabel[lbl] = append(byLabel[lbl], off)
			}
		}
	}
	return byLabel
}

// strongestFragment splits a label's pixels into connected fragments,
// erases all but the one with the highest total field value (ties: more
// pixels, then earliest in raster order) and returns the survivor.
func strongestFragment(cmap *grid.ConnMap, blurred *grid.Grid[float32], pixels []int) []int {
	data := cmap.Data()
	neighbors := cmap.Neighbors8()
	lbl := data[pixels[0]]

	seen := make(map[int]bool, len(pixels))
	var fragments [][]int
	for _, start := range pixels {
		if seen[start] {
			continue
		}
		frag := []int{start}
		seen[start] = true
		for i := 0; i < len(frag); i++ {
			for _, d := range neighbors {
				n := frag[i] + d
				if !seen[n] && data[n] == lbl {
					seen[n] = true
					frag = append(frag, n)
				}
			}
		}
		fragments = append(fragments, frag)
	}
	if len(fragments) == 1 {
		return fragments[0]
	}

	weight := func(frag []int) float64 {
		sum := 0.0
		for _, off := range frag {
			x, y := cmap.CoordOf(off)
			sum += float64(blurred.At(x, y))
		}
		return sum
	}
	best := 0
	bestWeight := weight(fragments[0])
	for i := 1; i < len(fragments); i++ {
		w := weight(fragments[i])
		if w > bestWeight || (w == bestWeight && len(fragments[i]) > len(fragments[best])) {
			best, bestWeight = i, w
		}
	}
	for i, frag := range fragments {
		if i == best {
			continue
		}
		for _, off := range frag {
			data[off] = 0
		}
	}
	return fragments[best]
}

// reduceToTrunk erases everything in a connected component except its
// trunk path and compresses the trunk to consecutive-only adjacency.
func reduceToTrunk(cmap *grid.ConnMap, blurred *grid.Grid[float32], pixels []int) {
	if len(pixels) <= 2 {
		return
	}
	data := cmap.Data()
	neighbors := cmap.Neighbors8()

	index := make(map[int]int, len(pixels))
	for i, off := range pixels {
		index[off] = i
	}
	value := make([]float64, len(pixels))
	for i, off := range pixels {
		x, y := cmap.CoordOf(off)
		value[i] = float64(blurred.At(x, y))
	}
	adj := make([][]int, len(pixels))
	for i, off := range pixels {
		for _, d := range neighbors {
			if j, ok := index[off+d]; ok {
				adj[i] = append(adj[i], j)
			}
		}
		sort.Ints(adj[i])
	}

	tree := maxSpanningTree(adj, value)
	trunk := weightedDiameter(tree, value)

	onTrunk := make([]bool, len(pixels))
	for _, i := range trunk {
		onTrunk[i] = true
	}
	for i, off := range pixels {
		if !onTrunk[i] {
			data[off] = 0
		}
	}

	compressTrunk(cmap, pixels, trunk)
}

// maxSpanningTree builds a maximum spanning tree over the component using
// Prim's algorithm with edge weight min(value[a], value[b]), so cuts land
// on the weakest link of any cycle. Ties resolve toward the smaller pixel
// index, keeping the result deterministic.
func maxSpanningTree(adj [][]int, value []float64) [][]int {
	n := len(adj)
	const unset = -1

	inTree := make([]bool, n)
	bestEdge := make([]int, n)
	bestWeight := make([]float64, n)
	for i := range bestEdge {
		bestEdge[i] = unset
	}

	tree := make([][]int, n)
	inTree[0] = true
	frontier := 1
	update := func(from int) {
		for _, to := range adj[from] {
			if inTree[to] {
				continue
			}
			w := value[from]
			if value[to] < w {
				w = value[to]
			}
			if bestEdge[to] == unset || w > bestWeight[to] {
				bestEdge[to] = from
				bestWeight[to] = w
			}
		}
	}
	update(0)

	for frontier < n {
		pick := unset
		for i := 0; i < n; i++ {
			if inTree[i] || bestEdge[i] == unset {
				continue
			}
			if pick == unset || bestWeight[i] > bestWeight[pick] {
				pick = i
			}
		}
		if pick == unset {
			break
		}
		inTree[pick] = true
		frontier++
		from := bestEdge[pick]
		tree[from] = append(tree[from], pick)
		tree[pick] = append(tree[pick], from)
		update(pick)
	}
	return tree
}

// weightedDiameter finds the leaf-to-leaf path with the highest sum of
// node values via two depth-first sweeps, returning the path as a node
// index sequence. Ties prefer the longer path, then the smaller endpoint
// index.
func weightedDiameter(tree [][]int, value []float64) []int {
	farthest := func(start int) (end int, parent []int) {
		n := len(tree)
		parent = make([]int, n)
		for i := range parent {
			parent[i] = -1
		}
		type frame struct {
			node  int
			sum   float64
			depth int
		}
		stack := []frame{{node: start, sum: value[start], depth: 1}}
		parent[start] = start
		end = start
		bestSum := value[start]
		bestDepth := 1
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.sum > bestSum ||
				(f.sum == bestSum && f.depth > bestDepth) ||
				(f.sum == bestSum && f.depth == bestDepth && f.node < end) {
				end, bestSum, bestDepth = f.node, f.sum, f.depth
			}
			for _, to := range tree[f.node] {
				if parent[to] == -1 {
					parent[to] = f.node
					stack = append(stack, frame{to, f.sum + value[to], f.depth + 1})
				}
			}
		}
		return end, parent
	}

	u, _ := farthest(0)
	v, parent := farthest(u)

	var path []int
	for at := v; ; at = parent[at] {
		path = append(path, at)
		if at == u {
			break
		}
	}
	return path
}

// compressTrunk eliminates direct adjacency between non-consecutive
// trunk positions, repeating until the trunk has consecutive-only
// adjacency. Each shortcut is resolved by whichever removal loses the
// fewest pixels: splicing out the bypassed middle (the usual staircase
// case) or trimming the shorter end beyond the shortcut (the case of a
// trunk closing back on itself). Removed pixels are erased from the map.
func compressTrunk(cmap *grid.ConnMap, pixels []int, trunk []int) {
	data := cmap.Data()
	neighbors := cmap.Neighbors8()

	offsets := make([]int, len(trunk))
	for i, idx := range trunk {
		offsets[i] = pixels[idx]
	}

	for changed := true; changed; {
		changed = false
		order := make(map[int]int, len(offsets))
		for i, off := range offsets {
			order[off] = i
		}
		for i := 0; i < len(offsets) && !changed; i++ {
			far := -1
			for _, d := range neighbors {
				if j, ok := order[offsets[i]+d]; ok && j > i+1 && j > far {
					far = j
				}
			}
			if far == -1 {
				continue
			}

			n := len(offsets)
			middleCost := far - i - 1
			suffixCost := n - far
			prefixCost := i + 1
			switch {
			case middleCost <= suffixCost && middleCost <= prefixCost:
				for k := i + 1; k < far; k++ {
					data[offsets[k]] = 0
				}
				offsets = append(offsets[:i+1], offsets[far:]...)
			case suffixCost <= prefixCost:
				for k := far; k < n; k++ {
					data[offsets[k]] = 0
				}
				offsets = offsets[:far]
			default:
				for k := 0; k <= i; k++ {
					data[offsets[k]] = 0
				}
				offsets = offsets[i+1:]
			}
			changed = true
		}
	}
}
