package dewarp

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/yasamoka/scantailor-universal/internal/grid"
	"github.com/yasamoka/scantailor-universal/internal/imgproc"
)

// DebugImages is an optional snapshot sink for intermediate pipeline
// state. Every stage checks for a nil sink before emitting, and all
// methods are safe to call on a nil receiver, so wiring it in or leaving
// it out never changes computed results.
//
// Snapshots are retained in memory keyed by stage name; when a directory
// is configured each snapshot is also written there as a numbered PNG.
type DebugImages struct {
	dir       string
	seq       int
	Snapshots map[string]image.Image
}

// NewDebugImages creates a sink. An empty dir keeps snapshots in memory
// only.
func NewDebugImages(dir string) *DebugImages {
	return &DebugImages{dir: dir, Snapshots: make(map[string]image.Image)}
}

// AddGray records a luminance field.
func (d *DebugImages) AddGray(name string, g *grid.Grid[uint8]) {
	if d == nil {
		return
	}
	d.add(name, imgproc.ToImage(g))
}

// AddField records a float field normalized to the full gray range.
func (d *DebugImages) AddField(name string, f *grid.Grid[float32]) {
	if d == nil {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < f.Height; y++ {
		for _, v := range f.Row(y) {
			lo = math.Min(lo, float64(v))
			hi = math.Max(hi, float64(v))
		}
	}
	out := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}
	for y := 0; y < f.Height; y++ {
		for x, v := range f.Row(y) {
			out.Pix[y*out.Stride+x] = uint8((float64(v) - lo) * scale)
		}
	}
	d.add(name, out)
}

// AddBinary records a bitmap, set bits drawn black on white.
func (d *DebugImages) AddBinary(name string, m *grid.BinaryMap) {
	if d == nil {
		return
	}
	d.add(name, imgproc.BinaryToImage(m))
}

// AddConnMap records a label field with a distinct color per label.
func (d *DebugImages) AddConnMap(name string, cmap *grid.ConnMap) {
	if d == nil {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, cmap.Width, cmap.Height))
	for y := 0; y < cmap.Height; y++ {
		for x := 0; x < cmap.Width; x++ {
			lbl := cmap.Label(x, y)
			if lbl == 0 {
				continue
			}
			out.Set(x, y, labelColor(lbl))
		}
	}
	d.add(name, out)
}

// AddLines records polylines stroked over a luminance base image.
func (d *DebugImages) AddLines(name string, base *grid.Grid[uint8], lines []Polyline) {
	if d == nil {
		return
	}
	d.add(name, RenderLines(base, lines))
}

// RenderLines draws polylines over a luminance base, one color per line.
func RenderLines(base *grid.Grid[uint8], lines []Polyline) image.Image {
	dc := gg.NewContextForImage(imgproc.ToImage(base))
	dc.SetLineWidth(1.5)
	for i, poly := range lines {
		if len(poly) < 2 {
			continue
		}
		c := labelColor(int32(i + 1))
		dc.SetColor(c)
		dc.MoveTo(poly[0].X, poly[0].Y)
		for _, p := range poly[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
		for _, p := range []Point{poly[0], poly[len(poly)-1]} {
			dc.DrawCircle(p.X, p.Y, 2.5)
			dc.Fill()
		}
	}
	return dc.Image()
}

// labelColor spaces hues by the golden angle so nearby labels stay
// visually distinct.
func labelColor(lbl int32) colorful.Color {
	hue := math.Mod(float64(lbl)*137.508, 360)
	return colorful.Hsv(hue, 0.85, 0.95)
}

func (d *DebugImages) add(name string, img image.Image) {
	d.Snapshots[name] = img
	if d.dir == "" {
		return
	}
	d.seq++
	path := filepath.Join(d.dir, fmt.Sprintf("%02d-%s.png", d.seq, name))
	// Snapshot output is purely observational; a failed write must not
	// disturb the pipeline.
	_ = imaging.Save(img, path)
}
