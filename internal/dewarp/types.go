package dewarp

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2D point in floating-point image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a segment between two points.
type Line struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return math.Hypot(l.P2.X-l.P1.X, l.P2.Y-l.P1.Y)
}

// Polyline is an ordered sequence of points tracing one text line's
// centerline.
type Polyline []Point

// Transform is a 2x3 affine matrix in row-major order:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// IdentityTransform returns the identity affine transform.
func IdentityTransform() Transform {
	return Transform{A: 1, E: 1}
}

// Apply maps p through the transform.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Invert returns the inverse transform. Singular transforms cannot be
// inverted.
func (t Transform) Invert() (Transform, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-12 {
		return Transform{}, fmt.Errorf("singular affine transform (det=%g)", det)
	}
	inv := Transform{
		A: t.E / det,
		B: -t.B / det,
		D: -t.D / det,
		E: t.A / det,
	}
	inv.C = -(inv.A*t.C + inv.B*t.F)
	inv.F = -(inv.D*t.C + inv.E*t.F)
	return inv, nil
}

// AffineTransformedImage is the pipeline input: a source image, the affine
// transform mapping source coordinates into the working ("transformed")
// space, and a crop polygon in that transformed space selecting the region
// of interest. The image is read-only to the pipeline.
type AffineTransformedImage struct {
	Image     image.Image
	Transform Transform
	Crop      []Point
}

// FullCrop builds an AffineTransformedImage covering the whole source
// image with an identity transform.
func FullCrop(img image.Image) AffineTransformedImage {
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	return AffineTransformedImage{
		Image:     img,
		Transform: IdentityTransform(),
		Crop: []Point{
			{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
		},
	}
}

// DistortionModelBuilder accumulates geometric observations from detected
// text lines across one or more pages. Implementations are fed
// sequentially from the pipeline goroutine and need not be safe for
// concurrent writers.
type DistortionModelBuilder interface {
	// SetVerticalBounds records the left and right content-boundary
	// chords, in original image coordinates.
	SetVerticalBounds(left, right Line)

	// AddHorizontalCurve records one text line's centerline, in original
	// image coordinates.
	AddHorizontalCurve(points []Point)
}

// RecordingModelBuilder is a DistortionModelBuilder that simply stores
// what it is fed. It backs the CLI output and the tests.
type RecordingModelBuilder struct {
	LeftBound  Line
	RightBound Line
	HasBounds  bool
	Curves     [][]Point
}

// SetVerticalBounds implements DistortionModelBuilder.
func (b *RecordingModelBuilder) SetVerticalBounds(left, right Line) {
	b.LeftBound = left
	b.RightBound = right
	b.HasBounds = true
}

// AddHorizontalCurve implements DistortionModelBuilder.
func (b *RecordingModelBuilder) AddHorizontalCurve(points []Point) {
	b.Curves = append(b.Curves, points)
}
