package dewarp

import (
	"math"

	"github.com/rs/zerolog"
)

// Params holds every tunable threshold of the pipeline. All stages read
// their knobs from here; nothing is pulled from ambient or persisted
// settings.
type Params struct {
	// MaxWorkingSize caps the longest side of the downscaled working
	// image, bounding runtime independently of scan resolution.
	MaxWorkingSize int

	// MaxSkewAngle bounds the skew search range, in radians, on either
	// side of horizontal.
	MaxSkewAngle float64

	// BlurWidthFrac sets the along-line blur extent as a fraction of the
	// working image width.
	BlurWidthFrac float64

	// BlurVertRadius is the across-line blur radius in pixels.
	BlurVertRadius int

	// PeakFloorFactor scales the noise floor for peak detection: a column
	// maximum qualifies only above mean + factor*stddev of the blurred
	// field.
	PeakFloorFactor float64

	// PeakWindow is the vertical half-window within which a peak must
	// dominate its column neighborhood.
	PeakWindow int

	// BoundClusterTol is the horizontal tolerance, in working-image
	// pixels, when clustering line endpoints into a vertical bound chord.
	BoundClusterTol float64

	// MinLinePoints drops candidate paths shorter than this many pixels.
	MinLinePoints int

	// MinChordLength drops candidate lines whose endpoint-to-endpoint
	// chord is shorter than this, in working-image pixels.
	MinChordLength float64

	// MaskCloseRadius is the window radius of the grayscale closing that
	// removes ink strokes before building the page mask. It must exceed
	// half the thickness of a text line in working-image pixels.
	MaskCloseRadius int

	// MaskBlurRadius is the Gaussian radius smoothing the closed image
	// before binarization. Zero disables the smoothing.
	MaskBlurRadius float64

	// MaskDespeckleArea clears page-mask blobs smaller than this area.
	MaskDespeckleArea int

	// MaskInsideFraction keeps a line only when at least this fraction of
	// its points falls inside the page mask.
	MaskInsideFraction float64

	// Log receives per-stage progress events. Defaults to a no-op logger.
	Log zerolog.Logger
}

// DefaultParams returns the parameter set tuned for 300 dpi book scans.
func DefaultParams() *Params {
	return &Params{
		MaxWorkingSize:     900,
		MaxSkewAngle:       30 * math.Pi / 180,
		BlurWidthFrac:      0.05,
		BlurVertRadius:     1,
		PeakFloorFactor:    0.6,
		PeakWindow:         2,
		BoundClusterTol:    12,
		MinLinePoints:      3,
		MinChordLength:     8,
		MaskCloseRadius:    8,
		MaskBlurRadius:     3,
		MaskDespeckleArea:  64,
		MaskInsideFraction: 0.5,
		Log:                zerolog.Nop(),
	}
}
