package dewarp

import (
	"context"
	"fmt"
	"time"
)

// Process detects curved text lines on one page.
//
// It materializes the transformed, cropped source into a downscaled
// working image, runs the segmentation stages over it and returns the
// detected centerlines mapped back to original image coordinates. Result
// order is not significant. An empty slice with a nil error means no text
// lines were detected, which is a normal outcome for blank or pictorial
// pages.
//
// The builder, backend, params and dbg arguments may each be nil; nil
// selects no model feeding, the reference backend, DefaultParams and no
// debug capture respectively. Cancellation of ctx is observed between
// stages and reported as the context's error with no partial output.
func Process(ctx context.Context, img AffineTransformedImage, builder DistortionModelBuilder, backend Backend, params *Params, dbg *DebugImages) ([]Polyline, error) {
	if params == nil {
		params = DefaultParams()
	}
	if backend == nil {
		backend = ReferenceBackend{}
	}
	log := params.Log.With().Str("component", "dewarp").Logger()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	work, toOrig, err := workingImage(img, params)
	if err != nil {
		return nil, fmt.Errorf("prepare working image: %w", err)
	}
	if work == nil {
		log.Debug().Msg("crop area has no interior")
		return nil, nil
	}
	dbg.AddGray("downscaled", work)
	log.Debug().
		Int("width", work.Width).
		Int("height", work.Height).
		Str("backend", backend.Name()).
		Msg("working image ready")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	angle := findSkewAngle(work, params)
	log.Debug().Float64("radians", angle).Msg("skew estimated")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blurred, peaks := blurAndFindPeaks(work, angle, backend, params)
	dbg.AddField("blurred", blurred)
	dbg.AddBinary("peaks", peaks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmap := initialSegmentation(blurred, peaks)
	dbg.AddConnMap("initial-segmentation", cmap)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	makePathsUnique(cmap, blurred)
	dbg.AddConnMap("unique-paths", cmap)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, left, right, hasBounds := refineSegmentation(cmap, params)
	dbg.AddLines("refined", work, lines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mask := calcPageMask(suppressContent(work, backend, params), params)
	dbg.AddBinary("page-mask", mask)
	lines = maskTextLines(lines, mask, params)
	dbg.AddLines("masked", work, lines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Polyline, 0, len(lines))
	for _, poly := range lines {
		mapped := make(Polyline, len(poly))
		for i, p := range poly {
			mapped[i] = toOrig(p)
		}
		out = append(out, mapped)
	}

	if builder != nil && len(out) > 0 {
		if hasBounds {
			builder.SetVerticalBounds(mapLine(left, toOrig), mapLine(right, toOrig))
		}
		for _, poly := range out {
			builder.AddHorizontalCurve(poly)
		}
	}

	log.Debug().
		Int("lines", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("segmentation finished")
	return out, nil
}

func mapLine(l Line, toOrig func(Point) Point) Line {
	return Line{P1: toOrig(l.P1), P2: toOrig(l.P2)}
}
