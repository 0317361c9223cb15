// Package dewarp detects curved text lines on scanned pages.
//
// Given an affine-transformed grayscale page and a crop polygon, Process
// traces the centerline of every text line and returns the centerlines as
// polylines in the original image's coordinate space. The polylines feed a
// distortion-model builder which later straightens the page; this package
// stops at geometry and never interprets the text itself.
//
// # Pipeline
//
// Processing runs as a fixed sequence of stages over a downscaled working
// image:
//
//	downscale -> skew estimate -> oriented blur + peak detection ->
//	initial segmentation -> path-uniqueness repair -> refinement ->
//	page mask -> final filtering
//
// Stage ordering is strictly sequential. The acceleration backend may
// parallelize the elementwise passes inside a stage, but stage N+1 never
// observes partial output of stage N.
//
// # Cancellation
//
// Cancellation is cooperative: the context is polled between stages. A
// canceled call returns the context's error and no polylines.
//
// # Empty results
//
// A blank page, a page with no detectable peaks, or a page whose candidate
// lines all fail the content mask produces an empty polyline slice and a
// nil error. Callers must treat empty output as "no text lines detected",
// not as a failure.
package dewarp
