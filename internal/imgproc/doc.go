// Package imgproc bridges standard Go images and the grid package, and
// provides the low-level image operations shared by the dewarping stages:
// luminance conversion, downscaling, Otsu thresholding and binary
// connected-component cleanup.
//
// Grayscale values follow the usual convention of 0 = black ink and
// 255 = white paper. Stages that want "more ink = larger value" invert
// explicitly.
package imgproc
