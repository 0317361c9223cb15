// Package grid provides dense 2D scalar fields and the raster traversal
// primitives the dewarping pipeline is built on.
//
// Three storage types are provided:
//
//   - Grid[T]: a dense field of numeric values with an explicit row stride.
//     The stride may exceed the width, which allows sub-grids and padded
//     allocations to share the flat backing slice.
//   - BinaryMap: a bitmap packed 64 pixels to a word, used for peak masks
//     and page-content masks.
//   - ConnMap: an int32 label field with a one-pixel zero border, so that
//     8-neighbor arithmetic over the flat backing slice never needs bounds
//     checks. Label 0 is background.
//
// # Coordinate System
//
// All coordinates are 0-based with (0,0) at the top-left corner, X growing
// rightward and Y growing downward. At/Set accessors are bounds-checked;
// performance-critical loops index the backing slices directly.
//
// # Traversal
//
// The ForEach family applies a per-pixel operation in row-major order over
// one, two or three same-shape fields, optionally passing pixel coordinates
// to the operation. Paired forms fail fast with ErrSizeMismatch when the
// fields disagree on width or height; such a mismatch is a wiring bug in
// the caller, not a recoverable condition.
package grid
