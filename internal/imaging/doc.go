// Package imaging provides the low-level image operations behind the board
// reader: decoding uploaded bytes, grayscale conversion, cropping, Canny edge
// detection and rendering of annotated debug overlays.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (Min.X, Min.Y) is inclusive and (Max.X, Max.Y) is exclusive
//
// Grayscale images produced here always start at the origin, so a cropped
// board region is addressed with region-local coordinates.
//
// # Thread Safety
//
// Every function is stateless and works on its own copies. Decoded images are
// never mutated after decoding, so concurrent calls on different or identical
// inputs are safe.
//
// # Error Handling
//
// Undecodable input is reported as a *DecodeError, which matches ErrDecode
// with errors.Is. Other functions in this package do not fail: degenerate
// inputs (empty images, empty crops) produce empty results.
//
// # Performance Considerations
//
// Edge detection allocates several float buffers the size of the image. Very
// large photographs can be reduced with FitWithin before detection.
package imaging
