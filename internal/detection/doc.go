// Package detection reads the geometry of a Go board out of a grayscale
// photograph.
//
// It implements the three measuring stages of the recognizer: locating the
// board, reconstructing its line grid, and classifying each intersection.
// Every stage takes its numeric parameters explicitly; nothing is read from
// package state.
//
// # Board Location
//
// LocateBoard runs Canny edge detection over the full image, closes one-pixel
// breaks by dilation, and traces the outer boundary of every connected group
// of edge pixels (Moore-neighbour tracing). Groups nested inside another
// group's bounding box are ignored. The largest remaining contours are
// simplified with Douglas-Peucker; the first that is a large, roughly square
// quadrilateral gives the board's bounding box. Otherwise a fixed inset crop
// is used.
//
// # Grid Reconstruction
//
// ReconstructGrid detects long straight segments in the cropped board with a
// progressive probabilistic Hough transform, keeps the near-horizontal and
// near-vertical ones, and clusters their positions. The outermost clusters
// on each axis bound a uniform grid, so missing or spurious interior lines
// do not matter.
//
// # Intersection Classification
//
// ClassifyIntersection counts dark and light pixels in a square window
// centred on an intersection. A bare intersection is mostly board colour with
// a thin dark cross; a stone fills most of the window.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Region is expressed in coordinates of the image passed to LocateBoard;
// GridLines are local to the cropped region.
//
// # Determinism
//
// The Hough transform visits edge pixels in a pseudo-random order drawn from
// an explicit seed, so the same image and parameters always produce the same
// segments, grid and labels.
//
// # Limitations
//
// Only axis-aligned boards are handled. Perspective distortion, strong
// rotation, glare on stones or a board that fills less than a tenth of the
// frame degrade results; the fallbacks keep the pipeline running but the
// labels may be wrong.
package detection
