package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// EdgeMap is a binary edge image. Pix is row-major, Width*Height long, and
// true marks an edge pixel.
type EdgeMap struct {
	Width  int
	Height int
	Pix    []bool
}

// NewEdgeMap returns an empty edge map of the given size.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// At reports whether (x, y) is an edge pixel. Coordinates outside the map
// are never edges.
func (e *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Pix[y*e.Width+x]
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Pix {
		if v {
			n++
		}
	}
	return n
}

// Dilate grows every edge pixel into its 3x3 neighbourhood. It closes the
// one-pixel breaks non-maximum suppression leaves at sharp corners.
func (e *EdgeMap) Dilate() *EdgeMap {
	out := NewEdgeMap(e.Width, e.Height)
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			if !e.Pix[y*e.Width+x] {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px >= 0 && py >= 0 && px < e.Width && py < e.Height {
						out.Pix[py*e.Width+px] = true
					}
				}
			}
		}
	}
	return out
}

// Canny performs Canny edge detection on a grayscale image.
//
// Parameters:
//   - gray: Source image. Its bounds need not start at the origin; the edge
//     map is indexed relative to gray.Bounds().Min.
//   - thresholdLow: Gradient magnitude below which pixels are discarded.
//   - thresholdHigh: Gradient magnitude above which pixels are strong edges.
//   - blurRadius: Gaussian pre-smoothing radius. 0 disables smoothing.
//
// Thresholds are on the scale of a 3x3 Sobel response over 0-255 intensities,
// so a clean axis-aligned black/white step scores about 1020 and a
// diagonal one about 1530.
//
// # Algorithm
//
//  1. Optional Gaussian blur to reduce sensor noise
//  2. Gradient computation: Sobel operators for X and Y,
//     magnitude = |Gx| + |Gy| (the L1 norm OpenCV uses by default, so
//     thresholds carry over), direction = atan2(Gy, Gx)
//  3. Non-maximum suppression: keep only local maxima along the gradient
//     direction, thinning edges to one pixel
//  4. Hysteresis: strong pixels seed edges, weak pixels are kept when they
//     are 8-connected to a seed through other weak pixels
func Canny(gray *image.Gray, thresholdLow, thresholdHigh, blurRadius float64) *EdgeMap {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	edges := NewEdgeMap(width, height)
	if width < 3 || height < 3 {
		return edges
	}

	values := intensities(gray, blurRadius)

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xm, xp := clamp(x-1, 0, width-1), clamp(x+1, 0, width-1)
			ym, yp := clamp(y-1, 0, height-1), clamp(y+1, 0, height-1)

			gx := -values[ym*width+xm] + values[ym*width+xp] +
				-2*values[y*width+xm] + 2*values[y*width+xp] +
				-values[yp*width+xm] + values[yp*width+xp]
			gy := -values[ym*width+xm] - 2*values[ym*width+x] - values[ym*width+xp] +
				values[yp*width+xm] + 2*values[yp*width+x] + values[yp*width+xp]

			magnitude[y*width+x] = math.Abs(gx) + math.Abs(gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag < thresholdLow {
				continue
			}

			angle := direction[i]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			// Ties resolve toward the earlier pixel so flat ridges stay one pixel wide.
			if mag > n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v >= thresholdHigh {
			edges.Pix[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				px, py := x+dx, y+dy
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				j := py*width + px
				if !edges.Pix[j] && suppressed[j] >= thresholdLow {
					edges.Pix[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return edges
}

// intensities returns the gray levels of img as row-major floats, smoothed
// with a Gaussian of the given radius when radius > 0.
func intensities(gray *image.Gray, radius float64) []float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	values := make([]float64, width*height)

	if radius <= 0 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				values[y*width+x] = float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return values
	}

	blurred := blur.Gaussian(gray, radius)
	bb := blurred.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			values[y*width+x] = float64(blurred.Pix[blurred.PixOffset(bb.Min.X+x, bb.Min.Y+y)])
		}
	}
	return values
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
