package detection

import (
	"math"
	"math/rand"

	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// Segment is a detected line segment with integer endpoints.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Angle returns the segment's inclination from the x-axis in degrees,
// folded into [0, 90] so direction does not matter.
func (s Segment) Angle() float64 {
	deg := math.Abs(math.Atan2(float64(s.Y2-s.Y1), float64(s.X2-s.X1)) * 180 / math.Pi)
	if deg > 90 {
		deg = 180 - deg
	}
	return deg
}

// HoughParams controls the probabilistic Hough transform.
type HoughParams struct {
	// Threshold is the minimum accumulator vote for a line candidate.
	Threshold int
	// MinLength is the minimum segment extent along either axis.
	MinLength int
	// MaxGap is the longest run of missing edge pixels bridged inside one
	// segment.
	MaxGap int
	// Seed fixes the order in which edge pixels are visited.
	Seed int64
}

const (
	houghAngles = 180 // one-degree resolution over [0, pi)
	houghShift  = 16  // fixed-point bits for walking along a line
)

// HoughSegments finds straight segments in an edge map using the progressive
// probabilistic Hough transform with 1px distance and 1 degree angle
// resolution.
//
// Edge pixels are visited in a pseudo-random order drawn from p.Seed. Each
// pixel votes; once a (rho, theta) cell reaches p.Threshold the line is
// followed in both directions from that pixel, bridging gaps of up to
// p.MaxGap. Pixels on the followed line are consumed, and if the result is
// long enough their votes are withdrawn and the segment is reported. The same
// seed and edge map always give the same segments.
func HoughSegments(edges *imaging.EdgeMap, p HoughParams) []Segment {
	width, height := edges.Width, edges.Height
	if width == 0 || height == 0 {
		return nil
	}

	numRho := (width+height)*2 + 1
	offset := (numRho - 1) / 2

	var cosTab, sinTab [houghAngles]float64
	for n := 0; n < houghAngles; n++ {
		theta := float64(n) * math.Pi / houghAngles
		cosTab[n] = math.Cos(theta)
		sinTab[n] = math.Sin(theta)
	}
	rhoIndex := func(x, y, n int) int {
		return int(math.Round(float64(x)*cosTab[n]+float64(y)*sinTab[n])) + offset
	}

	accum := make([]int32, houghAngles*numRho)
	mask := make([]bool, len(edges.Pix))
	copy(mask, edges.Pix)

	points := make([]Point, 0, edges.Count())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Pix[y*width+x] {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	var segments []Segment

	for count := len(points); count > 0; count-- {
		idx := rng.Intn(count)
		pt := points[idx]
		points[idx] = points[count-1]

		if !mask[pt.Y*width+pt.X] {
			continue
		}

		// Vote and remember the strongest cell through this pixel.
		maxVal, maxN := int32(p.Threshold-1), -1
		for n := 0; n < houghAngles; n++ {
			cell := n*numRho + rhoIndex(pt.X, pt.Y, n)
			accum[cell]++
			if accum[cell] > maxVal {
				maxVal, maxN = accum[cell], n
			}
		}
		if maxN < 0 {
			continue
		}

		walk := newLineWalk(pt, -sinTab[maxN], cosTab[maxN])

		var ends [2]Point
		for k := 0; k < 2; k++ {
			gap := 0
			walk.each(k, width, height, func(q Point) bool {
				if mask[q.Y*width+q.X] {
					gap = 0
					ends[k] = q
				} else if gap++; gap > p.MaxGap {
					return false
				}
				return true
			})
		}

		good := abs(ends[1].X-ends[0].X) >= p.MinLength || abs(ends[1].Y-ends[0].Y) >= p.MinLength

		for k := 0; k < 2; k++ {
			walk.each(k, width, height, func(q Point) bool {
				i := q.Y*width + q.X
				if mask[i] {
					if good {
						for n := 0; n < houghAngles; n++ {
							accum[n*numRho+rhoIndex(q.X, q.Y, n)]--
						}
					}
					mask[i] = false
				}
				return q != ends[k]
			})
		}

		if good {
			segments = append(segments, Segment{X1: ends[0].X, Y1: ends[0].Y, X2: ends[1].X, Y2: ends[1].Y})
		}
	}

	return segments
}

// lineWalk steps pixel by pixel along a direction, one whole pixel on the
// dominant axis per step and a fixed-point fraction on the other.
type lineWalk struct {
	x0, y0 int
	dx, dy int
	xMajor bool
}

func newLineWalk(start Point, a, b float64) lineWalk {
	w := lineWalk{x0: start.X, y0: start.Y}
	if math.Abs(a) > math.Abs(b) {
		w.xMajor = true
		w.dx = 1
		if a < 0 {
			w.dx = -1
		}
		w.dy = int(math.Round(b * (1 << houghShift) / math.Abs(a)))
		w.y0 = start.Y<<houghShift + 1<<(houghShift-1)
	} else {
		w.dy = 1
		if b < 0 {
			w.dy = -1
		}
		w.dx = int(math.Round(a * (1 << houghShift) / math.Abs(b)))
		w.x0 = start.X<<houghShift + 1<<(houghShift-1)
	}
	return w
}

// each visits pixels from the start outward, forward for k == 0 and
// backward otherwise, until it leaves the image or fn returns false.
func (w lineWalk) each(k, width, height int, fn func(Point) bool) {
	dx, dy := w.dx, w.dy
	if k > 0 {
		dx, dy = -dx, -dy
	}
	for x, y := w.x0, w.y0; ; x, y = x+dx, y+dy {
		var q Point
		if w.xMajor {
			q = Point{X: x, Y: y >> houghShift}
		} else {
			q = Point{X: x >> houghShift, Y: y}
		}
		if q.X < 0 || q.X >= width || q.Y < 0 || q.Y >= height {
			return
		}
		if !fn(q) {
			return
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
