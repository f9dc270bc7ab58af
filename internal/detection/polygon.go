package detection

import "math"

// polygonArea returns the absolute area of a closed polygon (shoelace
// formula). Fewer than three points enclose nothing.
func polygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// arcLength returns the perimeter of the closed polygon pts.
func arcLength(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	total := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

// boundingBox returns the top-left corner and the inclusive pixel extent of
// pts, so a single point has width and height 1.
func boundingBox(pts []Point) (x, y, w, h int) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1
}

// approxPolygon simplifies the closed polygon pts with the Douglas-Peucker
// algorithm, dropping vertices closer than epsilon to the simplified outline.
//
// A closed curve has no natural endpoints, so it is split at pts[0] and the
// vertex farthest from it; each half is simplified as an open chain.
func approxPolygon(pts []Point, epsilon float64) []Point {
	n := len(pts)
	if n < 3 {
		return append([]Point(nil), pts...)
	}

	far, best := 0, -1.0
	for i := 1; i < n; i++ {
		d := math.Hypot(float64(pts[i].X-pts[0].X), float64(pts[i].Y-pts[0].Y))
		if d > best {
			far, best = i, d
		}
	}

	first := douglasPeucker(pts[:far+1], epsilon)
	second := append(append([]Point(nil), pts[far:]...), pts[0])
	rest := douglasPeucker(second, epsilon)

	out := make([]Point, 0, len(first)+len(rest))
	out = append(out, first...)
	// rest starts with pts[far] and ends with pts[0], both already in first.
	out = append(out, rest[1:len(rest)-1]...)
	return out
}

// douglasPeucker simplifies an open chain, always keeping both endpoints.
func douglasPeucker(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, dmax := -1, 0.0
		for i := s.lo + 1; i < s.hi; i++ {
			if d := segmentDistance(pts[i], pts[s.lo], pts[s.hi]); d > dmax {
				idx, dmax = i, d
			}
		}
		if idx >= 0 && dmax > epsilon {
			keep[idx] = true
			stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
		}
	}

	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// segmentDistance is the distance from p to the line through a and b, or
// to a when a and b coincide.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px, py)
	}
	return math.Abs(dx*py-dy*px) / length
}
