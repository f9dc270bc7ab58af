package detection

import (
	"image"
	"sort"

	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is the traced outer boundary of one connected group of edge pixels.
type Contour struct {
	// Points is the closed boundary in tracing order. The first point is the
	// component's top-most, left-most pixel; the last point is not repeated.
	Points []Point

	// Bounds is the component's bounding box (exclusive max).
	Bounds image.Rectangle

	// Area is the polygon area enclosed by Points.
	Area float64
}

// moore lists the eight neighbours clockwise (image y points down),
// starting from the west.
var moore = [8]Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func mooreIndex(d Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return -1
}

// findComponents labels 8-connected groups of edge pixels. labels holds the
// 1-based component id of every pixel (0 for background); starts holds each
// component's first pixel in raster order.
func findComponents(edges *imaging.EdgeMap) (labels []int32, starts []Point, bounds []image.Rectangle) {
	labels = make([]int32, edges.Width*edges.Height)

	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			i := y*edges.Width + x
			if !edges.Pix[i] || labels[i] != 0 {
				continue
			}
			id := int32(len(starts) + 1)
			starts = append(starts, Point{X: x, Y: y})
			bounds = append(bounds, floodFill(edges, labels, x, y, id))
		}
	}
	return labels, starts, bounds
}

// floodFill performs iterative flood-fill from a starting point, marking
// every reachable edge pixel with id. It returns the component's bounding
// box.
//
// Uses a stack rather than recursion so large components cannot overflow
// the goroutine stack.
func floodFill(edges *imaging.EdgeMap, labels []int32, startX, startY int, id int32) image.Rectangle {
	width, height := edges.Width, edges.Height
	box := image.Rect(startX, startY, startX+1, startY+1)

	stack := []Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = id

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.X >= box.Max.X {
			box.Max.X = p.X + 1
		}
		if p.Y >= box.Max.Y {
			box.Max.Y = p.Y + 1
		}

		for _, d := range moore {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			i := ny*width + nx
			if !edges.Pix[i] || labels[i] != 0 {
				continue
			}
			labels[i] = id
			stack = append(stack, Point{X: nx, Y: ny})
		}
	}
	return box
}

// traceBoundary walks the outer boundary of component id with Moore-neighbour
// tracing. start must be the component's first pixel in raster order, so its
// west neighbour is known to be background.
//
// Tracing stops when the walk leaves start in the same direction it did the
// first time, which also handles components that pass through start twice.
func traceBoundary(labels []int32, width, height int, id int32, start Point) []Point {
	inside := func(p Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height && labels[p.Y*width+p.X] == id
	}

	contour := []Point{start}
	cur := start
	back := Point{X: start.X - 1, Y: start.Y}

	// Each boundary pixel can be entered from at most eight directions.
	limit := 8*width*height + 8
	for step := 0; step < limit; step++ {
		from := mooreIndex(Point{X: back.X - cur.X, Y: back.Y - cur.Y})
		next, prev := cur, back
		found := false
		for k := 1; k <= 8; k++ {
			d := moore[(from+k)%8]
			cand := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if inside(cand) {
				next = cand
				found = true
				break
			}
			prev = cand
		}
		if !found {
			// isolated pixel
			break
		}
		if cur == start && len(contour) > 1 && next == contour[1] {
			break
		}
		contour = append(contour, next)
		back, cur = prev, next
	}

	if n := len(contour); n > 1 && contour[n-1] == start {
		contour = contour[:n-1]
	}
	return contour
}

// ExternalContours traces the outer boundary of every connected component of
// the edge map, skipping components whose bounding box lies inside another
// component's bounding box. Contours are returned largest area first.
func ExternalContours(edges *imaging.EdgeMap) []Contour {
	labels, starts, bounds := findComponents(edges)

	contours := make([]Contour, 0, len(starts))
	for i, start := range starts {
		if nested(bounds, i) {
			continue
		}
		pts := traceBoundary(labels, edges.Width, edges.Height, int32(i+1), start)
		contours = append(contours, Contour{
			Points: pts,
			Bounds: bounds[i],
			Area:   polygonArea(pts),
		})
	}

	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Area > contours[j].Area
	})
	return contours
}

// nested reports whether bounds[i] is strictly contained in another box.
func nested(bounds []image.Rectangle, i int) bool {
	for j, outer := range bounds {
		if j != i && bounds[i] != outer && bounds[i].In(outer) {
			return true
		}
	}
	return false
}
