package detection

import (
	"image"
	"sort"

	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// GridLines holds the pixel positions of the board lines inside the cropped
// region: Rows are y positions of horizontal lines, Cols are x positions of
// vertical lines. Both are strictly increasing for any region of at least
// size-1 pixels per side.
type GridLines struct {
	Rows []int `json:"rows"`
	Cols []int `json:"cols"`
}

// GridParams controls grid reconstruction.
type GridParams struct {
	// Size is the number of lines per axis. Callers holding a board size
	// elsewhere set it per call.
	Size int `json:"-" mapstructure:"-"`

	CannyLow   float64 `json:"canny_low" mapstructure:"canny_low"`
	CannyHigh  float64 `json:"canny_high" mapstructure:"canny_high"`
	BlurRadius float64 `json:"blur_radius" mapstructure:"blur_radius"`

	HoughThreshold int `json:"hough_threshold" mapstructure:"hough_threshold"`
	// MinLineRatio is the shortest accepted segment as a fraction of the
	// shorter region side.
	MinLineRatio float64 `json:"min_line_ratio" mapstructure:"min_line_ratio"`
	MaxLineGap   int     `json:"max_line_gap" mapstructure:"max_line_gap"`
	Seed         int64   `json:"seed" mapstructure:"seed"`

	// HorizontalMaxAngle and VerticalMinAngle classify segments, in degrees.
	HorizontalMaxAngle float64 `json:"horizontal_max_angle" mapstructure:"horizontal_max_angle"`
	VerticalMinAngle   float64 `json:"vertical_min_angle" mapstructure:"vertical_min_angle"`

	// ClusterGap merges sorted positions closer than this many pixels.
	ClusterGap int `json:"cluster_gap" mapstructure:"cluster_gap"`
	// EdgeMargin drops positions this close to the region border, as a
	// fraction of the shorter region side.
	EdgeMargin float64 `json:"edge_margin" mapstructure:"edge_margin"`
	// FallbackStart and FallbackEnd bound the grid when too few lines
	// survive, as fractions of the region side.
	FallbackStart float64 `json:"fallback_start" mapstructure:"fallback_start"`
	FallbackEnd   float64 `json:"fallback_end" mapstructure:"fallback_end"`
}

// DefaultGridParams returns the grid reconstruction defaults for a 19x19
// board.
func DefaultGridParams() GridParams {
	return GridParams{
		Size:               19,
		CannyLow:           40,
		CannyHigh:          120,
		HoughThreshold:     80,
		MinLineRatio:       0.4,
		MaxLineGap:         5,
		Seed:               1,
		HorizontalMaxAngle: 5,
		VerticalMinAngle:   85,
		ClusterGap:         8,
		EdgeMargin:         0.02,
		FallbackStart:      0.05,
		FallbackEnd:        0.95,
	}
}

// ReconstructGrid estimates the board lines in the cropped board image.
//
// Long near-horizontal and near-vertical segments are collected, their
// positions clustered, and clusters hugging the border discarded. The
// outermost survivors on each axis fix the extent of a uniform grid of
// p.Size lines; with fewer than two survivors a fixed extent is assumed.
func ReconstructGrid(board *image.Gray, p GridParams) GridLines {
	b := board.Bounds()
	width, height := b.Dx(), b.Dy()
	shorter := min(width, height)

	edges := imaging.Canny(board, p.CannyLow, p.CannyHigh, p.BlurRadius)
	segments := HoughSegments(edges, HoughParams{
		Threshold: p.HoughThreshold,
		MinLength: int(float64(shorter) * p.MinLineRatio),
		MaxGap:    p.MaxLineGap,
		Seed:      p.Seed,
	})

	horizontal, vertical := SplitSegments(segments, p.HorizontalMaxAngle, p.VerticalMinAngle)

	margin := int(float64(shorter) * p.EdgeMargin)
	rows := withinMargin(ClusterPositions(horizontal, p.ClusterGap), margin, height)
	cols := withinMargin(ClusterPositions(vertical, p.ClusterGap), margin, width)

	return GridLines{
		Rows: uniformLines(rows, height, p),
		Cols: uniformLines(cols, width, p),
	}
}

// SplitSegments sorts segments into horizontal and vertical line positions.
// A horizontal segment contributes the y of its midpoint, a vertical one the
// x. Segments at other angles are ignored.
func SplitSegments(segments []Segment, horizontalMax, verticalMin float64) (horizontal, vertical []int) {
	for _, s := range segments {
		switch angle := s.Angle(); {
		case angle < horizontalMax:
			horizontal = append(horizontal, (s.Y1+s.Y2)/2)
		case angle > verticalMin:
			vertical = append(vertical, (s.X1+s.X2)/2)
		}
	}
	return horizontal, vertical
}

// ClusterPositions sorts positions and merges each value into the current
// cluster when it is less than gap past the cluster's last member. Every
// cluster is replaced by its truncated mean.
func ClusterPositions(positions []int, gap int) []int {
	if len(positions) == 0 {
		return nil
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	var out []int
	sum, n, last := sorted[0], 1, sorted[0]
	for _, v := range sorted[1:] {
		if v-last < gap {
			sum += v
			n++
		} else {
			out = append(out, sum/n)
			sum, n = v, 1
		}
		last = v
	}
	return append(out, sum/n)
}

// withinMargin keeps positions strictly inside (margin, dim-margin).
func withinMargin(positions []int, margin, dim int) []int {
	var out []int
	for _, v := range positions {
		if v > margin && v < dim-margin {
			out = append(out, v)
		}
	}
	return out
}

// uniformLines spreads p.Size evenly spaced lines between the first and last
// detected positions, or across the fallback extent of dim.
func uniformLines(detected []int, dim int, p GridParams) []int {
	first := int(float64(dim) * p.FallbackStart)
	last := int(float64(dim) * p.FallbackEnd)
	if len(detected) >= 2 {
		first, last = detected[0], detected[len(detected)-1]
	}

	lines := make([]int, p.Size)
	if p.Size == 1 {
		lines[0] = first
		return lines
	}
	for i := range lines {
		lines[i] = int(float64(first) + float64(i*(last-first))/float64(p.Size-1))
	}
	return lines
}
