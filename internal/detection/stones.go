package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/stone2sgf/internal/board"
)

// ClassifyParams holds the intensity thresholds of the intersection
// classifier.
type ClassifyParams struct {
	// DarkThreshold: pixels strictly below it count as dark.
	DarkThreshold uint8 `json:"dark_threshold" mapstructure:"dark_threshold"`
	// LightThreshold: pixels strictly above it count as light.
	LightThreshold uint8 `json:"light_threshold" mapstructure:"light_threshold"`
	// StoneFraction is the share of the window that must be dark (or light)
	// for a stone, exclusive.
	StoneFraction float64 `json:"stone_fraction" mapstructure:"stone_fraction"`
	// WindowRatio and MinWindow size the sampling window: the half-width is
	// max(MinWindow, int(WindowRatio * cell size)).
	WindowRatio float64 `json:"window_ratio" mapstructure:"window_ratio"`
	MinWindow   int     `json:"min_window" mapstructure:"min_window"`
}

// DefaultClassifyParams returns the classifier defaults.
func DefaultClassifyParams() ClassifyParams {
	return ClassifyParams{
		DarkThreshold:  120,
		LightThreshold: 195,
		StoneFraction:  0.5,
		WindowRatio:    0.35,
		MinWindow:      4,
	}
}

// WindowSize returns the sampling half-width for a grid: ratio times the
// average row spacing, but at least minWindow.
func WindowSize(lines GridLines, ratio float64, minWindow int) int {
	if len(lines.Rows) < 2 {
		return minWindow
	}
	cell := float64(lines.Rows[len(lines.Rows)-1]-lines.Rows[0]) / float64(len(lines.Rows)-1)
	return max(minWindow, int(cell*ratio))
}

// ClassifyIntersection labels the intersection at pixel (col, row) of the
// board image by the share of dark and light pixels in the square window of
// half-width window around it. The window is clipped to the image; a window
// that falls entirely outside reads as Empty.
func ClassifyIntersection(gray *image.Gray, row, col, window int, p ClassifyParams) board.Label {
	r := image.Rect(col-window, row-window, col+window+1, row+window+1).Intersect(gray.Bounds())
	total := r.Dx() * r.Dy()
	if total == 0 {
		return board.Empty
	}

	dark, light := 0, 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := gray.PixOffset(r.Min.X, y)
		for _, v := range gray.Pix[off : off+r.Dx()] {
			if v < p.DarkThreshold {
				dark++
			} else if v > p.LightThreshold {
				light++
			}
		}
	}

	switch {
	case float64(dark)/float64(total) > p.StoneFraction:
		return board.Dark
	case float64(light)/float64(total) > p.StoneFraction:
		return board.Light
	default:
		return board.Empty
	}
}

// ClassifyGrid labels every intersection of lines. Rows and Cols must have
// the same length, which becomes the grid size.
func ClassifyGrid(gray *image.Gray, lines GridLines, window int, p ClassifyParams) (*board.Grid, error) {
	if len(lines.Rows) != len(lines.Cols) {
		return nil, fmt.Errorf("grid has %d rows but %d columns", len(lines.Rows), len(lines.Cols))
	}
	grid, err := board.NewGrid(len(lines.Rows))
	if err != nil {
		return nil, err
	}
	for i, y := range lines.Rows {
		for j, x := range lines.Cols {
			grid.Set(i, j, ClassifyIntersection(gray, y, x, window, p))
		}
	}
	return grid, nil
}
