package detection

import (
	"image"
	"testing"

	"github.com/ironsheep/stone2sgf/internal/board"
	"github.com/ironsheep/stone2sgf/internal/boardtest"
	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// createUniformGray creates a gray image filled with one level.
func createUniformGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestClassifyIntersection(t *testing.T) {
	p := DefaultClassifyParams()

	tests := []struct {
		name  string
		level uint8
		want  board.Label
	}{
		{"black stone", 10, board.Dark},
		{"just below dark threshold", 119, board.Dark},
		{"at dark threshold", 120, board.Empty},
		{"board", 184, board.Empty},
		{"at light threshold", 195, board.Empty},
		{"white stone", 240, board.Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := createUniformGray(30, 30, tt.level)
			if got := ClassifyIntersection(gray, 15, 15, 5, p); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIntersection_GridCross(t *testing.T) {
	// Bare intersection: board colour with a two-pixel dark cross.
	gray := createUniformGray(40, 40, 184)
	for i := 0; i < 40; i++ {
		for _, c := range []int{20, 21} {
			gray.Pix[c*40+i] = 20
			gray.Pix[i*40+c] = 20
		}
	}

	if got := ClassifyIntersection(gray, 20, 20, 9, DefaultClassifyParams()); got != board.Empty {
		t.Errorf("grid cross: got %v, want empty", got)
	}
}

func TestClassifyIntersection_ExactHalfIsEmpty(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[0] = 0
	gray.Pix[1] = 255

	// The window is clipped to the two pixels: 50% dark, 50% light.
	if got := ClassifyIntersection(gray, 0, 0, 5, DefaultClassifyParams()); got != board.Empty {
		t.Errorf("got %v, want empty", got)
	}
}

func TestClassifyIntersection_OutsideImage(t *testing.T) {
	gray := createUniformGray(10, 10, 0)

	if got := ClassifyIntersection(gray, -50, -50, 4, DefaultClassifyParams()); got != board.Empty {
		t.Errorf("window outside the image: got %v, want empty", got)
	}
	// Partially clipped window still classifies.
	if got := ClassifyIntersection(gray, 0, 0, 4, DefaultClassifyParams()); got != board.Dark {
		t.Errorf("corner window: got %v, want dark", got)
	}
}

func TestWindowSize(t *testing.T) {
	tests := []struct {
		name  string
		rows  []int
		want  int
	}{
		{"normal board", evenly(29, 28, 19), 9},
		{"double scale", evenly(58, 56, 19), 19},
		{"tiny board", evenly(0, 5, 19), 4},
		{"single row", []int{10}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowSize(GridLines{Rows: tt.rows}, 0.35, 4); got != tt.want {
				t.Errorf("WindowSize: got %d, want %d", got, tt.want)
			}
		})
	}
}

func evenly(start, step, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i*step
	}
	return out
}

func TestClassifyGrid_Mismatch(t *testing.T) {
	gray := createUniformGray(10, 10, 184)
	_, err := ClassifyGrid(gray, GridLines{Rows: []int{1, 2}, Cols: []int{1}}, 4, DefaultClassifyParams())
	if err == nil {
		t.Error("expected error for mismatched rows and columns")
	}
}

func TestStages_SyntheticBoard(t *testing.T) {
	opts := boardtest.Options{Stones: []boardtest.Stone{
		{Row: 3, Col: 3, Label: board.Dark},
		{Row: 15, Col: 15, Label: board.Dark},
		{Row: 9, Col: 9, Label: board.Light},
	}}
	gray := imaging.ToGray(boardtest.Render(opts))

	region := LocateBoard(gray, DefaultRegionParams())
	if region.Fallback {
		t.Fatalf("board outline should be found, got fallback %+v", region)
	}

	crop := imaging.CropGray(gray, region.Rect())
	lines := ReconstructGrid(crop, DefaultGridParams())
	window := WindowSize(lines, 0.35, 4)
	if window != 9 {
		t.Errorf("window: got %d, want 9", window)
	}

	grid, err := ClassifyGrid(crop, lines, window, DefaultClassifyParams())
	if err != nil {
		t.Fatalf("ClassifyGrid failed: %v", err)
	}
	if grid.At(3, 3) != board.Dark || grid.At(15, 15) != board.Dark {
		t.Errorf("dark stones not found:\n%s", grid)
	}
	if grid.At(9, 9) != board.Light {
		t.Errorf("light stone not found:\n%s", grid)
	}
	if grid.Count(board.Dark) != 2 || grid.Count(board.Light) != 1 {
		t.Errorf("counts: dark %d light %d, want 2 and 1:\n%s",
			grid.Count(board.Dark), grid.Count(board.Light), grid)
	}
}
