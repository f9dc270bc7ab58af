package pipeline

import (
	"errors"

	"github.com/ironsheep/stone2sgf/internal/board"
	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// ErrNoStages is returned by Overlay for results that carry no region or
// grid, such as those of the remote recognizer.
var ErrNoStages = errors.New("result has no detection stages to draw")

// Overlay describes the result's region, grid and stones for
// imaging.RenderOverlay. Callers may set Labels and GridColor before
// rendering.
func (r *Result) Overlay() (imaging.Overlay, error) {
	if r.Region == nil || r.Lines == nil || r.Grid == nil {
		return imaging.Overlay{}, ErrNoStages
	}
	o := imaging.Overlay{
		Region: r.Region.Rect(),
		Rows:   r.Lines.Rows,
		Cols:   r.Lines.Cols,
	}
	for row, y := range r.Lines.Rows {
		for col, x := range r.Lines.Cols {
			switch r.Grid.At(row, col) {
			case board.Dark:
				o.Marks = append(o.Marks, imaging.Mark{X: x, Y: y, Kind: imaging.MarkDark})
			case board.Light:
				o.Marks = append(o.Marks, imaging.Mark{X: x, Y: y, Kind: imaging.MarkLight})
			}
		}
	}
	return o, nil
}
