package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MarkKind selects how a classified intersection is drawn.
type MarkKind int

const (
	// MarkDark outlines a dark stone.
	MarkDark MarkKind = iota + 1
	// MarkLight outlines a light stone.
	MarkLight
)

// Mark is a classified intersection in region-local coordinates.
type Mark struct {
	X    int
	Y    int
	Kind MarkKind
}

// Overlay describes what RenderOverlay draws on top of the source image.
type Overlay struct {
	// Region is the board rectangle in source-image coordinates.
	Region image.Rectangle

	// Rows and Cols are grid line positions local to Region.
	Rows []int
	Cols []int

	// Marks are the stones to outline, local to Region.
	Marks []Mark

	// Radius of the stone outlines in pixels. 0 means a third of the cell size.
	Radius int

	// Labels draws SGF letters next to the outer grid lines.
	Labels bool

	// GridColor is a "#RRGGBB" override for the grid lines. Empty keeps the
	// default palette.
	GridColor string
}

// OverlayResult is an annotated PNG.
type OverlayResult struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    []byte `json:"-"`
}

// Palette used by RenderOverlay, built from HSV hues so each layer stays
// distinguishable on both light and dark boards.
var (
	regionColor = colorful.Hsv(120, 0.9, 0.85) // green
	gridColor   = colorful.Hsv(0, 0.9, 0.95)   // red
	darkColor   = colorful.Hsv(200, 0.8, 1.0)  // cyan
	lightColor  = colorful.Hsv(30, 0.9, 1.0)   // orange
	labelColor  = colorful.Hsv(60, 0.9, 1.0)   // yellow
)

// RenderOverlay draws the detected region, grid and stones over src and
// returns the result encoded as PNG.
//
// # Errors
//
//   - Returns an error if GridColor is not a valid hex color
//   - Returns an error if PNG encoding fails
func RenderOverlay(src image.Image, o Overlay) (*OverlayResult, error) {
	lines := color.Color(gridColor)
	if o.GridColor != "" {
		c, err := colorful.Hex(o.GridColor)
		if err != nil {
			return nil, fmt.Errorf("invalid grid color %q: %w", o.GridColor, err)
		}
		lines = c
	}

	// Clone moves the image to the origin, matching the grayscale pipeline.
	base := imaging.Clone(src)
	bounds := base.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, base, bounds.Min, draw.Src)

	r := o.Region
	drawRect(dst, r, regionColor)

	if len(o.Rows) > 0 && len(o.Cols) > 0 {
		left, right := r.Min.X+o.Cols[0], r.Min.X+o.Cols[len(o.Cols)-1]
		top, bottom := r.Min.Y+o.Rows[0], r.Min.Y+o.Rows[len(o.Rows)-1]
		for _, row := range o.Rows {
			for x := left; x <= right; x++ {
				setClipped(dst, x, r.Min.Y+row, lines)
			}
		}
		for _, col := range o.Cols {
			for y := top; y <= bottom; y++ {
				setClipped(dst, r.Min.X+col, y, lines)
			}
		}

		if o.Labels {
			for i, col := range o.Cols {
				drawText(dst, r.Min.X+col-3, top-6, string(rune('a'+i)), labelColor)
			}
			for i, row := range o.Rows {
				drawText(dst, left-14, r.Min.Y+row+4, string(rune('a'+i)), labelColor)
			}
		}
	}

	radius := o.Radius
	if radius <= 0 && len(o.Rows) > 1 {
		cell := float64(o.Rows[len(o.Rows)-1]-o.Rows[0]) / float64(len(o.Rows)-1)
		radius = int(cell / 3)
	}
	if radius < 2 {
		radius = 2
	}
	for _, m := range o.Marks {
		c := darkColor
		if m.Kind == MarkLight {
			c = lightColor
		}
		drawCircle(dst, r.Min.X+m.X, r.Min.Y+m.Y, radius, c)
		drawCircle(dst, r.Min.X+m.X, r.Min.Y+m.Y, radius-1, c)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &OverlayResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		PNG:    buf.Bytes(),
	}, nil
}

func setClipped(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(img, x, r.Min.Y, c)
		setClipped(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(img, r.Min.X, y, c)
		setClipped(img, r.Max.X-1, y, c)
	}
}

func drawCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	steps := int(2*math.Pi*float64(radius)) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(float64(radius)*math.Cos(a)))
		y := cy + int(math.Round(float64(radius)*math.Sin(a)))
		setClipped(img, x, y, c)
	}
}

// drawText writes s with its baseline at (x, y) using the 7x13 bitmap face.
func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
