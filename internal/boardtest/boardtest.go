// Package boardtest renders synthetic board photographs for tests.
//
// The layout at scale 1 is a 640x640 canvas with a dark surround, a wooden
// board covering [40, 600) on both axes and size lines spread evenly between
// 68 and 572, each two pixels wide. Every length is multiplied by Scale.
package boardtest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/stone2sgf/internal/board"
)

// Colours chosen so the board reads as luma 184: darker than the light
// threshold and lighter than the dark threshold.
var (
	Surround   = color.RGBA{60, 60, 60, 255}
	Wood       = color.RGBA{220, 180, 110, 255}
	Ink        = color.RGBA{20, 20, 20, 255}
	DarkStone  = color.RGBA{15, 15, 15, 255}
	LightStone = color.RGBA{240, 240, 240, 255}
)

// Stone places a marker at a board intersection.
type Stone struct {
	Row, Col int
	Label    board.Label
}

// Options describes the rendered board.
type Options struct {
	Scale  int // default 1
	Size   int // lines per side, default 19
	Stones []Stone
}

const (
	canvas     = 640
	boardMin   = 40
	boardMax   = 600
	firstLine  = 68
	lineExtent = 504
	lineWidth  = 2
)

// Spacing returns the distance between adjacent lines.
func (o Options) Spacing() int {
	return lineExtent * o.scale() / (o.size() - 1)
}

// Line returns the top (or left) pixel of line i.
func (o Options) Line(i int) int {
	return firstLine*o.scale() + i*o.Spacing()
}

func (o Options) scale() int {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Options) size() int {
	if o.Size <= 1 {
		return board.DefaultSize
	}
	return o.Size
}

// Render draws the board.
func Render(o Options) *image.RGBA {
	s := o.scale()
	n := canvas * s
	img := image.NewRGBA(image.Rect(0, 0, n, n))

	fill(img, image.Rect(0, 0, n, n), Surround)
	fill(img, image.Rect(boardMin*s, boardMin*s, boardMax*s, boardMax*s), Wood)

	lo, hi := o.Line(0), o.Line(o.size()-1)+lineWidth*s
	for i := 0; i < o.size(); i++ {
		p := o.Line(i)
		fill(img, image.Rect(lo, p, hi, p+lineWidth*s), Ink)
		fill(img, image.Rect(p, lo, p+lineWidth*s, hi), Ink)
	}

	radius := 0.45 * float64(o.Spacing())
	for _, st := range o.Stones {
		c := DarkStone
		if st.Label == board.Light {
			c = LightStone
		}
		cx := float64(o.Line(st.Col) + lineWidth*s/2)
		cy := float64(o.Line(st.Row) + lineWidth*s/2)
		disc(img, cx, cy, radius, c)
	}
	return img
}

// PNG renders the board and encodes it.
func PNG(t testing.TB, o Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(o)); err != nil {
		t.Fatalf("encode synthetic board: %v", err)
	}
	return buf.Bytes()
}

// Uniform returns a PNG of a single flat colour.
func Uniform(t testing.TB, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode uniform image: %v", err)
	}
	return buf.Bytes()
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// disc fills pixels whose centres lie within radius of (cx, cy).
func disc(img *image.RGBA, cx, cy, radius float64, c color.Color) {
	r := int(radius) + 2
	for y := int(cy) - r; y <= int(cy)+r; y++ {
		for x := int(cx) - r; x <= int(cx)+r; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= radius*radius && image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, c)
			}
		}
	}
}
