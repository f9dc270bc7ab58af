package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeOverlay(t *testing.T, res *OverlayResult) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("overlay is not a valid PNG: %v", err)
	}
	return img
}

func TestRenderOverlay(t *testing.T) {
	src := createInMemoryImage(120, 120, color.RGBA{128, 128, 128, 255})

	res, err := RenderOverlay(src, Overlay{
		Region: image.Rect(10, 10, 110, 110),
		Rows:   []int{10, 50, 90},
		Cols:   []int{10, 50, 90},
		Marks:  []Mark{{X: 50, Y: 50, Kind: MarkDark}, {X: 10, Y: 90, Kind: MarkLight}},
		Labels: true,
	})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if res.Width != 120 || res.Height != 120 {
		t.Errorf("dimensions: got %dx%d, want 120x120", res.Width, res.Height)
	}

	img := decodeOverlay(t, res)

	// A grid line pixel takes the grid color, not the gray background.
	r, g, b, _ := img.At(40, 60).RGBA()
	if r>>8 < 200 || g>>8 > 100 || b>>8 > 100 {
		t.Errorf("grid pixel (40,60) should be red, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// Away from all drawing the source shows through.
	r, g, b, _ = img.At(3, 3).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Errorf("background pixel changed: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRenderOverlay_GridColorOverride(t *testing.T) {
	src := createInMemoryImage(60, 60, color.White)

	res, err := RenderOverlay(src, Overlay{
		Region:    image.Rect(0, 0, 60, 60),
		Rows:      []int{10, 30, 50},
		Cols:      []int{10, 30, 50},
		GridColor: "#0000ff",
	})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	r, g, b, _ := decodeOverlay(t, res).At(20, 30).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("grid pixel should be blue, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRenderOverlay_InvalidColor(t *testing.T) {
	src := createInMemoryImage(10, 10, color.White)

	if _, err := RenderOverlay(src, Overlay{GridColor: "#GGGGGG"}); err == nil {
		t.Error("expected error for invalid grid color")
	}
}

func TestRenderOverlay_NoGrid(t *testing.T) {
	src := createInMemoryImage(30, 30, color.White)

	res, err := RenderOverlay(src, Overlay{Region: image.Rect(5, 5, 25, 25)})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	// The region outline is drawn even without grid lines.
	r, g, b, _ := decodeOverlay(t, res).At(15, 5).RGBA()
	if g>>8 < 150 || r>>8 > 100 || b>>8 > 100 {
		t.Errorf("region outline should be green, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestDrawText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	drawText(img, 5, 14, "ab", color.White)

	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("drawText should draw some pixels")
	}
}
