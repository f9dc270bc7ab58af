package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestToGray(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"white", color.White, 255},
		{"black", color.Black, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGray(createInMemoryImage(4, 3, tt.c))
			if gray.Bounds() != image.Rect(0, 0, 4, 3) {
				t.Fatalf("bounds: got %v", gray.Bounds())
			}
			got := gray.GrayAt(2, 1).Y
			if diff := int(got) - int(tt.want); diff < -1 || diff > 1 {
				t.Errorf("gray value: got %d, want ~%d", got, tt.want)
			}
		})
	}
}

func TestToGray_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 15, 25))
	img.Set(10, 20, color.White)

	gray := ToGray(img)
	if gray.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("bounds: got %v, want origin-based 5x5", gray.Bounds())
	}
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("top-left: got %d, want 255", gray.GrayAt(0, 0).Y)
	}
}

func TestCropGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(y*10 + x)})
		}
	}

	crop := CropGray(gray, image.Rect(2, 3, 6, 8))
	if crop.Bounds() != image.Rect(0, 0, 4, 5) {
		t.Fatalf("bounds: got %v, want (0,0)-(4,5)", crop.Bounds())
	}
	if got := crop.GrayAt(0, 0).Y; got != 32 {
		t.Errorf("crop(0,0): got %d, want 32", got)
	}
	if got := crop.GrayAt(3, 4).Y; got != 75 {
		t.Errorf("crop(3,4): got %d, want 75", got)
	}
}

func TestCropGray_Clipped(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))

	crop := CropGray(gray, image.Rect(-5, -5, 4, 20))
	if crop.Bounds().Dx() != 4 || crop.Bounds().Dy() != 10 {
		t.Errorf("clipped crop: got %v", crop.Bounds())
	}

	empty := CropGray(gray, image.Rect(20, 20, 30, 30))
	if !empty.Bounds().Empty() {
		t.Errorf("disjoint crop should be empty, got %v", empty.Bounds())
	}
}

func TestFitWithin(t *testing.T) {
	img := createInMemoryImage(400, 200, color.White)

	small := FitWithin(img, 100)
	if small.Bounds().Dx() != 100 || small.Bounds().Dy() != 50 {
		t.Errorf("fit: got %dx%d, want 100x50", small.Bounds().Dx(), small.Bounds().Dy())
	}

	if FitWithin(img, 0) != image.Image(img) {
		t.Error("maxDim 0 should return the input unchanged")
	}
	if FitWithin(img, 500) != image.Image(img) {
		t.Error("image within limits should be returned unchanged")
	}
}
