package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts an image to 8-bit grayscale using ITU-R BT.601 luma
// weights (0.299*R + 0.587*G + 0.114*B).
//
// The result always has its origin at (0, 0).
func ToGray(img image.Image) *image.Gray {
	src := imaging.Grayscale(img)
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		dstRow := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dstRow {
			// Grayscale leaves R == G == B.
			dstRow[x] = srcRow[x*4]
		}
	}
	return gray
}

// FitWithin downscales img so that neither side exceeds maxDim, keeping the
// aspect ratio. Images already small enough, or maxDim <= 0, are returned
// unchanged.
func FitWithin(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// CropGray copies the part of gray inside r into a new image whose origin is
// (0, 0). r is clipped to the image bounds; an empty intersection yields an
// empty image.
func CropGray(gray *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(gray.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := gray.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], gray.Pix[src:src+r.Dx()])
	}
	return out
}
