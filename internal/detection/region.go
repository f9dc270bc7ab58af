package detection

import (
	"image"

	"github.com/ironsheep/stone2sgf/internal/imaging"
)

// Region is an axis-aligned rectangle in working-image pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Fallback is true when no board outline qualified and the region is
	// the fixed-margin crop.
	Fallback bool `json:"fallback"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// RegionParams controls the board locator.
type RegionParams struct {
	CannyLow   float64 `json:"canny_low" mapstructure:"canny_low"`
	CannyHigh  float64 `json:"canny_high" mapstructure:"canny_high"`
	BlurRadius float64 `json:"blur_radius" mapstructure:"blur_radius"`

	// Candidates is how many of the largest contours are examined.
	Candidates int `json:"candidates" mapstructure:"candidates"`
	// MinAreaRatio is the smallest contour area accepted, as a fraction of
	// the image area.
	MinAreaRatio float64 `json:"min_area_ratio" mapstructure:"min_area_ratio"`
	// ApproxRatio is the polygon simplification tolerance as a fraction of
	// the contour perimeter.
	ApproxRatio float64 `json:"approx_ratio" mapstructure:"approx_ratio"`
	// MinAspect and MaxAspect bound width/height, both exclusive.
	MinAspect float64 `json:"min_aspect" mapstructure:"min_aspect"`
	MaxAspect float64 `json:"max_aspect" mapstructure:"max_aspect"`
	// FallbackMargin is the inset used when nothing qualifies, as a fraction
	// of the shorter image side.
	FallbackMargin float64 `json:"fallback_margin" mapstructure:"fallback_margin"`
}

// DefaultRegionParams returns the board locator defaults.
func DefaultRegionParams() RegionParams {
	return RegionParams{
		CannyLow:       50,
		CannyHigh:      150,
		Candidates:     5,
		MinAreaRatio:   0.10,
		ApproxRatio:    0.02,
		MinAspect:      0.7,
		MaxAspect:      1.3,
		FallbackMargin: 0.03,
	}
}

// LocateBoard finds the bounding box of the board in a grayscale image.
//
// The largest external contours of the edge map are examined in order; the
// first one that is big enough, simplifies to a quadrilateral and is close
// to square wins. When none does, a crop with a fixed margin on every side
// is returned with Fallback set. LocateBoard never fails.
func LocateBoard(gray *image.Gray, p RegionParams) Region {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()

	edges := imaging.Canny(gray, p.CannyLow, p.CannyHigh, p.BlurRadius).Dilate()
	contours := ExternalContours(edges)

	minArea := float64(width*height) * p.MinAreaRatio
	for i, c := range contours {
		if i >= p.Candidates {
			break
		}
		if c.Area < minArea {
			continue
		}
		approx := approxPolygon(c.Points, p.ApproxRatio*arcLength(c.Points))
		if len(approx) != 4 {
			continue
		}
		x, y, w, h := boundingBox(c.Points)
		if aspect := float64(w) / float64(h); aspect > p.MinAspect && aspect < p.MaxAspect {
			return Region{X: x + b.Min.X, Y: y + b.Min.Y, Width: w, Height: h}
		}
	}

	return fallbackRegion(b, p.FallbackMargin)
}

// fallbackRegion insets b by int(ratio * shorter side) on every side.
func fallbackRegion(b image.Rectangle, ratio float64) Region {
	m := int(float64(min(b.Dx(), b.Dy())) * ratio)
	return Region{
		X:        b.Min.X + m,
		Y:        b.Min.Y + m,
		Width:    b.Dx() - 2*m,
		Height:   b.Dy() - 2*m,
		Fallback: true,
	}
}
