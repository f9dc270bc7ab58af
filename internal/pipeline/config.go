package pipeline

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/ironsheep/stone2sgf/internal/detection"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

// Config holds every numeric parameter of the vision recognizer. It is
// passed explicitly; there are no package-level settings.
type Config struct {
	// BoardSize is the number of lines per side: 9, 13 or 19.
	BoardSize int `json:"board_size" mapstructure:"board_size"`

	// MaxDimension downscales photos whose longer side exceeds it before
	// detection. 0 keeps the original resolution.
	MaxDimension int `json:"max_dimension" mapstructure:"max_dimension"`

	// AppID is written to the record's AP property.
	AppID string `json:"app_id" mapstructure:"app_id"`

	Region   detection.RegionParams   `json:"region" mapstructure:"region"`
	Grid     detection.GridParams     `json:"grid" mapstructure:"grid"`
	Classify detection.ClassifyParams `json:"classify" mapstructure:"classify"`
}

// DefaultConfig returns the parameters used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BoardSize: 19,
		AppID:     sgf.DefaultAppID,
		Region:    detection.DefaultRegionParams(),
		Grid:      detection.DefaultGridParams(),
		Classify:  detection.DefaultClassifyParams(),
	}
}

// Validate reports every out-of-range parameter at once.
func (c Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.BoardSize == 9 || c.BoardSize == 13 || c.BoardSize == 19,
		"board_size must be 9, 13 or 19, got %d", c.BoardSize)
	check(c.MaxDimension >= 0, "max_dimension must not be negative, got %d", c.MaxDimension)

	r := c.Region
	check(r.CannyLow > 0 && r.CannyLow < r.CannyHigh,
		"region canny thresholds must satisfy 0 < low < high, got %v/%v", r.CannyLow, r.CannyHigh)
	check(r.BlurRadius >= 0, "region blur_radius must not be negative, got %v", r.BlurRadius)
	check(r.Candidates >= 1, "region candidates must be at least 1, got %d", r.Candidates)
	check(r.MinAreaRatio >= 0 && r.MinAreaRatio < 1, "region min_area_ratio must be in [0, 1), got %v", r.MinAreaRatio)
	check(r.ApproxRatio > 0 && r.ApproxRatio < 1, "region approx_ratio must be in (0, 1), got %v", r.ApproxRatio)
	check(r.MinAspect > 0 && r.MinAspect < r.MaxAspect,
		"region aspect bounds must satisfy 0 < min < max, got %v/%v", r.MinAspect, r.MaxAspect)
	check(r.FallbackMargin >= 0 && r.FallbackMargin < 0.5,
		"region fallback_margin must be in [0, 0.5), got %v", r.FallbackMargin)

	g := c.Grid
	check(g.CannyLow > 0 && g.CannyLow < g.CannyHigh,
		"grid canny thresholds must satisfy 0 < low < high, got %v/%v", g.CannyLow, g.CannyHigh)
	check(g.BlurRadius >= 0, "grid blur_radius must not be negative, got %v", g.BlurRadius)
	check(g.HoughThreshold >= 1, "grid hough_threshold must be at least 1, got %d", g.HoughThreshold)
	check(g.MinLineRatio > 0 && g.MinLineRatio <= 1, "grid min_line_ratio must be in (0, 1], got %v", g.MinLineRatio)
	check(g.MaxLineGap >= 0, "grid max_line_gap must not be negative, got %d", g.MaxLineGap)
	check(g.HorizontalMaxAngle > 0 && g.HorizontalMaxAngle < g.VerticalMinAngle && g.VerticalMinAngle < 90,
		"grid angles must satisfy 0 < horizontal_max < vertical_min < 90, got %v/%v", g.HorizontalMaxAngle, g.VerticalMinAngle)
	check(g.ClusterGap >= 1, "grid cluster_gap must be at least 1, got %d", g.ClusterGap)
	check(g.EdgeMargin >= 0 && g.EdgeMargin < 0.5, "grid edge_margin must be in [0, 0.5), got %v", g.EdgeMargin)
	check(g.FallbackStart >= 0 && g.FallbackStart < g.FallbackEnd && g.FallbackEnd <= 1,
		"grid fallback extent must satisfy 0 <= start < end <= 1, got %v/%v", g.FallbackStart, g.FallbackEnd)

	k := c.Classify
	check(k.DarkThreshold < k.LightThreshold,
		"classify dark_threshold must be below light_threshold, got %d/%d", k.DarkThreshold, k.LightThreshold)
	check(k.StoneFraction > 0 && k.StoneFraction < 1, "classify stone_fraction must be in (0, 1), got %v", k.StoneFraction)
	check(k.WindowRatio > 0, "classify window_ratio must be positive, got %v", k.WindowRatio)
	check(k.MinWindow >= 1, "classify min_window must be at least 1, got %d", k.MinWindow)

	return err
}

// gridParams returns the grid parameters for the configured board size.
func (c Config) gridParams() detection.GridParams {
	g := c.Grid
	g.Size = c.BoardSize
	return g
}
