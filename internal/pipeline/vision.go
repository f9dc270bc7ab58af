package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/stone2sgf/internal/detection"
	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

// Vision recognizes boards with classical computer vision. It holds no
// mutable state and is safe for concurrent use.
type Vision struct {
	cfg    Config
	logger zerolog.Logger
}

// NewVision validates cfg and returns a recognizer using it.
func NewVision(cfg Config, logger zerolog.Logger) (*Vision, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vision config: %w", err)
	}
	return &Vision{cfg: cfg, logger: logger.With().Str("recognizer", string(StrategyVision)).Logger()}, nil
}

// Config returns the parameters the recognizer was built with.
func (v *Vision) Config() Config { return v.cfg }

// Recognize decodes data, measures the board and encodes the stones found.
//
// # Errors
//
//   - *imaging.DecodeError if data is not a supported image
//   - *sgf.DetectionEmptyError if no stone was found
//   - ctx.Err() if ctx is already done
func (v *Vision) Recognize(ctx context.Context, data []byte) (*Result, error) {
	res, err := v.Analyze(ctx, data)
	if err != nil {
		return nil, err
	}

	rec, err := sgf.Encode(res.Grid, sgf.EncodeOptions{AppID: v.cfg.AppID})
	if err != nil {
		return nil, err
	}
	res.Record = rec

	v.logger.Debug().
		Int("black", rec.DarkCount).
		Int("white", rec.LightCount).
		Msg("record encoded")
	return res, nil
}

// Analyze runs every stage except encoding, so callers can inspect the
// region, grid and labels even for a board without stones.
func (v *Vision) Analyze(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	img = imaging.FitWithin(img, v.cfg.MaxDimension)
	gray := imaging.ToGray(img)

	region := detection.LocateBoard(gray, v.cfg.Region)
	ev := v.logger.Debug().
		Int("width", gray.Rect.Dx()).
		Int("height", gray.Rect.Dy()).
		Interface("region", region)
	if region.Fallback {
		ev.Msg("no board outline found, using margin crop")
	} else {
		ev.Msg("board located")
	}

	crop := imaging.CropGray(gray, region.Rect())
	lines := detection.ReconstructGrid(crop, v.cfg.gridParams())
	window := detection.WindowSize(lines, v.cfg.Classify.WindowRatio, v.cfg.Classify.MinWindow)
	v.logger.Debug().
		Ints("rows", lines.Rows).
		Ints("cols", lines.Cols).
		Int("window", window).
		Msg("grid reconstructed")

	grid, err := detection.ClassifyGrid(crop, lines, window, v.cfg.Classify)
	if err != nil {
		return nil, fmt.Errorf("classify intersections: %w", err)
	}

	return &Result{
		Strategy: StrategyVision,
		Image:    img,
		Region:   &region,
		Lines:    &lines,
		Window:   window,
		Grid:     grid,
	}, nil
}
