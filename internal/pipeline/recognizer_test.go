package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

type fixedRecognizer struct{ res *Result }

func (f fixedRecognizer) Recognize(context.Context, []byte) (*Result, error) { return f.res, nil }

func TestSelect(t *testing.T) {
	vision, err := NewVision(DefaultConfig(), zerolog.Nop())
	test.That(t, err, test.ShouldBeNil)
	remote := fixedRecognizer{res: &Result{Strategy: StrategyRemote}}

	available := map[Strategy]Recognizer{StrategyVision: vision, StrategyRemote: remote}

	r, err := Select("", available)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r, test.ShouldEqual, vision)

	r, err = Select(StrategyRemote, available)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r, test.ShouldResemble, remote)

	_, err = Select("oracle", available)
	test.That(t, errors.Is(err, ErrUnknownStrategy), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "[remote vision]")

	_, err = Select(StrategyRemote, map[Strategy]Recognizer{StrategyVision: vision, StrategyRemote: nil})
	test.That(t, errors.Is(err, ErrUnknownStrategy), test.ShouldBeTrue)
}

func TestIsInputError(t *testing.T) {
	test.That(t, IsInputError(&imaging.DecodeError{Err: errors.New("bad")}), test.ShouldBeTrue)
	test.That(t, IsInputError(fmt.Errorf("wrapped: %w", &sgf.DetectionEmptyError{})), test.ShouldBeTrue)
	test.That(t, IsInputError(sgf.ErrInvalid), test.ShouldBeFalse)
	test.That(t, IsInputError(context.DeadlineExceeded), test.ShouldBeFalse)
	test.That(t, IsInputError(nil), test.ShouldBeFalse)
}

func TestConfigValidate(t *testing.T) {
	test.That(t, DefaultConfig().Validate(), test.ShouldBeNil)

	for _, size := range []int{9, 13, 19} {
		cfg := DefaultConfig()
		cfg.BoardSize = size
		test.That(t, cfg.Validate(), test.ShouldBeNil)
		test.That(t, cfg.gridParams().Size, test.ShouldEqual, size)
	}

	cfg := DefaultConfig()
	cfg.BoardSize = 15
	cfg.MaxDimension = -1
	cfg.Region.CannyLow = 200
	cfg.Grid.HorizontalMaxAngle = 90
	cfg.Classify.DarkThreshold = 200
	cfg.Classify.StoneFraction = 1

	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 6)
	test.That(t, err.Error(), test.ShouldContainSubstring, "board_size must be 9, 13 or 19, got 15")
}

func TestNewVisionRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Classify.MinWindow = 0

	v, err := NewVision(cfg, zerolog.Nop())
	test.That(t, v, test.ShouldBeNil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "min_window")
}
