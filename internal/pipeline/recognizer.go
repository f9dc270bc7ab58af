// Package pipeline turns board photographs into SGF records.
//
// A Recognizer takes raw image bytes and produces a Result. Vision is the
// local implementation chaining board location, grid reconstruction,
// intersection classification and record encoding. Other implementations
// (a remote model service, for example) plug in through the same interface
// and are chosen by strategy name with Select.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/stone2sgf/internal/board"
	"github.com/ironsheep/stone2sgf/internal/detection"
	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

// Recognizer converts an encoded board photograph into a record.
type Recognizer interface {
	// Recognize returns the record for data or a single error; it never
	// returns a partial record.
	Recognize(ctx context.Context, data []byte) (*Result, error)
}

// Result is the outcome of one recognition.
type Result struct {
	// Record is the encoded position. Nil only for results of Vision.Analyze.
	Record *sgf.Record `json:"record,omitempty"`

	// Strategy names the recognizer that produced the result.
	Strategy Strategy `json:"strategy"`

	// The fields below are filled by the vision recognizer only.

	// Image is the working image the coordinates refer to, after any
	// downscaling.
	Image image.Image `json:"-"`
	// Region is the board bounding box in working-image coordinates.
	Region *detection.Region `json:"region,omitempty"`
	// Lines are the grid positions local to Region.
	Lines *detection.GridLines `json:"lines,omitempty"`
	// Window is the classifier's sampling half-width in pixels.
	Window int `json:"window,omitempty"`
	// Grid holds the label of every intersection.
	Grid *board.Grid `json:"-"`
}

// Strategy names a recognizer implementation.
type Strategy string

const (
	// StrategyVision is the local computer-vision pipeline.
	StrategyVision Strategy = "vision"
	// StrategyRemote delegates to an external model service.
	StrategyRemote Strategy = "remote"
)

// ErrUnknownStrategy is returned by Select for names with no recognizer.
var ErrUnknownStrategy = errors.New("unknown recognition strategy")

// Select returns the recognizer registered for strategy. An empty strategy
// means StrategyVision.
func Select(strategy Strategy, available map[Strategy]Recognizer) (Recognizer, error) {
	if strategy == "" {
		strategy = StrategyVision
	}
	if r, ok := available[strategy]; ok && r != nil {
		return r, nil
	}

	names := make([]string, 0, len(available))
	for name, r := range available {
		if r != nil {
			names = append(names, string(name))
		}
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownStrategy, strategy, names)
}

// IsInputError reports whether err is the caller's fault: undecodable bytes
// or a picture with no stones. Transports answer these as bad requests and
// everything else as internal failures.
func IsInputError(err error) bool {
	return errors.Is(err, imaging.ErrDecode) || errors.Is(err, sgf.ErrNoStones)
}
