package sgf

import "errors"

// ErrNoStones is the sentinel matched by DetectionEmptyError.
var ErrNoStones = errors.New("no stones detected")

// ErrInvalid is returned when text is not an SGF record.
var ErrInvalid = errors.New("invalid SGF")

// DetectionEmptyError reports that recognition found no stones at all. It is
// an input problem: the picture is most likely not a usable board photo.
type DetectionEmptyError struct{}

func (e *DetectionEmptyError) Error() string {
	return "No stones detected. Make sure the image shows a clear top-down view of a Go board with good contrast."
}

func (e *DetectionEmptyError) Unwrap() error { return ErrNoStones }
