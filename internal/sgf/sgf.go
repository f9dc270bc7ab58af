// Package sgf writes and reads the small subset of Smart Game Format used
// for board positions: a root node with game information followed by one
// setup node listing black (AB) and white (AW) stones.
package sgf

import (
	"fmt"
	"strings"

	"github.com/ironsheep/stone2sgf/internal/board"
)

// DefaultAppID is written to the AP property when no other id is given.
const DefaultAppID = "Stone-to-SGF-CV:1.0"

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// AppID is the AP property value; empty means DefaultAppID.
	AppID string
}

// Record is an encoded position.
type Record struct {
	// Text is the complete SGF document.
	Text string `json:"sgf"`

	Size       int                `json:"size"`
	Dark       []board.Coordinate `json:"-"`
	Light      []board.Coordinate `json:"-"`
	DarkCount  int                `json:"black"`
	LightCount int                `json:"white"`
}

// Encode serializes the stones of grid. Intersections are scanned row by
// row, top to bottom and left to right, and listed in that order. A grid
// without any stone is an error of type *DetectionEmptyError.
func Encode(grid *board.Grid, opts EncodeOptions) (*Record, error) {
	appID := opts.AppID
	if appID == "" {
		appID = DefaultAppID
	}

	dark := grid.Stones(board.Dark)
	light := grid.Stones(board.Light)
	if len(dark) == 0 && len(light) == 0 {
		return nil, &DetectionEmptyError{}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "(;FF[4]GM[1]SZ[%d]CA[UTF-8]AP[%s]\n;AB", grid.Size(), escape(appID))
	writeCoords(&sb, dark)
	sb.WriteString("AW")
	writeCoords(&sb, light)
	sb.WriteByte(')')

	return &Record{
		Text:       sb.String(),
		Size:       grid.Size(),
		Dark:       dark,
		Light:      light,
		DarkCount:  len(dark),
		LightCount: len(light),
	}, nil
}

func writeCoords(sb *strings.Builder, coords []board.Coordinate) {
	for _, c := range coords {
		sb.WriteByte('[')
		sb.WriteString(c.Code())
		sb.WriteByte(']')
	}
}

// escape backslash-escapes the characters that end or escape an SGF value.
func escape(s string) string {
	if !strings.ContainsAny(s, `]\`) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if r == ']' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
