package sgf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/stone2sgf/internal/board"
)

// Summary describes a parsed position.
type Summary struct {
	Size       int      `json:"size"`
	AppID      string   `json:"app,omitempty"`
	BlackCount int      `json:"black"`
	WhiteCount int      `json:"white"`
	Black      []string `json:"black_points"`
	White      []string `json:"white_points"`
}

// Parse reads the board size and setup stones of an SGF record. Properties
// are collected from every node; other properties are ignored. SZ defaults
// to 19. Both point lists may use the compressed "aa:cc" rectangle form.
// Stones are returned in row-major order without duplicates; a point listed
// as both black and white is an error.
func Parse(text string) (*Record, error) {
	props, err := properties(text)
	if err != nil {
		return nil, err
	}

	size := board.DefaultSize
	if v := props["SZ"]; len(v) > 0 {
		// "19" or the rectangular "19:19" form
		n, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(v[0], ":", 2)[0]))
		if err != nil || n < 1 || n > board.MaxSize {
			return nil, fmt.Errorf("%w: board size %q", ErrInvalid, v[0])
		}
		size = n
	}

	grid, err := board.NewGrid(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, setup := range []struct {
		prop  string
		label board.Label
	}{{"AB", board.Dark}, {"AW", board.Light}} {
		for _, v := range props[setup.prop] {
			points, err := expandPoints(v, size)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, setup.prop, err)
			}
			for _, c := range points {
				if l := grid.At(c.Row, c.Col); l != board.Empty && l != setup.label {
					return nil, fmt.Errorf("%w: point %s is both black and white", ErrInvalid, c.Code())
				}
				grid.Set(c.Row, c.Col, setup.label)
			}
		}
	}

	dark, light := grid.Stones(board.Dark), grid.Stones(board.Light)
	return &Record{
		Text:       text,
		Size:       size,
		Dark:       dark,
		Light:      light,
		DarkCount:  len(dark),
		LightCount: len(light),
	}, nil
}

// Summarize parses text and reports its size, application and stones.
func Summarize(text string) (*Summary, error) {
	rec, err := Parse(text)
	if err != nil {
		return nil, err
	}
	props, _ := properties(text)

	s := &Summary{
		Size:       rec.Size,
		BlackCount: rec.DarkCount,
		WhiteCount: rec.LightCount,
		Black:      codes(rec.Dark),
		White:      codes(rec.Light),
	}
	if ap := props["AP"]; len(ap) > 0 {
		s.AppID = ap[0]
	}
	return s, nil
}

func codes(coords []board.Coordinate) []string {
	out := make([]string, len(coords))
	for i, c := range coords {
		out[i] = c.Code()
	}
	return out
}

// expandPoints decodes a point value, either "dd" or a rectangle "aa:cc".
func expandPoints(v string, size int) ([]board.Coordinate, error) {
	if v == "" {
		return nil, nil
	}
	from, to, isRange := strings.Cut(v, ":")
	a, err := board.ParseCoordinate(from)
	if err != nil {
		return nil, err
	}
	b := a
	if isRange {
		if b, err = board.ParseCoordinate(to); err != nil {
			return nil, err
		}
	}

	var out []board.Coordinate
	for row := min(a.Row, b.Row); row <= max(a.Row, b.Row); row++ {
		for col := min(a.Col, b.Col); col <= max(a.Col, b.Col); col++ {
			c := board.Coordinate{Row: row, Col: col}
			if !c.Valid(size) {
				return nil, fmt.Errorf("point %s outside %dx%d board", c.Code(), size, size)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// properties tokenizes an SGF game tree into property values keyed by
// identifier. Values of repeated properties are concatenated in document
// order. An identifier with no value, as Encode writes for an empty stone
// list, is accepted.
func properties(text string) (map[string][]string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") || !strings.Contains(text, ";") {
		return nil, fmt.Errorf("%w: record must start with \"(;\"", ErrInvalid)
	}

	props := map[string][]string{}
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '(' || c == ')' || c == ';' || isSpace(c):
			i++
		case isLetter(c):
			start := i
			for i < len(text) && isLetter(text[i]) {
				i++
			}
			ident := text[start:i]

			for {
				for i < len(text) && isSpace(text[i]) {
					i++
				}
				if i >= len(text) || text[i] != '[' {
					break
				}
				value, next, err := readValue(text, i+1)
				if err != nil {
					return nil, err
				}
				props[ident] = append(props[ident], value)
				i = next
			}
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalid, c, i)
		}
	}
	return props, nil
}

// readValue reads a bracketed value starting just after '[' and returns it
// with escapes removed, plus the offset after the closing ']'.
func readValue(text string, i int) (string, int, error) {
	var sb strings.Builder
	for i < len(text) {
		switch c := text[i]; c {
		case '\\':
			if i+1 < len(text) {
				sb.WriteByte(text[i+1])
			}
			i += 2
		case ']':
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated property value", ErrInvalid)
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
	gameTree      = regexp.MustCompile(`\(;[\s\S]*\)`)
)

// Extract recovers an SGF record from free text such as a model reply:
// surrounding whitespace and Markdown code fences are removed, and if the
// remainder contains "(;" ... ")" only that span is kept.
func Extract(text string) string {
	s := strings.TrimSpace(text)
	s = leadingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(trailingFence.ReplaceAllString(s, ""))
	if m := gameTree.FindString(s); m != "" {
		return m
	}
	return s
}
