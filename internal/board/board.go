// Package board holds the symbolic state read off a photograph: which
// intersections carry a dark or light stone, and how intersections are named
// in SGF coordinates.
package board

import "fmt"

// MaxSize is the largest board the two-letter coordinate scheme can address.
const MaxSize = 19

// DefaultSize is the board size assumed by the vision pipeline.
const DefaultSize = 19

// letters are the SGF coordinate symbols; index 0 is 'a'.
const letters = "abcdefghijklmnopqrs"

// Label is the classification of one intersection.
type Label int

const (
	// Empty is a bare intersection.
	Empty Label = iota
	// Dark is a black stone.
	Dark
	// Light is a white stone.
	Light
)

func (l Label) String() string {
	switch l {
	case Empty:
		return "empty"
	case Dark:
		return "dark"
	case Light:
		return "light"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Coordinate identifies an intersection by 0-based row and column, origin
// top-left.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether c lies on a board of the given size.
func (c Coordinate) Valid(size int) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < size && c.Col < size && size <= MaxSize
}

// Code returns the two-letter SGF code: column letter first, then row.
// It panics if c cannot be encoded.
func (c Coordinate) Code() string {
	if !c.Valid(MaxSize) {
		panic(fmt.Sprintf("board: coordinate %v out of range", c))
	}
	return string([]byte{letters[c.Col], letters[c.Row]})
}

func (c Coordinate) String() string {
	if c.Valid(MaxSize) {
		return c.Code()
	}
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ParseCoordinate decodes a two-letter SGF code such as "dp".
func ParseCoordinate(code string) (Coordinate, error) {
	if len(code) != 2 {
		return Coordinate{}, fmt.Errorf("coordinate %q: want two letters", code)
	}
	col, row := index(code[0]), index(code[1])
	if col < 0 || row < 0 {
		return Coordinate{}, fmt.Errorf("coordinate %q: letters must be in a..s", code)
	}
	return Coordinate{Row: row, Col: col}, nil
}

func index(b byte) int {
	if b < 'a' || b >= 'a'+MaxSize {
		return -1
	}
	return int(b - 'a')
}

// Grid is a size×size matrix of labels. The zero label is Empty, so a new
// grid describes a bare board.
type Grid struct {
	size   int
	labels []Label
}

// NewGrid returns an empty grid. size must be between 1 and MaxSize.
func NewGrid(size int) (*Grid, error) {
	if size < 1 || size > MaxSize {
		return nil, fmt.Errorf("board size %d out of range 1..%d", size, MaxSize)
	}
	return &Grid{size: size, labels: make([]Label, size*size)}, nil
}

// Size returns the number of lines per side.
func (g *Grid) Size() int { return g.size }

// At returns the label at (row, col). Out-of-range positions are Empty.
func (g *Grid) At(row, col int) Label {
	if !(Coordinate{Row: row, Col: col}).Valid(g.size) {
		return Empty
	}
	return g.labels[row*g.size+col]
}

// Set assigns a label. It panics on out-of-range positions.
func (g *Grid) Set(row, col int, l Label) {
	if !(Coordinate{Row: row, Col: col}).Valid(g.size) {
		panic(fmt.Sprintf("board: (%d,%d) outside %dx%d grid", row, col, g.size, g.size))
	}
	g.labels[row*g.size+col] = l
}

// Count returns how many intersections carry label l.
func (g *Grid) Count(l Label) int {
	n := 0
	for _, v := range g.labels {
		if v == l {
			n++
		}
	}
	return n
}

// Stones returns the coordinates labelled l in row-major order: top to
// bottom, left to right within a row.
func (g *Grid) Stones(l Label) []Coordinate {
	var out []Coordinate
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if g.labels[row*g.size+col] == l {
				out = append(out, Coordinate{Row: row, Col: col})
			}
		}
	}
	return out
}

// String renders the grid as text, one row per line: '.' empty, 'X' dark,
// 'O' light.
func (g *Grid) String() string {
	buf := make([]byte, 0, g.size*(g.size+1))
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			switch g.labels[row*g.size+col] {
			case Dark:
				buf = append(buf, 'X')
			case Light:
				buf = append(buf, 'O')
			default:
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
