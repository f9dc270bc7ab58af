package board

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestCoordinateCode(t *testing.T) {
	test.That(t, Coordinate{Row: 0, Col: 0}.Code(), test.ShouldEqual, "aa")
	test.That(t, Coordinate{Row: 3, Col: 3}.Code(), test.ShouldEqual, "dd")
	test.That(t, Coordinate{Row: 15, Col: 15}.Code(), test.ShouldEqual, "pp")
	// column first, then row
	test.That(t, Coordinate{Row: 2, Col: 7}.Code(), test.ShouldEqual, "hc")
	test.That(t, Coordinate{Row: 18, Col: 18}.Code(), test.ShouldEqual, "ss")
}

func TestCoordinateCodePanics(t *testing.T) {
	defer func() {
		test.That(t, recover(), test.ShouldNotBeNil)
	}()
	_ = Coordinate{Row: 19, Col: 0}.Code()
}

func TestCoordinateBijection(t *testing.T) {
	seen := map[string]Coordinate{}
	for row := 0; row < MaxSize; row++ {
		for col := 0; col < MaxSize; col++ {
			c := Coordinate{Row: row, Col: col}
			code := c.Code()
			_, dup := seen[code]
			test.That(t, dup, test.ShouldBeFalse)
			seen[code] = c

			back, err := ParseCoordinate(code)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, back, test.ShouldResemble, c)
		}
	}
	test.That(t, len(seen), test.ShouldEqual, 361)
}

func TestParseCoordinateErrors(t *testing.T) {
	for _, code := range []string{"", "a", "abc", "ta", "at", "A1", "[a"} {
		_, err := ParseCoordinate(code)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestCoordinateValid(t *testing.T) {
	test.That(t, Coordinate{Row: 8, Col: 8}.Valid(9), test.ShouldBeTrue)
	test.That(t, Coordinate{Row: 9, Col: 0}.Valid(9), test.ShouldBeFalse)
	test.That(t, Coordinate{Row: -1, Col: 0}.Valid(19), test.ShouldBeFalse)
	test.That(t, Coordinate{Row: 0, Col: 0}.Valid(20), test.ShouldBeFalse)
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(19)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Size(), test.ShouldEqual, 19)
	test.That(t, g.Count(Empty), test.ShouldEqual, 361)

	_, err = NewGrid(0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewGrid(20)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGridSetAndStones(t *testing.T) {
	g, err := NewGrid(9)
	test.That(t, err, test.ShouldBeNil)

	g.Set(4, 6, Dark)
	g.Set(0, 2, Dark)
	g.Set(2, 2, Light)

	test.That(t, g.At(4, 6), test.ShouldEqual, Dark)
	test.That(t, g.At(2, 2), test.ShouldEqual, Light)
	test.That(t, g.At(100, 2), test.ShouldEqual, Empty)
	test.That(t, g.Count(Dark), test.ShouldEqual, 2)
	test.That(t, g.Count(Empty), test.ShouldEqual, 78)

	// row-major order regardless of insertion order
	test.That(t, g.Stones(Dark), test.ShouldResemble, []Coordinate{{Row: 0, Col: 2}, {Row: 4, Col: 6}})
	test.That(t, g.Stones(Light), test.ShouldResemble, []Coordinate{{Row: 2, Col: 2}})
}

func TestGridSetPanics(t *testing.T) {
	g, err := NewGrid(9)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, recover(), test.ShouldNotBeNil)
	}()
	g.Set(9, 0, Dark)
}

func TestGridString(t *testing.T) {
	g, err := NewGrid(3)
	test.That(t, err, test.ShouldBeNil)
	g.Set(0, 0, Dark)
	g.Set(2, 1, Light)

	test.That(t, g.String(), test.ShouldEqual, strings.Join([]string{"X..", "...", ".O.", ""}, "\n"))
}

func TestLabelString(t *testing.T) {
	test.That(t, Empty.String(), test.ShouldEqual, "empty")
	test.That(t, Dark.String(), test.ShouldEqual, "dark")
	test.That(t, Light.String(), test.ShouldEqual, "light")
	test.That(t, Label(7).String(), test.ShouldEqual, "Label(7)")
}
