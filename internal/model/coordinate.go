package model

import "fmt"

// BoardSize is the side length of the square grid. Coordinates run from
// (0,0) in the top-left corner to (BoardSize-1, BoardSize-1).
const BoardSize = 10

// Coordinate is a single cell on the grid
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the coordinate lies on the board
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Orientation of a ship placement
type Orientation string

const (
	Horizontal Orientation = "HORIZONTAL"
	Vertical   Orientation = "VERTICAL"
)

// Run returns the coordinates a ship of the given length occupies when
// anchored at start: cell i is (x+i, y) for Horizontal and (x, y+i) for
// Vertical. The run is not bounds-checked; callers validate legality.
func Run(start Coordinate, orientation Orientation, length int) []Coordinate {
	cells := make([]Coordinate, 0, length)
	for i := 0; i < length; i++ {
		if orientation == Vertical {
			cells = append(cells, Coordinate{X: start.X, Y: start.Y + i})
		} else {
			cells = append(cells, Coordinate{X: start.X + i, Y: start.Y})
		}
	}
	return cells
}
