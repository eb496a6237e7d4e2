package mines

import "fmt"

const (
	// ValueUnknown is reported for covered cells, flagged or not.
	ValueUnknown = -1
	// ValueBomb is reported for a revealed bomb.
	ValueBomb = -2

	adjacentUnset = -1
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Cell is a single square of a [Board]. Bomb and coordinates are fixed for
// the lifetime of the board; a new board is dealt instead of resetting cells.
type Cell struct {
	Point
	bomb      bool
	revealed  bool
	flagged   bool
	adjacent  int
	neighbors []Point
}

func (c *Cell) IsBomb() bool { return c.bomb }

func (c *Cell) Revealed() bool { return c.revealed }

func (c *Cell) Flagged() bool { return c.flagged }

// Adjacent returns the number of bombs around the cell. It is meaningless
// for bomb cells.
func (c *Cell) Adjacent() int { return c.adjacent }

// Neighbors returns the coordinates of the up to 8 surrounding cells. The
// slice is owned by the cell and must not be modified.
func (c *Cell) Neighbors() []Point { return c.neighbors }

// Value is what a player can see of the cell: the adjacency count once
// revealed, [ValueBomb] for a revealed bomb, [ValueUnknown] otherwise.
func (c *Cell) Value() int {
	switch {
	case !c.revealed:
		return ValueUnknown
	case c.bomb:
		return ValueBomb
	default:
		return c.adjacent
	}
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell %s: bomb=%t, revealed=%t, touching=%d, flagged=%t",
		c.Point, c.bomb, c.revealed, c.adjacent, c.flagged)
}
