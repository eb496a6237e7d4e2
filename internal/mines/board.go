package mines

import (
	"fmt"
	"math/rand/v2"
)

// Board owns a rows x cols grid of cells stored in row-major order.
type Board struct {
	rows, cols int
	bombs      int
	cells      []Cell
}

func validateParams(rows, cols, bombs int) error {
	if rows < 1 || cols < 1 {
		return InvalidDimensionError{Rows: rows, Cols: cols}
	}
	if bombs < 0 || bombs > rows*cols {
		return InvalidBombCountError{Bombs: bombs, Cells: rows * cols}
	}
	return nil
}

// NewBoard deals a board with bombs placed uniformly at random.
func NewBoard(rows, cols, bombs int, r *rand.Rand) (*Board, error) {
	if err := validateParams(rows, cols, bombs); err != nil {
		return nil, err
	}

	b := newEmptyBoard(rows, cols)

	/*
	 * Rejection sampling: draw a coordinate and retry whenever it already
	 * holds a bomb.
	 */
	for placed := 0; placed < bombs; {
		c := &b.cells[r.IntN(rows)*cols+r.IntN(cols)]
		if c.bomb {
			continue
		}
		c.bomb = true
		placed++
	}
	b.bombs = bombs

	b.link()
	return b, nil
}

// NewBoardFromLayout builds a board with bombs at exactly the given points.
func NewBoardFromLayout(rows, cols int, bombs []Point) (*Board, error) {
	if err := validateParams(rows, cols, len(bombs)); err != nil {
		return nil, err
	}

	b := newEmptyBoard(rows, cols)
	for _, p := range bombs {
		if !b.Contains(p.Row, p.Col) {
			return nil, b.outOfBounds(p.Row, p.Col)
		}
		c := b.cell(p)
		if c.bomb {
			return nil, fmt.Errorf("%w: duplicate bomb at %s", ErrInvalidBombCount, p)
		}
		c.bomb = true
	}
	b.bombs = len(bombs)

	b.link()
	return b, nil
}

func newEmptyBoard(rows, cols int) *Board {
	b := &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for row := range rows {
		for col := range cols {
			b.cells[row*cols+col] = Cell{
				Point:    Point{row, col},
				adjacent: adjacentUnset,
			}
		}
	}
	return b
}

// link fills in neighbor lists and adjacency counts. Must run after every
// bomb has been placed.
func (b *Board) link() {
	for i := range b.cells {
		c := &b.cells[i]
		c.neighbors = make([]Point, 0, 8)
		c.adjacent = 0
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				p := Point{c.Row + dr, c.Col + dc}
				if !b.Contains(p.Row, p.Col) {
					continue
				}
				c.neighbors = append(c.neighbors, p)
				if b.cell(p).bomb {
					c.adjacent++
				}
			}
		}
	}
}

func (b *Board) Rows() int { return b.rows }

func (b *Board) Cols() int { return b.cols }

func (b *Board) Bombs() int { return b.bombs }

func (b *Board) TotalCells() int { return len(b.cells) }

func (b *Board) Contains(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

func (b *Board) outOfBounds(row, col int) OutOfBoundsError {
	return OutOfBoundsError{Row: row, Col: col, Rows: b.rows, Cols: b.cols}
}

// cell is the unchecked lookup used once coordinates are known to be valid.
func (b *Board) cell(p Point) *Cell {
	return &b.cells[p.Row*b.cols+p.Col]
}

// At returns the cell at (row, col). The board keeps ownership of it.
func (b *Board) At(row, col int) (*Cell, error) {
	if !b.Contains(row, col) {
		return nil, b.outOfBounds(row, col)
	}
	return b.cell(Point{row, col}), nil
}

// Index converts coordinates into the action id of the cell.
func (b *Board) Index(p Point) int {
	return p.Row*b.cols + p.Col
}

// ByIndex resolves an action id produced by [Board.Index].
func (b *Board) ByIndex(i int) (*Cell, error) {
	if i < 0 || i >= len(b.cells) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidAction, i, len(b.cells))
	}
	return &b.cells[i], nil
}

// ForEach visits cells in row-major order until fn returns false.
func (b *Board) ForEach(fn func(c *Cell) bool) {
	for i := range b.cells {
		if !fn(&b.cells[i]) {
			return
		}
	}
}

func (b *Board) String() string {
	return fmt.Sprintf("Board %dx%d, bombs: %d", b.rows, b.cols, b.bombs)
}
