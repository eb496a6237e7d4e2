package mines

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func countBombs(b *Board) (n int) {
	b.ForEach(func(c *Cell) bool {
		if c.IsBomb() {
			n++
		}
		return true
	})
	return
}

func bruteForceAdjacent(b *Board, row, col int) (n int) {
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			if (r == row && c == col) || r < 0 || c < 0 || r >= b.Rows() || c >= b.Cols() {
				continue
			}
			if b.cells[r*b.Cols()+c].bomb {
				n++
			}
		}
	}
	return
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		rows, cols, bombs int
	}{
		{1, 1, 0},
		{1, 1, 1},
		{3, 3, 1},
		{9, 9, 10},
		{16, 16, 40},
		{16, 30, 99},
		{5, 7, 35},
		{1, 20, 5},
	}

	for _, test := range tests {
		name := fmt.Sprintf("%dx%d(%d)", test.rows, test.cols, test.bombs)
		t.Run(name, func(t *testing.T) {
			for seed := range uint64(10) {
				b, err := NewBoard(test.rows, test.cols, test.bombs, NewSeededRand(seed))
				require.NoError(t, err)

				assert.Equal(t, test.bombs, countBombs(b))
				assert.Equal(t, test.bombs, b.Bombs())
				assert.Equal(t, test.rows*test.cols, b.TotalCells())

				b.ForEach(func(c *Cell) bool {
					assert.False(t, c.Revealed())
					assert.False(t, c.Flagged())
					assert.NotEqual(t, adjacentUnset, c.Adjacent())
					if !c.IsBomb() {
						assert.Equal(t, bruteForceAdjacent(b, c.Row, c.Col), c.Adjacent(), c.String())
					}
					return true
				})
			}
		})
	}
}

func TestNewBoardInvalid(t *testing.T) {
	tests := []struct {
		name              string
		rows, cols, bombs int
		want              error
	}{
		{"zero rows", 0, 5, 0, ErrInvalidDimension},
		{"zero cols", 5, 0, 0, ErrInvalidDimension},
		{"negative rows", -1, 5, 0, ErrInvalidDimension},
		{"too many bombs", 2, 2, 5, ErrInvalidBombCount},
		{"one too many", 1, 1, 2, ErrInvalidBombCount},
		{"negative bombs", 3, 3, -1, ErrInvalidBombCount},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := NewBoard(test.rows, test.cols, test.bombs, NewSeededRand(1))
			assert.Nil(t, b)
			assert.ErrorIs(t, err, test.want)
		})
	}

	_, err := NewBoard(0, 3, 0, NewSeededRand(1))
	var dimErr InvalidDimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, InvalidDimensionError{Rows: 0, Cols: 3}, dimErr)

	_, err = NewBoard(2, 2, 5, NewSeededRand(1))
	var countErr InvalidBombCountError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, InvalidBombCountError{Bombs: 5, Cells: 4}, countErr)
}

func TestNewBoardDeterministic(t *testing.T) {
	a, err := NewBoard(9, 9, 10, NewSeededRand(42))
	require.NoError(t, err)
	b, err := NewBoard(9, 9, 10, NewSeededRand(42))
	require.NoError(t, err)

	for i := range a.cells {
		assert.Equal(t, a.cells[i].bomb, b.cells[i].bomb)
	}
}

func TestNewBoardFromLayout(t *testing.T) {
	b, err := NewBoardFromLayout(3, 4, []Point{{0, 0}, {2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Bombs())

	c, err := b.At(2, 3)
	require.NoError(t, err)
	assert.True(t, c.IsBomb())

	c, err = b.At(1, 1)
	require.NoError(t, err)
	assert.False(t, c.IsBomb())
	assert.Equal(t, 1, c.Adjacent())

	_, err = NewBoardFromLayout(3, 4, []Point{{3, 0}})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = NewBoardFromLayout(3, 4, []Point{{1, 1}, {1, 1}})
	assert.ErrorIs(t, err, ErrInvalidBombCount)

	_, err = NewBoardFromLayout(1, 1, []Point{{0, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrInvalidBombCount)
}

func TestBoardAt(t *testing.T) {
	b, err := NewBoard(4, 6, 3, NewSeededRand(7))
	require.NoError(t, err)

	for _, p := range []Point{{-1, 0}, {0, -1}, {4, 0}, {0, 6}, {4, 6}} {
		c, err := b.At(p.Row, p.Col)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrOutOfBounds, p.String())

		var oob OutOfBoundsError
		require.True(t, errors.As(err, &oob))
		assert.Equal(t, p.Row, oob.Row)
		assert.Equal(t, p.Col, oob.Col)
	}

	c, err := b.At(3, 5)
	require.NoError(t, err)
	assert.Equal(t, Point{3, 5}, c.Point)

	same, _ := b.At(3, 5)
	assert.Same(t, c, same)
}

func TestBoardNeighbors(t *testing.T) {
	b, err := NewBoard(3, 3, 0, NewSeededRand(1))
	require.NoError(t, err)

	tests := []struct {
		p    Point
		want int
	}{
		{Point{0, 0}, 3},
		{Point{0, 1}, 5},
		{Point{1, 1}, 8},
		{Point{2, 2}, 3},
	}
	for _, test := range tests {
		c, err := b.At(test.p.Row, test.p.Col)
		require.NoError(t, err)
		assert.Len(t, c.Neighbors(), test.want, test.p.String())
		for _, n := range c.Neighbors() {
			assert.True(t, b.Contains(n.Row, n.Col))
			assert.NotEqual(t, test.p, n)
		}
	}

	single, err := NewBoard(1, 1, 0, NewSeededRand(1))
	require.NoError(t, err)
	c, _ := single.At(0, 0)
	assert.Empty(t, c.Neighbors())
}

func TestBoardForEach(t *testing.T) {
	b, err := NewBoard(3, 4, 0, NewSeededRand(1))
	require.NoError(t, err)

	var visited []Point
	b.ForEach(func(c *Cell) bool {
		visited = append(visited, c.Point)
		return true
	})
	require.Len(t, visited, 12)
	for i, p := range visited {
		assert.Equal(t, i, b.Index(p))
	}

	n := 0
	b.ForEach(func(c *Cell) bool {
		n++
		return c.Col < 2
	})
	assert.Equal(t, 3, n)
}

func TestBoardByIndex(t *testing.T) {
	b, err := NewBoard(3, 4, 0, NewSeededRand(1))
	require.NoError(t, err)

	c, err := b.ByIndex(6)
	require.NoError(t, err)
	assert.Equal(t, Point{1, 2}, c.Point)

	_, err = b.ByIndex(12)
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = b.ByIndex(-1)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestBoardString(t *testing.T) {
	b, err := NewBoard(9, 8, 10, NewSeededRand(1))
	require.NoError(t, err)
	assert.Equal(t, "Board 9x8, bombs: 10", b.String())
}
