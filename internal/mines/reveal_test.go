package mines

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// revealRecursive is the straightforward recursive flood fill; the stack
// based Board.Reveal must open exactly the same cells.
func revealRecursive(b *Board, p Point, opened map[Point]bool) {
	c := b.cell(p)
	if c.revealed || c.flagged {
		return
	}
	c.revealed = true
	opened[p] = true
	if c.bomb || c.adjacent != 0 {
		return
	}
	for _, n := range c.neighbors {
		if !b.cell(n).bomb {
			revealRecursive(b, n, opened)
		}
	}
}

func cloneBoard(b *Board) *Board {
	cp := *b
	cp.cells = slices.Clone(b.cells)
	return &cp
}

func revealedSet(b *Board) map[Point]bool {
	set := map[Point]bool{}
	b.ForEach(func(c *Cell) bool {
		if c.Revealed() {
			set[c.Point] = true
		}
		return true
	})
	return set
}

func TestRevealMatchesRecursive(t *testing.T) {
	for seed := range uint64(20) {
		b, err := NewBoard(12, 15, 20, NewSeededRand(seed))
		require.NoError(t, err)

		b.ForEach(func(c *Cell) bool {
			stack := cloneBoard(b)
			rec := cloneBoard(b)

			outcome, err := stack.Reveal(c.Row, c.Col)
			require.NoError(t, err)

			want := map[Point]bool{}
			revealRecursive(rec, c.Point, want)

			assert.Equal(t, want, revealedSet(stack), fmt.Sprintf("seed %d @ %s", seed, c.Point))
			assert.Equal(t, len(want), outcome.Count)
			assert.Len(t, outcome.Cells, outcome.Count)
			if len(outcome.Cells) > 0 {
				assert.Equal(t, c.Point, outcome.Cells[0])
			}
			return true
		})
	}
}

func TestRevealCornerBombScenario(t *testing.T) {
	b, err := NewBoardFromLayout(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	outcome, err := b.Reveal(2, 2)
	require.NoError(t, err)
	assert.Equal(t, RevealedSafe, outcome.Kind)
	assert.Equal(t, 8, outcome.Count)

	bomb, _ := b.At(0, 0)
	assert.False(t, bomb.Revealed())

	for _, p := range []Point{{0, 1}, {1, 0}, {1, 1}} {
		c, _ := b.At(p.Row, p.Col)
		assert.True(t, c.Revealed(), p.String())
		assert.Equal(t, 1, c.Value(), p.String())
	}
}

func TestRevealBoundaryStopsCascade(t *testing.T) {
	// column 2 is all bombs; columns 0..1 and 3..4 are separate regions
	b, err := NewBoardFromLayout(3, 5, []Point{{0, 2}, {1, 2}, {2, 2}})
	require.NoError(t, err)

	outcome, err := b.Reveal(1, 0)
	require.NoError(t, err)
	assert.Equal(t, RevealedSafe, outcome.Kind)
	assert.Equal(t, 6, outcome.Count)

	b.ForEach(func(c *Cell) bool {
		assert.Equal(t, c.Col < 2, c.Revealed(), c.String())
		return true
	})
}

func TestRevealNumberedCellDoesNotCascade(t *testing.T) {
	b, err := NewBoardFromLayout(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	outcome, err := b.Reveal(1, 1)
	require.NoError(t, err)
	assert.Equal(t, RevealOutcome{Kind: RevealedSafe, Count: 1, Cells: []Point{{1, 1}}}, outcome)
}

func TestRevealBomb(t *testing.T) {
	b, err := NewBoardFromLayout(2, 2, []Point{{1, 1}})
	require.NoError(t, err)

	outcome, err := b.Reveal(1, 1)
	require.NoError(t, err)
	assert.Equal(t, RevealedBomb, outcome.Kind)
	assert.Equal(t, 1, outcome.Count)

	c, _ := b.At(1, 1)
	assert.Equal(t, ValueBomb, c.Value())

	others := 0
	b.ForEach(func(c *Cell) bool {
		if c.Revealed() {
			others++
		}
		return true
	})
	assert.Equal(t, 1, others)
}

func TestRevealNeverOpensBombWithStaleAdjacency(t *testing.T) {
	b, err := NewBoardFromLayout(3, 3, []Point{{2, 2}})
	require.NoError(t, err)
	// force a stale zero on the bomb itself
	b.cell(Point{2, 2}).adjacent = 0

	_, err = b.Reveal(0, 0)
	require.NoError(t, err)

	bomb, _ := b.At(2, 2)
	assert.False(t, bomb.Revealed())
}

func TestRevealAlreadyRevealedOrFlagged(t *testing.T) {
	b, err := NewBoardFromLayout(2, 3, []Point{{0, 2}})
	require.NoError(t, err)

	flagged, err := b.ToggleFlag(1, 0)
	require.NoError(t, err)
	require.True(t, flagged)

	outcome, err := b.Reveal(1, 0)
	require.NoError(t, err)
	assert.Equal(t, AlreadyRevealedOrFlagged, outcome.Kind)
	c, _ := b.At(1, 0)
	assert.False(t, c.Revealed())

	outcome, err = b.Reveal(0, 1)
	require.NoError(t, err)
	assert.Equal(t, RevealedSafe, outcome.Kind)

	outcome, err = b.Reveal(0, 1)
	require.NoError(t, err)
	assert.Equal(t, RevealOutcome{Kind: AlreadyRevealedOrFlagged}, outcome)
}

func TestRevealSkipsFlaggedCellsInCascade(t *testing.T) {
	b, err := NewBoardFromLayout(1, 5, nil)
	require.NoError(t, err)

	_, err = b.ToggleFlag(0, 2)
	require.NoError(t, err)

	outcome, err := b.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {0, 1}}, outcome.Cells)

	for col, want := range []bool{true, true, false, false, false} {
		c, _ := b.At(0, col)
		assert.Equal(t, want, c.Revealed(), c.String())
	}
}

func TestRevealOutOfBounds(t *testing.T) {
	b, err := NewBoard(3, 3, 1, NewSeededRand(1))
	require.NoError(t, err)

	_, err = b.Reveal(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = b.Reveal(0, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Empty(t, revealedSet(b))
}

func TestRevealLargeBoard(t *testing.T) {
	b, err := NewBoard(300, 400, 0, NewSeededRand(1))
	require.NoError(t, err)

	outcome, err := b.Reveal(150, 200)
	require.NoError(t, err)
	assert.Equal(t, 300*400, outcome.Count)
}

func TestToggleFlag(t *testing.T) {
	b, err := NewBoardFromLayout(2, 2, []Point{{0, 0}})
	require.NoError(t, err)

	flagged, err := b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.True(t, flagged)

	flagged, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.False(t, flagged)

	_, err = b.Reveal(0, 1)
	require.NoError(t, err)
	flagged, err = b.ToggleFlag(0, 1)
	require.NoError(t, err)
	assert.False(t, flagged)
	c, _ := b.At(0, 1)
	assert.False(t, c.Flagged())

	_, err = b.ToggleFlag(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
