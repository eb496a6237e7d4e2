package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimension = errors.New("invalid board dimensions")
	ErrInvalidBombCount = errors.New("invalid bomb count")
	ErrOutOfBounds      = errors.New("coordinates out of bounds")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidAction    = fmt.Errorf("invalid action: %w", ErrOutOfBounds)
)

type InvalidDimensionError struct {
	Rows, Cols int
}

// [InvalidDimensionError] implements [error]
func (e InvalidDimensionError) Error() string {
	return fmt.Sprintf("cannot create a %dx%d board: rows and cols must be positive", e.Rows, e.Cols)
}

func (e InvalidDimensionError) Unwrap() error { return ErrInvalidDimension }

type InvalidBombCountError struct {
	Bombs, Cells int
}

func (e InvalidBombCountError) Error() string {
	if e.Bombs < 0 {
		return fmt.Sprintf("cannot place a negative amount of bombs: %d", e.Bombs)
	}
	return fmt.Sprintf("not enough space for %d bombs on %d cells", e.Bombs, e.Cells)
}

func (e InvalidBombCountError) Unwrap() error { return ErrInvalidBombCount }

type OutOfBoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("cell (%d, %d) is outside of a %dx%d board", e.Row, e.Col, e.Rows, e.Cols)
}

func (e OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }
