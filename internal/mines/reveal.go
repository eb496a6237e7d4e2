package mines

type OutcomeKind int8

const (
	AlreadyRevealedOrFlagged OutcomeKind = iota
	RevealedBomb
	RevealedSafe
)

func (k OutcomeKind) String() string {
	switch k {
	case AlreadyRevealedOrFlagged:
		return "noop"
	case RevealedBomb:
		return "bomb"
	case RevealedSafe:
		return "safe"
	default:
		return "unknown"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type RevealOutcome struct {
	Kind  OutcomeKind `json:"kind"`
	Count int         `json:"count"`
	// Cells lists every newly revealed cell, starting with the target.
	Cells []Point `json:"cells,omitempty"`
}

// Reveal opens the cell at (row, col). A safe cell without adjacent bombs
// opens its whole zero region and the numbered boundary around it.
//
// Flagged cells are never opened, neither directly nor by the cascade.
func (b *Board) Reveal(row, col int) (RevealOutcome, error) {
	target, err := b.At(row, col)
	if err != nil {
		return RevealOutcome{}, err
	}
	if target.revealed || target.flagged {
		return RevealOutcome{Kind: AlreadyRevealedOrFlagged}, nil
	}

	target.revealed = true
	if target.bomb {
		return RevealOutcome{
			Kind:  RevealedBomb,
			Count: 1,
			Cells: []Point{target.Point},
		}, nil
	}

	opened := []Point{target.Point}
	stack := []Point{target.Point}
	for len(stack) > 0 {
		c := b.cell(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if c.adjacent != 0 {
			continue
		}
		for _, p := range c.neighbors {
			n := b.cell(p)
			if n.bomb || n.revealed || n.flagged {
				continue
			}
			// marked before pushing so no cell enters the stack twice
			n.revealed = true
			opened = append(opened, p)
			stack = append(stack, p)
		}
	}

	return RevealOutcome{
		Kind:  RevealedSafe,
		Count: len(opened),
		Cells: opened,
	}, nil
}

// ToggleFlag flips the flag on a covered cell and reports the new flag
// state. Revealed cells are left untouched.
func (b *Board) ToggleFlag(row, col int) (flagged bool, err error) {
	c, err := b.At(row, col)
	if err != nil {
		return false, err
	}
	if c.revealed {
		return false, nil
	}
	c.flagged = !c.flagged
	return c.flagged, nil
}

// revealBombs uncovers every bomb without touching safe cells.
func (b *Board) revealBombs() []Point {
	var shown []Point
	b.ForEach(func(c *Cell) bool {
		if c.bomb && !c.revealed {
			c.revealed = true
			shown = append(shown, c.Point)
		}
		return true
	})
	return shown
}
