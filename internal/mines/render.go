package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Style holds the glyphs used by [Render]. It is plain data: callers pass
// it explicitly and the board never stores it.
type Style struct {
	Covered string `yaml:"covered"`
	Flag    string `yaml:"flag"`
	Bomb    string `yaml:"bomb"`
	Empty   string `yaml:"empty"`
	// ShowBombs draws covered bombs as Bomb.
	ShowBombs bool `yaml:"show_bombs"`
	// Coordinates prints row and column headers.
	Coordinates bool `yaml:"coordinates"`
}

var DefaultStyle = Style{
	Covered: "#",
	Flag:    "*",
	Bomb:    "@",
	Empty:   ".",
}

func (st Style) glyph(c *Cell) string {
	switch {
	case c.revealed && c.bomb:
		return st.Bomb
	case c.revealed && c.adjacent == 0:
		return st.Empty
	case c.revealed:
		return strconv.Itoa(c.adjacent)
	case c.flagged:
		return st.Flag
	case st.ShowBombs && c.bomb:
		return st.Bomb
	default:
		return st.Covered
	}
}

// Render draws the board as text, one line per row.
func Render(b *Board, st Style) string {
	var sb strings.Builder
	width := len(strconv.Itoa(max(b.rows, b.cols) - 1))

	if st.Coordinates {
		fmt.Fprintf(&sb, "%*s ", width, "")
		for col := range b.cols {
			fmt.Fprintf(&sb, "%*d ", width, col)
		}
		sb.WriteByte('\n')
	}
	for row := range b.rows {
		if st.Coordinates {
			fmt.Fprintf(&sb, "%*d ", width, row)
		}
		for col := range b.cols {
			fmt.Fprintf(&sb, "%*s ", width, st.glyph(b.cell(Point{row, col})))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
