package mines

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	ChannelRevealed = iota
	ChannelValue
	ChannelBomb
	NumChannels
)

// Observation is a dense [channels, rows, cols] tensor stored row-major.
type Observation struct {
	Channels int       `json:"channels"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Data     []float64 `json:"data"`
}

func newObservation(channels, rows, cols int) *Observation {
	return &Observation{
		Channels: channels,
		Rows:     rows,
		Cols:     cols,
		Data:     make([]float64, channels*rows*cols),
	}
}

func (o *Observation) offset(ch, row, col int) int {
	return (ch*o.Rows+row)*o.Cols + col
}

func (o *Observation) At(ch, row, col int) float64 {
	return o.Data[o.offset(ch, row, col)]
}

func (o *Observation) set(ch, row, col int, v float64) {
	o.Data[o.offset(ch, row, col)] = v
}

// Plane copies one channel into a rows x cols matrix.
func (o *Observation) Plane(ch int) (*mat.Dense, error) {
	if ch < 0 || ch >= o.Channels {
		return nil, fmt.Errorf("channel %d not in [0, %d)", ch, o.Channels)
	}
	size := o.Rows * o.Cols
	data := make([]float64, size)
	copy(data, o.Data[ch*size:(ch+1)*size])
	return mat.NewDense(o.Rows, o.Cols, data), nil
}

// Encode converts the visible state of the board into an observation:
//
//	ChannelRevealed  1 if the cell is open
//	ChannelValue     Cell.Value: 0..8, ValueUnknown or ValueBomb
//	ChannelBomb      1 if the cell is an open bomb
//
// The board is not modified.
func Encode(b *Board) *Observation {
	o := newObservation(NumChannels, b.rows, b.cols)
	b.ForEach(func(c *Cell) bool {
		if c.revealed {
			o.set(ChannelRevealed, c.Row, c.Col, 1)
		}
		o.set(ChannelValue, c.Row, c.Col, float64(c.Value()))
		if c.revealed && c.bomb {
			o.set(ChannelBomb, c.Row, c.Col, 1)
		}
		return true
	})
	return o
}

// EncodeRGB renders every cell as one pixel: channel i holds the i-th
// component of ColorOf(cell.Value()).
func EncodeRGB(b *Board) *Observation {
	o := newObservation(3, b.rows, b.cols)
	b.ForEach(func(c *Cell) bool {
		rgb := ColorOf(c.Value())
		for ch, v := range rgb {
			o.set(ch, c.Row, c.Col, float64(v))
		}
		return true
	})
	return o
}

var (
	colorCovered = [3]uint8{90, 90, 90}
	colorMany    = [3]uint8{255, 100, 0}
)

// ColorOf maps a cell value to RGB. Values 1..7 switch on one full channel
// per set bit (bit 0 red, bit 1 green, bit 2 blue); 8 and above are orange;
// zero, negative and values past 15 are gray.
func ColorOf(v int) [3]uint8 {
	switch {
	case v <= 0 || v > 15:
		return colorCovered
	case v >= 8:
		return colorMany
	}
	var rgb [3]uint8
	for bit := range 3 {
		if v&(1<<bit) != 0 {
			rgb[bit] = 255
		}
	}
	return rgb
}
