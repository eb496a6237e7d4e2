package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

type Params struct {
	Rows  int `json:"rows" yaml:"rows" schema:"rows"`
	Cols  int `json:"cols" yaml:"cols" schema:"cols"`
	Bombs int `json:"bombs" yaml:"bombs" schema:"bombs"`
}

func (p Params) Validate() error {
	return validateParams(p.Rows, p.Cols, p.Bombs)
}

func (p Params) SafeCells() int {
	return p.Rows*p.Cols - p.Bombs
}

// Dealer produces a fresh board for every episode.
type Dealer func(p Params) (*Board, error)

func RandomDealer(r *rand.Rand) Dealer {
	return func(p Params) (*Board, error) {
		return NewBoard(p.Rows, p.Cols, p.Bombs, r)
	}
}

// FixedDealer deals the same layout every episode; the bomb count in Params
// is ignored in favor of len(bombs).
func FixedDealer(bombs []Point) Dealer {
	return func(p Params) (*Board, error) {
		return NewBoardFromLayout(p.Rows, p.Cols, bombs)
	}
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
