package mines

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type State int8

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndFunc is notified once per episode with the remaining safe cell count
// and whether the episode was lost.
type EndFunc func(remaining int, lost bool)

// ClickFunc is notified after every click that changed the board.
type ClickFunc func(p Point, outcome RevealOutcome)

// Session drives one playthrough at a time over a freshly dealt [Board].
// A session must only be used by one goroutine at a time.
type Session struct {
	params Params
	deal   Dealer
	board  *Board

	remaining int
	state     State

	episode    int
	startedAt  time.Time
	steps      int
	reward     float64
	lastReward float64
	rewards    Rewards

	onEnd      []EndFunc
	afterClick []ClickFunc
}

func NewSession(p Params, deal Dealer) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		params:  p,
		deal:    deal,
		rewards: DefaultRewards,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Params() Params { return s.params }

func (s *Session) Board() *Board { return s.board }

func (s *Session) State() State { return s.state }

func (s *Session) Ended() bool { return s.state != InProgress }

func (s *Session) Lost() bool { return s.state == Lost }

// Remaining is the number of safe cells still covered.
func (s *Session) Remaining() int { return s.remaining }

// Episode counts boards dealt so far, starting at 1.
func (s *Session) Episode() int { return s.episode }

// StartedAt is when the current board was dealt.
func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) Steps() int { return s.steps }

func (s *Session) Reward() float64 { return s.reward }

func (s *Session) SetRewards(r Rewards) { s.rewards = r }

// OnEnd registers an observer; observers run in registration order.
func (s *Session) OnEnd(fn EndFunc) {
	s.onEnd = append(s.onEnd, fn)
}

func (s *Session) AfterClick(fn ClickFunc) {
	s.afterClick = append(s.afterClick, fn)
}

// Reset discards the current board and deals a new one. It is valid in
// any state.
func (s *Session) Reset() error {
	board, err := s.deal(s.params)
	if err != nil {
		return fmt.Errorf("unable to deal a board: %w", err)
	}
	s.board = board
	s.remaining = board.TotalCells() - board.Bombs()
	s.state = InProgress
	s.episode++
	s.startedAt = time.Now()
	s.steps = 0
	s.reward = 0
	s.lastReward = 0

	Log.WithFields(logrus.Fields{
		"episode":   s.episode,
		"board":     board.String(),
		"remaining": s.remaining,
	}).Debug("board dealt")
	return nil
}

// Click reveals the cell at (row, col) and advances the state machine.
func (s *Session) Click(row, col int) (RevealOutcome, error) {
	if !s.board.Contains(row, col) {
		return RevealOutcome{}, s.board.outOfBounds(row, col)
	}
	if s.Ended() {
		return RevealOutcome{}, ErrGameOver
	}

	outcome, err := s.board.Reveal(row, col)
	if err != nil {
		return outcome, err
	}
	s.steps++
	if outcome.Kind == AlreadyRevealedOrFlagged {
		s.score(s.rewards.Useless)
		return outcome, nil
	}

	if outcome.Kind == RevealedSafe {
		s.remaining -= outcome.Count
	}
	for _, fn := range s.afterClick {
		fn(Point{row, col}, outcome)
	}

	switch {
	case outcome.Kind == RevealedBomb:
		s.score(s.rewards.Loss)
		s.end(Lost)
	case s.remaining <= 0:
		s.score(s.rewards.Win)
		s.end(Won)
	default:
		s.score(s.rewards.Valid)
	}
	return outcome, nil
}

func (s *Session) score(r float64) {
	s.lastReward = r
	s.reward += r
}

// Flag toggles the flag at (row, col). Flags never change the game state.
func (s *Session) Flag(row, col int) (bool, error) {
	if !s.board.Contains(row, col) {
		return false, s.board.outOfBounds(row, col)
	}
	if s.Ended() {
		return false, ErrGameOver
	}
	return s.board.ToggleFlag(row, col)
}

// Forfeit ends a running episode as lost.
func (s *Session) Forfeit() error {
	if s.Ended() {
		return ErrGameOver
	}
	s.end(Lost)
	return nil
}

func (s *Session) end(state State) {
	s.state = state
	lost := state == Lost

	Log.WithFields(logrus.Fields{
		"episode":   s.episode,
		"remaining": s.remaining,
		"lost":      lost,
		"steps":     s.steps,
	}).Debug("episode ended")

	for _, fn := range s.onEnd {
		fn(s.remaining, lost)
	}
}

// ShowAllBombs uncovers every bomb for inspection. The game state and the
// remaining counter are not affected.
func (s *Session) ShowAllBombs() []Point {
	return s.board.revealBombs()
}

// ClickAllRemaining opens every covered safe cell. A dry run only uncovers
// the cells; otherwise each one is clicked and the episode ends as won.
// After a dry run Remaining stays above zero while no covered safe cell is
// left, so the episode can only end by clicking a bomb, Forfeit or Reset.
func (s *Session) ClickAllRemaining(dry bool) error {
	if s.Ended() {
		return ErrGameOver
	}
	var err error
	s.board.ForEach(func(c *Cell) bool {
		if c.bomb || c.revealed {
			return true
		}
		if dry {
			c.revealed = true
			return true
		}
		c.flagged = false
		_, err = s.Click(c.Row, c.Col)
		return err == nil && !s.Ended()
	})
	return err
}

func (s *Session) Observe() *Observation {
	return Encode(s.board)
}
