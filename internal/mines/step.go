package mines

type Rewards struct {
	Loss    float64 `json:"loss" yaml:"loss"`
	Win     float64 `json:"win" yaml:"win"`
	Useless float64 `json:"useless" yaml:"useless"`
	Valid   float64 `json:"valid" yaml:"valid"`
}

var DefaultRewards = Rewards{
	Loss:    -1,
	Win:     2,
	Useless: -1,
	Valid:   1,
}

type StepResult struct {
	Observation *Observation  `json:"observation"`
	Reward      float64       `json:"reward"`
	Done        bool          `json:"done"`
	State       State         `json:"state"`
	Outcome     RevealOutcome `json:"outcome"`
}

// Step clicks the cell with the given action id and reports the reward the
// click earned. Clicking a cell that is already open or flagged is punished
// and sets Done, although the board stays in progress.
func (s *Session) Step(action int) (StepResult, error) {
	c, err := s.board.ByIndex(action)
	if err != nil {
		return StepResult{}, err
	}
	outcome, err := s.Click(c.Row, c.Col)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		Observation: s.Observe(),
		Reward:      s.lastReward,
		Done:        s.Ended() || outcome.Kind == AlreadyRevealedOrFlagged,
		State:       s.state,
		Outcome:     outcome,
	}, nil
}
