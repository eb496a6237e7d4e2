package handlers

import (
	"github.com/vancomm/minesweeper-gym/internal/hub"
	"github.com/vancomm/minesweeper-gym/internal/mines"
)

type newSessionQuery struct {
	Rows  int     `schema:"rows"`
	Cols  int     `schema:"cols"`
	Bombs int     `schema:"bombs"`
	Seed  *uint64 `schema:"seed"`
}

type positionQuery struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type stepQuery struct {
	Action int `schema:"action,required"`
}

// SessionDTO is what clients see of a session: cell values as the agent
// would observe them (-1 covered, -2 revealed bomb) and the flagged cells.
type SessionDTO struct {
	SessionID int64         `json:"session_id"`
	AgentID   *int64        `json:"agent_id,omitempty"`
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	Bombs     int           `json:"bombs"`
	State     mines.State   `json:"state"`
	Remaining int           `json:"remaining"`
	Episode   int           `json:"episode"`
	Steps     int           `json:"steps"`
	Reward    float64       `json:"reward"`
	StartedAt int64         `json:"started_at"`
	Values    [][]int       `json:"values"`
	Flags     []mines.Point `json:"flags"`
}

// newSessionDTO must be called with exclusive access to s.
func newSessionDTO(e *hub.Entry, s *mines.Session) SessionDTO {
	b := s.Board()
	values := make([][]int, b.Rows())
	for row := range values {
		values[row] = make([]int, b.Cols())
	}
	flags := make([]mines.Point, 0)
	b.ForEach(func(c *mines.Cell) bool {
		values[c.Row][c.Col] = c.Value()
		if c.Flagged() {
			flags = append(flags, c.Point)
		}
		return true
	})

	p := s.Params()
	return SessionDTO{
		SessionID: e.ID,
		AgentID:   e.AgentID,
		Rows:      p.Rows,
		Cols:      p.Cols,
		Bombs:     b.Bombs(),
		State:     s.State(),
		Remaining: s.Remaining(),
		Episode:   s.Episode(),
		Steps:     s.Steps(),
		Reward:    s.Reward(),
		StartedAt: s.StartedAt().UnixMilli(),
		Values:    values,
		Flags:     flags,
	}
}
