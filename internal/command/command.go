// Package command implements the line based protocol used by the terminal
// client and WebSocket connections to drive a [mines.Session].
//
//	c <row> <col>   click
//	f <row> <col>   toggle flag
//	s <action>      RL step on action id row*cols+col
//	r               reset (new board)
//	g               get current state
//	b               show all bombs (debug)
//	q               forfeit
package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

type Op byte

const (
	Click   Op = 'c'
	Flag    Op = 'f'
	Step    Op = 's'
	Reset   Op = 'r'
	Get     Op = 'g'
	Bombs   Op = 'b'
	Forfeit Op = 'q'
)

// Maps known commands to number of arguments
var commandNargs = map[Op]int{
	Click:   2,
	Flag:    2,
	Step:    1,
	Reset:   0,
	Get:     0,
	Bombs:   0,
	Forfeit: 0,
}

var (
	ErrEmpty   = errors.New("empty command")
	ErrUnknown = errors.New("unknown command")
	ErrNargs   = errors.New("invalid number of arguments")
	ErrDebug   = errors.New("debug command not allowed")
)

type Command struct {
	Op     Op
	Row    int
	Col    int
	Action int
}

func (c Command) String() string {
	switch c.Op {
	case Click, Flag:
		return fmt.Sprintf("%c %d %d", c.Op, c.Row, c.Col)
	case Step:
		return fmt.Sprintf("%c %d", c.Op, c.Action)
	default:
		return string(c.Op)
	}
}

// Debug reports whether c exposes hidden board state. Such commands are
// only for local play.
func (c Command) Debug() bool {
	return c.Op == Bombs
}

func parseInts(args []string) ([]int, error) {
	ints := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d must be an int, got %q", i+1, a)
		}
		ints[i] = v
	}
	return ints, nil
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}
	if len(parts[0]) != 1 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknown, parts[0])
	}

	op := Op(parts[0][0])
	nargs, ok := commandNargs[op]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknown, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w: %c takes %d", ErrNargs, op, nargs)
	}

	args, err := parseInts(parts[1:])
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Op: op}
	switch op {
	case Click, Flag:
		cmd.Row, cmd.Col = args[0], args[1]
	case Step:
		cmd.Action = args[0]
	}
	return cmd, nil
}

// Lines yields the non-blank lines of a message.
func Lines(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(i, line) {
				return
			}
			i++
		}
	}
}

type Result struct {
	Command   string               `json:"command"`
	State     mines.State          `json:"state"`
	Remaining int                  `json:"remaining"`
	Episode   int                  `json:"episode"`
	Outcome   *mines.RevealOutcome `json:"outcome,omitempty"`
	Flagged   *bool                `json:"flagged,omitempty"`
	Step      *mines.StepResult    `json:"step,omitempty"`
	Shown     []mines.Point        `json:"shown,omitempty"`
}

// Execute applies cmd to s. Errors from the session, such as
// [mines.ErrOutOfBounds] or [mines.ErrGameOver], are returned unchanged.
func Execute(s *mines.Session, cmd Command) (Result, error) {
	res := Result{Command: cmd.String()}

	switch cmd.Op {
	case Click:
		outcome, err := s.Click(cmd.Row, cmd.Col)
		if err != nil {
			return res, err
		}
		res.Outcome = &outcome
	case Flag:
		flagged, err := s.Flag(cmd.Row, cmd.Col)
		if err != nil {
			return res, err
		}
		res.Flagged = &flagged
	case Step:
		step, err := s.Step(cmd.Action)
		if err != nil {
			return res, err
		}
		res.Step = &step
	case Reset:
		if err := s.Reset(); err != nil {
			return res, err
		}
	case Get:
	case Bombs:
		res.Shown = s.ShowAllBombs()
	case Forfeit:
		if err := s.Forfeit(); err != nil {
			return res, err
		}
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknown, cmd.Op)
	}

	res.State = s.State()
	res.Remaining = s.Remaining()
	res.Episode = s.Episode()
	return res, nil
}
