// Command sweep plays a session in the terminal. It reads protocol lines
// from stdin (c row col, f row col, s action, r, g, b, q) and prints the
// board after each one.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/command"
	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/logging"
	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

var (
	log = logrus.New()

	configPath       string
	rows, cols       int
	bombs            int
	seed             uint64
	debugReveal      bool
	debugRevealNoDry bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.IntVar(&rows, "rows", 0, "board rows (config default when 0)")
	flag.IntVar(&cols, "cols", 0, "board columns (config default when 0)")
	flag.IntVar(&bombs, "bombs", -1, "bomb count (config default when negative)")
	flag.Uint64Var(&seed, "seed", 0, "deal boards from this seed (random when 0)")
	flag.BoolVar(&debugReveal, "debug-reveal", false, "uncover every safe cell at start without winning")
	flag.BoolVar(&debugRevealNoDry, "debug-reveal-no-dry", false, "click every safe cell at start, winning the episode")
}

type game struct {
	session  *mines.Session
	style    mines.Style
	recorder *telemetry.Recorder
	episodes []telemetry.Episode
	out      io.Writer
}

func (g *game) onEnd(remaining int, lost bool) {
	p := g.session.Params()
	e := telemetry.Episode{
		Number:    g.session.Episode(),
		Rows:      p.Rows,
		Cols:      p.Cols,
		Bombs:     p.Bombs,
		Steps:     g.session.Steps(),
		Reward:    g.session.Reward(),
		Remaining: remaining,
		Lost:      lost,
		StartedAt: g.session.StartedAt(),
		EndedAt:   time.Now(),
	}
	g.episodes = append(g.episodes, e)
	if err := g.recorder.Record(e); err != nil {
		log.WithError(err).Warn("unable to record episode")
	}

	if lost {
		g.session.ShowAllBombs()
		fmt.Fprintf(g.out, "BOOM! episode %d lost with %d safe cells left\n", e.Number, remaining)
	} else {
		fmt.Fprintf(g.out, "cleared! episode %d won in %d steps\n", e.Number, e.Steps)
	}
}

func (g *game) print() {
	s := g.session
	fmt.Fprint(g.out, mines.Render(s.Board(), g.style))
	fmt.Fprintf(g.out, "episode %d | %s | remaining %d | reward %g\n",
		s.Episode(), s.State(), s.Remaining(), s.Reward())
}

func (g *game) exec(line string) {
	cmd, err := command.Parse(line)
	if err != nil {
		fmt.Fprintln(g.out, "error:", err)
		return
	}
	res, err := command.Execute(g.session, cmd)
	if err != nil {
		fmt.Fprintln(g.out, "error:", err)
		return
	}
	if res.Step != nil {
		fmt.Fprintf(g.out, "reward %g, done %t\n", res.Step.Reward, res.Step.Done)
	}
	g.print()
}

func (g *game) summary() {
	if len(g.episodes) == 0 {
		return
	}
	sum := telemetry.Summarize(g.episodes)
	fmt.Fprintf(g.out, "%d episodes, %d won (%.0f%%), mean reward %.2f\n",
		sum.Count, sum.Wins, sum.WinRate*100, sum.MeanReward)
}

func run(cfg *config.Config, in io.Reader, out io.Writer) error {
	params := cfg.Game.Defaults
	if rows > 0 {
		params.Rows = rows
	}
	if cols > 0 {
		params.Cols = cols
	}
	if bombs >= 0 {
		params.Bombs = bombs
	}

	rnd := mines.NewRand()
	if seed != 0 {
		rnd = mines.NewSeededRand(seed)
	}
	s, err := mines.NewSession(params, mines.RandomDealer(rnd))
	if err != nil {
		return err
	}
	s.SetRewards(cfg.Game.Rewards)

	recorder, err := telemetry.OpenRecorder(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	defer recorder.Close()

	g := &game{session: s, style: cfg.Render, recorder: recorder, out: out}
	s.OnEnd(g.onEnd)

	if debugReveal || debugRevealNoDry {
		if err := s.ClickAllRemaining(!debugRevealNoDry); err != nil && !errors.Is(err, mines.ErrGameOver) {
			return err
		}
	}

	g.print()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, line := range command.Lines(scanner.Text()) {
			g.exec(line)
		}
	}
	g.summary()
	return scanner.Err()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("unable to load config %q: %s", configPath, err)
	}
	if err := logging.Setup(log, cfg.Log, cfg.Development()); err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(mines.Log, cfg.Log, cfg.Development()); err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
