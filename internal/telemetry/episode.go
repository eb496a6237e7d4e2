// Package telemetry records finished episodes and summarizes them.
package telemetry

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Episode is one finished playthrough of a session.
type Episode struct {
	SessionID int64     `json:"session_id" db:"session_id"`
	AgentID   *int64    `json:"agent_id,omitempty" db:"agent_id"`
	Number    int       `json:"episode" db:"episode"`
	Rows      int       `json:"rows" db:"rows"`
	Cols      int       `json:"cols" db:"cols"`
	Bombs     int       `json:"bombs" db:"bombs"`
	Steps     int       `json:"steps" db:"steps"`
	Reward    float64   `json:"reward" db:"reward"`
	Remaining int       `json:"remaining" db:"remaining"`
	Lost      bool      `json:"lost" db:"lost"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	EndedAt   time.Time `json:"ended_at" db:"ended_at"`
}

func (e Episode) Won() bool {
	return !e.Lost && e.Remaining <= 0
}

type Summary struct {
	Count      int     `json:"count"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	MeanReward float64 `json:"mean_reward"`
	StdReward  float64 `json:"std_reward"`
	MeanSteps  float64 `json:"mean_steps"`
	// MeanCleared is the mean fraction of safe cells opened per episode.
	MeanCleared float64 `json:"mean_cleared"`
}

func Summarize(episodes []Episode) Summary {
	n := len(episodes)
	if n == 0 {
		return Summary{}
	}

	var (
		rewards = make([]float64, n)
		steps   = make([]float64, n)
		cleared = make([]float64, n)
		wins    int
	)
	for i, e := range episodes {
		rewards[i] = e.Reward
		steps[i] = float64(e.Steps)
		if safe := e.Rows*e.Cols - e.Bombs; safe > 0 {
			cleared[i] = float64(safe-e.Remaining) / float64(safe)
		} else {
			cleared[i] = 1
		}
		if e.Won() {
			wins++
		}
	}

	mean, std := stat.MeanStdDev(rewards, nil)
	if n == 1 {
		std = 0
	}
	return Summary{
		Count:       n,
		Wins:        wins,
		WinRate:     float64(wins) / float64(n),
		MeanReward:  mean,
		StdReward:   std,
		MeanSteps:   stat.Mean(steps, nil),
		MeanCleared: stat.Mean(cleared, nil),
	}
}
