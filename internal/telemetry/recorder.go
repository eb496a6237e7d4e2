package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

type episodeRow struct {
	SessionID  int64   `csv:"session_id"`
	AgentID    string  `csv:"agent_id"`
	Episode    int     `csv:"episode"`
	Rows       int     `csv:"rows"`
	Cols       int     `csv:"cols"`
	Bombs      int     `csv:"bombs"`
	Steps      int     `csv:"steps"`
	Reward     float64 `csv:"reward"`
	Remaining  int     `csv:"remaining"`
	Lost       bool    `csv:"lost"`
	Won        bool    `csv:"won"`
	StartedAt  string  `csv:"started_at"`
	DurationMs int64   `csv:"duration_ms"`
}

func toRow(e Episode) episodeRow {
	var agent string
	if e.AgentID != nil {
		agent = strconv.FormatInt(*e.AgentID, 10)
	}
	return episodeRow{
		SessionID:  e.SessionID,
		AgentID:    agent,
		Episode:    e.Number,
		Rows:       e.Rows,
		Cols:       e.Cols,
		Bombs:      e.Bombs,
		Steps:      e.Steps,
		Reward:     e.Reward,
		Remaining:  e.Remaining,
		Lost:       e.Lost,
		Won:        e.Won(),
		StartedAt:  e.StartedAt.UTC().Format(time.RFC3339Nano),
		DurationMs: e.EndedAt.Sub(e.StartedAt).Milliseconds(),
	}
}

// Recorder appends episodes to a CSV stream. A nil *Recorder discards
// everything, so callers need not check whether output is enabled.
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// OpenRecorder appends to episodes.csv inside dir, creating both as needed.
// The header is only written to an empty file. Returns nil if dir is empty
// (output disabled).
func OpenRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.OpenFile(
		filepath.Join(dir, "episodes.csv"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644,
	)
	if err != nil {
		return nil, fmt.Errorf("opening episodes.csv: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat episodes.csv: %w", err)
	}
	return &Recorder{w: f, closer: f, headerWritten: info.Size() > 0}, nil
}

func (r *Recorder) Record(e Episode) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows := []episodeRow{toRow(e)}
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, r.w); err != nil {
			return fmt.Errorf("writing episode: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.w); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
