package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

const DefaultEpisodeLimit = 100

type Episode struct {
	EpisodeID int64 `db:"episode_id" json:"episode_id"`
	telemetry.Episode
	AgentName *string `db:"agent_name" json:"agent_name,omitempty"`
}

func (q *Queries) CreateEpisode(ctx context.Context, e telemetry.Episode) (*Episode, error) {
	rows, _ := q.db.Query(
		ctx,
		`WITH inserted AS (
			INSERT INTO episode (
				session_id, agent_id, episode, rows, cols, bombs,
				steps, reward, remaining, lost, started_at, ended_at
			)
			VALUES (
				@session_id, @agent_id, @episode, @rows, @cols, @bombs,
				@steps, @reward, @remaining, @lost, @started_at, @ended_at
			)
			RETURNING *
		)
		SELECT `+episodeColumns+`
		FROM inserted
			LEFT OUTER JOIN agent USING (agent_id)`,
		pgx.NamedArgs{
			"session_id": e.SessionID,
			"agent_id":   e.AgentID,
			"episode":    e.Number,
			"rows":       e.Rows,
			"cols":       e.Cols,
			"bombs":      e.Bombs,
			"steps":      e.Steps,
			"reward":     e.Reward,
			"remaining":  e.Remaining,
			"lost":       e.Lost,
			"started_at": e.StartedAt,
			"ended_at":   e.EndedAt,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Episode])
}

const episodeColumns = `
	episode_id,
	session_id,
	agent_id,
	episode,
	rows,
	cols,
	bombs,
	steps,
	reward,
	remaining,
	lost,
	started_at,
	ended_at,
	name agent_name`

type EpisodeFilter struct {
	AgentName *string
	Params    *mines.Params
	WonOnly   bool
	Limit     int
}

func (f EpisodeFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.AgentName != nil {
		clauses = append(clauses, "name = @agent_name")
		args["agent_name"] = *f.AgentName
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"rows = @rows",
			"cols = @cols",
			"bombs = @bombs",
		)
		args["rows"] = f.Params.Rows
		args["cols"] = f.Params.Cols
		args["bombs"] = f.Params.Bombs
	}
	if f.WonOnly {
		clauses = append(clauses, "lost = false", "remaining = 0")
	}
	return strings.Join(clauses, " AND "), args
}

func (f EpisodeFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultEpisodeLimit
	}
	return f.Limit
}

// Match reports whether e passes the filter. agentName is the name of the
// agent that played e, or nil for anonymous episodes.
func (f EpisodeFilter) Match(e telemetry.Episode, agentName *string) bool {
	if f.AgentName != nil && (agentName == nil || *agentName != *f.AgentName) {
		return false
	}
	if f.Params != nil && (e.Rows != f.Params.Rows || e.Cols != f.Params.Cols || e.Bombs != f.Params.Bombs) {
		return false
	}
	if f.WonOnly && !e.Won() {
		return false
	}
	return true
}

func (q *Queries) ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]Episode, error) {
	query := `SELECT` + episodeColumns + `
	FROM episode
		LEFT OUTER JOIN agent USING (agent_id)`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY ended_at DESC, episode_id DESC LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Episode])
}
