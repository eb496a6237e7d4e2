// Package repository persists agents and finished episodes.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNameTaken = errors.New("name taken")
)

// Store is implemented by [Queries] (Postgres) and [Memory].
type Store interface {
	CreateAgent(ctx context.Context, params CreateAgentParams) (*Agent, error)
	FetchAgent(ctx context.Context, name string) (*Agent, error)
	CreateEpisode(ctx context.Context, e telemetry.Episode) (*Episode, error)
	ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]Episode, error)
}

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

var (
	_ Store = (*Queries)(nil)
	_ Store = (*Memory)(nil)
)
