package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Agent struct {
	AgentID      int64     `db:"agent_id" json:"agent_id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateAgentParams struct {
	Name         string
	PasswordHash []byte
}

func (q *Queries) CreateAgent(ctx context.Context, params CreateAgentParams) (*Agent, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent (name, password_hash)
		VALUES (@name, @password_hash)
		RETURNING agent_id, name, password_hash, created_at`,
		pgx.NamedArgs{
			"name":          params.Name,
			"password_hash": params.PasswordHash,
		},
	)
	agent, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Agent])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, params.Name)
	}
	return agent, err
}

func (q *Queries) FetchAgent(ctx context.Context, name string) (*Agent, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT agent_id, name, password_hash, created_at FROM agent WHERE name = $1",
		name,
	)
	agent, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Agent])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agent %q: %w", name, ErrNotFound)
	}
	return agent, err
}
