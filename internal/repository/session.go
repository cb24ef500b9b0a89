package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BoardSession struct {
	SessionId uuid.UUID          `db:"session_id"`
	Seed      string             `db:"seed"`
	State     []byte             `db:"state"`
	Digest    string             `db:"digest"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
	UpdatedAt pgtype.Timestamptz `db:"updated_at"`
}

type CreateBoardSessionParams struct {
	SessionId uuid.UUID
	Seed      string
	State     []byte
	Digest    string
}

func (q *Queries) CreateBoardSession(
	ctx context.Context, params CreateBoardSessionParams,
) (*BoardSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO board_session (session_id, seed, state, digest)
		VALUES (@session_id, @seed, @state, @digest)
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": params.SessionId,
			"seed":       params.Seed,
			"state":      params.State,
			"digest":     params.Digest,
		},
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[BoardSession],
	)
}

func (q *Queries) FetchBoardSession(ctx context.Context, sessionId uuid.UUID) (*BoardSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM board_session WHERE session_id = $1",
		sessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[BoardSession])
}

type UpdateBoardSessionParams struct {
	Seed   *string
	State  *[]byte
	Digest *string
}

func (p UpdateBoardSessionParams) SetClause() (string, map[string]any) {
	parts := []string{"updated_at = now()"}
	args := make(map[string]any)

	if p.Seed != nil {
		parts = append(parts, "seed = @seed")
		args["seed"] = *p.Seed
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.Digest != nil {
		parts = append(parts, "digest = @digest")
		args["digest"] = *p.Digest
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateBoardSession(
	ctx context.Context, sessionId uuid.UUID, params UpdateBoardSessionParams,
) (*BoardSession, error) {
	setClause, args := params.SetClause()
	args["session_id"] = sessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE board_session SET "+setClause+" WHERE session_id = @session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[BoardSession])
}
