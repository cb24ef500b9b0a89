package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type BoardSnapshot struct {
	SessionId uuid.UUID          `db:"session_id"`
	Slot      string             `db:"slot"`
	Seed      string             `db:"seed"`
	State     []byte             `db:"state"`
	Digest    string             `db:"digest"`
	SavedAt   pgtype.Timestamptz `db:"saved_at"`
}

type SaveSnapshotParams struct {
	Slot   string
	Seed   string
	State  []byte
	Digest string
}

// SaveSnapshot stores a board in a slot of the session, replacing whatever
// the slot held. Returns [ErrSessionNotFound] when the session is gone and
// [ErrBadSlot] when the slot name is rejected by the table constraints.
func (q *Queries) SaveSnapshot(
	ctx context.Context, sessionId uuid.UUID, params SaveSnapshotParams,
) (*BoardSnapshot, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO board_snapshot (session_id, slot, seed, state, digest)
		VALUES (@session_id, @slot, @seed, @state, @digest)
		ON CONFLICT (session_id, slot)
		DO UPDATE SET
			seed = excluded.seed,
			state = excluded.state,
			digest = excluded.digest,
			saved_at = now()
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": sessionId,
			"slot":       params.Slot,
			"seed":       params.Seed,
			"state":      params.State,
			"digest":     params.Digest,
		},
	)
	snapshot, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[BoardSnapshot],
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		if pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrSessionNotFound
		}
		return nil, ErrBadSlot
	}
	return snapshot, err
}

func (q *Queries) FetchSnapshot(
	ctx context.Context, sessionId uuid.UUID, slot string,
) (*BoardSnapshot, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM board_snapshot WHERE session_id = $1 AND slot = $2",
		sessionId, slot,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[BoardSnapshot])
}

type SlotInfo struct {
	Slot    string             `json:"slot" db:"slot"`
	Digest  string             `json:"digest" db:"digest"`
	SavedAt pgtype.Timestamptz `json:"saved_at" db:"saved_at"`
}

func (q *Queries) ListSnapshots(ctx context.Context, sessionId uuid.UUID) ([]SlotInfo, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT slot, digest, saved_at FROM board_snapshot
		WHERE session_id = $1
		ORDER BY slot;`,
		sessionId,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[SlotInfo])
}

// DeleteSnapshot returns [pgx.ErrNoRows] when the slot does not exist.
func (q *Queries) DeleteSnapshot(ctx context.Context, sessionId uuid.UUID, slot string) error {
	tag, err := q.db.Exec(
		ctx,
		"DELETE FROM board_snapshot WHERE session_id = $1 AND slot = $2",
		sessionId, slot,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
