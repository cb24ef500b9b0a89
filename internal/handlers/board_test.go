package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/repository"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrBadSessionId, http.StatusBadRequest},
		{repository.ErrBadSlot, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{pgx.ErrNoRows, http.StatusNotFound},
		{fmt.Errorf("%w: x", ErrSlotNotFound), http.StatusNotFound},
		{repository.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("slot a: %w", board.ErrInvalidSnapshot), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: boom", errCorruptSession), http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.err.Error(), func(t *testing.T) {
			assert.Equal(t, test.status, statusOf(test.err))
		})
	}
}

func TestPublicErrorHidesInternals(t *testing.T) {
	assert.Equal(t, "internal error", publicError(errors.New("dial tcp: refused")).Error())
	assert.Equal(t, "board session not found", publicError(pgx.ErrNoRows).Error())
	assert.Equal(t, ErrForbidden.Error(), publicError(ErrForbidden).Error())
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`"abc"`, `"abc"`))
	assert.True(t, etagMatches(`"x", W/"abc"`, `"abc"`))
	assert.True(t, etagMatches(`*`, `"abc"`))
	assert.False(t, etagMatches(`"abd"`, `"abc"`))
}

func TestParseNewBoardDTO(t *testing.T) {
	seed, err := ParseNewBoardDTO(url.Values{"seed": {"12:34"}})
	require.NoError(t, err)
	assert.Equal(t, board.Seed{Hi: 12, Lo: 34}, seed)

	_, err = ParseNewBoardDTO(url.Values{"seed": {"12"}})
	assert.Error(t, err)

	a, err := ParseNewBoardDTO(url.Values{})
	require.NoError(t, err)
	b, err := ParseNewBoardDTO(url.Values{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseSlotDTO(t *testing.T) {
	slot, err := ParseSlotDTO(url.Values{"slot": {"first"}, "other": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, "first", slot)

	_, err = ParseSlotDTO(url.Values{})
	assert.Error(t, err)
}

func TestNewBoardDTO(t *testing.T) {
	b, err := board.Generate(board.Seed{Hi: 1, Lo: 2}.Rand())
	require.NoError(t, err)

	dto := NewBoardDTO("id", "1:2", b)
	require.Len(t, dto.Cells, board.Size*board.Size)
	assert.Equal(t, b.Digest(), dto.Digest)
	assert.Equal(t, b.Score(), dto.Score)

	for _, c := range dto.Cells {
		cell := b.CellAt(c.Row, c.Col)
		assert.Equal(t, cell.Kind.String(), c.Kind)
		if cell.Kind != board.Path {
			assert.Empty(t, c.Walls)
			assert.Nil(t, c.Item)
			continue
		}
		assert.Len(t, c.Walls, 4)
		if cell.HasItem() {
			require.NotNil(t, c.Item)
			assert.Equal(t, cell.Item.Kind.Effect(), c.Item.Effect)
		}
	}
}

func TestExecuteParsing(t *testing.T) {
	h := BoardHandler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		repo:   repository.NewMemory(),
	}
	id := uuid.New()

	tests := []struct {
		line string
		err  string
	}{
		{"x", "unknown command"},
		{"g extra", "g takes 0 argument(s)"},
		{"s", "s takes 1 argument(s)"},
		{"l a b", "l takes 1 argument(s)"},
		{"s bad;name", ErrBadSlot.Error()},
		{"g", "board session not found"},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			reply := h.execute(context.Background(), id, test.line)
			assert.Equal(t, test.line, reply.Command)
			assert.Equal(t, test.err, reply.Error)
			assert.Nil(t, reply.Board)
		})
	}
}
