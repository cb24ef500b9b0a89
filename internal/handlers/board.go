package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/config"
	"github.com/vancomm/mazeboard/internal/middleware"
	"github.com/vancomm/mazeboard/internal/render"
	"github.com/vancomm/mazeboard/internal/repository"
	"github.com/vancomm/mazeboard/internal/store"
)

// Repo is the slice of [repository.Queries] the board handlers use.
type Repo interface {
	CreateBoardSession(ctx context.Context, params repository.CreateBoardSessionParams) (*repository.BoardSession, error)
	FetchBoardSession(ctx context.Context, sessionId uuid.UUID) (*repository.BoardSession, error)
	UpdateBoardSession(ctx context.Context, sessionId uuid.UUID, params repository.UpdateBoardSessionParams) (*repository.BoardSession, error)
	SaveSnapshot(ctx context.Context, sessionId uuid.UUID, params repository.SaveSnapshotParams) (*repository.BoardSnapshot, error)
	FetchSnapshot(ctx context.Context, sessionId uuid.UUID, slot string) (*repository.BoardSnapshot, error)
	ListSnapshots(ctx context.Context, sessionId uuid.UUID) ([]repository.SlotInfo, error)
	DeleteSnapshot(ctx context.Context, sessionId uuid.UUID, slot string) error
}

var (
	_ Repo = (*repository.Queries)(nil)
	_ Repo = (*repository.Memory)(nil)
)

var (
	ErrBadSessionId = errors.New("invalid session id")
	ErrBadSlot      = errors.New("slot must be 1-64 letters, digits, dashes or underscores")
	ErrUnauthorized = errors.New("missing or invalid session token")
	ErrForbidden    = errors.New("token does not grant access to this session")
	ErrSlotNotFound = errors.New("slot not found")

	errCorruptSession = errors.New("stored board is corrupt")
)

type BoardHandler struct {
	logger *slog.Logger
	repo   Repo
	jwt    *config.JWT
	ws     *config.WebSocket
}

func NewBoardHandler(
	logger *slog.Logger,
	repo Repo,
	jwt *config.JWT,
	ws *config.WebSocket,
) *BoardHandler {
	handler := &BoardHandler{
		logger: logger,
		repo:   repo,
		jwt:    jwt,
		ws:     ws,
	}

	return handler
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadSessionId),
		errors.Is(err, ErrBadSlot),
		errors.Is(err, repository.ErrBadSlot):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, pgx.ErrNoRows),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrInvalidSnapshot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicError hides internal failures from clients.
func publicError(err error) error {
	if statusOf(err) == http.StatusInternalServerError {
		return errors.New("internal error")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.New("board session not found")
	}
	return err
}

func (h BoardHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, slog.Any("error", err))
	} else {
		h.logger.Debug(msg, slog.Any("error", err))
	}
	sendStatusJSONOrLog(w, h.logger, status, wrapError(publicError(err)))
}

func parseSessionId(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrBadSessionId, r.PathValue("id"))
	}
	return id, nil
}

func authorize(r *http.Request, id uuid.UUID) error {
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		return ErrUnauthorized
	}
	if claims.SessionID != id {
		return ErrForbidden
	}
	return nil
}

// sessionFromRequest parses the path id and, when owner is set, checks the
// bearer token grants control over it.
func sessionFromRequest(r *http.Request, owner bool) (uuid.UUID, error) {
	id, err := parseSessionId(r)
	if err != nil {
		return uuid.Nil, err
	}
	if owner {
		if err := authorize(r, id); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

func checkSlot(slot string) error {
	if !store.ValidName(slot) {
		return ErrBadSlot
	}
	return nil
}

// current fetches a session and decodes its board.
func (h BoardHandler) current(ctx context.Context, id uuid.UUID) (*repository.BoardSession, *board.Board, error) {
	session, err := h.repo.FetchBoardSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := board.DecodeBoard(session.State)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: session %s: %v", errCorruptSession, id, err)
	}
	return session, b, nil
}

func (h BoardHandler) regenerate(ctx context.Context, id uuid.UUID) (*BoardDTO, error) {
	seed := board.NewSeed()
	b, err := board.Generate(seed.Rand())
	if err != nil {
		return nil, fmt.Errorf("unable to generate board: %w", err)
	}
	state, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode board: %w", err)
	}

	seedStr, digest := seed.String(), b.Digest()
	session, err := h.repo.UpdateBoardSession(ctx, id, repository.UpdateBoardSessionParams{
		Seed:   &seedStr,
		State:  &state,
		Digest: &digest,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("regenerated board", slog.String("session", id.String()), slog.String("seed", seedStr))
	return NewBoardDTO(session.SessionId.String(), session.Seed, b), nil
}

func (h BoardHandler) save(ctx context.Context, id uuid.UUID, slot string) (*repository.SlotInfo, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	session, _, err := h.current(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot, err := h.repo.SaveSnapshot(ctx, id, repository.SaveSnapshotParams{
		Slot:   slot,
		Seed:   session.Seed,
		State:  session.State,
		Digest: session.Digest,
	})
	if err != nil {
		return nil, err
	}
	return &repository.SlotInfo{
		Slot:    snapshot.Slot,
		Digest:  snapshot.Digest,
		SavedAt: snapshot.SavedAt,
	}, nil
}

// load replaces the current board with the one saved in slot. The session
// is only written once the snapshot has been decoded and validated.
func (h BoardHandler) load(ctx context.Context, id uuid.UUID, slot string) (*BoardDTO, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	snapshot, err := h.repo.FetchSnapshot(ctx, id, slot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, err
	}

	b, err := board.DecodeBoard(snapshot.State)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", slot, err)
	}

	digest := b.Digest()
	session, err := h.repo.UpdateBoardSession(ctx, id, repository.UpdateBoardSessionParams{
		Seed:   &snapshot.Seed,
		State:  &snapshot.State,
		Digest: &digest,
	})
	if err != nil {
		return nil, err
	}
	return NewBoardDTO(session.SessionId.String(), session.Seed, b), nil
}

func (h BoardHandler) NewBoard(w http.ResponseWriter, r *http.Request) {
	seed, err := ParseNewBoardDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, h.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	b, err := board.Generate(seed.Rand())
	if err != nil {
		h.fail(w, "unable to generate a new board", err)
		return
	}
	state, err := b.Bytes()
	if err != nil {
		h.fail(w, "unable to encode board", err)
		return
	}

	session, err := h.repo.CreateBoardSession(r.Context(), repository.CreateBoardSessionParams{
		SessionId: uuid.New(),
		Seed:      seed.String(),
		State:     state,
		Digest:    b.Digest(),
	})
	if err != nil {
		h.fail(w, "unable to create board session", err)
		return
	}

	token, err := h.jwt.IssueSessionToken(session.SessionId)
	if err != nil {
		h.fail(w, "unable to sign session token", err)
		return
	}

	h.logger.Debug("created board session",
		slog.String("session", session.SessionId.String()),
		slog.String("seed", session.Seed),
	)
	sendStatusJSONOrLog(w, h.logger, http.StatusCreated, SessionDTO{
		SessionId: session.SessionId.String(),
		Token:     token,
		Board:     NewBoardDTO(session.SessionId.String(), session.Seed, b),
	})
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

func (h BoardHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, false)
	if err != nil {
		h.fail(w, "bad fetch request", err)
		return
	}

	session, b, err := h.current(r.Context(), id)
	if err != nil {
		h.fail(w, "unable to fetch board session", err)
		return
	}

	etag := `"` + session.Digest + `"`
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && etagMatches(inm, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	sendJSONOrLog(w, h.logger, NewBoardDTO(id.String(), session.Seed, b))
}

func (h BoardHandler) Text(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, false)
	if err != nil {
		h.fail(w, "bad text request", err)
		return
	}

	_, b, err := h.current(r.Context(), id)
	if err != nil {
		h.fail(w, "unable to fetch board session", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(render.Text(b, render.Plain)))
}

func (h BoardHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, true)
	if err != nil {
		h.fail(w, "bad regenerate request", err)
		return
	}

	dto, err := h.regenerate(r.Context(), id)
	if err != nil {
		h.fail(w, "unable to regenerate board", err)
		return
	}
	sendJSONOrLog(w, h.logger, dto)
}

func (h BoardHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, true)
	if err != nil {
		h.fail(w, "bad save request", err)
		return
	}
	slot, err := ParseSlotDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, h.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	info, err := h.save(r.Context(), id, slot)
	if err != nil {
		h.fail(w, "unable to save board", err)
		return
	}
	sendJSONOrLog(w, h.logger, info)
}

func (h BoardHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, true)
	if err != nil {
		h.fail(w, "bad load request", err)
		return
	}
	slot, err := ParseSlotDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, h.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	dto, err := h.load(r.Context(), id, slot)
	if err != nil {
		h.fail(w, "unable to load board", err)
		return
	}
	sendJSONOrLog(w, h.logger, dto)
}

func (h BoardHandler) Slots(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, false)
	if err != nil {
		h.fail(w, "bad slots request", err)
		return
	}

	if _, err := h.repo.FetchBoardSession(r.Context(), id); err != nil {
		h.fail(w, "unable to fetch board session", err)
		return
	}
	slots, err := h.repo.ListSnapshots(r.Context(), id)
	if err != nil {
		h.fail(w, "unable to list slots", err)
		return
	}
	if slots == nil {
		slots = []repository.SlotInfo{}
	}
	sendJSONOrLog(w, h.logger, slots)
}

func (h BoardHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, true)
	if err != nil {
		h.fail(w, "bad delete request", err)
		return
	}
	slot := r.PathValue("slot")
	if err := checkSlot(slot); err != nil {
		h.fail(w, "bad delete request", err)
		return
	}

	err = h.repo.DeleteSnapshot(r.Context(), id, slot)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		h.fail(w, "unable to delete slot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
